package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	earningsdomain "github.com/smallbiznis/yieldbook/internal/earnings/domain"
	earningsservice "github.com/smallbiznis/yieldbook/internal/earnings/service"
	"github.com/smallbiznis/yieldbook/internal/observability/logger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	dashboardSectionTransactions = "transactions"
	dashboardSectionStats        = "stats"
	dashboardSectionChart        = "chart"
)

type EarningsDashboardResponse struct {
	Range        earningsdomain.Range                `json:"range"`
	Stats        earningsdomain.Stats                `json:"stats"`
	Transactions earningsdomain.ListEarningsResponse `json:"transactions"`
	Chart        []earningsdomain.ChartPoint         `json:"chart"`

	// Degraded lists sections replaced by their empty default.
	Degraded []string `json:"degraded,omitempty"`
}

// GetEarningsDashboard loads the list, stats and chart concurrently. A failed
// section falls back to its zero value without affecting the others; only a
// missing user fails the whole request.
func (s *Server) GetEarningsDashboard(c *gin.Context) {
	if s.earningsSvc == nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	earnCfg := s.earnCfg.Get()
	rng, err := parseRange(c, earnCfg.DashboardRange)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	page, err := parsePagination(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	ctx := c.Request.Context()
	role := earningsdomain.Role(c.Param("role"))

	var (
		g                        errgroup.Group
		list                     earningsdomain.ListEarningsResponse
		stats                    earningsdomain.Stats
		chart                    []earningsdomain.ChartPoint
		listErr, statsErr, chErr error
	)
	g.Go(func() error {
		list, listErr = s.earningsSvc.ListEarnings(ctx, earningsdomain.ListEarningsRequest{Role: role, Pagination: page})
		return nil
	})
	g.Go(func() error {
		stats, statsErr = s.earningsSvc.GetStats(ctx, role)
		return nil
	})
	g.Go(func() error {
		chart, chErr = s.earningsSvc.GetChartData(ctx, role, rng)
		return nil
	})
	_ = g.Wait()

	for _, err := range []error{listErr, statsErr, chErr} {
		if errors.Is(err, earningsdomain.ErrAuthRequired) {
			AbortWithError(c, err)
			return
		}
	}

	resp := EarningsDashboardResponse{Range: rng}
	log := logger.WithContext(ctx, s.log)

	if dashboardFailed(log, dashboardSectionTransactions, listErr) {
		resp.Degraded = append(resp.Degraded, dashboardSectionTransactions)
		list = earningsdomain.ListEarningsResponse{Records: []earningsdomain.Record{}}
	}
	if dashboardFailed(log, dashboardSectionStats, statsErr) {
		resp.Degraded = append(resp.Degraded, dashboardSectionStats)
		stats = earningsdomain.Stats{}
	}
	if dashboardFailed(log, dashboardSectionChart, chErr) {
		resp.Degraded = append(resp.Degraded, dashboardSectionChart)
		chart = earningsservice.BuildChart(nil, rng, s.now(), earnCfg.Location())
	}

	resp.Transactions = list
	resp.Stats = stats
	resp.Chart = chart
	c.JSON(http.StatusOK, resp)
}

func dashboardFailed(log *zap.Logger, section string, err error) bool {
	if err == nil {
		return false
	}
	log.Warn("earnings dashboard section failed",
		zap.String("section", section),
		zap.Error(err),
	)
	return true
}
