package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	earningsdomain "github.com/smallbiznis/yieldbook/internal/earnings/domain"
)

func (s *Server) ListEarnings(c *gin.Context) {
	if s.earningsSvc == nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	page, err := parsePagination(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	filter, err := parseRecordFilter(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.earningsSvc.ListEarnings(c.Request.Context(), earningsdomain.ListEarningsRequest{
		Role:       earningsdomain.Role(c.Param("role")),
		Pagination: page,
		Filter:     filter,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetEarningsStats(c *gin.Context) {
	if s.earningsSvc == nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	stats, err := s.earningsSvc.GetStats(c.Request.Context(), earningsdomain.Role(c.Param("role")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (s *Server) GetEarningsChart(c *gin.Context) {
	if s.earningsSvc == nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	rng, err := parseRange(c, string(earningsdomain.RangeWeek))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	points, err := s.earningsSvc.GetChartData(c.Request.Context(), earningsdomain.Role(c.Param("role")), rng)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"range": rng, "data": points})
}
