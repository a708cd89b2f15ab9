package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/yieldbook/internal/clock"
	"github.com/smallbiznis/yieldbook/internal/config"
	"github.com/smallbiznis/yieldbook/internal/earnings/domain"
	"github.com/smallbiznis/yieldbook/internal/observability/metrics"
	"github.com/smallbiznis/yieldbook/internal/usercontext"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var tracer = otel.Tracer("yieldbook/earnings")

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
	Repo  domain.Repository

	Config          *config.EarningsConfigHolder `optional:"true"`
	Metrics         *metrics.Metrics             `optional:"true"`
	EarningsMetrics *metrics.EarningsMetrics     `optional:"true"`
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
	repo  domain.Repository

	cfg         *config.EarningsConfigHolder
	metrics     *metrics.Metrics
	promMetrics *metrics.EarningsMetrics
}

func NewService(p Params) domain.Service {
	c := p.Clock
	if c == nil {
		c = clock.SystemClock{}
	}
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("earnings.service"),
		clock:       c,
		repo:        p.Repo,
		cfg:         p.Config,
		metrics:     p.Metrics,
		promMetrics: p.EarningsMetrics,
	}
}

func (s *Service) ListEarnings(ctx context.Context, req domain.ListEarningsRequest) (domain.ListEarningsResponse, error) {
	userID, role, err := s.resolveCaller(ctx, req.Role)
	if err != nil {
		return domain.ListEarningsResponse{}, err
	}
	ctx, span := startSpan(ctx, "earnings.ListEarnings", role)
	defer span.End()

	return s.listEarnings(ctx, userID, role, req), nil
}

func (s *Service) GetStats(ctx context.Context, role domain.Role) (domain.Stats, error) {
	userID, role, err := s.resolveCaller(ctx, role)
	if err != nil {
		return domain.Stats{}, err
	}
	ctx, span := startSpan(ctx, "earnings.GetStats", role)
	defer span.End()

	set := s.resolve(ctx, opStats, userID, role,
		s.ledgerStatsSource(userID, role),
		s.reconstructSource(userID, role),
	)
	cfg := s.cfg.Get()
	return ComputeStats(set.Rows, set.HasStatus, s.clock.Now(), cfg.Location()), nil
}

func (s *Service) GetChartData(ctx context.Context, role domain.Role, rng domain.Range) ([]domain.ChartPoint, error) {
	userID, role, err := s.resolveCaller(ctx, role)
	if err != nil {
		return nil, err
	}
	rng, err = domain.ParseRange(string(rng))
	if err != nil {
		return nil, err
	}
	ctx, span := startSpan(ctx, "earnings.GetChartData", role)
	defer span.End()
	span.SetAttributes(attribute.String("earnings.range", string(rng)))

	set := s.resolve(ctx, opChart, userID, role,
		s.ledgerChartSource(userID, role),
		s.reconstructSource(userID, role),
	)
	cfg := s.cfg.Get()
	return BuildChart(set.Rows, rng, s.clock.Now(), cfg.Location()), nil
}

// resolveCaller returns the authenticated user and the validated role.
// A missing user always wins over an invalid role.
func (s *Service) resolveCaller(ctx context.Context, role domain.Role) (snowflake.ID, domain.Role, error) {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok {
		return 0, "", domain.ErrAuthRequired
	}
	parsed, err := domain.ParseRole(string(role))
	if err != nil {
		return 0, "", err
	}
	return userID, parsed, nil
}

func startSpan(ctx context.Context, name string, role domain.Role) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("earnings.role", string(role)),
	))
}
