package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/yieldbook/internal/authorization"
	"github.com/smallbiznis/yieldbook/internal/clock"
	"github.com/smallbiznis/yieldbook/internal/config"
	"github.com/smallbiznis/yieldbook/internal/earnings"
	earningsdomain "github.com/smallbiznis/yieldbook/internal/earnings/domain"
	"github.com/smallbiznis/yieldbook/internal/observability"
	obsmiddleware "github.com/smallbiznis/yieldbook/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/yieldbook/internal/observability/metrics"
	obstracing "github.com/smallbiznis/yieldbook/internal/observability/tracing"
	"github.com/smallbiznis/yieldbook/internal/ratelimit"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	authorization.Module,
	ratelimit.Module,
	earnings.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server stopped", zap.Error(err))
				}
			}()
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine  *gin.Engine
	cfg     config.Config
	log     *zap.Logger
	earnCfg *config.EarningsConfigHolder
	clock   clock.Clock

	earningsSvc earningsdomain.Service
	authzSvc    authorization.Service
	readLimiter *ratelimit.EarningsReadLimiter
	obsMetrics  *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Cfg         config.Config
	Log         *zap.Logger
	EarningsCfg *config.EarningsConfigHolder `optional:"true"`
	Clock       clock.Clock                  `optional:"true"`
	EarningsSvc earningsdomain.Service
	AuthzSvc    authorization.Service          `optional:"true"`
	ReadLimiter *ratelimit.EarningsReadLimiter `optional:"true"`
	ObsMetrics  *obsmetrics.Metrics            `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		log:         p.Log.Named("http.server"),
		earnCfg:     p.EarningsCfg,
		clock:       p.Clock,
		earningsSvc: p.EarningsSvc,
		authzSvc:    p.AuthzSvc,
		readLimiter: p.ReadLimiter,
		obsMetrics:  p.ObsMetrics,
	}

	svc.registerEarningsRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) now() time.Time {
	if s.clock == nil {
		return time.Now()
	}
	return s.clock.Now()
}

func (s *Server) registerEarningsRoutes() {
	api := s.engine.Group("/api/earnings/:role",
		s.UserContext(),
		s.RequireEarningsAccess(),
		s.EarningsReadRateLimit(),
	)

	api.GET("", s.ListEarnings)
	api.GET("/stats", s.GetEarningsStats)
	api.GET("/chart", s.GetEarningsChart)
	api.GET("/dashboard", s.GetEarningsDashboard)
}
