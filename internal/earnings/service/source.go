package service

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/yieldbook/internal/earnings/domain"
	"github.com/smallbiznis/yieldbook/internal/observability/logger"
	"github.com/smallbiznis/yieldbook/internal/observability/metrics"
	"github.com/smallbiznis/yieldbook/pkg/db"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	opList  = "list"
	opStats = "stats"
	opChart = "chart"
)

// RowSet is what a source hands back to the chain. Total is the number of
// rows the source knows about, which exceeds len(Rows) for a paged read.
type RowSet struct {
	Rows      []domain.Row
	Total     int64
	HasStatus bool
	Source    string
}

func (r RowSet) empty() bool {
	return len(r.Rows) == 0 && r.Total == 0
}

type source struct {
	name  string
	fetch func(ctx context.Context) (RowSet, error)
}

// resolve tries each source in order and returns the first usable set.
// An error or an empty set moves on; the last source is returned as-is.
func (s *Service) resolve(ctx context.Context, op string, userID snowflake.ID, role domain.Role, sources ...source) RowSet {
	started := time.Now()
	log := logger.WithUser(logger.WithContext(ctx, s.log), userID.String(), string(role)).
		With(zap.String("operation", op))

	var set RowSet
	for i, src := range sources {
		last := i == len(sources)-1

		result, err := src.fetch(ctx)
		if err == nil && (!result.empty() || last) {
			if result.Source == "" {
				result.Source = src.name
			}
			if result.Rows == nil {
				result.Rows = []domain.Row{}
			}
			set = result
			break
		}

		reason := metrics.FallbackReasonEmpty
		if err != nil {
			reason = fallbackReason(err)
			s.promMetrics.IncSourceError(op, src.name, reason)
			if reason == metrics.FallbackReasonSchemaDrift {
				s.metrics.RecordSchemaDrift(ctx, op)
			}
			code, _ := db.DriftCode(err)
			log.Warn("earnings source failed",
				zap.String("source", src.name),
				zap.String("reason", reason),
				zap.String("drift_code", code),
				zap.Error(err),
			)
		}
		if last {
			set = RowSet{Rows: []domain.Row{}, Source: src.name}
			break
		}
		if src.name == metrics.SourceLedger {
			s.metrics.RecordLedgerFallback(ctx, op, string(role), reason)
		}
		log.Info("falling back to next earnings source",
			zap.String("source", src.name),
			zap.String("reason", reason),
		)
	}

	s.metrics.RecordEarningsRead(ctx, op, string(role), set.Source)
	s.promMetrics.ObserveResolved(op, set.Source, len(set.Rows), time.Since(started))
	trace.SpanFromContext(ctx).SetAttributes(
		attribute.String("earnings.source", set.Source),
		attribute.Int("earnings.rows", len(set.Rows)),
	)
	return set
}

func fallbackReason(err error) string {
	if errors.Is(err, db.ErrSchemaDrift) || db.IsSchemaDrift(err) {
		return metrics.FallbackReasonSchemaDrift
	}
	return metrics.FallbackReasonQueryError
}

// ledgerStatsSource reads (amount, status, created_at) and drops the status
// column when the ledger predates it.
func (s *Service) ledgerStatsSource(userID snowflake.ID, role domain.Role) source {
	return source{
		name: metrics.SourceLedger,
		fetch: func(ctx context.Context) (RowSet, error) {
			rows, err := s.repo.LedgerRows(ctx, s.db, userID, role, domain.LedgerColumns{Status: true})
			if err == nil {
				return RowSet{Rows: rows, HasStatus: true}, nil
			}
			if !errors.Is(err, db.ErrSchemaDrift) {
				return RowSet{}, err
			}

			logger.WithContext(ctx, s.log).Info("ledger status column unavailable, retrying without it",
				zap.String("role", string(role)),
				zap.Error(err),
			)
			rows, err = s.repo.LedgerRows(ctx, s.db, userID, role, domain.LedgerColumns{})
			if errors.Is(err, db.ErrSchemaDrift) {
				// counted once by resolve
				return RowSet{}, err
			}
			s.metrics.RecordSchemaDrift(ctx, opStats)
			if err != nil {
				return RowSet{}, err
			}
			return RowSet{Rows: rows, HasStatus: false}, nil
		},
	}
}

func (s *Service) ledgerChartSource(userID snowflake.ID, role domain.Role) source {
	return source{
		name: metrics.SourceLedger,
		fetch: func(ctx context.Context) (RowSet, error) {
			rows, err := s.repo.LedgerRows(ctx, s.db, userID, role, domain.LedgerColumns{ID: true, Status: true})
			if err != nil {
				return RowSet{}, err
			}
			return RowSet{Rows: rows, HasStatus: true}, nil
		},
	}
}

func (s *Service) ledgerPageSource(userID snowflake.ID, role domain.Role, offset, limit int) source {
	return source{
		name: metrics.SourceLedger,
		fetch: func(ctx context.Context) (RowSet, error) {
			rows, total, err := s.repo.ListLedger(ctx, s.db, userID, role, offset, limit)
			if err != nil {
				return RowSet{}, err
			}
			// An empty page falls back even when the ledger count is non-zero.
			if len(rows) == 0 {
				return RowSet{}, nil
			}
			return RowSet{Rows: rows, Total: total, HasStatus: true}, nil
		},
	}
}

// reconstructSource never fails; reconstructed rows always carry a status.
func (s *Service) reconstructSource(userID snowflake.ID, role domain.Role) source {
	return source{
		name: metrics.SourceReconstructed,
		fetch: func(ctx context.Context) (RowSet, error) {
			rows := s.Reconstruct(ctx, role, userID)
			return RowSet{Rows: rows, Total: int64(len(rows)), HasStatus: true}, nil
		},
	}
}
