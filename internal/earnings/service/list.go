package service

import (
	"context"
	"sort"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/yieldbook/internal/earnings/domain"
	"github.com/smallbiznis/yieldbook/internal/observability/metrics"
	"github.com/smallbiznis/yieldbook/pkg/db/pagination"
)

func (s *Service) listEarnings(ctx context.Context, userID snowflake.ID, role domain.Role, req domain.ListEarningsRequest) domain.ListEarningsResponse {
	cfg := s.cfg.Get()
	page := req.Pagination.Normalize(cfg.DefaultPageSize, cfg.MaxPageSize)

	set := s.resolve(ctx, opList, userID, role,
		s.ledgerPageSource(userID, role, page.Offset(), page.PageSize),
		s.reconstructSource(userID, role),
	)

	rows := set.Rows
	if set.Source == metrics.SourceReconstructed {
		sortNewestFirst(rows)
		start, end := page.Window(len(rows))
		rows = rows[start:end]
	}

	records := make([]domain.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, toRecord(row, userID, role))
	}
	records = domain.FilterRecords(records, req.Filter)

	return domain.ListEarningsResponse{
		Records:    records,
		TotalCount: set.Total,
		TotalPages: pagination.TotalPages(set.Total, page.PageSize),
		Filtered:   len(records),
	}
}

func sortNewestFirst(rows []domain.Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].CreatedAt.After(rows[j].CreatedAt)
	})
}

func toRecord(row domain.Row, userID snowflake.ID, role domain.Role) domain.Record {
	record := domain.Record{
		ID:           row.ID,
		UserID:       userID,
		Role:         role,
		Amount:       row.Amount,
		Status:       domain.Normalize(row.Status),
		CustomerName: row.CustomerName,
		CreatedAt:    row.CreatedAt,
	}
	record.JobID = row.ID.String()
	if row.JobID != nil {
		record.JobID = *row.JobID
	}
	record.Description = defaultDescription(role)
	if row.Description != nil {
		record.Description = *row.Description
	}
	return record
}

func defaultDescription(role domain.Role) string {
	if role == domain.RoleProvider {
		return "Booking earning"
	}
	return "Labour job earning"
}
