package domain

import (
	"context"
	"errors"

	"github.com/smallbiznis/yieldbook/pkg/db/pagination"
)

var (
	ErrAuthRequired  = errors.New("auth_required")
	ErrInvalidRole   = errors.New("invalid_role")
	ErrInvalidRange  = errors.New("invalid_range")
	ErrInvalidStatus = errors.New("invalid_status")
)

type ListEarningsRequest struct {
	Role       Role
	Pagination pagination.Pagination
	Filter     RecordFilter
}

type ListEarningsResponse struct {
	Records    []Record `json:"records"`
	TotalCount int64    `json:"total_count"`
	TotalPages int      `json:"total_pages"`
	// Filtered is the number of records left on this page after Filter.
	Filtered int `json:"filtered"`
}

type Service interface {
	ListEarnings(ctx context.Context, req ListEarningsRequest) (ListEarningsResponse, error)
	GetStats(ctx context.Context, role Role) (Stats, error)
	GetChartData(ctx context.Context, role Role, rng Range) ([]ChartPoint, error)
}
