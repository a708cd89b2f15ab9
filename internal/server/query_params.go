package server

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	earningsdomain "github.com/smallbiznis/yieldbook/internal/earnings/domain"
	"github.com/smallbiznis/yieldbook/pkg/db/pagination"
)

func parseOptionalInt(value string) (int, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, nil
	}
	return strconv.Atoi(trimmed)
}

// parsePagination reads page and page_size. Out of range values are left for
// the service to clamp; non-numeric values are rejected.
func parsePagination(c *gin.Context) (pagination.Pagination, error) {
	page, err := parseOptionalInt(c.Query("page"))
	if err != nil {
		return pagination.Pagination{}, newValidationError("page", "invalid_page", "page must be a number")
	}
	pageSize, err := parseOptionalInt(c.Query("page_size"))
	if err != nil {
		return pagination.Pagination{}, newValidationError("page_size", "invalid_page_size", "page_size must be a number")
	}
	return pagination.Pagination{Page: page, PageSize: pageSize}, nil
}

func parseRecordFilter(c *gin.Context) (earningsdomain.RecordFilter, error) {
	status, err := earningsdomain.ParseStatus(c.Query("status"))
	if err != nil {
		return earningsdomain.RecordFilter{}, err
	}
	return earningsdomain.RecordFilter{
		Status: status,
		Search: strings.TrimSpace(c.Query("search")),
	}, nil
}

// parseRange falls back to def when the query omits range.
func parseRange(c *gin.Context, def string) (earningsdomain.Range, error) {
	raw := strings.TrimSpace(c.Query("range"))
	if raw == "" {
		raw = def
	}
	return earningsdomain.ParseRange(raw)
}
