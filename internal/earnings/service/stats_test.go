package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/yieldbook/internal/earnings/domain"
	"github.com/stretchr/testify/assert"
)

var statsNow = time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func row(amount string, status *string, createdAt time.Time) domain.Row {
	return domain.Row{Amount: decimal.RequireFromString(amount), Status: status, CreatedAt: createdAt}
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), append([]interface{}{"want %s got %s", want, got.String()}, msgAndArgs...)...)
}

func TestComputeStatsEmpty(t *testing.T) {
	stats := ComputeStats(nil, true, statsNow, time.UTC)

	assertDecimal(t, "0", stats.TotalEarnings)
	assertDecimal(t, "0", stats.AvgJobValue)
	assertDecimal(t, "0", stats.GrowthRate)
	assertDecimal(t, "0", stats.PendingPayouts)
	assert.Equal(t, 0, stats.CompletedJobs)
}

func TestComputeStatsWindows(t *testing.T) {
	rows := []domain.Row{
		row("100", strPtr("paid"), statsNow.Add(-2*time.Hour)),
		row("200", strPtr("completed"), time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)),
		row("300", strPtr("confirmed"), time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)),
		row("400", nil, time.Date(2026, 2, 20, 9, 0, 0, 0, time.UTC)),
		row("500", strPtr("in_progress"), time.Date(2025, 12, 1, 9, 0, 0, 0, time.UTC)),
		row("999", strPtr("failed"), statsNow.Add(-time.Hour)),
	}

	stats := ComputeStats(rows, true, statsNow, time.UTC)

	assertDecimal(t, "1500", stats.TotalEarnings)
	assertDecimal(t, "100", stats.TodayEarnings)
	assertDecimal(t, "300", stats.WeeklyEarnings)
	assertDecimal(t, "600", stats.MonthlyEarnings)
	assertDecimal(t, "300", stats.AvgJobValue)
	assertDecimal(t, "50", stats.GrowthRate)
	assertDecimal(t, "0", stats.PendingPayouts)
	assert.Equal(t, 5, stats.CompletedJobs)
}

func TestComputeStatsWeekStartsSixDaysBack(t *testing.T) {
	rows := []domain.Row{
		row("10", strPtr("paid"), time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)),
		row("20", strPtr("paid"), time.Date(2026, 3, 8, 23, 59, 0, 0, time.UTC)),
	}

	stats := ComputeStats(rows, true, statsNow, time.UTC)

	assertDecimal(t, "10", stats.WeeklyEarnings)
	assertDecimal(t, "30", stats.MonthlyEarnings)
}

func TestComputeStatsGrowth(t *testing.T) {
	thisMonth := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	lastMonth := time.Date(2026, 2, 5, 0, 0, 0, 0, time.UTC)

	t.Run("no baseline with current", func(t *testing.T) {
		stats := ComputeStats([]domain.Row{row("500", nil, thisMonth)}, true, statsNow, time.UTC)
		assertDecimal(t, "100", stats.GrowthRate)
	})

	t.Run("no baseline and no current", func(t *testing.T) {
		stats := ComputeStats([]domain.Row{row("500", nil, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))}, true, statsNow, time.UTC)
		assertDecimal(t, "0", stats.GrowthRate)
	})

	t.Run("increase", func(t *testing.T) {
		stats := ComputeStats([]domain.Row{row("300", nil, thisMonth), row("200", nil, lastMonth)}, true, statsNow, time.UTC)
		assertDecimal(t, "50", stats.GrowthRate)
	})

	t.Run("decrease rounds to two places", func(t *testing.T) {
		stats := ComputeStats([]domain.Row{row("100", nil, thisMonth), row("300", nil, lastMonth)}, true, statsNow, time.UTC)
		assertDecimal(t, "-66.67", stats.GrowthRate)
	})
}

func TestComputeStatsAverage(t *testing.T) {
	rows := []domain.Row{
		row("100", strPtr("paid"), statsNow),
		row("100", strPtr("paid"), statsNow),
		row("100", strPtr("paid"), statsNow),
		row("1", strPtr("paid"), statsNow),
	}
	stats := ComputeStats(rows, true, statsNow, time.UTC)
	assertDecimal(t, "75.25", stats.AvgJobValue)

	stats = ComputeStats([]domain.Row{row("100", strPtr("paid"), statsNow), row("0", strPtr("paid"), statsNow), row("0", strPtr("paid"), statsNow)}, true, statsNow, time.UTC)
	assert.True(t, decimal.NewFromInt(100).Div(decimal.NewFromInt(3)).Equal(stats.AvgJobValue), "average is not rounded, got %s", stats.AvgJobValue)

	stats = ComputeStats([]domain.Row{row("100", strPtr("pending"), statsNow)}, true, statsNow, time.UTC)
	assertDecimal(t, "0", stats.AvgJobValue)
	assert.Equal(t, 0, stats.CompletedJobs)
}

func TestComputeStatsClampsNegativeRevenue(t *testing.T) {
	rows := []domain.Row{
		row("-50", strPtr("paid"), statsNow),
		row("80", strPtr("paid"), statsNow),
	}
	stats := ComputeStats(rows, true, statsNow, time.UTC)

	assertDecimal(t, "80", stats.TotalEarnings)
	assertDecimal(t, "80", stats.TodayEarnings)
	assert.Equal(t, 2, stats.CompletedJobs)
	assertDecimal(t, "40", stats.AvgJobValue)
}

func TestComputeStatsPendingPayouts(t *testing.T) {
	rows := []domain.Row{
		row("100", strPtr("pending"), statsNow),
		row("40", strPtr("Processing"), statsNow),
		row("60", strPtr("approved"), statsNow),
		row("500", strPtr("paid"), statsNow),
		row("70", nil, statsNow),
	}

	stats := ComputeStats(rows, true, statsNow, time.UTC)
	assertDecimal(t, "200", stats.PendingPayouts)

	stats = ComputeStats(rows, false, statsNow, time.UTC)
	assertDecimal(t, "0", stats.PendingPayouts)
}

func TestComputeStatsUsesLocation(t *testing.T) {
	wib := time.FixedZone("WIB", 7*3600)
	now := time.Date(2026, 3, 15, 3, 0, 0, 0, wib)
	rows := []domain.Row{
		// 2026-03-14 18:00 UTC is already the 15th in WIB.
		row("100", strPtr("paid"), time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)),
		row("50", strPtr("paid"), time.Date(2026, 3, 14, 16, 0, 0, 0, time.UTC)),
	}

	stats := ComputeStats(rows, true, now, wib)
	assertDecimal(t, "100", stats.TodayEarnings)

	stats = ComputeStats(rows, true, now, time.UTC)
	assertDecimal(t, "150", stats.TodayEarnings)
}
