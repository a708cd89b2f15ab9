package service

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/yieldbook/internal/earnings/domain"
)

var hundred = decimal.NewFromInt(100)

// ComputeStats folds rows into the stats card values. Day and month windows
// are taken in loc. Without a status column nothing can be pending.
func ComputeStats(rows []domain.Row, hasStatus bool, now time.Time, loc *time.Location) domain.Stats {
	if loc == nil {
		loc = time.Local
	}
	now = now.In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	weekStart := today.AddDate(0, 0, -6)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	lastMonthStart := monthStart.AddDate(0, -1, 0)

	var (
		total, todaySum, weekSum, monthSum, lastMonthSum decimal.Decimal
		pending                                          decimal.Decimal
		earned                                           int
	)
	for _, row := range rows {
		if hasStatus && domain.IsPendingPayout(row.Status) {
			pending = pending.Add(row.Amount)
		}
		if !domain.IsRevenue(row.Status) {
			continue
		}
		earned++

		amount := decimal.Max(row.Amount, decimal.Zero)
		total = total.Add(amount)

		created := row.CreatedAt
		if !created.Before(today) {
			todaySum = todaySum.Add(amount)
		}
		if !created.Before(weekStart) {
			weekSum = weekSum.Add(amount)
		}
		if !created.Before(monthStart) {
			monthSum = monthSum.Add(amount)
		}
		if !created.Before(lastMonthStart) && created.Before(monthStart) {
			lastMonthSum = lastMonthSum.Add(amount)
		}
	}

	return domain.Stats{
		TotalEarnings:   total,
		TodayEarnings:   todaySum,
		WeeklyEarnings:  weekSum,
		MonthlyEarnings: monthSum,
		PendingPayouts:  pending,
		CompletedJobs:   earned,
		AvgJobValue:     total.Div(decimal.NewFromInt(int64(max(earned, 1)))),
		GrowthRate:      growthRate(monthSum, lastMonthSum),
	}
}

func growthRate(current, previous decimal.Decimal) decimal.Decimal {
	switch {
	case previous.IsPositive():
		return current.Sub(previous).Div(previous).Mul(hundred).Round(2)
	case current.IsPositive():
		return hundred
	default:
		return decimal.Zero
	}
}
