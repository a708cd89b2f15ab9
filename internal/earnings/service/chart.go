package service

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/yieldbook/internal/earnings/domain"
)

const (
	dayKeyLayout     = "2006-01-02"
	dayLabelLayout   = "02 Jan"
	monthKeyLayout   = "2006-01"
	monthLabelLayout = "Jan 06"
)

type bucket struct {
	key   string
	label string
}

// BuildChart buckets revenue into a fixed, zero-filled series ordered
// oldest first: 7 or 30 days, or 12 months, ending at now.
func BuildChart(rows []domain.Row, rng domain.Range, now time.Time, loc *time.Location) []domain.ChartPoint {
	if loc == nil {
		loc = time.Local
	}
	now = now.In(loc)

	buckets, keyLayout := chartBuckets(rng, now, loc)
	index := make(map[string]int, len(buckets))
	points := make([]domain.ChartPoint, len(buckets))
	for i, b := range buckets {
		index[b.key] = i
		points[i] = domain.ChartPoint{Date: b.label, Amount: decimal.Zero}
	}

	for _, row := range rows {
		if !row.Amount.IsPositive() || !domain.IsRevenue(row.Status) {
			continue
		}
		i, ok := index[row.CreatedAt.In(loc).Format(keyLayout)]
		if !ok {
			continue
		}
		points[i].Amount = points[i].Amount.Add(row.Amount)
	}
	return points
}

func chartBuckets(rng domain.Range, now time.Time, loc *time.Location) ([]bucket, string) {
	if rng == domain.RangeYear {
		month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		out := make([]bucket, 0, 12)
		for i := 11; i >= 0; i-- {
			m := month.AddDate(0, -i, 0)
			out = append(out, bucket{key: m.Format(monthKeyLayout), label: m.Format(monthLabelLayout)})
		}
		return out, monthKeyLayout
	}

	days := 7
	if rng == domain.RangeMonth {
		days = 30
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	out := make([]bucket, 0, days)
	for i := days - 1; i >= 0; i-- {
		d := today.AddDate(0, 0, -i)
		out = append(out, bucket{key: d.Format(dayKeyLayout), label: d.Format(dayLabelLayout)})
	}
	return out, dayKeyLayout
}
