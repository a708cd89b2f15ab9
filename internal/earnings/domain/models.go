package domain

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleProvider Role = "provider"
	RoleLabour   Role = "labour"
)

func ParseRole(raw string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleProvider:
		return RoleProvider, nil
	case RoleLabour:
		return RoleLabour, nil
	default:
		return "", ErrInvalidRole
	}
}

// Status is the canonical display status of an earning.
type Status string

const (
	StatusPaid       Status = "Paid"
	StatusPending    Status = "Pending"
	StatusProcessing Status = "Processing"
	StatusFailed     Status = "Failed"
)

type Range string

const (
	RangeWeek  Range = "week"
	RangeMonth Range = "month"
	RangeYear  Range = "year"
)

func ParseRange(raw string) (Range, error) {
	switch Range(strings.ToLower(strings.TrimSpace(raw))) {
	case RangeWeek:
		return RangeWeek, nil
	case RangeMonth:
		return RangeMonth, nil
	case RangeYear:
		return RangeYear, nil
	default:
		return "", ErrInvalidRange
	}
}

// Record is one earning as shown in the transaction list.
type Record struct {
	ID           snowflake.ID    `json:"id"`
	UserID       snowflake.ID    `json:"user_id"`
	Role         Role            `json:"role"`
	Amount       decimal.Decimal `json:"amount"`
	Status       Status          `json:"status"`
	JobID        string          `json:"job_id"`
	Description  string          `json:"description"`
	CustomerName *string         `json:"customer_name,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

type Stats struct {
	TotalEarnings   decimal.Decimal `json:"total_earnings"`
	TodayEarnings   decimal.Decimal `json:"today_earnings"`
	WeeklyEarnings  decimal.Decimal `json:"weekly_earnings"`
	MonthlyEarnings decimal.Decimal `json:"monthly_earnings"`
	PendingPayouts  decimal.Decimal `json:"pending_payouts"`
	CompletedJobs   int             `json:"completed_jobs"`
	AvgJobValue     decimal.Decimal `json:"avg_job_value"`
	GrowthRate      decimal.Decimal `json:"growth_rate"`
}

type ChartPoint struct {
	Date   string          `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

// Row is the intermediate shape both the ledger and the booking
// reconstruction produce. It never leaves the service.
type Row struct {
	ID           snowflake.ID
	Amount       decimal.Decimal
	CreatedAt    time.Time
	Status       *string
	JobID        *string
	Description  *string
	CustomerName *string
}

// LabourProfile is the subset of labour_profiles the reconstruction needs.
type LabourProfile struct {
	ID     snowflake.ID `gorm:"column:id"`
	UserID snowflake.ID `gorm:"column:user_id"`
}

// LedgerColumns selects which optional ledger columns a read asks for.
type LedgerColumns struct {
	ID     bool
	Status bool
}
