package repository

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/yieldbook/internal/earnings/domain"
	"github.com/smallbiznis/yieldbook/pkg/db"
	"gorm.io/gorm"
)

const (
	providerBookingDescription = "Equipment booking earning"
	labourBookingDescription   = "Labour booking earning"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

type ledgerRow struct {
	ID           snowflake.ID        `gorm:"column:id"`
	Amount       decimal.NullDecimal `gorm:"column:amount"`
	Status       *string             `gorm:"column:status"`
	JobID        *string             `gorm:"column:job_id"`
	Description  *string             `gorm:"column:description"`
	CustomerName *string             `gorm:"column:customer_name"`
	CreatedAt    time.Time           `gorm:"column:created_at"`
}

func (r ledgerRow) toRow() domain.Row {
	return domain.Row{
		ID:           r.ID,
		Amount:       r.Amount.Decimal,
		CreatedAt:    r.CreatedAt,
		Status:       r.Status,
		JobID:        r.JobID,
		Description:  r.Description,
		CustomerName: r.CustomerName,
	}
}

type bookingRow struct {
	ID            snowflake.ID        `gorm:"column:id"`
	TotalAmount   decimal.NullDecimal `gorm:"column:total_amount"`
	Status        *string             `gorm:"column:status"`
	EquipmentName *string             `gorm:"column:equipment_name"`
	CreatedAt     time.Time           `gorm:"column:created_at"`
}

func (r bookingRow) toRow(description string) domain.Row {
	jobID := strconv.FormatInt(r.ID.Int64(), 10)
	return domain.Row{
		ID:          r.ID,
		Amount:      r.TotalAmount.Decimal,
		CreatedAt:   r.CreatedAt,
		Status:      r.Status,
		JobID:       &jobID,
		Description: &description,
	}
}

func (r *repo) ListLedger(ctx context.Context, conn *gorm.DB, userID snowflake.ID, role domain.Role, offset, limit int) ([]domain.Row, int64, error) {
	var total int64
	err := conn.WithContext(ctx).Raw(
		`SELECT COUNT(*) FROM earnings WHERE user_id = ? AND role = ?`,
		userID,
		role,
	).Scan(&total).Error
	if err != nil {
		return nil, 0, db.ClassifyReadErr(err)
	}
	if total == 0 {
		return []domain.Row{}, 0, nil
	}

	// Only id, amount and created_at are guaranteed; status, job_id,
	// description and customer_name are read when the ledger has them.
	var rows []ledgerRow
	err = conn.WithContext(ctx).Raw(
		`SELECT *
		 FROM earnings
		 WHERE user_id = ? AND role = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ? OFFSET ?`,
		userID,
		role,
		limit,
		offset,
	).Scan(&rows).Error
	if err != nil {
		return nil, 0, db.ClassifyReadErr(err)
	}

	out := make([]domain.Row, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toRow())
	}
	return out, total, nil
}

func (r *repo) LedgerRows(ctx context.Context, conn *gorm.DB, userID snowflake.ID, role domain.Role, cols domain.LedgerColumns) ([]domain.Row, error) {
	columns := make([]string, 0, 4)
	if cols.ID {
		columns = append(columns, "id")
	}
	columns = append(columns, "amount", "created_at")
	if cols.Status {
		columns = append(columns, "status")
	}

	var rows []ledgerRow
	err := conn.WithContext(ctx).Raw(
		`SELECT `+strings.Join(columns, ", ")+`
		 FROM earnings
		 WHERE user_id = ? AND role = ?`,
		userID,
		role,
	).Scan(&rows).Error
	if err != nil {
		return nil, db.ClassifyReadErr(err)
	}

	out := make([]domain.Row, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toRow())
	}
	return out, nil
}

func (r *repo) ProviderBookings(ctx context.Context, conn *gorm.DB, ownerID snowflake.ID) ([]domain.Row, error) {
	var rows []bookingRow
	err := conn.WithContext(ctx).Raw(
		`SELECT b.id, b.total_amount, b.status, b.created_at, e.name AS equipment_name
		 FROM bookings b
		 JOIN equipment e ON e.id = b.equipment_id
		 WHERE e.owner_id = ?`,
		ownerID,
	).Scan(&rows).Error
	if err != nil {
		return nil, db.ClassifyReadErr(err)
	}

	out := make([]domain.Row, 0, len(rows))
	for _, row := range rows {
		description := providerBookingDescription
		if row.EquipmentName != nil && strings.TrimSpace(*row.EquipmentName) != "" {
			description = "Booking: " + *row.EquipmentName
		}
		out = append(out, row.toRow(description))
	}
	return out, nil
}

func (r *repo) FindLabourProfile(ctx context.Context, conn *gorm.DB, userID snowflake.ID) (*domain.LabourProfile, error) {
	var profile domain.LabourProfile
	err := conn.WithContext(ctx).Raw(
		`SELECT id, user_id FROM labour_profiles WHERE user_id = ? LIMIT 1`,
		userID,
	).Scan(&profile).Error
	if err != nil {
		return nil, db.ClassifyReadErr(err)
	}
	if profile.ID == 0 {
		return nil, nil
	}
	return &profile, nil
}

func (r *repo) LabourBookings(ctx context.Context, conn *gorm.DB, profileID snowflake.ID) ([]domain.Row, error) {
	var rows []bookingRow
	err := conn.WithContext(ctx).Raw(
		`SELECT id, total_amount, status, created_at
		 FROM labour_bookings
		 WHERE labour_id = ?`,
		profileID,
	).Scan(&rows).Error
	if err != nil {
		return nil, db.ClassifyReadErr(err)
	}

	out := make([]domain.Row, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toRow(labourBookingDescription))
	}
	return out, nil
}
