package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Repository reads the earnings ledger and the booking tables it can be
// reconstructed from. Ledger failures caused by a missing table or column
// come back wrapping db.ErrSchemaDrift.
type Repository interface {
	ListLedger(ctx context.Context, db *gorm.DB, userID snowflake.ID, role Role, offset, limit int) ([]Row, int64, error)
	LedgerRows(ctx context.Context, db *gorm.DB, userID snowflake.ID, role Role, cols LedgerColumns) ([]Row, error)
	ProviderBookings(ctx context.Context, db *gorm.DB, ownerID snowflake.ID) ([]Row, error)
	FindLabourProfile(ctx context.Context, db *gorm.DB, userID snowflake.ID) (*LabourProfile, error)
	LabourBookings(ctx context.Context, db *gorm.DB, profileID snowflake.ID) ([]Row, error)
}
