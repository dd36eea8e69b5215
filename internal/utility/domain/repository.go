package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Repository reads services and readings and flips reading ownership for the
// invoice lifecycle.
type Repository interface {
	ListActiveServices(ctx context.Context, db *gorm.DB) ([]Service, error)
	FindServices(ctx context.Context, db *gorm.DB, ids []snowflake.ID) (map[snowflake.ID]Service, error)
	CountActiveIndexServices(ctx context.Context, db *gorm.DB) (int64, error)

	ListUnbilledReadings(ctx context.Context, db *gorm.DB, contractID snowflake.ID, month string) ([]ServiceReading, error)
	CountReadings(ctx context.Context, db *gorm.DB, contractID snowflake.ID, month string) (int64, error)
	ClaimReadings(ctx context.Context, db *gorm.DB, readingIDs []snowflake.ID, invoiceID snowflake.ID) error
	ReleaseReadings(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) error
}
