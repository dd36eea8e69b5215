package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Repository reads contracts and applies the single write-back billing owns.
type Repository interface {
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Contract, error)
	ListActive(ctx context.Context, db *gorm.DB) ([]Contract, error)
	IncrementDepositPaid(ctx context.Context, db *gorm.DB, id snowflake.ID, amount int64) error
}

var (
	ErrContractNotFound = errors.New("contract_not_found")
	ErrContractInactive = errors.New("contract_inactive")
)
