package repository

import (
	"context"
	"errors"

	"github.com/baovietz98/smart-rental-capstone-sub000/internal/contract/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository struct{}

func Provide() domain.Repository {
	return &Repository{}
}

func (r *Repository) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Contract, error) {
	var contract domain.Contract
	err := db.WithContext(ctx).First(&contract, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrContractNotFound
	}
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *Repository) ListActive(ctx context.Context, db *gorm.DB) ([]domain.Contract, error) {
	var contracts []domain.Contract
	if err := db.WithContext(ctx).
		Where("active = ?", true).
		Order("id").
		Find(&contracts).Error; err != nil {
		return nil, err
	}
	return contracts, nil
}

func (r *Repository) IncrementDepositPaid(ctx context.Context, db *gorm.DB, id snowflake.ID, amount int64) error {
	result := db.WithContext(ctx).Exec(
		`UPDATE contracts
		 SET deposit_paid = deposit_paid + ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		amount,
		id,
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrContractNotFound
	}
	return nil
}
