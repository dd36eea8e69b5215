package repository

import (
	"context"

	"github.com/baovietz98/smart-rental-capstone-sub000/internal/utility/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository struct{}

func Provide() domain.Repository {
	return &Repository{}
}

func (r *Repository) ListActiveServices(ctx context.Context, db *gorm.DB) ([]domain.Service, error) {
	var services []domain.Service
	if err := db.WithContext(ctx).
		Where("active = ?", true).
		Order("id").
		Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

func (r *Repository) FindServices(ctx context.Context, db *gorm.DB, ids []snowflake.ID) (map[snowflake.ID]domain.Service, error) {
	result := make(map[snowflake.ID]domain.Service, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var services []domain.Service
	if err := db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&services).Error; err != nil {
		return nil, err
	}
	for _, svc := range services {
		result[svc.ID] = svc
	}
	return result, nil
}

func (r *Repository) CountActiveIndexServices(ctx context.Context, db *gorm.DB) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.Service{}).
		Where("active = ? AND kind = ?", true, domain.ServiceKindIndex).
		Count(&count).Error
	return count, err
}

func (r *Repository) ListUnbilledReadings(ctx context.Context, db *gorm.DB, contractID snowflake.ID, month string) ([]domain.ServiceReading, error) {
	var readings []domain.ServiceReading
	if err := db.WithContext(ctx).
		Where("contract_id = ? AND month = ? AND billed = ?", contractID, month, false).
		Order("id").
		Find(&readings).Error; err != nil {
		return nil, err
	}
	return readings, nil
}

func (r *Repository) CountReadings(ctx context.Context, db *gorm.DB, contractID snowflake.ID, month string) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.ServiceReading{}).
		Where("contract_id = ? AND month = ?", contractID, month).
		Count(&count).Error
	return count, err
}

func (r *Repository) ClaimReadings(ctx context.Context, db *gorm.DB, readingIDs []snowflake.ID, invoiceID snowflake.ID) error {
	if len(readingIDs) == 0 {
		return nil
	}
	return db.WithContext(ctx).Exec(
		`UPDATE service_readings
		 SET billed = ?, invoice_id = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id IN ?`,
		true,
		invoiceID,
		readingIDs,
	).Error
}

func (r *Repository) ReleaseReadings(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) error {
	return db.WithContext(ctx).Exec(
		`UPDATE service_readings
		 SET billed = ?, invoice_id = NULL, updated_at = CURRENT_TIMESTAMP
		 WHERE invoice_id = ?`,
		false,
		invoiceID,
	).Error
}
