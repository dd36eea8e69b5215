package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/baovietz98/smart-rental-capstone-sub000/internal/invoice/domain"
	"github.com/baovietz98/smart-rental-capstone-sub000/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct{}

func Provide() domain.Repository {
	return &Repository{}
}

func (r *Repository) Insert(ctx context.Context, db *gorm.DB, invoice *domain.Invoice, items []domain.LineItem) error {
	if err := db.WithContext(ctx).Create(invoice).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&items).Error
}

func (r *Repository) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Invoice, error) {
	var invoice domain.Invoice
	err := db.WithContext(ctx).First(&invoice, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrInvoiceNotFound
	}
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *Repository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id snowflake.ID) (*domain.Invoice, error) {
	query := tx.WithContext(ctx)
	// sqlite rejects FOR UPDATE and serializes writers on its own.
	if tx.Dialector.Name() != "sqlite" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var invoice domain.Invoice
	err := query.First(&invoice, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrInvoiceNotFound
	}
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *Repository) FindByAccessCode(ctx context.Context, db *gorm.DB, code string) (*domain.Invoice, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, domain.ErrInvoiceNotFound
	}
	var invoice domain.Invoice
	err := db.WithContext(ctx).First(&invoice, "access_code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrInvoiceNotFound
	}
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *Repository) ExistsForMonth(ctx context.Context, db *gorm.DB, contractID snowflake.ID, month string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.Invoice{}).
		Where("contract_id = ? AND month = ?", contractID, month).
		Count(&count).Error
	return count > 0, err
}

func (r *Repository) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter, page pagination.Request) ([]domain.Invoice, int64, error) {
	query := db.WithContext(ctx).Model(&domain.Invoice{})
	if filter.ContractID != nil {
		query = query.Where("contract_id = ?", *filter.ContractID)
	}
	if filter.Month != "" {
		query = query.Where("month = ?", filter.Month)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var invoices []domain.Invoice
	if err := page.Apply(query.Order("created_at DESC, id DESC")).Find(&invoices).Error; err != nil {
		return nil, 0, err
	}
	return invoices, total, nil
}

func (r *Repository) ListDebtRows(ctx context.Context, db *gorm.DB, contractID snowflake.ID) ([]domain.DebtRow, error) {
	var rows []domain.DebtRow
	err := db.WithContext(ctx).Raw(
		`SELECT month, debt_amount
		 FROM invoices
		 WHERE contract_id = ?
		   AND status IN (?, ?, ?)`,
		contractID,
		domain.StatusPublished,
		domain.StatusPartial,
		domain.StatusOverdue,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) LoadLineItems(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) ([]domain.LineItem, error) {
	var items []domain.LineItem
	if err := db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("position").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *Repository) LoadPayments(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) ([]domain.PaymentRecord, error) {
	var payments []domain.PaymentRecord
	if err := db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("paid_at, id").
		Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *Repository) ReplaceLineItems(ctx context.Context, tx *gorm.DB, invoiceID snowflake.ID, items []domain.LineItem) error {
	if err := tx.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Delete(&domain.LineItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	return tx.WithContext(ctx).Create(&items).Error
}

func (r *Repository) Update(ctx context.Context, tx *gorm.DB, invoice *domain.Invoice) error {
	return tx.WithContext(ctx).
		Model(&domain.Invoice{}).
		Where("id = ?", invoice.ID).
		Updates(map[string]any{
			"status":         invoice.Status,
			"room_charge":    invoice.RoomCharge,
			"service_charge": invoice.ServiceCharge,
			"extra_charge":   invoice.ExtraCharge,
			"previous_debt":  invoice.PreviousDebt,
			"discount":       invoice.Discount,
			"total_amount":   invoice.TotalAmount,
			"paid_amount":    invoice.PaidAmount,
			"debt_amount":    invoice.DebtAmount,
			"note":           invoice.Note,
			"due_date":       invoice.DueDate,
			"published_at":   invoice.PublishedAt,
			"updated_at":     gorm.Expr("CURRENT_TIMESTAMP"),
		}).Error
}

func (r *Repository) AppendPayment(ctx context.Context, tx *gorm.DB, payment *domain.PaymentRecord) error {
	return tx.WithContext(ctx).Create(payment).Error
}

func (r *Repository) Delete(ctx context.Context, tx *gorm.DB, invoiceID snowflake.ID) error {
	if err := tx.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Delete(&domain.LineItem{}).Error; err != nil {
		return err
	}
	if err := tx.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Delete(&domain.PaymentRecord{}).Error; err != nil {
		return err
	}
	return tx.WithContext(ctx).
		Where("id = ?", invoiceID).
		Delete(&domain.Invoice{}).Error
}

func (r *Repository) Stats(ctx context.Context, db *gorm.DB, month string) (*domain.MonthlyStats, error) {
	var rows []struct {
		Status domain.Status `gorm:"column:status"`
		Count  int64         `gorm:"column:count"`
		Total  int64         `gorm:"column:total"`
		Paid   int64         `gorm:"column:paid"`
		Debt   int64         `gorm:"column:debt"`
	}
	if err := db.WithContext(ctx).Raw(
		`SELECT status,
		        COUNT(1) AS count,
		        COALESCE(SUM(total_amount), 0) AS total,
		        COALESCE(SUM(paid_amount), 0) AS paid,
		        COALESCE(SUM(debt_amount), 0) AS debt
		 FROM invoices
		 WHERE month = ?
		 GROUP BY status`,
		month,
	).Scan(&rows).Error; err != nil {
		return nil, err
	}

	stats := &domain.MonthlyStats{
		Month:    month,
		ByStatus: make(map[domain.Status]int64, len(rows)),
	}
	for _, row := range rows {
		stats.TotalInvoices += row.Count
		stats.ByStatus[row.Status] = row.Count
		if row.Status == domain.StatusCancelled {
			continue
		}
		stats.TotalAmount += row.Total
		stats.TotalPaid += row.Paid
		stats.TotalDebt += row.Debt
	}
	return stats, nil
}
