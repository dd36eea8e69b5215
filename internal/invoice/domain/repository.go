package domain

import (
	"context"

	"github.com/baovietz98/smart-rental-capstone-sub000/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// DebtRow is the slice of an invoice the debt aggregator folds over.
type DebtRow struct {
	Month      string `gorm:"column:month"`
	DebtAmount int64  `gorm:"column:debt_amount"`
}

// ListFilter narrows the invoice list.
type ListFilter struct {
	ContractID *snowflake.ID
	Month      string
	Status     Status
}

// Repository persists invoices, line items and payment records.
type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, invoice *Invoice, items []LineItem) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Invoice, error)
	// FindByIDForUpdate locks the invoice row for the duration of the
	// surrounding transaction, serializing concurrent lifecycle and
	// payment operations on the same invoice.
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id snowflake.ID) (*Invoice, error)
	FindByAccessCode(ctx context.Context, db *gorm.DB, code string) (*Invoice, error)
	ExistsForMonth(ctx context.Context, db *gorm.DB, contractID snowflake.ID, month string) (bool, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter, page pagination.Request) ([]Invoice, int64, error)
	ListDebtRows(ctx context.Context, db *gorm.DB, contractID snowflake.ID) ([]DebtRow, error)

	LoadLineItems(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) ([]LineItem, error)
	LoadPayments(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) ([]PaymentRecord, error)
	ReplaceLineItems(ctx context.Context, tx *gorm.DB, invoiceID snowflake.ID, items []LineItem) error
	Update(ctx context.Context, tx *gorm.DB, invoice *Invoice) error
	AppendPayment(ctx context.Context, tx *gorm.DB, payment *PaymentRecord) error
	Delete(ctx context.Context, tx *gorm.DB, invoiceID snowflake.ID) error

	Stats(ctx context.Context, db *gorm.DB, month string) (*MonthlyStats, error)
}
