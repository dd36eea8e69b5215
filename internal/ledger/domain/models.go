package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// TransactionKind classifies a cash-book row.
type TransactionKind string

const (
	KindDeposit        TransactionKind = "DEPOSIT"
	KindInvoicePayment TransactionKind = "INVOICE_PAYMENT"
	KindExpense        TransactionKind = "EXPENSE"
	KindOther          TransactionKind = "OTHER"
)

// Transaction is one append-only cash-book row.
type Transaction struct {
	ID         snowflake.ID    `gorm:"primaryKey" json:"id"`
	Code       string          `gorm:"type:text;not null;uniqueIndex" json:"code"`
	Kind       TransactionKind `gorm:"type:text;not null" json:"kind"`
	Amount     int64           `gorm:"not null" json:"amount"`
	OccurredAt time.Time       `gorm:"not null" json:"occurred_at"`
	Note       string          `gorm:"type:text" json:"note,omitempty"`
	ContractID *snowflake.ID   `gorm:"" json:"contract_id,omitempty"`
	InvoiceID  *snowflake.ID   `gorm:"" json:"invoice_id,omitempty"`
	CreatedAt  time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"-"`
}

// TableName sets the database table name.
func (Transaction) TableName() string { return "transactions" }
