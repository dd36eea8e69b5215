// Package domain contains the invoice aggregate: the invoice row, its ordered
// line items and its append-only payment history.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Status is the invoice lifecycle state.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusPublished Status = "PUBLISHED"
	StatusPartial   Status = "PARTIAL"
	StatusOverdue   Status = "OVERDUE"
	StatusPaid      Status = "PAID"
	StatusCancelled Status = "CANCELLED"
)

// Payable reports whether a payment may be recorded in this state.
func (s Status) Payable() bool {
	switch s {
	case StatusPublished, StatusPartial, StatusOverdue:
		return true
	default:
		return false
	}
}

// Cancellable reports whether the invoice may move to CANCELLED.
func (s Status) Cancellable() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusPartial, StatusOverdue:
		return true
	default:
		return false
	}
}

// Removable reports whether the invoice may be hard-deleted.
func (s Status) Removable() bool {
	return s == StatusDraft || s == StatusCancelled
}

// Invoice is one bill per contract per calendar month.
//
// The charge aggregates (room/service/extra/previous-debt/discount) are
// derived from the line items and recomputed on every edit; total_amount is
// always the sum of the line item amounts and debt_amount is
// max(0, total_amount - paid_amount).
type Invoice struct {
	ID            snowflake.ID `gorm:"primaryKey" json:"id"`
	ContractID    snowflake.ID `gorm:"not null;uniqueIndex:ux_invoices_contract_month,priority:1" json:"contract_id"`
	Month         string       `gorm:"type:text;not null;uniqueIndex:ux_invoices_contract_month,priority:2" json:"month"`
	Status        Status       `gorm:"type:text;not null;default:'DRAFT'" json:"status"`
	RoomCharge    int64        `gorm:"not null;default:0" json:"room_charge"`
	ServiceCharge int64        `gorm:"not null;default:0" json:"service_charge"`
	ExtraCharge   int64        `gorm:"not null;default:0" json:"extra_charge"`
	PreviousDebt  int64        `gorm:"not null;default:0" json:"previous_debt"`
	Discount      int64        `gorm:"not null;default:0" json:"discount"`
	TotalAmount   int64        `gorm:"not null;default:0" json:"total_amount"`
	PaidAmount    int64        `gorm:"not null;default:0" json:"paid_amount"`
	DebtAmount    int64        `gorm:"not null;default:0" json:"debt_amount"`
	Note          string       `gorm:"type:text" json:"note,omitempty"`
	DueDate       *time.Time   `gorm:"" json:"due_date,omitempty"`
	AccessCode    string       `gorm:"type:text;not null;uniqueIndex" json:"-"`
	PublishedAt   *time.Time   `gorm:"" json:"published_at,omitempty"`
	CreatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	LineItems []LineItem      `gorm:"-" json:"line_items,omitempty"`
	Payments  []PaymentRecord `gorm:"-" json:"payments,omitempty"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }

// LineItem is the smallest billable unit inside an invoice. Items are ordered
// by Position and immutable once the invoice leaves DRAFT.
type LineItem struct {
	ID           snowflake.ID  `gorm:"primaryKey" json:"id"`
	InvoiceID    snowflake.ID  `gorm:"not null;index" json:"-"`
	Position     int           `gorm:"not null" json:"-"`
	Kind         LineItemKind  `gorm:"type:text;not null" json:"kind"`
	Name         string        `gorm:"type:text;not null" json:"name"`
	Quantity     float64       `gorm:"not null;default:1" json:"quantity"`
	Unit         string        `gorm:"type:text" json:"unit,omitempty"`
	UnitPrice    int64         `gorm:"not null;default:0" json:"unit_price"`
	Amount       int64         `gorm:"not null" json:"amount"`
	Note         string        `gorm:"type:text" json:"note,omitempty"`
	ReadingID    *snowflake.ID `gorm:"" json:"reading_id,omitempty"`
	ServiceID    *snowflake.ID `gorm:"" json:"service_id,omitempty"`
	DepositTopUp bool          `gorm:"column:deposit_topup;not null;default:false" json:"deposit_topup,omitempty"`
}

// TableName sets the database table name.
func (LineItem) TableName() string { return "invoice_line_items" }

// PaymentRecord is one entry in an invoice's append-only payment history.
type PaymentRecord struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	InvoiceID  snowflake.ID `gorm:"not null;index" json:"-"`
	Amount     int64        `gorm:"not null" json:"amount"`
	Method     string       `gorm:"type:text;not null;default:'CASH'" json:"method"`
	Note       string       `gorm:"type:text" json:"note,omitempty"`
	ReceivedBy string       `gorm:"type:text" json:"received_by,omitempty"`
	PaidAt     time.Time    `gorm:"not null" json:"paid_at"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"-"`
}

// TableName sets the database table name.
func (PaymentRecord) TableName() string { return "invoice_payments" }
