package domain

import (
	"context"
	"errors"
	"time"

	contractdomain "github.com/baovietz98/smart-rental-capstone-sub000/internal/contract/domain"
	"github.com/baovietz98/smart-rental-capstone-sub000/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
)

// PreviewRequest asks what a bill for (contract, month) would contain.
type PreviewRequest struct {
	ContractID   snowflake.ID `json:"contract_id"`
	Month        string       `json:"month"`
	ProratedRent bool         `json:"prorated_rent"`
	StartDay     int          `json:"start_day"`
}

// PreviewResponse is the computed bill; nothing is persisted.
type PreviewResponse struct {
	Contract    *contractdomain.Contract `json:"contract"`
	LineItems   []LineItem               `json:"line_items"`
	TotalAmount int64                    `json:"total_amount"`
}

// LineItemInput is a caller-supplied line item snapshot.
type LineItemInput struct {
	Kind         LineItemKind  `json:"kind"`
	Name         string        `json:"name"`
	Quantity     float64       `json:"quantity"`
	Unit         string        `json:"unit"`
	UnitPrice    int64         `json:"unit_price"`
	Amount       int64         `json:"amount"`
	Note         string        `json:"note"`
	ReadingID    *snowflake.ID `json:"reading_id,omitempty"`
	ServiceID    *snowflake.ID `json:"service_id,omitempty"`
	DepositTopUp bool          `json:"deposit_topup"`
}

// GenerateDraftRequest creates a DRAFT invoice. When LineItems is empty the
// preview calculator runs internally.
type GenerateDraftRequest struct {
	ContractID snowflake.ID    `json:"contract_id"`
	Month      string          `json:"month"`
	LineItems  []LineItemInput `json:"line_items"`
}

// ExtraChargeInput is one ad hoc charge in the legacy incremental edit mode.
type ExtraChargeInput struct {
	Name   string `json:"name"`
	Amount int64  `json:"amount"`
	Note   string `json:"note"`
}

// UpdateDraftRequest edits a DRAFT invoice. LineItems (full replace) and
// ExtraCharges/Discount (legacy incremental) are mutually exclusive.
type UpdateDraftRequest struct {
	LineItems    []LineItemInput    `json:"line_items"`
	ExtraCharges []ExtraChargeInput `json:"extra_charges"`
	Discount     *int64             `json:"discount"`
	DueDate      *time.Time         `json:"due_date"`
	Note         *string            `json:"note"`
}

// RecordPaymentRequest records one payment against a payable invoice.
type RecordPaymentRequest struct {
	Amount      int64      `json:"amount"`
	Method      string     `json:"method"`
	Note        string     `json:"note"`
	PaymentDate *time.Time `json:"payment_date"`
	ReceivedBy  string     `json:"received_by"`
}

// ListRequest filters the invoice list.
type ListRequest struct {
	ContractID *snowflake.ID
	Month      string
	Status     Status
	Page       pagination.Request
}

// ListResponse is one page of invoices.
type ListResponse struct {
	pagination.PageInfo
	Invoices []Invoice `json:"invoices"`
}

// MonthlyStats summarizes one billing month. CANCELLED invoices count in
// ByStatus but are excluded from the amount totals.
type MonthlyStats struct {
	Month         string           `json:"month"`
	TotalInvoices int64            `json:"total_invoices"`
	ByStatus      map[Status]int64 `json:"by_status"`
	TotalAmount   int64            `json:"total_amount"`
	TotalPaid     int64            `json:"total_paid"`
	TotalDebt     int64            `json:"total_debt"`
}

// BulkDetail is one contract's outcome within a bulk generation run.
type BulkDetail struct {
	ContractID snowflake.ID `json:"contract_id"`
	Success    bool         `json:"success"`
	InvoiceID  snowflake.ID `json:"invoice_id,omitempty"`
	Error      string       `json:"error,omitempty"`
}

// BulkResult reports a best-effort bulk generation across active contracts.
type BulkResult struct {
	Month   string       `json:"month"`
	Total   int          `json:"total"`
	Success int          `json:"success"`
	Failed  int          `json:"failed"`
	Details []BulkDetail `json:"details"`
}

// Service is the invoice lifecycle and billing computation engine.
type Service interface {
	Preview(ctx context.Context, req PreviewRequest) (*PreviewResponse, error)
	GenerateDraft(ctx context.Context, req GenerateDraftRequest) (*Invoice, error)
	UpdateDraft(ctx context.Context, id snowflake.ID, req UpdateDraftRequest) (*Invoice, error)
	Publish(ctx context.Context, id snowflake.ID) (*Invoice, error)
	Unpublish(ctx context.Context, id snowflake.ID) (*Invoice, error)
	RecordPayment(ctx context.Context, id snowflake.ID, req RecordPaymentRequest) (*Invoice, error)
	Cancel(ctx context.Context, id snowflake.ID) (*Invoice, error)
	Remove(ctx context.Context, id snowflake.ID) error

	GetByID(ctx context.Context, id snowflake.ID) (*Invoice, error)
	GetByAccessCode(ctx context.Context, code string) (*Invoice, error)
	List(ctx context.Context, req ListRequest) (ListResponse, error)
	MonthlyStats(ctx context.Context, month string) (*MonthlyStats, error)
	GenerateBulkDrafts(ctx context.Context, month string) (*BulkResult, error)
}

var (
	ErrInvoiceNotFound       = errors.New("invoice_not_found")
	ErrInvoiceExists         = errors.New("invoice_exists")
	ErrInvoiceNotDraft       = errors.New("invoice_not_draft")
	ErrInvoiceNotPublished   = errors.New("invoice_not_published")
	ErrInvoiceNotPayable     = errors.New("invoice_not_payable")
	ErrInvoiceNotCancellable = errors.New("invoice_not_cancellable")
	ErrInvoiceNotRemovable   = errors.New("invoice_not_removable")
	ErrReadingsNotClosed     = errors.New("readings_not_closed")
	ErrInvalidLineItem       = errors.New("invalid_line_item")
	ErrInvalidAmount         = errors.New("invalid_amount")
	ErrInvalidStartDay       = errors.New("invalid_start_day")
	ErrConflictingUpdate     = errors.New("conflicting_update_modes")
)
