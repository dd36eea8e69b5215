package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Entry describes a cash-book row to record.
type Entry struct {
	Kind       TransactionKind
	Amount     int64
	OccurredAt time.Time
	Note       string
	ContractID *snowflake.ID
	InvoiceID  *snowflake.ID
}

// Recorder writes cash-book transactions. RecordTx participates in an
// existing database transaction so a transaction row commits atomically with
// the state change that produced it.
type Recorder interface {
	Record(ctx context.Context, entry Entry) (*Transaction, error)
	RecordTx(ctx context.Context, tx *gorm.DB, entry Entry) (*Transaction, error)
}

// Service is the package alias for Recorder.
type Service = Recorder

var (
	ErrInvalidKind       = errors.New("invalid_transaction_kind")
	ErrInvalidAmount     = errors.New("invalid_transaction_amount")
	ErrInvalidOccurredAt = errors.New("invalid_occurred_at")
)

// ValidKind reports whether kind is one of the closed set.
func ValidKind(kind TransactionKind) bool {
	switch kind {
	case KindDeposit, KindInvoicePayment, KindExpense, KindOther:
		return true
	default:
		return false
	}
}
