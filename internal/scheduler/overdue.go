// Package scheduler runs the background sweep that flips unpaid invoices past
// their due date to OVERDUE.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/baovietz98/smart-rental-capstone-sub000/internal/clock"
	"github.com/baovietz98/smart-rental-capstone-sub000/internal/events"
	invoicedomain "github.com/baovietz98/smart-rental-capstone-sub000/internal/invoice/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	Clock  clock.Clock
	Outbox *events.Outbox
	Config Config `optional:"true"`
}

type Worker struct {
	db     *gorm.DB
	log    *zap.Logger
	clock  clock.Clock
	outbox *events.Outbox
	cfg    Config
}

func NewWorker(p Params) *Worker {
	return &Worker{
		db:     p.DB,
		log:    p.Log.Named("scheduler.overdue"),
		clock:  p.Clock,
		outbox: p.Outbox,
		cfg:    p.Config.withDefaults(),
	}
}

func (w *Worker) RunForever(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	for {
		if _, err := w.RunOnce(ctx); err != nil {
			w.log.Warn("overdue sweep failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

type overdueCandidate struct {
	ID         snowflake.ID `gorm:"column:id"`
	ContractID snowflake.ID `gorm:"column:contract_id"`
	Month      string       `gorm:"column:month"`
	DebtAmount int64        `gorm:"column:debt_amount"`
}

// RunOnce flips one batch of unpaid invoices whose due date has passed.
// PARTIAL invoices are included; a partially paid bill past due is overdue
// for the remainder.
func (w *Worker) RunOnce(ctx context.Context) (int, error) {
	if w.db == nil {
		return 0, errors.New("overdue_worker_unavailable")
	}
	now := w.clock.Now().UTC()

	flipped := 0
	err := w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		candidates, err := w.fetchCandidates(ctx, tx, now)
		if err != nil {
			return err
		}

		for _, candidate := range candidates {
			result := tx.WithContext(ctx).Exec(
				`UPDATE invoices
				 SET status = ?, updated_at = CURRENT_TIMESTAMP
				 WHERE id = ? AND status IN (?, ?)`,
				invoicedomain.StatusOverdue,
				candidate.ID,
				invoicedomain.StatusPublished,
				invoicedomain.StatusPartial,
			)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				continue
			}

			if err := w.outbox.PublishTx(ctx, tx, events.Event{
				Type: events.EventInvoiceOverdue,
				Payload: map[string]any{
					"invoice_id":  candidate.ID.String(),
					"contract_id": candidate.ContractID.String(),
					"month":       candidate.Month,
					"debt_amount": candidate.DebtAmount,
				},
				DedupeKey: fmt.Sprintf("invoice.overdue:%s", candidate.ID.String()),
			}); err != nil {
				return err
			}
			flipped++
		}
		return nil
	})
	if err != nil {
		return flipped, err
	}

	if flipped > 0 {
		w.log.Info("invoices marked overdue", zap.Int("count", flipped))
	}
	return flipped, nil
}

func (w *Worker) fetchCandidates(ctx context.Context, tx *gorm.DB, now time.Time) ([]overdueCandidate, error) {
	query := `SELECT id, contract_id, month, debt_amount
		 FROM invoices
		 WHERE status IN (?, ?)
		   AND due_date IS NOT NULL
		   AND due_date < ?
		 ORDER BY due_date ASC, id ASC
		 LIMIT ?`
	if tx.Dialector.Name() != "sqlite" {
		query += " FOR UPDATE SKIP LOCKED"
	}

	var candidates []overdueCandidate
	err := tx.WithContext(ctx).Raw(
		query,
		invoicedomain.StatusPublished,
		invoicedomain.StatusPartial,
		now,
		w.cfg.BatchSize,
	).Scan(&candidates).Error
	if err != nil {
		return nil, err
	}
	return candidates, nil
}
