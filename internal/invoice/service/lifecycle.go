package service

import (
	"context"
	"fmt"

	"github.com/baovietz98/smart-rental-capstone-sub000/internal/events"
	"github.com/baovietz98/smart-rental-capstone-sub000/internal/invoice/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Publish moves a DRAFT invoice to PUBLISHED and claims the meter readings its
// line items reference so they cannot be billed twice.
func (s *Service) Publish(ctx context.Context, id snowflake.ID) (*domain.Invoice, error) {
	var result *domain.Invoice
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		invoice, err := s.repo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if invoice.Status != domain.StatusDraft {
			return domain.ErrInvoiceNotDraft
		}

		items, err := s.repo.LoadLineItems(ctx, tx, invoice.ID)
		if err != nil {
			return err
		}
		readingIDs := collectReadingIDs(items)
		if len(readingIDs) > 0 {
			if err := s.utilities.ClaimReadings(ctx, tx, readingIDs, invoice.ID); err != nil {
				return err
			}
		}

		now := s.clock.Now().UTC()
		invoice.Status = domain.StatusPublished
		invoice.PublishedAt = &now
		if err := s.repo.Update(ctx, tx, invoice); err != nil {
			return err
		}

		if err := s.outbox.PublishTx(ctx, tx, events.Event{
			Type: events.EventInvoicePublished,
			Payload: map[string]any{
				"invoice_id":   invoice.ID.String(),
				"contract_id":  invoice.ContractID.String(),
				"month":        invoice.Month,
				"total_amount": invoice.TotalAmount,
			},
			DedupeKey: fmt.Sprintf("invoice.published:%s", invoice.ID.String()),
		}); err != nil {
			return err
		}

		result = invoice
		result.LineItems = items
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("invoice published",
		zap.String("invoice_id", result.ID.String()),
		zap.String("month", result.Month),
	)
	return s.withPayments(ctx, result)
}

// Unpublish retracts a PUBLISHED invoice back to DRAFT and releases every
// reading it had claimed. Readings are released unconditionally; a partially
// paid invoice is not unpublishable because its status is PARTIAL.
func (s *Service) Unpublish(ctx context.Context, id snowflake.ID) (*domain.Invoice, error) {
	var result *domain.Invoice
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		invoice, err := s.repo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if invoice.Status != domain.StatusPublished {
			return domain.ErrInvoiceNotPublished
		}

		if err := s.utilities.ReleaseReadings(ctx, tx, invoice.ID); err != nil {
			return err
		}

		invoice.Status = domain.StatusDraft
		invoice.PublishedAt = nil
		if err := s.repo.Update(ctx, tx, invoice); err != nil {
			return err
		}

		if err := s.outbox.PublishTx(ctx, tx, events.Event{
			Type: events.EventInvoiceUnpublished,
			Payload: map[string]any{
				"invoice_id":  invoice.ID.String(),
				"contract_id": invoice.ContractID.String(),
				"month":       invoice.Month,
			},
		}); err != nil {
			return err
		}

		result = invoice
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("invoice unpublished", zap.String("invoice_id", result.ID.String()))
	return s.attach(ctx, s.db, result)
}

// Cancel voids an invoice. Payment history is kept; claimed readings return to
// the unbilled pool.
func (s *Service) Cancel(ctx context.Context, id snowflake.ID) (*domain.Invoice, error) {
	var result *domain.Invoice
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		invoice, err := s.repo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if !invoice.Status.Cancellable() {
			return domain.ErrInvoiceNotCancellable
		}

		if err := s.utilities.ReleaseReadings(ctx, tx, invoice.ID); err != nil {
			return err
		}

		invoice.Status = domain.StatusCancelled
		if err := s.repo.Update(ctx, tx, invoice); err != nil {
			return err
		}

		if err := s.outbox.PublishTx(ctx, tx, events.Event{
			Type: events.EventInvoiceCancelled,
			Payload: map[string]any{
				"invoice_id":  invoice.ID.String(),
				"contract_id": invoice.ContractID.String(),
				"month":       invoice.Month,
				"paid_amount": invoice.PaidAmount,
			},
			DedupeKey: fmt.Sprintf("invoice.cancelled:%s", invoice.ID.String()),
		}); err != nil {
			return err
		}

		result = invoice
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("invoice cancelled", zap.String("invoice_id", result.ID.String()))
	return s.attach(ctx, s.db, result)
}

// Remove hard-deletes a DRAFT or CANCELLED invoice with its line items and
// payment history.
func (s *Service) Remove(ctx context.Context, id snowflake.ID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		invoice, err := s.repo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if !invoice.Status.Removable() {
			return domain.ErrInvoiceNotRemovable
		}
		return s.repo.Delete(ctx, tx, invoice.ID)
	})
	if err != nil {
		return err
	}

	s.log.Info("invoice removed", zap.String("invoice_id", id.String()))
	return nil
}

func (s *Service) withPayments(ctx context.Context, invoice *domain.Invoice) (*domain.Invoice, error) {
	payments, err := s.repo.LoadPayments(ctx, s.db, invoice.ID)
	if err != nil {
		return nil, err
	}
	invoice.Payments = payments
	return invoice, nil
}

func collectReadingIDs(items []domain.LineItem) []snowflake.ID {
	ids := make([]snowflake.ID, 0, len(items))
	for _, item := range items {
		if item.ReadingID != nil {
			ids = append(ids, *item.ReadingID)
		}
	}
	return ids
}
