package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/baovietz98/smart-rental-capstone-sub000/internal/events"
	"github.com/baovietz98/smart-rental-capstone-sub000/internal/invoice/domain"
	ledgerdomain "github.com/baovietz98/smart-rental-capstone-sub000/internal/ledger/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultPaymentMethod = "CASH"

// RecordPayment appends one payment to a payable invoice under a row lock,
// recomputes paid/debt and advances the status. A payment that clears the
// debt lands the invoice on PAID and settles any deposit top-up line against
// the contract.
func (s *Service) RecordPayment(ctx context.Context, id snowflake.ID, req domain.RecordPaymentRequest) (*domain.Invoice, error) {
	if req.Amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	var result *domain.Invoice
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		invoice, err := s.repo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if !invoice.Status.Payable() {
			return domain.ErrInvoiceNotPayable
		}

		paidAt := s.clock.Now().UTC()
		if req.PaymentDate != nil {
			paidAt = req.PaymentDate.UTC()
		}
		method := strings.ToUpper(strings.TrimSpace(req.Method))
		if method == "" {
			method = defaultPaymentMethod
		}

		record := domain.PaymentRecord{
			ID:         s.genID.Generate(),
			InvoiceID:  invoice.ID,
			Amount:     req.Amount,
			Method:     method,
			Note:       req.Note,
			ReceivedBy: req.ReceivedBy,
			PaidAt:     paidAt,
		}
		if err := s.repo.AppendPayment(ctx, tx, &record); err != nil {
			return err
		}

		invoice.PaidAmount += req.Amount
		invoice.DebtAmount = clampDebt(invoice.TotalAmount, invoice.PaidAmount)
		if invoice.DebtAmount == 0 {
			invoice.Status = domain.StatusPaid
		} else {
			invoice.Status = domain.StatusPartial
		}
		if err := s.repo.Update(ctx, tx, invoice); err != nil {
			return err
		}

		if _, err := s.ledgerSvc.RecordTx(ctx, tx, ledgerdomain.Entry{
			Kind:       ledgerdomain.KindInvoicePayment,
			Amount:     req.Amount,
			OccurredAt: paidAt,
			Note:       fmt.Sprintf("payment for invoice %s (%s)", invoice.ID.String(), invoice.Month),
			ContractID: &invoice.ContractID,
			InvoiceID:  &invoice.ID,
		}); err != nil {
			return err
		}

		if err := s.outbox.PublishTx(ctx, tx, events.Event{
			Type: events.EventInvoicePaymentReceived,
			Payload: map[string]any{
				"invoice_id":  invoice.ID.String(),
				"contract_id": invoice.ContractID.String(),
				"amount":      req.Amount,
				"paid_amount": invoice.PaidAmount,
				"debt_amount": invoice.DebtAmount,
			},
			DedupeKey: fmt.Sprintf("invoice.payment_received:%s", record.ID.String()),
		}); err != nil {
			return err
		}

		if invoice.Status == domain.StatusPaid {
			if err := s.settleDepositTopUp(ctx, tx, invoice); err != nil {
				return err
			}
			if err := s.outbox.PublishTx(ctx, tx, events.Event{
				Type: events.EventInvoicePaid,
				Payload: map[string]any{
					"invoice_id":  invoice.ID.String(),
					"contract_id": invoice.ContractID.String(),
					"month":       invoice.Month,
					"paid_amount": invoice.PaidAmount,
				},
				DedupeKey: fmt.Sprintf("invoice.paid:%s", invoice.ID.String()),
			}); err != nil {
				return err
			}
		}

		result = invoice
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("payment recorded",
		zap.String("invoice_id", result.ID.String()),
		zap.Int64("amount", req.Amount),
		zap.String("status", string(result.Status)),
	)
	return s.attach(ctx, s.db, result)
}

// settleDepositTopUp credits the contract's deposit for each deposit top-up
// line once the invoice is fully paid. Partial payments never settle; the
// whole invoice must clear first.
func (s *Service) settleDepositTopUp(ctx context.Context, tx *gorm.DB, invoice *domain.Invoice) error {
	items, err := s.repo.LoadLineItems(ctx, tx, invoice.ID)
	if err != nil {
		return err
	}
	for _, item := range items {
		if !item.DepositTopUp || item.Amount <= 0 {
			continue
		}
		if err := s.contracts.IncrementDepositPaid(ctx, tx, invoice.ContractID, item.Amount); err != nil {
			return err
		}
	}
	return nil
}
