package service

import (
	"context"
	"strings"

	contractdomain "github.com/baovietz98/smart-rental-capstone-sub000/internal/contract/domain"
	"github.com/baovietz98/smart-rental-capstone-sub000/internal/invoice/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// GenerateDraft persists a DRAFT invoice for (contract, month). A supplied
// line item snapshot is used as-is; otherwise the preview calculator runs
// internally.
func (s *Service) GenerateDraft(ctx context.Context, req domain.GenerateDraftRequest) (*domain.Invoice, error) {
	month, err := parseMonth(req.Month)
	if err != nil {
		return nil, err
	}

	contract, err := s.contracts.FindByID(ctx, s.db, req.ContractID)
	if err != nil {
		return nil, err
	}
	if !contract.Active {
		return nil, contractdomain.ErrContractInactive
	}

	exists, err := s.repo.ExistsForMonth(ctx, s.db, contract.ID, month.String())
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrInvoiceExists
	}

	var items []domain.LineItem
	if len(req.LineItems) > 0 {
		items, err = convertLineItems(req.LineItems)
	} else {
		items, err = s.buildLineItems(ctx, s.db, contract, month, false, 0)
	}
	if err != nil {
		return nil, err
	}

	agg, err := domain.AggregateLineItems(items)
	if err != nil {
		return nil, err
	}

	invoice := &domain.Invoice{
		ID:            s.genID.Generate(),
		ContractID:    contract.ID,
		Month:         month.String(),
		Status:        domain.StatusDraft,
		RoomCharge:    agg.RoomCharge,
		ServiceCharge: agg.ServiceCharge,
		ExtraCharge:   agg.ExtraCharge,
		PreviousDebt:  agg.PreviousDebt,
		Discount:      agg.Discount,
		TotalAmount:   agg.TotalAmount,
		PaidAmount:    0,
		DebtAmount:    agg.TotalAmount,
		AccessCode:    newAccessCode(),
	}
	assignLineItems(s.genID, invoice.ID, items)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repo.Insert(ctx, tx, invoice, items)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("draft invoice created",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("contract_id", contract.ID.String()),
		zap.String("month", invoice.Month),
		zap.Int64("total_amount", invoice.TotalAmount),
	)

	invoice.LineItems = items
	invoice.Payments = []domain.PaymentRecord{}
	return invoice, nil
}

// UpdateDraft edits a DRAFT invoice. Full replace and the legacy incremental
// mode (extra charges plus a flat discount) are mutually exclusive.
func (s *Service) UpdateDraft(ctx context.Context, id snowflake.ID, req domain.UpdateDraftRequest) (*domain.Invoice, error) {
	fullReplace := req.LineItems != nil
	incremental := len(req.ExtraCharges) > 0 || req.Discount != nil
	if fullReplace && incremental {
		return nil, domain.ErrConflictingUpdate
	}

	var result *domain.Invoice
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		invoice, err := s.repo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if invoice.Status != domain.StatusDraft {
			return domain.ErrInvoiceNotDraft
		}

		var items []domain.LineItem
		switch {
		case fullReplace:
			items, err = convertLineItems(req.LineItems)
			if err != nil {
				return err
			}
		case incremental:
			items, err = s.applyIncremental(ctx, tx, invoice, req)
			if err != nil {
				return err
			}
		default:
			items, err = s.repo.LoadLineItems(ctx, tx, invoice.ID)
			if err != nil {
				return err
			}
		}

		agg, err := domain.AggregateLineItems(items)
		if err != nil {
			return err
		}

		invoice.RoomCharge = agg.RoomCharge
		invoice.ServiceCharge = agg.ServiceCharge
		invoice.ExtraCharge = agg.ExtraCharge
		invoice.PreviousDebt = agg.PreviousDebt
		invoice.Discount = agg.Discount
		invoice.TotalAmount = agg.TotalAmount
		// paid_amount is kept; a draft edited after a partial payment has
		// its debt recalculated against the already-received amount.
		invoice.DebtAmount = clampDebt(agg.TotalAmount, invoice.PaidAmount)
		if req.DueDate != nil {
			invoice.DueDate = req.DueDate
		}
		if req.Note != nil {
			invoice.Note = strings.TrimSpace(*req.Note)
		}

		if fullReplace || incremental {
			assignLineItems(s.genID, invoice.ID, items)
			if err := s.repo.ReplaceLineItems(ctx, tx, invoice.ID, items); err != nil {
				return err
			}
		}
		if err := s.repo.Update(ctx, tx, invoice); err != nil {
			return err
		}

		result = invoice
		result.LineItems = items
		return nil
	})
	if err != nil {
		return nil, err
	}

	payments, err := s.repo.LoadPayments(ctx, s.db, result.ID)
	if err != nil {
		return nil, err
	}
	result.Payments = payments
	return result, nil
}

// applyIncremental strips existing EXTRA/DISCOUNT items and appends the newly
// supplied ones.
func (s *Service) applyIncremental(ctx context.Context, tx *gorm.DB, invoice *domain.Invoice, req domain.UpdateDraftRequest) ([]domain.LineItem, error) {
	existing, err := s.repo.LoadLineItems(ctx, tx, invoice.ID)
	if err != nil {
		return nil, err
	}

	items := make([]domain.LineItem, 0, len(existing)+len(req.ExtraCharges)+1)
	for _, item := range existing {
		if item.Kind == domain.KindExtra || item.Kind == domain.KindDiscount {
			continue
		}
		items = append(items, item)
	}

	for _, extra := range req.ExtraCharges {
		if strings.TrimSpace(extra.Name) == "" || extra.Amount <= 0 {
			return nil, domain.ErrInvalidLineItem
		}
		items = append(items, domain.LineItem{
			Kind:     domain.KindExtra,
			Name:     strings.TrimSpace(extra.Name),
			Quantity: 1,
			Amount:   extra.Amount,
			Note:     extra.Note,
		})
	}

	if req.Discount != nil {
		if *req.Discount <= 0 {
			return nil, domain.ErrInvalidLineItem
		}
		items = append(items, domain.LineItem{
			Kind:     domain.KindDiscount,
			Name:     "Discount",
			Quantity: 1,
			Amount:   -*req.Discount,
		})
	}

	return items, nil
}

func convertLineItems(inputs []domain.LineItemInput) ([]domain.LineItem, error) {
	items := make([]domain.LineItem, 0, len(inputs))
	for _, input := range inputs {
		item := domain.LineItem{
			Kind:         input.Kind,
			Name:         strings.TrimSpace(input.Name),
			Quantity:     input.Quantity,
			Unit:         input.Unit,
			UnitPrice:    input.UnitPrice,
			Amount:       input.Amount,
			Note:         input.Note,
			ReadingID:    input.ReadingID,
			ServiceID:    input.ServiceID,
			DepositTopUp: input.DepositTopUp,
		}
		if item.Quantity == 0 {
			item.Quantity = 1
		}
		if err := domain.ValidateLineItem(item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// assignLineItems stamps IDs, ownership and positions onto a fresh sequence.
func assignLineItems(genID *snowflake.Node, invoiceID snowflake.ID, items []domain.LineItem) {
	for i := range items {
		items[i].ID = genID.Generate()
		items[i].InvoiceID = invoiceID
		items[i].Position = i
	}
}
