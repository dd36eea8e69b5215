package service

import (
	"context"
	"errors"

	"github.com/baovietz98/smart-rental-capstone-sub000/internal/invoice/domain"
	"go.uber.org/zap"
)

// GenerateBulkDrafts creates a DRAFT invoice for every active contract for the
// given month. Each contract runs in its own transaction; one failure never
// aborts the rest.
func (s *Service) GenerateBulkDrafts(ctx context.Context, month string) (*domain.BulkResult, error) {
	parsed, err := parseMonth(month)
	if err != nil {
		return nil, err
	}

	contracts, err := s.contracts.ListActive(ctx, s.db)
	if err != nil {
		return nil, err
	}

	result := &domain.BulkResult{
		Month:   parsed.String(),
		Total:   len(contracts),
		Details: make([]domain.BulkDetail, 0, len(contracts)),
	}

	for _, contract := range contracts {
		detail := domain.BulkDetail{ContractID: contract.ID}

		invoice, err := s.GenerateDraft(ctx, domain.GenerateDraftRequest{
			ContractID: contract.ID,
			Month:      parsed.String(),
		})
		if err != nil {
			detail.Error = err.Error()
			result.Failed++
			if !errors.Is(err, domain.ErrInvoiceExists) {
				s.log.Warn("bulk draft generation failed",
					zap.String("contract_id", contract.ID.String()),
					zap.String("month", parsed.String()),
					zap.Error(err),
				)
			}
		} else {
			detail.Success = true
			detail.InvoiceID = invoice.ID
			result.Success++
		}
		result.Details = append(result.Details, detail)
	}

	s.log.Info("bulk draft generation finished",
		zap.String("month", parsed.String()),
		zap.Int("total", result.Total),
		zap.Int("success", result.Success),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}
