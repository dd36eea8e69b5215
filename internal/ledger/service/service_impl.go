package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/baovietz98/smart-rental-capstone-sub000/internal/ledger/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
}

func NewService(p Params) domain.Recorder {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("ledger.service"),
		genID: p.GenID,
	}
}

func (s *Service) Record(ctx context.Context, entry domain.Entry) (*domain.Transaction, error) {
	return s.RecordTx(ctx, s.db, entry)
}

func (s *Service) RecordTx(ctx context.Context, tx *gorm.DB, entry domain.Entry) (*domain.Transaction, error) {
	if tx == nil {
		return nil, errors.New("missing_transaction")
	}
	if !domain.ValidKind(entry.Kind) {
		return nil, domain.ErrInvalidKind
	}
	if entry.Amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	if entry.OccurredAt.IsZero() {
		return nil, domain.ErrInvalidOccurredAt
	}

	id := s.genID.Generate()
	row := domain.Transaction{
		ID:         id,
		Code:       fmt.Sprintf("TXN-%s", id.String()),
		Kind:       entry.Kind,
		Amount:     entry.Amount,
		OccurredAt: entry.OccurredAt.UTC(),
		Note:       entry.Note,
		ContractID: entry.ContractID,
		InvoiceID:  entry.InvoiceID,
	}
	if err := tx.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, err
	}

	s.log.Info("transaction recorded",
		zap.String("code", row.Code),
		zap.String("kind", string(row.Kind)),
		zap.Int64("amount", row.Amount),
	)
	return &row, nil
}
