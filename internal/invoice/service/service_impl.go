package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strings"

	"github.com/baovietz98/smart-rental-capstone-sub000/internal/clock"
	contractdomain "github.com/baovietz98/smart-rental-capstone-sub000/internal/contract/domain"
	"github.com/baovietz98/smart-rental-capstone-sub000/internal/events"
	"github.com/baovietz98/smart-rental-capstone-sub000/internal/invoice/domain"
	ledgerdomain "github.com/baovietz98/smart-rental-capstone-sub000/internal/ledger/domain"
	utilitydomain "github.com/baovietz98/smart-rental-capstone-sub000/internal/utility/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Repo      domain.Repository
	Contracts contractdomain.Repository
	Utilities utilitydomain.Repository
	LedgerSvc ledgerdomain.Recorder
	Outbox    *events.Outbox
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	clock     clock.Clock
	repo      domain.Repository
	contracts contractdomain.Repository
	utilities utilitydomain.Repository
	ledgerSvc ledgerdomain.Recorder
	outbox    *events.Outbox
}

func NewService(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("invoice.service"),
		genID:     p.GenID,
		clock:     p.Clock,
		repo:      p.Repo,
		contracts: p.Contracts,
		utilities: p.Utilities,
		ledgerSvc: p.LedgerSvc,
		outbox:    p.Outbox,
	}
}

func (s *Service) GetByID(ctx context.Context, id snowflake.ID) (*domain.Invoice, error) {
	return s.loadFull(ctx, s.db, id)
}

func (s *Service) GetByAccessCode(ctx context.Context, code string) (*domain.Invoice, error) {
	invoice, err := s.repo.FindByAccessCode(ctx, s.db, strings.TrimSpace(code))
	if err != nil {
		return nil, err
	}
	return s.attach(ctx, s.db, invoice)
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (domain.ListResponse, error) {
	invoices, total, err := s.repo.List(ctx, s.db, domain.ListFilter{
		ContractID: req.ContractID,
		Month:      req.Month,
		Status:     req.Status,
	}, req.Page)
	if err != nil {
		return domain.ListResponse{}, err
	}
	return domain.ListResponse{
		PageInfo: req.Page.Info(total),
		Invoices: invoices,
	}, nil
}

func (s *Service) MonthlyStats(ctx context.Context, month string) (*domain.MonthlyStats, error) {
	parsed, err := parseMonth(month)
	if err != nil {
		return nil, err
	}
	return s.repo.Stats(ctx, s.db, parsed.String())
}

// loadFull returns an invoice with its line items and payment history.
func (s *Service) loadFull(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Invoice, error) {
	invoice, err := s.repo.FindByID(ctx, db, id)
	if err != nil {
		return nil, err
	}
	return s.attach(ctx, db, invoice)
}

func (s *Service) attach(ctx context.Context, db *gorm.DB, invoice *domain.Invoice) (*domain.Invoice, error) {
	items, err := s.repo.LoadLineItems(ctx, db, invoice.ID)
	if err != nil {
		return nil, err
	}
	payments, err := s.repo.LoadPayments(ctx, db, invoice.ID)
	if err != nil {
		return nil, err
	}
	invoice.LineItems = items
	invoice.Payments = payments
	return invoice, nil
}

func newAccessCode() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return hex.EncodeToString(buf)
}

func clampDebt(total, paid int64) int64 {
	debt := total - paid
	if debt < 0 {
		return 0
	}
	return debt
}
