package service

import (
	"fmt"
	"strings"
	"testing"
	"time"

	contractdomain "github.com/baovietz98/smart-rental-capstone-sub000/internal/contract/domain"
	contractrepo "github.com/baovietz98/smart-rental-capstone-sub000/internal/contract/repository"
	"github.com/baovietz98/smart-rental-capstone-sub000/internal/events"
	"github.com/baovietz98/smart-rental-capstone-sub000/internal/invoice/domain"
	invoicerepo "github.com/baovietz98/smart-rental-capstone-sub000/internal/invoice/repository"
	ledgerdomain "github.com/baovietz98/smart-rental-capstone-sub000/internal/ledger/domain"
	ledgerservice "github.com/baovietz98/smart-rental-capstone-sub000/internal/ledger/service"
	utilitydomain "github.com/baovietz98/smart-rental-capstone-sub000/internal/utility/domain"
	utilityrepo "github.com/baovietz98/smart-rental-capstone-sub000/internal/utility/repository"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testNow = time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&contractdomain.Contract{},
		&utilitydomain.Service{},
		&utilitydomain.ServiceReading{},
		&domain.Invoice{},
		&domain.LineItem{},
		&domain.PaymentRecord{},
		&ledgerdomain.Transaction{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := db.Exec(
		`CREATE TABLE IF NOT EXISTS billing_events (
			id INTEGER PRIMARY KEY,
			event_type TEXT NOT NULL,
			payload TEXT,
			dedupe_key TEXT UNIQUE,
			published BOOLEAN NOT NULL DEFAULT false,
			created_at TIMESTAMP NOT NULL
		)`,
	).Error; err != nil {
		t.Fatalf("create billing_events: %v", err)
	}
	return db
}

func newTestService(t *testing.T, db *gorm.DB) *Service {
	t.Helper()
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	return &Service{
		db:        db,
		log:       zap.NewNop(),
		genID:     node,
		clock:     fixedClock{now: testNow},
		repo:      invoicerepo.Provide(),
		contracts: contractrepo.Provide(),
		utilities: utilityrepo.Provide(),
		ledgerSvc: ledgerservice.NewService(ledgerservice.Params{
			DB:    db,
			Log:   zap.NewNop(),
			GenID: node,
		}),
		outbox: events.NewOutbox(db, node),
	}
}

func insertContract(t *testing.T, db *gorm.DB, contract *contractdomain.Contract) {
	t.Helper()
	if contract.StartDate.IsZero() {
		contract.StartDate = time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	}
	if contract.TenantCount == 0 {
		contract.TenantCount = 1
	}
	if err := db.Create(contract).Error; err != nil {
		t.Fatalf("insert contract: %v", err)
	}
}

func insertUtilityService(t *testing.T, db *gorm.DB, svc *utilitydomain.Service) {
	t.Helper()
	if err := db.Create(svc).Error; err != nil {
		t.Fatalf("insert service: %v", err)
	}
}

func insertReading(t *testing.T, db *gorm.DB, reading *utilitydomain.ServiceReading) {
	t.Helper()
	if err := db.Create(reading).Error; err != nil {
		t.Fatalf("insert reading: %v", err)
	}
}

func insertInvoiceRow(t *testing.T, db *gorm.DB, invoice *domain.Invoice) {
	t.Helper()
	if invoice.AccessCode == "" {
		invoice.AccessCode = newAccessCode()
	}
	if err := db.Create(invoice).Error; err != nil {
		t.Fatalf("insert invoice: %v", err)
	}
}

func findLineItem(items []domain.LineItem, kind domain.LineItemKind) (domain.LineItem, bool) {
	for _, item := range items {
		if item.Kind == kind {
			return item, true
		}
	}
	return domain.LineItem{}, false
}
