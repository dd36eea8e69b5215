package scheduler

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/baovietz98/smart-rental-capstone-sub000/internal/events"
	invoicedomain "github.com/baovietz98/smart-rental-capstone-sub000/internal/invoice/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var sweepNow = time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)

type sweepClock struct{}

func (sweepClock) Now() time.Time { return sweepNow }

func setupSweepDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&invoicedomain.Invoice{}); err != nil {
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

func newSweepWorker(t *testing.T, db *gorm.DB) *Worker {
	t.Helper()
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	return NewWorker(Params{
		DB:     db,
		Log:    zap.NewNop(),
		Clock:  sweepClock{},
		Outbox: events.NewOutbox(db, node),
	})
}

func insertSweepInvoice(t *testing.T, db *gorm.DB, id int64, status invoicedomain.Status, dueDate *time.Time) {
	t.Helper()
	invoice := invoicedomain.Invoice{
		ID:          snowflake.ID(id),
		ContractID:  snowflake.ID(id + 1000),
		Month:       "02-2026",
		Status:      status,
		TotalAmount: 3_000_000,
		DebtAmount:  3_000_000,
		DueDate:     dueDate,
		AccessCode:  fmt.Sprintf("code-%d", id),
	}
	if err := db.Create(&invoice).Error; err != nil {
		t.Fatalf("insert invoice: %v", err)
	}
}

func invoiceStatus(t *testing.T, db *gorm.DB, id int64) invoicedomain.Status {
	t.Helper()
	var invoice invoicedomain.Invoice
	if err := db.First(&invoice, "id = ?", id).Error; err != nil {
		t.Fatalf("load invoice: %v", err)
	}
	return invoice.Status
}

func TestRunOnceFlipsPastDueInvoices(t *testing.T) {
	db := setupSweepDB(t)
	worker := newSweepWorker(t, db)

	yesterday := sweepNow.Add(-24 * time.Hour)
	tomorrow := sweepNow.Add(24 * time.Hour)

	insertSweepInvoice(t, db, 1, invoicedomain.StatusPublished, &yesterday)
	insertSweepInvoice(t, db, 2, invoicedomain.StatusPartial, &yesterday)
	insertSweepInvoice(t, db, 3, invoicedomain.StatusPublished, &tomorrow)
	insertSweepInvoice(t, db, 4, invoicedomain.StatusDraft, &yesterday)
	insertSweepInvoice(t, db, 5, invoicedomain.StatusPublished, nil)

	flipped, err := worker.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("run once: %v", err)
	}
	if flipped != 2 {
		t.Fatalf("expected 2 flipped, got %d", flipped)
	}

	if got := invoiceStatus(t, db, 1); got != invoicedomain.StatusOverdue {
		t.Fatalf("invoice 1: expected OVERDUE, got %s", got)
	}
	if got := invoiceStatus(t, db, 2); got != invoicedomain.StatusOverdue {
		t.Fatalf("invoice 2: expected OVERDUE, got %s", got)
	}
	if got := invoiceStatus(t, db, 3); got != invoicedomain.StatusPublished {
		t.Fatalf("invoice 3: expected PUBLISHED, got %s", got)
	}
	if got := invoiceStatus(t, db, 4); got != invoicedomain.StatusDraft {
		t.Fatalf("invoice 4: expected DRAFT, got %s", got)
	}
	if got := invoiceStatus(t, db, 5); got != invoicedomain.StatusPublished {
		t.Fatalf("invoice 5: expected PUBLISHED, got %s", got)
	}

	var eventCount int64
	if err := db.Raw(
		`SELECT COUNT(1) FROM billing_events WHERE event_type = ?`,
		events.EventInvoiceOverdue,
	).Scan(&eventCount).Error; err != nil {
		t.Fatalf("count events: %v", err)
	}
	if eventCount != 2 {
		t.Fatalf("expected 2 overdue events, got %d", eventCount)
	}
}

func TestRunOnceIsIdempotent(t *testing.T) {
	db := setupSweepDB(t)
	worker := newSweepWorker(t, db)

	yesterday := sweepNow.Add(-24 * time.Hour)
	insertSweepInvoice(t, db, 11, invoicedomain.StatusPublished, &yesterday)

	if _, err := worker.RunOnce(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}
	flipped, err := worker.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if flipped != 0 {
		t.Fatalf("expected no work on second run, got %d", flipped)
	}
}

func TestRunForeverStopsOnCancel(t *testing.T) {
	db := setupSweepDB(t)
	worker := newSweepWorker(t, db)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.RunForever(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop after context cancellation")
	}
}
