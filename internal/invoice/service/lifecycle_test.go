package service

import (
	"context"
	"errors"
	"testing"

	contractdomain "github.com/baovietz98/smart-rental-capstone-sub000/internal/contract/domain"
	"github.com/baovietz98/smart-rental-capstone-sub000/internal/invoice/domain"
	utilitydomain "github.com/baovietz98/smart-rental-capstone-sub000/internal/utility/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

func newMeteredDraft(t *testing.T, db *gorm.DB, svc *Service, contractID, serviceID, readingID snowflake.ID) *domain.Invoice {
	t.Helper()
	insertContract(t, db, &contractdomain.Contract{ID: contractID, RoomName: "B1", RentPrice: 3_000_000, Active: true})
	insertUtilityService(t, db, &utilitydomain.Service{
		ID: serviceID, Name: "Electricity", UnitPrice: 3_500, Unit: "kWh",
		Kind: utilitydomain.ServiceKindIndex, Basis: utilitydomain.BasisPerUsage,
		Category: utilitydomain.CategoryElectricity, Active: true,
	})
	insertReading(t, db, &utilitydomain.ServiceReading{
		ID: readingID, ContractID: contractID, ServiceID: serviceID, Month: "03-2026",
		OldIndex: 100, NewIndex: 150, Usage: 50, UnitPrice: 3_500, Cost: 175_000,
	})

	invoice, err := svc.GenerateDraft(context.Background(), domain.GenerateDraftRequest{
		ContractID: contractID,
		Month:      "03-2026",
	})
	if err != nil {
		t.Fatalf("generate draft: %v", err)
	}
	return invoice
}

func readingState(t *testing.T, db *gorm.DB, id snowflake.ID) utilitydomain.ServiceReading {
	t.Helper()
	var reading utilitydomain.ServiceReading
	if err := db.First(&reading, "id = ?", id).Error; err != nil {
		t.Fatalf("load reading: %v", err)
	}
	return reading
}

func TestPublishClaimsReadings(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)
	draft := newMeteredDraft(t, db, svc, 121, 221, 321)

	published, err := svc.Publish(context.Background(), draft.ID)
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if published.Status != domain.StatusPublished {
		t.Fatalf("expected PUBLISHED, got %s", published.Status)
	}
	if published.PublishedAt == nil || !published.PublishedAt.Equal(testNow) {
		t.Fatalf("expected published_at %v, got %v", testNow, published.PublishedAt)
	}

	reading := readingState(t, db, 321)
	if !reading.Billed || reading.InvoiceID == nil || *reading.InvoiceID != draft.ID {
		t.Fatalf("expected reading claimed by invoice, got %+v", reading)
	}
}

func TestPublishRejectsNonDraft(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)
	draft := newMeteredDraft(t, db, svc, 122, 222, 322)

	if _, err := svc.Publish(context.Background(), draft.ID); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if _, err := svc.Publish(context.Background(), draft.ID); !errors.Is(err, domain.ErrInvoiceNotDraft) {
		t.Fatalf("expected not draft, got %v", err)
	}
}

func TestUnpublishReleasesReadings(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)
	draft := newMeteredDraft(t, db, svc, 123, 223, 323)

	if _, err := svc.Publish(context.Background(), draft.ID); err != nil {
		t.Fatalf("publish: %v", err)
	}
	back, err := svc.Unpublish(context.Background(), draft.ID)
	if err != nil {
		t.Fatalf("unpublish: %v", err)
	}
	if back.Status != domain.StatusDraft || back.PublishedAt != nil {
		t.Fatalf("expected DRAFT with nil published_at, got %+v", back)
	}

	reading := readingState(t, db, 323)
	if reading.Billed || reading.InvoiceID != nil {
		t.Fatalf("expected reading released, got %+v", reading)
	}
}

func TestUnpublishRejectsPartiallyPaid(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)
	draft := newMeteredDraft(t, db, svc, 124, 224, 324)

	if _, err := svc.Publish(context.Background(), draft.ID); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if _, err := svc.RecordPayment(context.Background(), draft.ID, domain.RecordPaymentRequest{Amount: 1_000_000}); err != nil {
		t.Fatalf("record payment: %v", err)
	}
	if _, err := svc.Unpublish(context.Background(), draft.ID); !errors.Is(err, domain.ErrInvoiceNotPublished) {
		t.Fatalf("expected not published, got %v", err)
	}
}

func TestCancelReleasesReadingsKeepsPayments(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)
	draft := newMeteredDraft(t, db, svc, 125, 225, 325)

	if _, err := svc.Publish(context.Background(), draft.ID); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if _, err := svc.RecordPayment(context.Background(), draft.ID, domain.RecordPaymentRequest{Amount: 500_000}); err != nil {
		t.Fatalf("record payment: %v", err)
	}

	cancelled, err := svc.Cancel(context.Background(), draft.ID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != domain.StatusCancelled {
		t.Fatalf("expected CANCELLED, got %s", cancelled.Status)
	}
	if len(cancelled.Payments) != 1 || cancelled.Payments[0].Amount != 500_000 {
		t.Fatalf("expected payment history preserved, got %+v", cancelled.Payments)
	}

	reading := readingState(t, db, 325)
	if reading.Billed || reading.InvoiceID != nil {
		t.Fatalf("expected reading released, got %+v", reading)
	}
}

func TestCancelRejectsPaid(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)
	draft := newMeteredDraft(t, db, svc, 126, 226, 326)

	if _, err := svc.Publish(context.Background(), draft.ID); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if _, err := svc.RecordPayment(context.Background(), draft.ID, domain.RecordPaymentRequest{Amount: draft.TotalAmount}); err != nil {
		t.Fatalf("record payment: %v", err)
	}
	if _, err := svc.Cancel(context.Background(), draft.ID); !errors.Is(err, domain.ErrInvoiceNotCancellable) {
		t.Fatalf("expected not cancellable, got %v", err)
	}
}

func TestRemoveDraft(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)
	draft := newMeteredDraft(t, db, svc, 127, 227, 327)

	if err := svc.Remove(context.Background(), draft.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), draft.ID); !errors.Is(err, domain.ErrInvoiceNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	var count int64
	if err := db.Model(&domain.LineItem{}).Where("invoice_id = ?", draft.ID).Count(&count).Error; err != nil {
		t.Fatalf("count line items: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected line items deleted, got %d", count)
	}
}

func TestRemoveRejectsPublished(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)
	draft := newMeteredDraft(t, db, svc, 128, 228, 328)

	if _, err := svc.Publish(context.Background(), draft.ID); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := svc.Remove(context.Background(), draft.ID); !errors.Is(err, domain.ErrInvoiceNotRemovable) {
		t.Fatalf("expected not removable, got %v", err)
	}
}
