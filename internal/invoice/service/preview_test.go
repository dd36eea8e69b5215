package service

import (
	"context"
	"errors"
	"testing"

	contractdomain "github.com/baovietz98/smart-rental-capstone-sub000/internal/contract/domain"
	"github.com/baovietz98/smart-rental-capstone-sub000/internal/invoice/domain"
	utilitydomain "github.com/baovietz98/smart-rental-capstone-sub000/internal/utility/domain"
	"github.com/bwmarrin/snowflake"
)

func TestPreviewFullMonthRent(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)
	contract := &contractdomain.Contract{ID: 101, RoomName: "P201", RentPrice: 3_000_000, Active: true}
	insertContract(t, db, contract)

	resp, err := svc.Preview(context.Background(), domain.PreviewRequest{
		ContractID: contract.ID,
		Month:      "03-2026",
	})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if len(resp.LineItems) != 1 {
		t.Fatalf("expected 1 line item, got %d", len(resp.LineItems))
	}
	rent := resp.LineItems[0]
	if rent.Kind != domain.KindRent || rent.Amount != 3_000_000 {
		t.Fatalf("unexpected rent item: %+v", rent)
	}
	if resp.TotalAmount != 3_000_000 {
		t.Fatalf("expected total 3000000, got %d", resp.TotalAmount)
	}
}

func TestPreviewProratedRent(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)
	contract := &contractdomain.Contract{ID: 102, RoomName: "P202", RentPrice: 6_000_000, Active: true}
	insertContract(t, db, contract)

	// February 2026 has 28 days; moving in on the 10th leaves 19 billable
	// days: round(6000000/28*19) = 4071429.
	resp, err := svc.Preview(context.Background(), domain.PreviewRequest{
		ContractID:   contract.ID,
		Month:        "02-2026",
		ProratedRent: true,
		StartDay:     10,
	})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	rent, ok := findLineItem(resp.LineItems, domain.KindRent)
	if !ok {
		t.Fatal("missing rent item")
	}
	if rent.Amount != 4_071_429 {
		t.Fatalf("expected prorated rent 4071429, got %d", rent.Amount)
	}
	if rent.Quantity != 19 {
		t.Fatalf("expected 19 days, got %v", rent.Quantity)
	}
}

func TestPreviewInvalidStartDay(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)
	contract := &contractdomain.Contract{ID: 103, RoomName: "P203", RentPrice: 3_000_000, Active: true}
	insertContract(t, db, contract)

	_, err := svc.Preview(context.Background(), domain.PreviewRequest{
		ContractID:   contract.ID,
		Month:        "02-2026",
		ProratedRent: true,
		StartDay:     -3,
	})
	if !errors.Is(err, domain.ErrInvalidStartDay) {
		t.Fatalf("expected invalid start day, got %v", err)
	}
}

func TestPreviewRequiresClosedReadings(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)
	contract := &contractdomain.Contract{ID: 104, RoomName: "P204", RentPrice: 3_000_000, Active: true}
	insertContract(t, db, contract)
	insertUtilityService(t, db, &utilitydomain.Service{
		ID: 201, Name: "Electricity", UnitPrice: 3_500, Unit: "kWh",
		Kind: utilitydomain.ServiceKindIndex, Basis: utilitydomain.BasisPerUsage,
		Category: utilitydomain.CategoryElectricity, Active: true,
	})

	_, err := svc.Preview(context.Background(), domain.PreviewRequest{
		ContractID: contract.ID,
		Month:      "03-2026",
	})
	if !errors.Is(err, domain.ErrReadingsNotClosed) {
		t.Fatalf("expected readings not closed, got %v", err)
	}
}

func TestPreviewMeteredUsage(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)
	contract := &contractdomain.Contract{ID: 105, RoomName: "P205", RentPrice: 3_000_000, Active: true}
	insertContract(t, db, contract)
	insertUtilityService(t, db, &utilitydomain.Service{
		ID: 202, Name: "Electricity", UnitPrice: 3_500, Unit: "kWh",
		Kind: utilitydomain.ServiceKindIndex, Basis: utilitydomain.BasisPerUsage,
		Category: utilitydomain.CategoryElectricity, Active: true,
	})
	insertUtilityService(t, db, &utilitydomain.Service{
		ID: 203, Name: "Water", UnitPrice: 15_000, Unit: "m3",
		Kind: utilitydomain.ServiceKindIndex, Basis: utilitydomain.BasisPerUsage,
		Category: utilitydomain.CategoryWater, Active: true,
	})
	insertReading(t, db, &utilitydomain.ServiceReading{
		ID: 301, ContractID: contract.ID, ServiceID: 202, Month: "03-2026",
		OldIndex: 1200, NewIndex: 1250, Usage: 50, UnitPrice: 3_500, Cost: 175_000,
	})
	insertReading(t, db, &utilitydomain.ServiceReading{
		ID: 302, ContractID: contract.ID, ServiceID: 203, Month: "03-2026",
		OldIndex: 40, NewIndex: 44, Usage: 4, UnitPrice: 15_000, Cost: 60_000,
	})

	resp, err := svc.Preview(context.Background(), domain.PreviewRequest{
		ContractID: contract.ID,
		Month:      "03-2026",
	})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}

	electric, ok := findLineItem(resp.LineItems, domain.KindElectric)
	if !ok || electric.Amount != 175_000 {
		t.Fatalf("unexpected electric item: %+v (found=%v)", electric, ok)
	}
	if electric.ReadingID == nil || *electric.ReadingID != snowflake.ID(301) {
		t.Fatalf("electric item should reference reading 301: %+v", electric.ReadingID)
	}
	water, ok := findLineItem(resp.LineItems, domain.KindWater)
	if !ok || water.Amount != 60_000 {
		t.Fatalf("unexpected water item: %+v (found=%v)", water, ok)
	}
	if resp.TotalAmount != 3_000_000+175_000+60_000 {
		t.Fatalf("unexpected total: %d", resp.TotalAmount)
	}
}

func TestPreviewFixedPerPersonService(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)
	contract := &contractdomain.Contract{ID: 106, RoomName: "P206", RentPrice: 3_000_000, TenantCount: 3, Active: true}
	insertContract(t, db, contract)
	insertUtilityService(t, db, &utilitydomain.Service{
		ID: 204, Name: "Garbage", UnitPrice: 50_000, Unit: "person",
		Kind: utilitydomain.ServiceKindFixed, Basis: utilitydomain.BasisPerPerson,
		Category: utilitydomain.CategoryOther, Active: true,
	})

	resp, err := svc.Preview(context.Background(), domain.PreviewRequest{
		ContractID: contract.ID,
		Month:      "03-2026",
	})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	fixed, ok := findLineItem(resp.LineItems, domain.KindFixed)
	if !ok {
		t.Fatal("missing fixed item")
	}
	if fixed.Quantity != 3 || fixed.Amount != 150_000 {
		t.Fatalf("expected 3 x 50000, got %+v", fixed)
	}
}

func TestPreviewDebtCalendarOrdering(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)
	contract := &contractdomain.Contract{ID: 107, RoomName: "P207", RentPrice: 3_000_000, Active: true}
	insertContract(t, db, contract)

	// December 2025 precedes March 2026 on the calendar even though
	// "12-2025" sorts after "03-2026" as a string.
	insertInvoiceRow(t, db, &domain.Invoice{
		ID: 401, ContractID: contract.ID, Month: "12-2025",
		Status: domain.StatusPublished, TotalAmount: 500_000, DebtAmount: 500_000,
	})
	insertInvoiceRow(t, db, &domain.Invoice{
		ID: 402, ContractID: contract.ID, Month: "04-2026",
		Status: domain.StatusPublished, TotalAmount: 700_000, DebtAmount: 700_000,
	})

	resp, err := svc.Preview(context.Background(), domain.PreviewRequest{
		ContractID: contract.ID,
		Month:      "03-2026",
	})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	debt, ok := findLineItem(resp.LineItems, domain.KindDebt)
	if !ok {
		t.Fatal("missing debt carry-over item")
	}
	if debt.Amount != 500_000 {
		t.Fatalf("expected only the 12-2025 debt (500000), got %d", debt.Amount)
	}
}

func TestPreviewDepositShortfall(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)
	contract := &contractdomain.Contract{
		ID: 108, RoomName: "P208", RentPrice: 3_000_000,
		DepositCommitted: 5_000_000, DepositPaid: 2_000_000, Active: true,
	}
	insertContract(t, db, contract)

	resp, err := svc.Preview(context.Background(), domain.PreviewRequest{
		ContractID: contract.ID,
		Month:      "03-2026",
	})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	debt, ok := findLineItem(resp.LineItems, domain.KindDebt)
	if !ok {
		t.Fatal("missing deposit top-up item")
	}
	if debt.Amount != 3_000_000 || !debt.DepositTopUp {
		t.Fatalf("expected deposit top-up of 3000000, got %+v", debt)
	}
}

func TestPreviewRejectsInactiveContract(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)
	contract := &contractdomain.Contract{ID: 109, RoomName: "P209", RentPrice: 3_000_000}
	insertContract(t, db, contract)
	if err := db.Exec(`UPDATE contracts SET active = false WHERE id = ?`, contract.ID).Error; err != nil {
		t.Fatalf("deactivate contract: %v", err)
	}

	_, err := svc.Preview(context.Background(), domain.PreviewRequest{
		ContractID: contract.ID,
		Month:      "03-2026",
	})
	if !errors.Is(err, contractdomain.ErrContractInactive) {
		t.Fatalf("expected inactive contract, got %v", err)
	}
}

func TestPreviewRejectsBadMonth(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)

	for _, month := range []string{"3-2026", "2026-03", "13-2026", "march"} {
		if _, err := svc.Preview(context.Background(), domain.PreviewRequest{
			ContractID: 1,
			Month:      month,
		}); err == nil {
			t.Fatalf("expected error for month %q", month)
		}
	}
}
