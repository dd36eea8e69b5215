package service

import (
	"context"
	"fmt"
	"math"

	"github.com/baovietz98/smart-rental-capstone-sub000/internal/billingmonth"
	contractdomain "github.com/baovietz98/smart-rental-capstone-sub000/internal/contract/domain"
	"github.com/baovietz98/smart-rental-capstone-sub000/internal/invoice/domain"
	utilitydomain "github.com/baovietz98/smart-rental-capstone-sub000/internal/utility/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

func parseMonth(raw string) (billingmonth.Month, error) {
	return billingmonth.Parse(raw)
}

// Preview computes what a bill for (contract, month) would contain without
// persisting anything.
func (s *Service) Preview(ctx context.Context, req domain.PreviewRequest) (*domain.PreviewResponse, error) {
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

	items, err := s.buildLineItems(ctx, s.db, contract, month, req.ProratedRent, req.StartDay)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, item := range items {
		total += item.Amount
	}
	return &domain.PreviewResponse{
		Contract:    contract,
		LineItems:   items,
		TotalAmount: total,
	}, nil
}

// buildLineItems assembles the full line item sequence for one contract and
// month: rent, metered usage, fixed fees, debt carry-over, deposit top-up.
func (s *Service) buildLineItems(
	ctx context.Context,
	db *gorm.DB,
	contract *contractdomain.Contract,
	month billingmonth.Month,
	prorated bool,
	startDay int,
) ([]domain.LineItem, error) {
	items := make([]domain.LineItem, 0, 8)

	rent, err := rentLineItem(contract, month, prorated, startDay)
	if err != nil {
		return nil, err
	}
	items = append(items, rent)

	usage, err := s.usageLineItems(ctx, db, contract, month)
	if err != nil {
		return nil, err
	}
	items = append(items, usage...)

	fixed, err := s.fixedLineItems(ctx, db, contract)
	if err != nil {
		return nil, err
	}
	items = append(items, fixed...)

	debt, err := s.unpaidDebtBefore(ctx, db, contract.ID, month)
	if err != nil {
		return nil, err
	}
	if debt > 0 {
		items = append(items, domain.LineItem{
			Kind:     domain.KindDebt,
			Name:     "Previous balance",
			Quantity: 1,
			Amount:   debt,
		})
	}

	// The deposit shortfall is re-evaluated fresh on every preview; there
	// is no dedup against earlier invoices carrying the same charge.
	if shortfall := contract.DepositShortfall(); shortfall > 0 {
		items = append(items, domain.LineItem{
			Kind:         domain.KindDebt,
			Name:         "Deposit balance due",
			Quantity:     1,
			Amount:       shortfall,
			DepositTopUp: true,
		})
	}

	return items, nil
}

func rentLineItem(contract *contractdomain.Contract, month billingmonth.Month, prorated bool, startDay int) (domain.LineItem, error) {
	if !prorated {
		return domain.LineItem{
			Kind:      domain.KindRent,
			Name:      "Room rent",
			Quantity:  1,
			Unit:      "month",
			UnitPrice: contract.RentPrice,
			Amount:    contract.RentPrice,
		}, nil
	}

	days := month.Days()
	day := startDay
	if day == 0 {
		day = contract.StartDate.Day()
	}
	if day < 1 {
		return domain.LineItem{}, domain.ErrInvalidStartDay
	}
	if day > days {
		day = days
	}
	stayed := days - day + 1
	amount := int64(math.Round(float64(contract.RentPrice) / float64(days) * float64(stayed)))

	return domain.LineItem{
		Kind:      domain.KindRent,
		Name:      "Room rent",
		Quantity:  float64(stayed),
		Unit:      "day",
		UnitPrice: contract.RentPrice,
		Amount:    amount,
		Note:      fmt.Sprintf("%d/%d days", stayed, days),
	}, nil
}

func (s *Service) usageLineItems(
	ctx context.Context,
	db *gorm.DB,
	contract *contractdomain.Contract,
	month billingmonth.Month,
) ([]domain.LineItem, error) {
	indexServices, err := s.utilities.CountActiveIndexServices(ctx, db)
	if err != nil {
		return nil, err
	}
	if indexServices > 0 {
		closed, err := s.utilities.CountReadings(ctx, db, contract.ID, month.String())
		if err != nil {
			return nil, err
		}
		if closed == 0 {
			return nil, domain.ErrReadingsNotClosed
		}
	}

	readings, err := s.utilities.ListUnbilledReadings(ctx, db, contract.ID, month.String())
	if err != nil {
		return nil, err
	}
	if len(readings) == 0 {
		return nil, nil
	}

	serviceIDs := make([]snowflake.ID, 0, len(readings))
	for _, reading := range readings {
		serviceIDs = append(serviceIDs, reading.ServiceID)
	}
	services, err := s.utilities.FindServices(ctx, db, serviceIDs)
	if err != nil {
		return nil, err
	}

	items := make([]domain.LineItem, 0, len(readings))
	for _, reading := range readings {
		reading := reading
		svc, ok := services[reading.ServiceID]
		if !ok {
			continue
		}
		items = append(items, domain.LineItem{
			Kind:      kindForCategory(svc.Category),
			Name:      svc.Name,
			Quantity:  reading.Usage,
			Unit:      svc.Unit,
			UnitPrice: reading.UnitPrice,
			Amount:    reading.Cost,
			ReadingID: &reading.ID,
			ServiceID: &reading.ServiceID,
		})
	}
	return items, nil
}

func (s *Service) fixedLineItems(ctx context.Context, db *gorm.DB, contract *contractdomain.Contract) ([]domain.LineItem, error) {
	services, err := s.utilities.ListActiveServices(ctx, db)
	if err != nil {
		return nil, err
	}

	var items []domain.LineItem
	for _, svc := range services {
		svc := svc
		if svc.Kind != utilitydomain.ServiceKindFixed {
			continue
		}
		quantity := 1
		if svc.Basis == utilitydomain.BasisPerPerson {
			quantity = contract.TenantCount
		}
		items = append(items, domain.LineItem{
			Kind:      domain.KindFixed,
			Name:      svc.Name,
			Quantity:  float64(quantity),
			Unit:      svc.Unit,
			UnitPrice: svc.UnitPrice,
			Amount:    svc.UnitPrice * int64(quantity),
			ServiceID: &svc.ID,
		})
	}
	return items, nil
}

// unpaidDebtBefore folds the contract's published, partially paid and overdue
// invoices into the outstanding debt carried from months strictly before
// target, under calendar ordering.
func (s *Service) unpaidDebtBefore(ctx context.Context, db *gorm.DB, contractID snowflake.ID, target billingmonth.Month) (int64, error) {
	rows, err := s.repo.ListDebtRows(ctx, db, contractID)
	if err != nil {
		return 0, err
	}

	var total int64
	for _, row := range rows {
		month, err := billingmonth.Parse(row.Month)
		if err != nil {
			continue
		}
		if month.Before(target) {
			total += row.DebtAmount
		}
	}
	return total, nil
}

func kindForCategory(category utilitydomain.ServiceCategory) domain.LineItemKind {
	switch category {
	case utilitydomain.CategoryElectricity:
		return domain.KindElectric
	case utilitydomain.CategoryWater:
		return domain.KindWater
	default:
		return domain.KindFixed
	}
}
