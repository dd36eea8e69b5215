// Package seed bootstraps the default utility service catalog.
package seed

import (
	"context"
	"errors"

	utilitydomain "github.com/baovietz98/smart-rental-capstone-sub000/internal/utility/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type defaultService struct {
	Name      string
	UnitPrice int64
	Unit      string
	Kind      utilitydomain.ServiceKind
	Basis     utilitydomain.ServiceBasis
	Category  utilitydomain.ServiceCategory
}

var defaultServices = []defaultService{
	{Name: "Electricity", UnitPrice: 3_500, Unit: "kWh", Kind: utilitydomain.ServiceKindIndex, Basis: utilitydomain.BasisPerUsage, Category: utilitydomain.CategoryElectricity},
	{Name: "Water", UnitPrice: 15_000, Unit: "m3", Kind: utilitydomain.ServiceKindIndex, Basis: utilitydomain.BasisPerUsage, Category: utilitydomain.CategoryWater},
	{Name: "Garbage", UnitPrice: 30_000, Unit: "person", Kind: utilitydomain.ServiceKindFixed, Basis: utilitydomain.BasisPerPerson, Category: utilitydomain.CategoryOther},
	{Name: "Internet", UnitPrice: 100_000, Unit: "month", Kind: utilitydomain.ServiceKindFixed, Basis: utilitydomain.BasisPerRoom, Category: utilitydomain.CategoryOther},
}

// EnsureDefaultServices inserts the standard service catalog on first start.
// Existing services are matched by name and left untouched, so price edits
// survive restarts.
func EnsureDefaultServices(db *gorm.DB, node *snowflake.Node) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, def := range defaultServices {
			var count int64
			if err := tx.WithContext(ctx).
				Model(&utilitydomain.Service{}).
				Where("name = ?", def.Name).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				continue
			}
			svc := utilitydomain.Service{
				ID:        node.Generate(),
				Name:      def.Name,
				UnitPrice: def.UnitPrice,
				Unit:      def.Unit,
				Kind:      def.Kind,
				Basis:     def.Basis,
				Category:  def.Category,
				Active:    true,
			}
			if err := tx.WithContext(ctx).Create(&svc).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
