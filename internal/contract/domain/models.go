// Package domain contains the rental contract read model used by billing.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Contract is one room rental agreement. Billing only reads it, except for
// the paid-deposit increment applied when a deposit top-up invoice settles.
type Contract struct {
	ID               snowflake.ID `gorm:"primaryKey" json:"id"`
	RoomName         string       `gorm:"type:text;not null" json:"room_name"`
	RentPrice        int64        `gorm:"not null" json:"rent_price"`
	DepositCommitted int64        `gorm:"not null;default:0" json:"deposit_committed"`
	DepositPaid      int64        `gorm:"not null;default:0" json:"deposit_paid"`
	TenantCount      int          `gorm:"not null;default:1" json:"tenant_count"`
	StartDate        time.Time    `gorm:"not null" json:"start_date"`
	Active           bool         `gorm:"not null;default:true" json:"active"`
	CreatedAt        time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"-"`
	UpdatedAt        time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"-"`
}

// TableName sets the database table name.
func (Contract) TableName() string { return "contracts" }

// DepositShortfall is the committed deposit not yet collected.
func (c Contract) DepositShortfall() int64 {
	shortfall := c.DepositCommitted - c.DepositPaid
	if shortfall < 0 {
		return 0
	}
	return shortfall
}
