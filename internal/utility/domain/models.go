// Package domain contains utility service definitions and meter readings.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// ServiceKind distinguishes usage-metered services from flat fees.
type ServiceKind string

const (
	ServiceKindIndex ServiceKind = "INDEX"
	ServiceKindFixed ServiceKind = "FIXED"
)

// ServiceBasis is how a service's quantity is determined.
type ServiceBasis string

const (
	BasisPerUsage  ServiceBasis = "PER_USAGE"
	BasisPerRoom   ServiceBasis = "PER_ROOM"
	BasisPerPerson ServiceBasis = "PER_PERSON"
)

// ServiceCategory classifies a service explicitly instead of matching on its
// display name.
type ServiceCategory string

const (
	CategoryElectricity ServiceCategory = "ELECTRICITY"
	CategoryWater       ServiceCategory = "WATER"
	CategoryOther       ServiceCategory = "OTHER"
)

// Service is one billable utility (electricity, water, garbage, ...).
type Service struct {
	ID        snowflake.ID    `gorm:"primaryKey" json:"id"`
	Name      string          `gorm:"type:text;not null" json:"name"`
	UnitPrice int64           `gorm:"not null" json:"unit_price"`
	Unit      string          `gorm:"type:text;not null" json:"unit"`
	Kind      ServiceKind     `gorm:"type:text;not null" json:"kind"`
	Basis     ServiceBasis    `gorm:"type:text;not null" json:"basis"`
	Category  ServiceCategory `gorm:"type:text;not null;default:'OTHER'" json:"category"`
	Active    bool            `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"-"`
	UpdatedAt time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"-"`
}

// TableName sets the database table name.
func (Service) TableName() string { return "utility_services" }

// ServiceReading is one meter observation per (contract, service, month).
// Once billed it is owned by exactly one invoice until released.
type ServiceReading struct {
	ID         snowflake.ID  `gorm:"primaryKey" json:"id"`
	ContractID snowflake.ID  `gorm:"not null;index" json:"contract_id"`
	ServiceID  snowflake.ID  `gorm:"not null" json:"service_id"`
	Month      string        `gorm:"type:text;not null" json:"month"`
	OldIndex   float64       `gorm:"not null" json:"old_index"`
	NewIndex   float64       `gorm:"not null" json:"new_index"`
	Usage      float64       `gorm:"not null" json:"usage"`
	UnitPrice  int64         `gorm:"not null" json:"unit_price"`
	Cost       int64         `gorm:"not null" json:"cost"`
	Billed     bool          `gorm:"not null;default:false" json:"billed"`
	InvoiceID  *snowflake.ID `gorm:"index" json:"invoice_id,omitempty"`
	CreatedAt  time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"-"`
	UpdatedAt  time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"-"`
}

// TableName sets the database table name.
func (ServiceReading) TableName() string { return "service_readings" }
