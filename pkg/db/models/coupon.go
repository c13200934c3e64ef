package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Coupon struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	WorkflowID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Code            string          `gorm:"not null;uniqueIndex"`
	ProviderRef     string          `gorm:"column:provider_ref"`
	CommissionRate  decimal.Decimal `gorm:"type:numeric(5,4);not null"`
	SalesTotal      decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	CommissionTotal decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	OrdersCount     int             `gorm:"not null;default:0"`
	LastSyncedAt    *time.Time      ``
	CreatedAt       time.Time       `gorm:"autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime"`
}

func (Coupon) TableName() string {
	return "coupons"
}

func (c *Coupon) BeforeCreate(_ *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
