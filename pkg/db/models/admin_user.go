package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/miguelantunes/partnerflow-backend/pkg/enums"
	"gorm.io/gorm"
)

type AdminUser struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Email        string          `gorm:"not null;uniqueIndex"`
	PasswordHash string          `gorm:"not null"`
	Name         string          `gorm:"not null"`
	Role         enums.AdminRole `gorm:"type:varchar(16);not null;default:'MANAGER'"`
	CreatedAt    time.Time       `gorm:"autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime"`
}

func (AdminUser) TableName() string {
	return "admin_users"
}

func (u *AdminUser) BeforeCreate(_ *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
