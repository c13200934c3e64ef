package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/miguelantunes/partnerflow-backend/pkg/enums"
	"gorm.io/gorm"
)

type Influencer struct {
	ID              uuid.UUID              `gorm:"type:uuid;primaryKey"`
	Name            string                 `gorm:"not null"`
	Email           string                 `gorm:"not null"`
	InstagramHandle string                 `gorm:"column:instagram_handle"`
	TiktokHandle    string                 `gorm:"column:tiktok_handle"`
	Phone           string                 ``
	Status          enums.InfluencerStatus `gorm:"type:varchar(32);not null;default:'NEW'"`
	PortalTokenHash *string                `gorm:"uniqueIndex"`
	Notes           string                 ``
	CreatedAt       time.Time              `gorm:"autoCreateTime"`
	UpdatedAt       time.Time              `gorm:"autoUpdateTime"`
}

func (Influencer) TableName() string {
	return "influencers"
}

func (i *Influencer) BeforeCreate(_ *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
