package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/miguelantunes/partnerflow-backend/pkg/enums"
	"gorm.io/gorm"
)

type OutboxEvent struct {
	ID            uuid.UUID                 `gorm:"type:uuid;primaryKey"`
	EventType     enums.OutboxEventType     `gorm:"type:varchar(64);not null;index"`
	AggregateType enums.OutboxAggregateType `gorm:"type:varchar(32);not null"`
	AggregateID   uuid.UUID                 `gorm:"type:uuid;not null;index"`
	Payload       json.RawMessage           `gorm:"type:jsonb;not null"`
	Status        enums.OutboxEventStatus   `gorm:"type:varchar(16);not null;default:'PENDING';index"`
	Attempts      int                       `gorm:"not null;default:0"`
	NextAttemptAt time.Time                 `gorm:"not null;index"`
	LastError     *string                   ``
	PublishedAt   *time.Time                ``
	CreatedAt     time.Time                 `gorm:"autoCreateTime"`
	UpdatedAt     time.Time                 `gorm:"autoUpdateTime"`
}

func (OutboxEvent) TableName() string {
	return "outbox_events"
}

func (e *OutboxEvent) BeforeCreate(_ *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

type OutboxDLQEvent struct {
	ID            uuid.UUID                  `gorm:"type:uuid;primaryKey"`
	SourceEventID uuid.UUID                  `gorm:"type:uuid;not null;index"`
	EventType     enums.OutboxEventType      `gorm:"type:varchar(64);not null"`
	AggregateType enums.OutboxAggregateType  `gorm:"type:varchar(32);not null"`
	AggregateID   uuid.UUID                  `gorm:"type:uuid;not null"`
	Payload       json.RawMessage            `gorm:"type:jsonb;not null"`
	ErrorReason   enums.OutboxDLQErrorReason `gorm:"type:varchar(32);not null"`
	LastError     *string                    ``
	Attempts      int                        `gorm:"not null"`
	CreatedAt     time.Time                  `gorm:"autoCreateTime"`
}

func (OutboxDLQEvent) TableName() string {
	return "outbox_dlq_events"
}

func (e *OutboxDLQEvent) BeforeCreate(_ *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
