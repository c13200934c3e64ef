package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/miguelantunes/partnerflow-backend/pkg/enums"
	"gorm.io/gorm"
)

type WorkflowEmail struct {
	ID         uuid.UUID                 `gorm:"type:uuid;primaryKey"`
	WorkflowID uuid.UUID                 `gorm:"type:uuid;not null;uniqueIndex:ux_workflow_emails_workflow_step"`
	Step       int                       `gorm:"not null;uniqueIndex:ux_workflow_emails_workflow_step"`
	Recipient  string                    `gorm:"not null"`
	Subject    string                    `gorm:"not null"`
	Status     enums.WorkflowEmailStatus `gorm:"type:varchar(16);not null;default:'PENDING'"`
	Error      *string                   ``
	SentAt     *time.Time                ``
	CreatedAt  time.Time                 `gorm:"autoCreateTime"`
}

func (WorkflowEmail) TableName() string {
	return "workflow_emails"
}

func (e *WorkflowEmail) BeforeCreate(_ *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
