package emails

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/miguelantunes/partnerflow-backend/pkg/db/models"
	"github.com/miguelantunes/partnerflow-backend/pkg/enums"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, email *models.WorkflowEmail) error
	FindByWorkflowStep(ctx context.Context, workflowID uuid.UUID, step int) (*models.WorkflowEmail, error)
	MarkSent(ctx context.Context, id uuid.UUID, sentAt time.Time) error
	MarkFailed(ctx context.Context, id uuid.UUID, sendErr error) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, email *models.WorkflowEmail) error {
	return r.db.WithContext(ctx).Create(email).Error
}

func (r *repository) FindByWorkflowStep(ctx context.Context, workflowID uuid.UUID, step int) (*models.WorkflowEmail, error) {
	var email models.WorkflowEmail
	err := r.db.WithContext(ctx).
		Where("workflow_id = ? AND step = ?", workflowID, step).
		First(&email).Error
	if err != nil {
		return nil, err
	}
	return &email, nil
}

func (r *repository) MarkSent(ctx context.Context, id uuid.UUID, sentAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.WorkflowEmail{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":  enums.WorkflowEmailStatusSent,
			"sent_at": sentAt,
			"error":   nil,
		}).Error
}

func (r *repository) MarkFailed(ctx context.Context, id uuid.UUID, sendErr error) error {
	msg := sendErr.Error()
	return r.db.WithContext(ctx).
		Model(&models.WorkflowEmail{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status": enums.WorkflowEmailStatusFailed,
			"error":  msg,
		}).Error
}
