package workflows

import (
	"context"

	"github.com/google/uuid"
	"github.com/miguelantunes/partnerflow-backend/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository is the persistence surface the workflow engine needs. It spans
// workflows and the influencer rows whose status shadows them, because both
// mutate inside the same transaction.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	FindByID(ctx context.Context, id uuid.UUID) (*models.PartnershipWorkflow, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.PartnershipWorkflow, error)
	FindActiveByInfluencer(ctx context.Context, influencerID uuid.UUID) (*models.PartnershipWorkflow, error)
	FindActiveByInfluencerForUpdate(ctx context.Context, influencerID uuid.UUID) (*models.PartnershipWorkflow, error)
	ListByInfluencer(ctx context.Context, influencerID uuid.UUID) ([]models.PartnershipWorkflow, error)
	Create(ctx context.Context, workflow *models.PartnershipWorkflow) error
	Save(ctx context.Context, workflow *models.PartnershipWorkflow) error

	FindInfluencer(ctx context.Context, id uuid.UUID) (*models.Influencer, error)
	UpdateInfluencerStatus(ctx context.Context, id uuid.UUID, status string) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a workflow repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.PartnershipWorkflow, error) {
	var workflow models.PartnershipWorkflow
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&workflow).Error
	if err != nil {
		return nil, err
	}
	return &workflow, nil
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.PartnershipWorkflow, error) {
	var workflow models.PartnershipWorkflow
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&workflow).Error
	if err != nil {
		return nil, err
	}
	return &workflow, nil
}

func (r *repository) FindActiveByInfluencer(ctx context.Context, influencerID uuid.UUID) (*models.PartnershipWorkflow, error) {
	var workflow models.PartnershipWorkflow
	err := r.db.WithContext(ctx).
		Where("influencer_id = ? AND status = ?", influencerID, "ACTIVE").
		First(&workflow).Error
	if err != nil {
		return nil, err
	}
	return &workflow, nil
}

func (r *repository) FindActiveByInfluencerForUpdate(ctx context.Context, influencerID uuid.UUID) (*models.PartnershipWorkflow, error) {
	var workflow models.PartnershipWorkflow
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("influencer_id = ? AND status = ?", influencerID, "ACTIVE").
		First(&workflow).Error
	if err != nil {
		return nil, err
	}
	return &workflow, nil
}

func (r *repository) ListByInfluencer(ctx context.Context, influencerID uuid.UUID) ([]models.PartnershipWorkflow, error) {
	var workflows []models.PartnershipWorkflow
	err := r.db.WithContext(ctx).
		Where("influencer_id = ?", influencerID).
		Order("created_at DESC").
		Find(&workflows).Error
	if err != nil {
		return nil, err
	}
	return workflows, nil
}

func (r *repository) Create(ctx context.Context, workflow *models.PartnershipWorkflow) error {
	return r.db.WithContext(ctx).Create(workflow).Error
}

func (r *repository) Save(ctx context.Context, workflow *models.PartnershipWorkflow) error {
	return r.db.WithContext(ctx).Save(workflow).Error
}

func (r *repository) FindInfluencer(ctx context.Context, id uuid.UUID) (*models.Influencer, error) {
	var influencer models.Influencer
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&influencer).Error
	if err != nil {
		return nil, err
	}
	return &influencer, nil
}

func (r *repository) UpdateInfluencerStatus(ctx context.Context, id uuid.UUID, status string) error {
	return r.db.WithContext(ctx).
		Model(&models.Influencer{}).
		Where("id = ?", id).
		Update("status", status).Error
}
