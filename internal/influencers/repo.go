package influencers

import (
	"context"

	"github.com/google/uuid"
	"github.com/miguelantunes/partnerflow-backend/pkg/db/models"
	"github.com/miguelantunes/partnerflow-backend/pkg/enums"
	"github.com/miguelantunes/partnerflow-backend/pkg/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, influencer *models.Influencer) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Influencer, error)
	FindByPortalTokenHash(ctx context.Context, hash string) (*models.Influencer, error)
	List(ctx context.Context, status *enums.InfluencerStatus, search string, cursor *pagination.Cursor, limit int) ([]models.Influencer, error)
	Save(ctx context.Context, influencer *models.Influencer) error
	Delete(ctx context.Context, id uuid.UUID) error
	HasActiveWorkflow(ctx context.Context, id uuid.UUID) (bool, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an influencer repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, influencer *models.Influencer) error {
	return r.db.WithContext(ctx).Create(influencer).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Influencer, error) {
	var influencer models.Influencer
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&influencer).Error
	if err != nil {
		return nil, err
	}
	return &influencer, nil
}

func (r *repository) FindByPortalTokenHash(ctx context.Context, hash string) (*models.Influencer, error) {
	var influencer models.Influencer
	err := r.db.WithContext(ctx).
		Where("portal_token_hash = ?", hash).
		First(&influencer).Error
	if err != nil {
		return nil, err
	}
	return &influencer, nil
}

func (r *repository) List(ctx context.Context, status *enums.InfluencerStatus, search string, cursor *pagination.Cursor, limit int) ([]models.Influencer, error) {
	query := r.db.WithContext(ctx).Model(&models.Influencer{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("name ILIKE ? OR email ILIKE ? OR instagram_handle ILIKE ?", pattern, pattern, pattern)
	}
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Influencer
	err := query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) Save(ctx context.Context, influencer *models.Influencer) error {
	return r.db.WithContext(ctx).Save(influencer).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Influencer{}).Error
}

func (r *repository) HasActiveWorkflow(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.PartnershipWorkflow{}).
		Where("influencer_id = ? AND status = ?", id, enums.WorkflowStatusActive).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
