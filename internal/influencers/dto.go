package influencers

import (
	"time"

	"github.com/google/uuid"
	"github.com/miguelantunes/partnerflow-backend/pkg/db/models"
	"github.com/miguelantunes/partnerflow-backend/pkg/enums"
	"github.com/miguelantunes/partnerflow-backend/pkg/pagination"
)

// CreateInput captures a new influencer record.
type CreateInput struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	InstagramHandle string `json:"instagramHandle"`
	TiktokHandle    string `json:"tiktokHandle"`
	Phone           string `json:"phone"`
	Notes           string `json:"notes"`
}

// UpdateInput carries a partial update; nil pointers leave fields untouched.
type UpdateInput struct {
	Name            *string `json:"name,omitempty"`
	Email           *string `json:"email,omitempty" validate:"omitempty,email"`
	InstagramHandle *string `json:"instagramHandle,omitempty"`
	TiktokHandle    *string `json:"tiktokHandle,omitempty"`
	Phone           *string `json:"phone,omitempty"`
	Notes           *string `json:"notes,omitempty"`
	Status          *string `json:"status,omitempty"`
}

// ListFilter narrows List results.
type ListFilter struct {
	Status *enums.InfluencerStatus
	Search string
	Page   pagination.Params
}

// InfluencerDTO is the API projection of an influencer row.
type InfluencerDTO struct {
	ID              uuid.UUID              `json:"id"`
	Name            string                 `json:"name"`
	Email           string                 `json:"email"`
	InstagramHandle string                 `json:"instagramHandle"`
	TiktokHandle    string                 `json:"tiktokHandle"`
	Phone           string                 `json:"phone"`
	Status          enums.InfluencerStatus `json:"status"`
	Notes           string                 `json:"notes"`
	HasPortalToken  bool                   `json:"hasPortalToken"`
	CreatedAt       time.Time              `json:"createdAt"`
	UpdatedAt       time.Time              `json:"updatedAt"`
}

// PortalTokenDTO returns the plaintext portal token exactly once.
type PortalTokenDTO struct {
	Token     string    `json:"token"`
	PortalURL string    `json:"portalUrl"`
	IssuedAt  time.Time `json:"issuedAt"`
}

func toDTO(m *models.Influencer) *InfluencerDTO {
	if m == nil {
		return nil
	}
	return &InfluencerDTO{
		ID:              m.ID,
		Name:            m.Name,
		Email:           m.Email,
		InstagramHandle: m.InstagramHandle,
		TiktokHandle:    m.TiktokHandle,
		Phone:           m.Phone,
		Status:          m.Status,
		Notes:           m.Notes,
		HasPortalToken:  m.PortalTokenHash != nil,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
