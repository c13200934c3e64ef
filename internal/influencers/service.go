package influencers

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/miguelantunes/partnerflow-backend/pkg/auth"
	"github.com/miguelantunes/partnerflow-backend/pkg/config"
	"github.com/miguelantunes/partnerflow-backend/pkg/db/models"
	"github.com/miguelantunes/partnerflow-backend/pkg/enums"
	pkgerrors "github.com/miguelantunes/partnerflow-backend/pkg/errors"
	"github.com/miguelantunes/partnerflow-backend/pkg/logger"
	"github.com/miguelantunes/partnerflow-backend/pkg/pagination"
	"github.com/miguelantunes/partnerflow-backend/pkg/security"
	"github.com/miguelantunes/partnerflow-backend/pkg/types"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service owns the influencer roster: CRUD, direct status edits, and portal
// token issuance.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*InfluencerDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*InfluencerDTO, error)
	List(ctx context.Context, filter ListFilter) (*types.Page[InfluencerDTO], error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*InfluencerDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	IssuePortalToken(ctx context.Context, id uuid.UUID) (*PortalTokenDTO, error)
	ResolvePortalToken(ctx context.Context, token string) (*InfluencerDTO, error)
}

type service struct {
	repo    Repository
	tx      txRunner
	logg    *logger.Logger
	jwtCfg  config.JWTConfig
	baseURL string
	now     func() time.Time
}

// NewService builds an influencer service with the required dependencies.
func NewService(repo Repository, tx txRunner, logg *logger.Logger, jwtCfg config.JWTConfig, portalBaseURL string) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("influencer repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:    repo,
		tx:      tx,
		logg:    logg,
		jwtCfg:  jwtCfg,
		baseURL: strings.TrimRight(portalBaseURL, "/"),
		now:     time.Now,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*InfluencerDTO, error) {
	influencer := &models.Influencer{
		Name:            strings.TrimSpace(input.Name),
		Email:           strings.TrimSpace(input.Email),
		InstagramHandle: strings.TrimSpace(input.InstagramHandle),
		TiktokHandle:    strings.TrimSpace(input.TiktokHandle),
		Phone:           strings.TrimSpace(input.Phone),
		Notes:           input.Notes,
		Status:          enums.InfluencerStatusNew,
	}
	if influencer.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if influencer.Email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	if err := s.repo.Create(ctx, influencer); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create influencer")
	}

	logCtx := s.logg.WithInfluencerID(ctx, influencer.ID.String())
	s.logg.Info(logCtx, "influencer created")
	return toDTO(influencer), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*InfluencerDTO, error) {
	influencer, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDTO(influencer), nil
}

func (s *service) List(ctx context.Context, filter ListFilter) (*types.Page[InfluencerDTO], error) {
	cursor, err := pagination.ParseCursor(filter.Page.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}

	rows, err := s.repo.List(ctx, filter.Status, strings.TrimSpace(filter.Search), cursor, pagination.LimitWithBuffer(filter.Page.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list influencers")
	}

	trimmed, next := pagination.TrimPage(rows, filter.Page.Limit, func(m models.Influencer) pagination.Cursor {
		return pagination.Cursor{CreatedAt: m.CreatedAt, ID: m.ID}
	})

	items := make([]InfluencerDTO, 0, len(trimmed))
	for i := range trimmed {
		items = append(items, *toDTO(&trimmed[i]))
	}
	return &types.Page[InfluencerDTO]{Items: items, NextCursor: next}, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*InfluencerDTO, error) {
	influencer, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		influencer.Name = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil {
		influencer.Email = strings.TrimSpace(*input.Email)
	}
	if input.InstagramHandle != nil {
		influencer.InstagramHandle = strings.TrimSpace(*input.InstagramHandle)
	}
	if input.TiktokHandle != nil {
		influencer.TiktokHandle = strings.TrimSpace(*input.TiktokHandle)
	}
	if input.Phone != nil {
		influencer.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Notes != nil {
		influencer.Notes = *input.Notes
	}
	if input.Status != nil {
		status, err := enums.ParseInfluencerStatus(*input.Status)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status").
				WithDetails(map[string]any{"status": *input.Status})
		}
		influencer.Status = status
	}

	if err := s.repo.Save(ctx, influencer); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save influencer")
	}
	return toDTO(influencer), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.find(ctx, id); err != nil {
		return err
	}

	active, err := s.repo.HasActiveWorkflow(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check active workflow")
	}
	if active {
		return pkgerrors.New(pkgerrors.CodeConflict, "influencer has an active workflow")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete influencer")
	}

	logCtx := s.logg.WithInfluencerID(ctx, id.String())
	s.logg.Info(logCtx, "influencer deleted")
	return nil
}

// IssuePortalToken mints a portal JWT scoped to the influencer and stores its
// hash for revocation. Reissuing invalidates the previous token.
func (s *service) IssuePortalToken(ctx context.Context, id uuid.UUID) (*PortalTokenDTO, error) {
	influencer, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	token, err := auth.MintPortalToken(s.jwtCfg, now, influencer.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint portal token")
	}

	hash := security.HashOpaqueToken(token)
	influencer.PortalTokenHash = &hash
	if err := s.repo.Save(ctx, influencer); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store portal token hash")
	}

	logCtx := s.logg.WithInfluencerID(ctx, influencer.ID.String())
	s.logg.Info(logCtx, "portal token issued")

	return &PortalTokenDTO{
		Token:     token,
		PortalURL: s.portalURL(token),
		IssuedAt:  now,
	}, nil
}

// ResolvePortalToken validates the token signature, then checks the stored
// hash so a reissued token revokes its predecessor.
func (s *service) ResolvePortalToken(ctx context.Context, token string) (*InfluencerDTO, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "portal token required")
	}

	claims, err := auth.ParsePortalToken(s.jwtCfg, token)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid portal token")
	}

	influencer, err := s.find(ctx, claims.InfluencerID)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid portal token")
	}

	hash := security.HashOpaqueToken(token)
	if influencer.PortalTokenHash == nil || *influencer.PortalTokenHash != hash {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "portal token revoked")
	}

	return toDTO(influencer), nil
}

func (s *service) find(ctx context.Context, id uuid.UUID) (*models.Influencer, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "influencer id required")
	}
	influencer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "influencer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load influencer")
	}
	return influencer, nil
}

func (s *service) portalURL(token string) string {
	if s.baseURL == "" {
		return ""
	}
	return fmt.Sprintf("%s/portal?token=%s", s.baseURL, url.QueryEscape(token))
}
