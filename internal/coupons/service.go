package coupons

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/miguelantunes/partnerflow-backend/internal/commerce"
	"github.com/miguelantunes/partnerflow-backend/internal/workflows"
	"github.com/miguelantunes/partnerflow-backend/pkg/db/models"
	pkgerrors "github.com/miguelantunes/partnerflow-backend/pkg/errors"
	"github.com/miguelantunes/partnerflow-backend/pkg/logger"
	"github.com/miguelantunes/partnerflow-backend/pkg/outbox"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"
)

// ProvisionInput provisions a provider-side coupon and attaches it to a
// workflow.
type ProvisionInput struct {
	WorkflowID uuid.UUID
	Code       string `json:"code" validate:"required"`
	Actor      *outbox.ActorRef
}

// CouponDTO is the API projection of a coupon row.
type CouponDTO struct {
	ID              uuid.UUID       `json:"id"`
	WorkflowID      uuid.UUID       `json:"workflowId"`
	Code            string          `json:"code"`
	CommissionRate  decimal.Decimal `json:"commissionRate"`
	SalesTotal      decimal.Decimal `json:"salesTotal"`
	CommissionTotal decimal.Decimal `json:"commissionTotal"`
	OrdersCount     int             `json:"ordersCount"`
	LastSyncedAt    *time.Time      `json:"lastSyncedAt,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// Service provisions coupons through the commerce provider and keeps
// commission totals in sync with coupon sales.
type Service interface {
	Provision(ctx context.Context, input ProvisionInput) (*CouponDTO, error)
	Remove(ctx context.Context, id uuid.UUID) error
	GetByWorkflow(ctx context.Context, workflowID uuid.UUID) (*CouponDTO, error)
	SyncCommissions(ctx context.Context) error
}

type service struct {
	repo           Repository
	provider       commerce.Provider
	workflowSvc    workflows.Service
	commissionRate decimal.Decimal
	logg           *logger.Logger
	now            func() time.Time
}

// NewService builds a coupon service with the required dependencies.
func NewService(repo Repository, provider commerce.Provider, workflowSvc workflows.Service, commissionRate string, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("coupon repository required")
	}
	if provider == nil {
		return nil, fmt.Errorf("commerce provider required")
	}
	if workflowSvc == nil {
		return nil, fmt.Errorf("workflow service required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	rate, err := decimal.NewFromString(commissionRate)
	if err != nil {
		return nil, fmt.Errorf("invalid commission rate %q: %w", commissionRate, err)
	}
	return &service{
		repo:           repo,
		provider:       provider,
		workflowSvc:    workflowSvc,
		commissionRate: rate,
		logg:           logg,
		now:            time.Now,
	}, nil
}

// Provision creates the code on the commerce platform first; only a
// successful provider call persists and attaches locally. Provider-side
// orphans are preferable to codes the shop does not honor.
func (s *service) Provision(ctx context.Context, input ProvisionInput) (*CouponDTO, error) {
	code := strings.ToUpper(strings.TrimSpace(input.Code))
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon code required")
	}
	if input.WorkflowID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "workflow id required")
	}

	if _, err := s.workflowSvc.Get(ctx, input.WorkflowID); err != nil {
		return nil, err
	}
	if _, err := s.repo.FindByWorkflow(ctx, input.WorkflowID); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "workflow already has a coupon")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing coupon")
	}

	created, err := s.provider.CreateDiscountCode(ctx, code)
	if err != nil {
		return nil, err
	}

	coupon := &models.Coupon{
		WorkflowID:     input.WorkflowID,
		Code:           created.Code,
		ProviderRef:    created.ProviderRef,
		CommissionRate: s.commissionRate,
	}
	if err := s.repo.Create(ctx, coupon); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist coupon")
	}

	if _, err := s.workflowSvc.AttachCoupon(ctx, workflows.AttachCouponInput{
		WorkflowID: input.WorkflowID,
		CouponCode: &coupon.Code,
		Actor:      input.Actor,
	}); err != nil {
		return nil, err
	}

	logCtx := s.logg.WithWorkflowID(ctx, input.WorkflowID.String())
	s.logg.Info(logCtx, "coupon provisioned")
	return toDTO(coupon), nil
}

func (s *service) Remove(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "coupon id required")
	}
	coupon, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coupon")
	}

	if coupon.ProviderRef != "" {
		if err := s.provider.DeleteDiscountCode(ctx, coupon.ProviderRef); err != nil {
			if pkgErr := pkgerrors.As(err); pkgErr == nil || pkgErr.Code() != pkgerrors.CodeNotFound {
				return err
			}
			// Already gone provider-side; keep going.
		}
	}

	if err := s.repo.Delete(ctx, coupon.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete coupon")
	}

	if _, err := s.workflowSvc.AttachCoupon(ctx, workflows.AttachCouponInput{
		WorkflowID: coupon.WorkflowID,
		CouponCode: nil,
	}); err != nil {
		return err
	}
	return nil
}

func (s *service) GetByWorkflow(ctx context.Context, workflowID uuid.UUID) (*CouponDTO, error) {
	if workflowID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "workflow id required")
	}
	coupon, err := s.repo.FindByWorkflow(ctx, workflowID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coupon")
	}
	return toDTO(coupon), nil
}

// SyncCommissions recomputes sales and commission totals for every coupon
// from the provider's order list. Per-coupon failures are collected so one
// bad code does not stall the rest.
func (s *service) SyncCommissions(ctx context.Context) error {
	coupons, err := s.repo.ListAll(ctx)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list coupons")
	}

	var errs error
	for i := range coupons {
		if err := s.syncOne(ctx, &coupons[i]); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("coupon %s: %w", coupons[i].Code, err))
		}
	}
	return errs
}

func (s *service) syncOne(ctx context.Context, coupon *models.Coupon) error {
	orders, err := s.provider.ListOrdersByCode(ctx, coupon.Code)
	if err != nil {
		return err
	}

	salesTotal := decimal.Zero
	for _, order := range orders {
		salesTotal = salesTotal.Add(order.Total)
	}

	now := s.now()
	coupon.SalesTotal = salesTotal
	coupon.CommissionTotal = salesTotal.Mul(coupon.CommissionRate).Round(2)
	coupon.OrdersCount = len(orders)
	coupon.LastSyncedAt = &now

	if err := s.repo.Save(ctx, coupon); err != nil {
		return fmt.Errorf("save coupon: %w", err)
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"coupon_code":  coupon.Code,
		"orders_count": coupon.OrdersCount,
		"sales_total":  coupon.SalesTotal.String(),
	})
	s.logg.Info(logCtx, "coupon commissions synced")
	return nil
}

func toDTO(m *models.Coupon) *CouponDTO {
	if m == nil {
		return nil
	}
	return &CouponDTO{
		ID:              m.ID,
		WorkflowID:      m.WorkflowID,
		Code:            m.Code,
		CommissionRate:  m.CommissionRate,
		SalesTotal:      m.SalesTotal,
		CommissionTotal: m.CommissionTotal,
		OrdersCount:     m.OrdersCount,
		LastSyncedAt:    m.LastSyncedAt,
		CreatedAt:       m.CreatedAt,
	}
}
