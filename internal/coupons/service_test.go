package coupons

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/miguelantunes/partnerflow-backend/internal/commerce"
	"github.com/miguelantunes/partnerflow-backend/internal/workflows"
	"github.com/miguelantunes/partnerflow-backend/pkg/db/models"
	pkgerrors "github.com/miguelantunes/partnerflow-backend/pkg/errors"
	"github.com/miguelantunes/partnerflow-backend/pkg/logger"
)

type stubCouponRepo struct {
	byWorkflow *models.Coupon
	byID       *models.Coupon
	all        []models.Coupon
	created    []*models.Coupon
	saved      []*models.Coupon
	deleted    []uuid.UUID
}

func (s *stubCouponRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubCouponRepo) Create(ctx context.Context, coupon *models.Coupon) error {
	if coupon.ID == uuid.Nil {
		coupon.ID = uuid.New()
	}
	s.created = append(s.created, coupon)
	return nil
}

func (s *stubCouponRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Coupon, error) {
	if s.byID == nil || s.byID.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.byID, nil
}

func (s *stubCouponRepo) FindByWorkflow(ctx context.Context, workflowID uuid.UUID) (*models.Coupon, error) {
	if s.byWorkflow == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.byWorkflow, nil
}

func (s *stubCouponRepo) ListAll(ctx context.Context) ([]models.Coupon, error) {
	return s.all, nil
}

func (s *stubCouponRepo) Save(ctx context.Context, coupon *models.Coupon) error {
	s.saved = append(s.saved, coupon)
	return nil
}

func (s *stubCouponRepo) Delete(ctx context.Context, id uuid.UUID) error {
	s.deleted = append(s.deleted, id)
	return nil
}

type stubProvider struct {
	createErr error
	deleteErr error
	orders    map[string][]commerce.Order
	ordersErr map[string]error
	creates   []string
	deletes   []string
}

func (s *stubProvider) CreateDiscountCode(ctx context.Context, code string) (*commerce.DiscountCode, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.creates = append(s.creates, code)
	return &commerce.DiscountCode{ProviderRef: "ref-" + code, Code: code}, nil
}

func (s *stubProvider) DeleteDiscountCode(ctx context.Context, providerRef string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deletes = append(s.deletes, providerRef)
	return nil
}

func (s *stubProvider) ListOrdersByCode(ctx context.Context, code string) ([]commerce.Order, error) {
	if err := s.ordersErr[code]; err != nil {
		return nil, err
	}
	return s.orders[code], nil
}

type stubWorkflowService struct {
	workflows.Service
	getErr      error
	attachCalls []workflows.AttachCouponInput
}

func (s *stubWorkflowService) Get(ctx context.Context, workflowID uuid.UUID) (*workflows.WorkflowDTO, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return &workflows.WorkflowDTO{ID: workflowID}, nil
}

func (s *stubWorkflowService) AttachCoupon(ctx context.Context, input workflows.AttachCouponInput) (*workflows.WorkflowDTO, error) {
	s.attachCalls = append(s.attachCalls, input)
	return &workflows.WorkflowDTO{ID: input.WorkflowID}, nil
}

func newCouponService(t *testing.T, repo Repository, provider commerce.Provider, workflowSvc workflows.Service) Service {
	t.Helper()
	svc, err := NewService(repo, provider, workflowSvc, "0.10", logger.New(logger.Options{ServiceName: "test"}))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestProvisionCreatesProviderSideFirst(t *testing.T) {
	repo := &stubCouponRepo{}
	provider := &stubProvider{}
	workflowSvc := &stubWorkflowService{}
	svc := newCouponService(t, repo, provider, workflowSvc)

	workflowID := uuid.New()
	dto, err := svc.Provision(context.Background(), ProvisionInput{
		WorkflowID: workflowID,
		Code:       "  jamie10 ",
	})
	if err != nil {
		t.Fatalf("Provision: %v", err)
	}
	if dto.Code != "JAMIE10" {
		t.Fatalf("expected normalized code JAMIE10, got %q", dto.Code)
	}
	if len(provider.creates) != 1 || provider.creates[0] != "JAMIE10" {
		t.Fatalf("expected provider create, got %v", provider.creates)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected one persisted coupon, got %d", len(repo.created))
	}
	if len(workflowSvc.attachCalls) != 1 || *workflowSvc.attachCalls[0].CouponCode != "JAMIE10" {
		t.Fatalf("expected coupon attached to workflow, got %+v", workflowSvc.attachCalls)
	}
	if !dto.CommissionRate.Equal(decimal.RequireFromString("0.10")) {
		t.Fatalf("expected commission rate 0.10, got %s", dto.CommissionRate)
	}
}

func TestProvisionProviderFailureLeavesNoLocalState(t *testing.T) {
	repo := &stubCouponRepo{}
	provider := &stubProvider{createErr: pkgerrors.New(pkgerrors.CodeDependency, "shop unreachable")}
	workflowSvc := &stubWorkflowService{}
	svc := newCouponService(t, repo, provider, workflowSvc)

	_, err := svc.Provision(context.Background(), ProvisionInput{WorkflowID: uuid.New(), Code: "X10"})
	if err == nil {
		t.Fatal("expected error")
	}
	if len(repo.created) != 0 || len(workflowSvc.attachCalls) != 0 {
		t.Fatal("provider failure must not persist or attach")
	}
}

func TestProvisionRejectsDuplicateCoupon(t *testing.T) {
	repo := &stubCouponRepo{byWorkflow: &models.Coupon{ID: uuid.New(), Code: "OLD10"}}
	svc := newCouponService(t, repo, &stubProvider{}, &stubWorkflowService{})

	_, err := svc.Provision(context.Background(), ProvisionInput{WorkflowID: uuid.New(), Code: "NEW10"})
	if err == nil {
		t.Fatal("expected error")
	}
	if code := pkgerrors.As(err).Code(); code != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %s", code)
	}
}

func TestRemoveToleratesProviderNotFound(t *testing.T) {
	coupon := &models.Coupon{ID: uuid.New(), WorkflowID: uuid.New(), Code: "X10", ProviderRef: "ref-X10"}
	repo := &stubCouponRepo{byID: coupon}
	provider := &stubProvider{deleteErr: pkgerrors.New(pkgerrors.CodeNotFound, "code gone")}
	workflowSvc := &stubWorkflowService{}
	svc := newCouponService(t, repo, provider, workflowSvc)

	if err := svc.Remove(context.Background(), coupon.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != coupon.ID {
		t.Fatalf("expected row deleted, got %v", repo.deleted)
	}
	if len(workflowSvc.attachCalls) != 1 || workflowSvc.attachCalls[0].CouponCode != nil {
		t.Fatalf("expected coupon detached from workflow, got %+v", workflowSvc.attachCalls)
	}
}

func TestSyncCommissionsComputesRoundedTotals(t *testing.T) {
	coupon := models.Coupon{
		ID:             uuid.New(),
		Code:           "JAMIE10",
		CommissionRate: decimal.RequireFromString("0.10"),
	}
	repo := &stubCouponRepo{all: []models.Coupon{coupon}}
	provider := &stubProvider{orders: map[string][]commerce.Order{
		"JAMIE10": {
			{Total: decimal.RequireFromString("19.99")},
			{Total: decimal.RequireFromString("35.50")},
			{Total: decimal.RequireFromString("12.34")},
		},
	}}
	svc := newCouponService(t, repo, provider, &stubWorkflowService{})

	if err := svc.SyncCommissions(context.Background()); err != nil {
		t.Fatalf("SyncCommissions: %v", err)
	}
	if len(repo.saved) != 1 {
		t.Fatalf("expected one save, got %d", len(repo.saved))
	}
	saved := repo.saved[0]
	if !saved.SalesTotal.Equal(decimal.RequireFromString("67.83")) {
		t.Fatalf("expected sales total 67.83, got %s", saved.SalesTotal)
	}
	// 67.83 * 0.10 = 6.783, rounded half-up to cents.
	if !saved.CommissionTotal.Equal(decimal.RequireFromString("6.78")) {
		t.Fatalf("expected commission 6.78, got %s", saved.CommissionTotal)
	}
	if saved.OrdersCount != 3 {
		t.Fatalf("expected 3 orders, got %d", saved.OrdersCount)
	}
	if saved.LastSyncedAt == nil {
		t.Fatal("expected sync timestamp")
	}
}

func TestSyncCommissionsCollectsPerCouponFailures(t *testing.T) {
	repo := &stubCouponRepo{all: []models.Coupon{
		{ID: uuid.New(), Code: "GOOD10", CommissionRate: decimal.RequireFromString("0.10")},
		{ID: uuid.New(), Code: "BAD10", CommissionRate: decimal.RequireFromString("0.10")},
	}}
	provider := &stubProvider{
		orders:    map[string][]commerce.Order{"GOOD10": {{Total: decimal.RequireFromString("10.00")}}},
		ordersErr: map[string]error{"BAD10": errors.New("provider timeout")},
	}
	svc := newCouponService(t, repo, provider, &stubWorkflowService{})

	err := svc.SyncCommissions(context.Background())
	if err == nil {
		t.Fatal("expected aggregated error")
	}
	if len(repo.saved) != 1 || repo.saved[0].Code != "GOOD10" {
		t.Fatalf("healthy coupon must still sync, got %v", repo.saved)
	}
}

func TestNewServiceRejectsBadCommissionRate(t *testing.T) {
	_, err := NewService(&stubCouponRepo{}, &stubProvider{}, &stubWorkflowService{}, "ten percent", logger.New(logger.Options{ServiceName: "test"}))
	if err == nil {
		t.Fatal("expected error for unparsable rate")
	}
}
