package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/miguelantunes/partnerflow-backend/internal/workflows"
	"github.com/miguelantunes/partnerflow-backend/pkg/logger"
)

type stubWorkflowService struct {
	workflows.Service

	attachInput *workflows.AttachCouponInput
	attachDTO   *workflows.WorkflowDTO
	attachErr   error
}

func (s *stubWorkflowService) AttachCoupon(ctx context.Context, input workflows.AttachCouponInput) (*workflows.WorkflowDTO, error) {
	s.attachInput = &input
	if s.attachErr != nil {
		return nil, s.attachErr
	}
	return s.attachDTO, nil
}

func couponAttachRouter(svc workflows.Service) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test"})
	r := chi.NewRouter()
	r.Put("/workflows/{workflowId}/coupon", WorkflowCouponAttach(svc, logg))
	return r
}

func TestWorkflowCouponAttachSetsCode(t *testing.T) {
	workflowID := uuid.New()
	code := "JAMIE10"
	svc := &stubWorkflowService{attachDTO: &workflows.WorkflowDTO{ID: workflowID, CouponCode: &code}}
	router := couponAttachRouter(svc)

	req := httptest.NewRequest(http.MethodPut, "/workflows/"+workflowID.String()+"/coupon", strings.NewReader(`{"couponCode":"JAMIE10"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.attachInput == nil || svc.attachInput.WorkflowID != workflowID {
		t.Fatalf("expected attach call for %s, got %+v", workflowID, svc.attachInput)
	}
	if svc.attachInput.CouponCode == nil || *svc.attachInput.CouponCode != "JAMIE10" {
		t.Fatalf("expected coupon code forwarded, got %v", svc.attachInput.CouponCode)
	}

	var envelope struct {
		Data workflows.WorkflowDTO `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.CouponCode == nil || *envelope.Data.CouponCode != "JAMIE10" {
		t.Fatalf("expected coupon code in response, got %v", envelope.Data.CouponCode)
	}
}

func TestWorkflowCouponAttachClearsCode(t *testing.T) {
	workflowID := uuid.New()
	svc := &stubWorkflowService{attachDTO: &workflows.WorkflowDTO{ID: workflowID}}
	router := couponAttachRouter(svc)

	req := httptest.NewRequest(http.MethodPut, "/workflows/"+workflowID.String()+"/coupon", strings.NewReader(`{"couponCode":null}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.attachInput == nil || svc.attachInput.CouponCode != nil {
		t.Fatalf("expected nil coupon code to clear, got %+v", svc.attachInput)
	}
}

func TestWorkflowCouponAttachRejectsBadID(t *testing.T) {
	svc := &stubWorkflowService{}
	router := couponAttachRouter(svc)

	req := httptest.NewRequest(http.MethodPut, "/workflows/not-a-uuid/coupon", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if svc.attachInput != nil {
		t.Fatal("service must not be called for an invalid id")
	}
}
