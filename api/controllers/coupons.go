package controllers

import (
	"net/http"

	"github.com/miguelantunes/partnerflow-backend/api/responses"
	"github.com/miguelantunes/partnerflow-backend/api/validators"
	"github.com/miguelantunes/partnerflow-backend/internal/coupons"
	"github.com/miguelantunes/partnerflow-backend/pkg/logger"
)

// WorkflowCouponProvision creates the discount code on the commerce platform
// and attaches it to the workflow.
func WorkflowCouponProvision(svc coupons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "workflowId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body coupons.ProvisionInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		body.WorkflowID = id
		body.Actor = actorFromContext(r)

		result, err := svc.Provision(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

func WorkflowCouponGet(svc coupons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "workflowId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.GetByWorkflow(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func CouponRemove(svc coupons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "couponId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Remove(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "removed"})
	}
}
