package controllers

import (
	"net/http"

	"github.com/miguelantunes/partnerflow-backend/api/responses"
	"github.com/miguelantunes/partnerflow-backend/api/validators"
	"github.com/miguelantunes/partnerflow-backend/internal/workflows"
	"github.com/miguelantunes/partnerflow-backend/pkg/logger"
)

func WorkflowGet(svc workflows.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "workflowId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// WorkflowAdvance applies the submitted step data and moves the workflow to
// its next step.
func WorkflowAdvance(svc workflows.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "workflowId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body workflows.StepData
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Advance(r.Context(), workflows.AdvanceInput{
			WorkflowID: id,
			Data:       &body,
			Actor:      actorFromContext(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// WorkflowCouponAttach sets or clears the coupon code on the workflow record
// directly, without provisioning anything on the commerce platform.
func WorkflowCouponAttach(svc workflows.Service, logg *logger.Logger) http.HandlerFunc {
	type request struct {
		CouponCode *string `json:"couponCode"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "workflowId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body request
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.AttachCoupon(r.Context(), workflows.AttachCouponInput{
			WorkflowID: id,
			CouponCode: body.CouponCode,
			Actor:      actorFromContext(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// WorkflowRestart spawns a fresh run from a finished workflow.
func WorkflowRestart(svc workflows.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "workflowId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Restart(r.Context(), workflows.RestartInput{
			WorkflowID: id,
			Actor:      actorFromContext(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
