package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/miguelantunes/partnerflow-backend/api/middleware"
	"github.com/miguelantunes/partnerflow-backend/api/responses"
	"github.com/miguelantunes/partnerflow-backend/api/validators"
	"github.com/miguelantunes/partnerflow-backend/internal/workflows"
	pkgerrors "github.com/miguelantunes/partnerflow-backend/pkg/errors"
	"github.com/miguelantunes/partnerflow-backend/pkg/logger"
)

func portalInfluencerID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(middleware.InfluencerIDFromContext(r.Context()))
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing portal identity")
	}
	return id, nil
}

// PortalWorkflowGet returns the influencer's active workflow.
func PortalWorkflowGet(svc workflows.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		influencerID, err := portalInfluencerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.GetActiveByInfluencer(r.Context(), influencerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// PortalWorkflowAdvance lets the influencer complete their side of the
// current step. Admin-only steps reject the portal actor.
func PortalWorkflowAdvance(svc workflows.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		influencerID, err := portalInfluencerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body workflows.StepData
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.PortalAdvance(r.Context(), workflows.PortalAdvanceInput{
			InfluencerID: influencerID,
			Data:         &body,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
