package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/miguelantunes/partnerflow-backend/api/middleware"
	pkgerrors "github.com/miguelantunes/partnerflow-backend/pkg/errors"
	"github.com/miguelantunes/partnerflow-backend/pkg/outbox"
)

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid "+name)
	}
	return id, nil
}

// actorFromContext builds the event actor from the authenticated admin.
func actorFromContext(r *http.Request) *outbox.ActorRef {
	userID, err := uuid.Parse(middleware.UserIDFromContext(r.Context()))
	if err != nil {
		return nil
	}
	return &outbox.ActorRef{
		UserID: &userID,
		Role:   middleware.RoleFromContext(r.Context()),
	}
}

// portalActorFromContext builds the event actor from the portal token.
func portalActorFromContext(r *http.Request) *outbox.ActorRef {
	influencerID, err := uuid.Parse(middleware.InfluencerIDFromContext(r.Context()))
	if err != nil {
		return nil
	}
	return &outbox.ActorRef{
		InfluencerID: &influencerID,
		Role:         "portal",
	}
}
