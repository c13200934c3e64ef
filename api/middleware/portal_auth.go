package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/miguelantunes/partnerflow-backend/api/responses"
	"github.com/miguelantunes/partnerflow-backend/internal/influencers"
	pkgerrors "github.com/miguelantunes/partnerflow-backend/pkg/errors"
	"github.com/miguelantunes/partnerflow-backend/pkg/logger"
)

type portalTokenResolver interface {
	ResolvePortalToken(ctx context.Context, token string) (*influencers.InfluencerDTO, error)
}

// PortalAuth validates the influencer portal token and seeds the context with
// the influencer identity. The token arrives as a bearer header or, for the
// initial portal link, a query parameter.
func PortalAuth(resolver portalTokenResolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				token = strings.TrimSpace(r.URL.Query().Get("token"))
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing portal token"))
				return
			}
			if resolver == nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "portal resolver unavailable"))
				return
			}

			influencer, err := resolver.ResolvePortalToken(r.Context(), token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			ctx := context.WithValue(r.Context(), ctxInfluencerID, influencer.ID.String())
			ctx = context.WithValue(ctx, ctxRole, "portal")

			if logg != nil {
				ctx = logg.WithInfluencerID(ctx, influencer.ID.String())
				ctx = logg.WithActorRole(ctx, "portal")
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
