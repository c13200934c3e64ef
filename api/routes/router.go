package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/miguelantunes/partnerflow-backend/api/controllers"
	"github.com/miguelantunes/partnerflow-backend/api/middleware"
	"github.com/miguelantunes/partnerflow-backend/internal/auth"
	"github.com/miguelantunes/partnerflow-backend/internal/coupons"
	"github.com/miguelantunes/partnerflow-backend/internal/influencers"
	"github.com/miguelantunes/partnerflow-backend/internal/workflows"
	"github.com/miguelantunes/partnerflow-backend/pkg/auth/session"
	"github.com/miguelantunes/partnerflow-backend/pkg/config"
	"github.com/miguelantunes/partnerflow-backend/pkg/enums"
	"github.com/miguelantunes/partnerflow-backend/pkg/logger"
	"github.com/miguelantunes/partnerflow-backend/pkg/redis"
)

// RouterParams bundles everything the HTTP surface depends on.
type RouterParams struct {
	Config      *config.Config
	Logger      *logger.Logger
	Redis       *redis.Client
	Sessions    session.AccessSessionChecker
	Readiness   map[string]controllers.Pinger
	Auth        auth.Service
	Influencers influencers.Service
	Workflows   workflows.Service
	Coupons     coupons.Service
}

func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.Window,
		cfg.AuthRateLimit.MaxAttempts,
		cfg.AuthRateLimit.MaxAttempts,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.Readiness))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/admin/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, p.Redis, logg)).Post("/login", controllers.AuthLogin(p.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(p.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(p.Auth, cfg.JWT, logg))
	})

	writerRoles := []string{
		enums.AdminRoleOwner.String(),
		enums.AdminRoleManager.String(),
	}

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, p.Sessions, logg))
		r.Use(middleware.Idempotency(p.Redis, logg))

		r.Route("/influencers", func(r chi.Router) {
			r.Get("/", controllers.InfluencerList(p.Influencers, logg))
			r.Get("/{influencerId}", controllers.InfluencerGet(p.Influencers, logg))
			r.Get("/{influencerId}/workflows", controllers.InfluencerListWorkflows(p.Workflows, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(logg, writerRoles...))
				r.Post("/", controllers.InfluencerCreate(p.Influencers, logg))
				r.Patch("/{influencerId}", controllers.InfluencerUpdate(p.Influencers, logg))
				r.Delete("/{influencerId}", controllers.InfluencerDelete(p.Influencers, logg))
				r.Post("/{influencerId}/portal-token", controllers.InfluencerIssuePortalToken(p.Influencers, logg))
				r.Post("/{influencerId}/workflows", controllers.InfluencerCreateWorkflow(p.Workflows, logg))
			})
		})

		r.Route("/workflows", func(r chi.Router) {
			r.Get("/{workflowId}", controllers.WorkflowGet(p.Workflows, logg))
			r.Get("/{workflowId}/coupon", controllers.WorkflowCouponGet(p.Coupons, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(logg, writerRoles...))
				r.Post("/{workflowId}/advance", controllers.WorkflowAdvance(p.Workflows, logg))
				r.Post("/{workflowId}/restart", controllers.WorkflowRestart(p.Workflows, logg))
				r.Post("/{workflowId}/coupon", controllers.WorkflowCouponProvision(p.Coupons, logg))
				r.Put("/{workflowId}/coupon", controllers.WorkflowCouponAttach(p.Workflows, logg))
			})
		})

		r.Route("/coupons", func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, writerRoles...))
			r.Delete("/{couponId}", controllers.CouponRemove(p.Coupons, logg))
		})
	})

	r.Route("/api/portal/v1", func(r chi.Router) {
		r.Use(middleware.PortalAuth(p.Influencers, logg))
		r.Use(middleware.Idempotency(p.Redis, logg))

		r.Get("/workflow", controllers.PortalWorkflowGet(p.Workflows, logg))
		r.Post("/workflow/advance", controllers.PortalWorkflowAdvance(p.Workflows, logg))
	})

	return r
}
