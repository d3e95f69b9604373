package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/dmitrymomot/tenantgate/pkg/access"
	"github.com/dmitrymomot/tenantgate/pkg/httpserver"
	"github.com/dmitrymomot/tenantgate/pkg/identity"
	"github.com/dmitrymomot/tenantgate/pkg/logger"
	"github.com/dmitrymomot/tenantgate/pkg/metrics"
	"github.com/dmitrymomot/tenantgate/pkg/pgstore"
	"github.com/dmitrymomot/tenantgate/pkg/plans"
	"github.com/dmitrymomot/tenantgate/pkg/quota"
	"github.com/dmitrymomot/tenantgate/pkg/requestid"
	"github.com/dmitrymomot/tenantgate/pkg/subscription"
)

// SessionHeader carries the client session whose subscription view is cached.
const SessionHeader = "X-Session-ID"

// ProjectCreator creates a project only while the organization is below limit.
// It returns quota.ErrQuotaExceeded otherwise.
type ProjectCreator interface {
	Create(ctx context.Context, orgID uuid.UUID, name string, limit int64) (pgstore.Project, error)
}

// Deps are the collaborators behind the HTTP surface. Facade, Subscriptions,
// Quotas, Catalog and Tokens are required. The projects route is mounted only
// when Projects is set.
type Deps struct {
	Facade        *access.Facade
	Subscriptions *subscription.Manager
	Quotas        *quota.Engine
	Catalog       *plans.Catalog
	Tokens        *identity.Service
	Projects      ProjectCreator
	Metrics       *metrics.Collector
	Logger        *slog.Logger
	Ready         []httpserver.Check
}

type handler struct {
	Deps
	log *slog.Logger
}

// NewRouter builds the chi router for the v1 API plus health and metrics endpoints.
func NewRouter(d Deps) http.Handler {
	if d.Facade == nil || d.Subscriptions == nil || d.Quotas == nil || d.Catalog == nil || d.Tokens == nil {
		panic("api: facade, subscriptions, quotas, catalog and tokens are required")
	}
	if d.Logger == nil {
		d.Logger = logger.Discard()
	}
	h := &handler{Deps: d, log: d.Logger.With(logger.Component("api"))}

	r := chi.NewRouter()
	r.Use(requestid.Middleware, middleware.Recoverer, h.observe)

	r.Get("/healthz", httpserver.Liveness())
	r.Get("/readyz", httpserver.Readiness(h.log, 2*time.Second, d.Ready...))
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())
	}

	r.Route("/v1", func(r chi.Router) {
		r.Get("/plans", h.listPlans)

		r.Group(func(r chi.Router) {
			r.Use(identity.Middleware(identity.MiddlewareConfig{
				Service:      d.Tokens,
				Optional:     true,
				ErrorHandler: h.tokenError,
			}))

			r.Post("/authorize", h.authorize)
			r.Get("/me/modules", h.myModules)
			r.Delete("/sessions/{session}", h.closeSession)

			r.Route("/organizations/{org}", func(r chi.Router) {
				r.Get("/subscriptions", h.listSubscriptions)
				r.Route("/applications/{app}", func(r chi.Router) {
					r.Get("/access", h.checkAccess)
					r.Get("/quota", h.quotaReport)
					r.Post("/trial", h.startTrial)
					r.Post("/activate", h.activate)
					r.Post("/cancel", h.cancel)
					if d.Projects != nil {
						r.Post("/projects", h.createProject)
					}
				})
			})
		})
	})
	return r
}

// observe counts and logs every request by route pattern.
func (h *handler) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := ""
		if rc := chi.RouteContext(r.Context()); rc != nil {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		h.Metrics.RecordHTTPRequest(r.Method, route, status, time.Since(start))
		h.log.DebugContext(r.Context(), "request handled",
			slog.String("method", r.Method),
			slog.String("route", route),
			slog.Int("status", status),
			logger.Duration(time.Since(start)),
		)
	})
}

func (h *handler) tokenError(w http.ResponseWriter, _ *http.Request, err error) {
	writeError(w, http.StatusUnauthorized, "unauthenticated", err.Error())
}
