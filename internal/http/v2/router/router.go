// Package router contains the V2 route aggregator.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/hellosocial/internal/http/v2/controllers"
	httperrors "github.com/dropDatabas3/hellosocial/internal/http/v2/errors"
	mw "github.com/dropDatabas3/hellosocial/internal/http/v2/middlewares"
	"github.com/dropDatabas3/hellosocial/internal/metrics"
	"github.com/dropDatabas3/hellosocial/internal/rate"
	"github.com/dropDatabas3/hellosocial/internal/session"
)

// Deps contains all dependencies for the V2 router.
type Deps struct {
	Controllers *controllers.Controllers
	Session     *session.Manager

	// Metrics es opcional: nil deshabilita /metrics.
	Metrics http.Handler

	// RateLimiter es opcional: nil deshabilita el límite en /connect/{provider}.
	RateLimiter rate.Limiter
}

// New builds the chi router with every route registered.
func New(deps Deps) http.Handler {
	r := chi.NewRouter()

	// Base para todo: recover + request id. El method override corre antes
	// del ruteo para que un form con _method=delete matchee la ruta DELETE.
	r.Use(mw.WithRecover(), mw.WithRequestID(), mw.WithMethodOverride())

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
	})

	RegisterHealthRoutes(r, HealthRouterDeps{Controllers: deps.Controllers.Health})

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", mw.Chain(deps.Metrics, mw.WithNoStore()))
	}

	r.Group(func(r chi.Router) {
		r.Use(appMiddlewares(deps.Session)...)
		RegisterHomeRoutes(r, HomeRouterDeps{Controllers: deps.Controllers.Home})
		RegisterConnectRoutes(r, ConnectRouterDeps{
			Controllers: deps.Controllers.Connect,
			RateLimiter: deps.RateLimiter,
		})
	})

	return r
}

// appMiddlewares es la cadena de las páginas HTML.
func appMiddlewares(sessions *session.Manager) []func(http.Handler) http.Handler {
	chain := []mw.Middleware{
		mw.WithLogging(),
		mw.WithSecurityHeaders(),
		mw.WithNoStore(),
		mw.WithSession(sessions),
		metrics.WithMetrics,
	}
	out := make([]func(http.Handler) http.Handler, len(chain))
	for i, m := range chain {
		out[i] = m
	}
	return out
}
