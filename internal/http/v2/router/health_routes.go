package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	ctrl "github.com/dropDatabas3/hellosocial/internal/http/v2/controllers/health"
)

// HealthRouterDeps contiene las dependencias para el router de health.
type HealthRouterDeps struct {
	Controllers *ctrl.Controllers
}

// RegisterHealthRoutes registra rutas de health check.
// Sin sesión ni logging por request (muy frecuentes).
func RegisterHealthRoutes(r chi.Router, deps HealthRouterDeps) {
	c := deps.Controllers

	// GET /readyz - readiness con chequeo del store
	r.Method(http.MethodGet, "/readyz", http.HandlerFunc(c.Health.Readyz))

	// GET /healthz - liveness
	r.Method(http.MethodGet, "/healthz", http.HandlerFunc(c.Health.Healthz))
}
