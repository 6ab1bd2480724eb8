package router

import (
	"github.com/go-chi/chi/v5"

	connectctrl "github.com/dropDatabas3/hellosocial/internal/http/v2/controllers/connect"
	homectrl "github.com/dropDatabas3/hellosocial/internal/http/v2/controllers/home"
	mw "github.com/dropDatabas3/hellosocial/internal/http/v2/middlewares"
	"github.com/dropDatabas3/hellosocial/internal/rate"
)

// HomeRouterDeps contiene las dependencias para el router del home.
type HomeRouterDeps struct {
	Controllers *homectrl.Controllers
}

// RegisterHomeRoutes registra GET /.
func RegisterHomeRoutes(r chi.Router, deps HomeRouterDeps) {
	r.Get("/", deps.Controllers.Home.Home)
}

// ConnectRouterDeps contiene las dependencias para el router de conexiones.
type ConnectRouterDeps struct {
	Controllers *connectctrl.Controllers
	RateLimiter rate.Limiter // Opcional
}

// RegisterConnectRoutes registra /connect y /connect/{provider}.
func RegisterConnectRoutes(r chi.Router, deps ConnectRouterDeps) {
	c := deps.Controllers.Connect

	// GET /connect - estado de todos los providers
	r.Get("/connect", c.Status)

	// start, callback y disconnect llaman al provider o al store: limitados por sesión
	r = r.With(mw.WithRateLimit(mw.RateLimitConfig{Limiter: deps.RateLimiter}))

	// GET: página connect/connected, o callback OAuth con code|error
	r.Get("/connect/{provider}", c.Show)

	// POST: inicia el flujo OAuth
	r.Post("/connect/{provider}", c.Start)

	// DELETE (o POST con _method=delete): desconecta
	r.Delete("/connect/{provider}", c.Disconnect)
}
