// Package controllers agrupa todos los controllers HTTP V2.
// Este es el "composition root" de controllers.
//
// Cada dominio vive en controllers/{dominio}/ con su {nombre}_controller.go
// y un aggregator Controllers/NewControllers. El flujo de inicialización es:
//
//	svcs := services.New(deps)
//	ctrls := controllers.New(svcs)
//	handler := router.New(router.Deps{Controllers: ctrls, ...})
package controllers

import (
	"github.com/dropDatabas3/hellosocial/internal/http/v2/controllers/connect"
	"github.com/dropDatabas3/hellosocial/internal/http/v2/controllers/health"
	"github.com/dropDatabas3/hellosocial/internal/http/v2/controllers/home"
	"github.com/dropDatabas3/hellosocial/internal/http/v2/services"
)

// Controllers agrupa todos los controllers por dominio.
type Controllers struct {
	Home    *home.Controllers
	Connect *connect.Controllers
	Health  *health.Controllers
}

// New crea el aggregator de controllers a partir de los services.
func New(s *services.Services) *Controllers {
	return &Controllers{
		Home:    home.NewControllers(s.Social),
		Connect: connect.NewControllers(s.Social),
		Health:  health.NewControllers(s.Health),
	}
}
