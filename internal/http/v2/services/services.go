// Package services agrupa todos los services HTTP V2.
// Este es el "composition root" de services.
//
// Cada dominio vive en services/{dominio}/ con su {nombre}_service.go y un
// services.go que expone Deps, Services y NewServices. Este paquete los
// agrupa para que el wiring construya todo con una sola llamada:
//
//	svcs := services.New(deps)
//	ctrls := controllers.New(svcs)
package services

import (
	"github.com/dropDatabas3/hellosocial/internal/http/v2/services/health"
	"github.com/dropDatabas3/hellosocial/internal/http/v2/services/social"
)

// Deps contiene las dependencias base para crear los services.
type Deps struct {
	// ─── Dominio ───
	Social social.Deps

	// ─── Health Check ───
	HealthDeps health.Deps
}

// Services agrupa todos los sub-services por dominio.
type Services struct {
	Social social.Services
	Health health.Services
}

// New crea el aggregator de services.
func New(d Deps) *Services {
	return &Services{
		Social: social.NewServices(d.Social),
		Health: health.NewServices(d.HealthDeps),
	}
}
