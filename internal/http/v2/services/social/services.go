// Package social contiene los services del home y del flujo de conexión.
package social

import (
	"github.com/dropDatabas3/hellosocial/internal/social"
)

// Deps contiene las dependencias de los services sociales.
type Deps struct {
	Registry     *social.Registry
	Repo         social.ConnectionRepository
	State        *social.StateSigner
	HomeProvider social.ProviderID
}

// Services agrupa los services del dominio.
type Services struct {
	Home    HomeService
	Connect ConnectService
}

func NewServices(d Deps) Services {
	return Services{
		Home:    NewHomeService(d),
		Connect: NewConnectService(d),
	}
}
