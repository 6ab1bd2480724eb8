// Package social contiene los DTOs del flujo de conexión.
package social

import "github.com/dropDatabas3/hellosocial/internal/social"

// CallbackRequest is what the provider sends back to GET /connect/{provider}.
type CallbackRequest struct {
	Provider         social.ProviderID
	UserID           string
	Code             string
	State            string
	Error            string
	ErrorDescription string
}

// StartResponse lleva la URL de autorización del proveedor.
type StartResponse struct {
	AuthorizationURL string
}

// ProviderStatus is one row of GET /connect.
type ProviderStatus struct {
	Provider  social.ProviderID
	Connected bool
}

// HomeResponse is either a redirect or a view model, never both.
type HomeResponse struct {
	Provider  social.ProviderID
	Redirect  string
	ViewModel social.ViewModel
}
