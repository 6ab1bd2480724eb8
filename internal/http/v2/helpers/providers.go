package helpers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	httperrors "github.com/dropDatabas3/hellosocial/internal/http/v2/errors"
	socialsvc "github.com/dropDatabas3/hellosocial/internal/http/v2/services/social"
	"github.com/dropDatabas3/hellosocial/internal/social"
)

// ProviderParam lee {provider} de la ruta (case-insensitive).
func ProviderParam(r *http.Request) (social.ProviderID, error) {
	return social.ParseProviderID(chi.URLParam(r, "provider"))
}

// SocialError traduce errores del dominio social a AppError.
func SocialError(err error) *httperrors.AppError {
	var appErr *httperrors.AppError
	var provErr *social.ProviderError
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, social.ErrUnknownProvider), errors.Is(err, social.ErrProviderDisabled):
		return httperrors.ErrProviderNotFound.WithCause(err)
	case errors.Is(err, social.ErrInvalidState):
		return httperrors.ErrInvalidState.WithCause(err)
	case errors.Is(err, socialsvc.ErrMissingCode):
		return httperrors.ErrBadRequest.WithDetail(socialsvc.ErrMissingCode.Error()).WithCause(err)
	case errors.As(err, &provErr):
		return httperrors.ErrProviderError.WithDetail(string(provErr.Provider) + " " + provErr.Op + " failed").WithCause(err)
	default:
		return httperrors.ErrInternalServerError.WithCause(err)
	}
}
