// Package connect contiene el controller de /connect.
package connect

import (
	"errors"
	"net/http"

	dto "github.com/dropDatabas3/hellosocial/internal/http/v2/dto/social"
	httperrors "github.com/dropDatabas3/hellosocial/internal/http/v2/errors"
	"github.com/dropDatabas3/hellosocial/internal/http/v2/helpers"
	mw "github.com/dropDatabas3/hellosocial/internal/http/v2/middlewares"
	svc "github.com/dropDatabas3/hellosocial/internal/http/v2/services/social"
	"github.com/dropDatabas3/hellosocial/internal/http/v2/views"
	"github.com/dropDatabas3/hellosocial/internal/observability/logger"
	"github.com/dropDatabas3/hellosocial/internal/social"
)

// ConnectController maneja el alta y baja de conexiones.
type ConnectController struct {
	service svc.ConnectService
}

func NewConnectController(service svc.ConnectService) *ConnectController {
	return &ConnectController{service: service}
}

func (c *ConnectController) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	appErr := helpers.SocialError(err)
	log := logger.From(r.Context()).With(logger.Layer("controller"), logger.Op(op))
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		log.Error("connect request failed", logger.String("code", appErr.Code), logger.Err(err))
	} else {
		log.Warn("connect request rejected", logger.String("code", appErr.Code), logger.Err(err))
	}
	httperrors.WriteError(w, appErr)
}

// Status maneja GET /connect
func (c *ConnectController) Status(w http.ResponseWriter, r *http.Request) {
	rows, err := c.service.Status(r.Context(), mw.GetUserID(r.Context()))
	if err != nil {
		c.fail(w, r, "ConnectController.Status", err)
		return
	}
	out := make([]views.ProviderStatus, len(rows))
	for i, row := range rows {
		out[i] = views.ProviderStatus{Provider: row.Provider, Connected: row.Connected}
	}
	views.Render(w, r, http.StatusOK, views.ConnectStatus(out))
}

// Show maneja GET /connect/{provider}. With code, state or error in the
// query it is the OAuth callback.
func (c *ConnectController) Show(w http.ResponseWriter, r *http.Request) {
	provider, err := helpers.ProviderParam(r)
	if err != nil {
		c.fail(w, r, "ConnectController.Show", err)
		return
	}

	q := r.URL.Query()
	if q.Has("code") || q.Has("error") || q.Has("state") {
		c.callback(w, r, provider)
		return
	}

	conn, err := c.service.Connection(r.Context(), mw.GetUserID(r.Context()), provider)
	switch {
	case errors.Is(err, social.ErrNoConnection):
		views.Render(w, r, http.StatusOK, views.Connect(provider))
	case err != nil:
		c.fail(w, r, "ConnectController.Show", err)
	default:
		views.Render(w, r, http.StatusOK, views.Connected(provider, conn))
	}
}

func (c *ConnectController) callback(w http.ResponseWriter, r *http.Request, provider social.ProviderID) {
	q := r.URL.Query()
	req := dto.CallbackRequest{
		Provider:         provider,
		UserID:           mw.GetUserID(r.Context()),
		Code:             q.Get("code"),
		State:            q.Get("state"),
		Error:            q.Get("error"),
		ErrorDescription: q.Get("error_description"),
	}

	_, err := c.service.Callback(r.Context(), req)
	if err != nil && !errors.Is(err, svc.ErrAccessDenied) {
		c.fail(w, r, "ConnectController.Callback", err)
		return
	}
	http.Redirect(w, r, provider.ConnectPath(), http.StatusFound)
}

// Start maneja POST /connect/{provider}
func (c *ConnectController) Start(w http.ResponseWriter, r *http.Request) {
	provider, err := helpers.ProviderParam(r)
	if err != nil {
		c.fail(w, r, "ConnectController.Start", err)
		return
	}
	res, err := c.service.Start(r.Context(), mw.GetUserID(r.Context()), provider)
	if err != nil {
		c.fail(w, r, "ConnectController.Start", err)
		return
	}
	http.Redirect(w, r, res.AuthorizationURL, http.StatusFound)
}

// Disconnect maneja DELETE /connect/{provider} (o POST con _method=delete).
func (c *ConnectController) Disconnect(w http.ResponseWriter, r *http.Request) {
	provider, err := helpers.ProviderParam(r)
	if err != nil {
		c.fail(w, r, "ConnectController.Disconnect", err)
		return
	}
	if err := c.service.Disconnect(r.Context(), mw.GetUserID(r.Context()), provider); err != nil {
		c.fail(w, r, "ConnectController.Disconnect", err)
		return
	}
	http.Redirect(w, r, provider.ConnectPath(), http.StatusFound)
}

// Controllers agrupa los controllers del dominio connect.
type Controllers struct {
	Connect *ConnectController
}

func NewControllers(s svc.Services) *Controllers {
	return &Controllers{Connect: NewConnectController(s.Connect)}
}
