// Package home contiene el controller de GET /.
package home

import (
	"net/http"

	"github.com/dropDatabas3/hellosocial/internal/http/v2/helpers"
	mw "github.com/dropDatabas3/hellosocial/internal/http/v2/middlewares"
	svc "github.com/dropDatabas3/hellosocial/internal/http/v2/services/social"
	"github.com/dropDatabas3/hellosocial/internal/http/v2/views"
	"github.com/dropDatabas3/hellosocial/internal/observability/logger"

	httperrors "github.com/dropDatabas3/hellosocial/internal/http/v2/errors"
)

// HomeController renders the profile of the home provider.
type HomeController struct {
	service svc.HomeService
}

func NewHomeController(service svc.HomeService) *HomeController {
	return &HomeController{service: service}
}

// Home maneja GET /
func (c *HomeController) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	res, err := c.service.Home(ctx, mw.GetUserID(ctx))
	if err != nil {
		ctx = logger.With(ctx, logger.Layer("controller"), logger.Op("HomeController.Home"))
		httperrors.Write(w, r.WithContext(ctx), helpers.SocialError(err))
		return
	}

	if res.Redirect != "" {
		http.Redirect(w, r, res.Redirect, http.StatusFound)
		return
	}

	views.Render(w, r, http.StatusOK, views.Hello(res.Provider, res.ViewModel))
}

// Controllers agrupa los controllers del dominio home.
type Controllers struct {
	Home *HomeController
}

func NewControllers(s svc.Services) *Controllers {
	return &Controllers{Home: NewHomeController(s.Home)}
}
