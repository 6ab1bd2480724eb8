package middlewares

import (
	"net/http"

	"github.com/dropDatabas3/hellosocial/internal/observability/logger"
	"github.com/dropDatabas3/hellosocial/internal/session"
)

// WithSession asegura la cookie de sesión e inyecta su id como user ID.
// Debe ir después de WithLogging para que el logger del request lo incluya.
func WithSession(mgr *session.Manager) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			id, fresh := mgr.Ensure(w, r)
			if fresh {
				logger.From(ctx).Debug("session issued", logger.UserID(id))
				ctx = withFreshSession(ctx)
			}
			ctx = logger.With(WithUserID(ctx, id), logger.UserID(id))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithMethodOverride convierte POST con _method=delete|put en ese método.
// HTML forms only send GET and POST.
func WithMethodOverride() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost {
				switch m := r.FormValue("_method"); m {
				case "delete", "DELETE":
					r.Method = http.MethodDelete
				case "put", "PUT":
					r.Method = http.MethodPut
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
