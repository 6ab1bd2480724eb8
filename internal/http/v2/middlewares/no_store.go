package middlewares

import "net/http"

// WithNoStore evita que proxies o el browser cacheen páginas que dependen
// de la cookie de sesión (perfil, estado de conexiones).
func WithNoStore() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Cache-Control", "no-store")
			h.Set("Pragma", "no-cache")
			h.Add("Vary", "Cookie")
			next.ServeHTTP(w, r)
		})
	}
}
