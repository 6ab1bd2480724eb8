package middlewares

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dropDatabas3/hellosocial/internal/http/v2/errors"
	"github.com/dropDatabas3/hellosocial/internal/observability/logger"
	"github.com/dropDatabas3/hellosocial/internal/rate"
)

// RateKeyFunc define cómo generar la clave de rate limiting.
type RateKeyFunc func(r *http.Request) string

// SessionRateKey usa el id de sesión, o la IP si el cliente no trajo cookie.
// Una sesión recién emitida no cuenta: un cliente sin cookies tendría un
// contador nuevo en cada request. Debe ir después de WithSession.
func SessionRateKey(r *http.Request) string {
	ctx := r.Context()
	if uid := GetUserID(ctx); uid != "" && !IsFreshSession(ctx) {
		return "sid:" + uid
	}
	return "ip:" + clientIP(r)
}

// RateLimitConfig configura el comportamiento del middleware de rate limiting.
type RateLimitConfig struct {
	Limiter rate.Limiter
	KeyFunc RateKeyFunc
}

// WithRateLimit crea un middleware de rate limiting. Sin limiter es un no-op;
// un error del limiter deja pasar el request.
func WithRateLimit(cfg RateLimitConfig) Middleware {
	if cfg.Limiter == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = SessionRateKey
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res, err := cfg.Limiter.Allow(r.Context(), cfg.KeyFunc(r))
			if err != nil {
				logger.From(r.Context()).Warn("rate limit check failed", logger.Err(err))
				next.ServeHTTP(w, r)
				return
			}

			if res.WindowTTL > 0 {
				resetAt := time.Now().Add(res.WindowTTL).Unix()
				w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetAt, 10))
			}
			if !res.Allowed {
				if res.RetryAfter > 0 {
					w.Header().Set("Retry-After", strconv.Itoa(int(res.RetryAfter.Seconds())))
				}
				errors.WriteError(w, errors.ErrRateLimitExceeded)
				return
			}

			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(res.Remaining, 10))
			next.ServeHTTP(w, r)
		})
	}
}
