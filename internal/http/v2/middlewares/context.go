package middlewares

import "context"

type ctxKey string

const (
	// ctxUserIDKey guarda el session id, dueño de las conexiones
	ctxUserIDKey ctxKey = "user_id"
	// ctxRequestIDKey guarda el request ID
	ctxRequestIDKey ctxKey = "request_id"
	// ctxFreshSessionKey marca una sesión emitida en este mismo request
	ctxFreshSessionKey ctxKey = "fresh_session"
)

// WithUserID inyecta el user ID en el contexto
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxUserIDKey, userID)
}

func withFreshSession(ctx context.Context) context.Context {
	return context.WithValue(ctx, ctxFreshSessionKey, true)
}

// IsFreshSession reports whether the session cookie was issued by this
// request, i.e. the client did not present one.
func IsFreshSession(ctx context.Context) bool {
	v, _ := ctx.Value(ctxFreshSessionKey).(bool)
	return v
}

func setRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxRequestIDKey, requestID)
}

// GetUserID obtiene el user ID del contexto. Vacío si WithSession no corrió.
func GetUserID(ctx context.Context) string {
	if v, ok := ctx.Value(ctxUserIDKey).(string); ok {
		return v
	}
	return ""
}

// GetRequestID obtiene el request ID del contexto.
func GetRequestID(ctx context.Context) string {
	if v, ok := ctx.Value(ctxRequestIDKey).(string); ok {
		return v
	}
	return ""
}
