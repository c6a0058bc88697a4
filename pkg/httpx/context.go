package httpx

import "context"

type ctxKey string

const (
	ctxKeyUserID   ctxKey = "user_id"
	ctxKeyClientIP ctxKey = "client_ip"
)

// WithUserID records the authenticated user id for downstream middleware
// such as per-user rate limiting.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxKeyUserID, userID)
}

// UserIDFromContext returns the user id stored by WithUserID, if any.
func UserIDFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(ctxKeyUserID).(string)
	return v, ok && v != ""
}

// ClientIPFromContext returns the address resolved by the ClientIP
// middleware, if it ran.
func ClientIPFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(ctxKeyClientIP).(string)
	return v, ok && v != ""
}
