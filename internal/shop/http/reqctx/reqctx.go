// Package reqctx carries per-request state between middleware and handlers.
package reqctx

import (
	"context"

	"github.com/aussiebroadwan/fruitshop/internal/shop/domain"
	"github.com/aussiebroadwan/fruitshop/internal/shop/session"
)

// Request is created once per request by the session middleware. Guards
// fill in User after reloading it from the store.
type Request struct {
	Session *session.Session
	User    *domain.User
}

type ctxKey struct{}

func With(ctx context.Context, r *Request) context.Context {
	return context.WithValue(ctx, ctxKey{}, r)
}

// From returns the request state, or nil outside the session middleware.
func From(ctx context.Context) *Request {
	r, _ := ctx.Value(ctxKey{}).(*Request)
	return r
}
