package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aussiebroadwan/fruitshop/internal/shop/domain"
	"github.com/aussiebroadwan/fruitshop/internal/shop/http/reqctx"
	"github.com/aussiebroadwan/fruitshop/internal/shop/session"
	"github.com/aussiebroadwan/fruitshop/internal/shop/store"
	"github.com/aussiebroadwan/fruitshop/pkg/httpx"
	"github.com/aussiebroadwan/fruitshop/pkg/slogx"
)

// UserLoader resolves the account behind a session.
type UserLoader interface {
	User(ctx context.Context, id int64) (domain.User, error)
}

// SessionMiddleware loads the visitor's session into the request context.
// Signed-in visitors also get their user id recorded for per-user rate
// limiting and on every log line.
func SessionMiddleware(m *session.Manager) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := m.Load(r.Context(), r)
			if err != nil {
				serverError(w, r, err)
				return
			}

			ctx := reqctx.With(r.Context(), &reqctx.Request{Session: sess})
			if a := sess.Auth(); a != nil {
				uid := strconv.FormatInt(a.UserID, 10)
				ctx = httpx.WithUserID(ctx, uid)
				ctx = slogx.With(ctx, "user_id", uid)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SerializeSession makes requests sharing a session cookie run one at a
// time. It wraps SessionMiddleware so the load, the handler and the save
// all happen under the lock.
func SerializeSession(m *session.Manager) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			unlock := m.Lock(r)
			defer unlock()
			next.ServeHTTP(w, r)
		})
	}
}

// CurrentUser reloads the signed-in user, if any, so pages can show the
// live balance. A session naming a deleted user is reset.
func CurrentUser(users UserLoader) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !resolveUser(w, r, users) {
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireUser sends visitors who are not signed in to /login.
func RequireUser(users UserLoader) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !resolveUser(w, r, users) {
				return
			}
			if reqctx.From(r.Context()).User == nil {
				redirect(w, r, "/login")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin sends visitors who are not signed in to /login and
// non-admins to the shop.
func RequireAdmin(users UserLoader) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !resolveUser(w, r, users) {
				return
			}
			u := reqctx.From(r.Context()).User
			switch {
			case u == nil:
				redirect(w, r, "/login")
			case !u.IsAdmin():
				redirect(w, r, "/")
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

// resolveUser fills reqctx.Request.User from the session. It reports false
// when it already answered the request.
func resolveUser(w http.ResponseWriter, r *http.Request, users UserLoader) bool {
	rc := reqctx.From(r.Context())
	if rc == nil {
		serverError(w, r, errors.New("session middleware not installed"))
		return false
	}

	auth := rc.Session.Auth()
	if auth == nil {
		return true
	}

	user, err := users.User(r.Context(), auth.UserID)
	if errors.Is(err, store.ErrNotFound) {
		slogx.FromContext(r.Context()).Info("session names a missing user", slog.Int64("user_id", auth.UserID))
		rc.Session.Reset()
		return true
	}
	if err != nil {
		serverError(w, r, err)
		return false
	}

	rc.User = &user
	return true
}
