package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aussiebroadwan/fruitshop/pkg/cryptox"
	"github.com/aussiebroadwan/fruitshop/pkg/jwtx"
)

const (
	CookieName = "shop_session"
	issuer     = "fruitshop"
)

type Options struct {
	TTL    time.Duration
	Secure bool
}

// Manager binds cookies to stored session data.
type Manager struct {
	store    Store
	signer   jwtx.Signer
	verifier jwtx.Verifier
	opts     Options
	now      func() time.Time
	locks    keyedMutex
}

func NewManager(store Store, secret []byte, opts Options) (*Manager, error) {
	signer, err := jwtx.NewSignerHS256(secret)
	if err != nil {
		return nil, err
	}
	if opts.TTL <= 0 {
		opts.TTL = jwtx.DefaultSessionTTL
	}
	m := &Manager{store: store, signer: signer, opts: opts, now: time.Now}
	m.verifier = jwtx.NewVerifierHS256(secret, issuer).WithClock(func() time.Time { return m.now() })
	return m, nil
}

// Ping reports whether the backing store is reachable.
func (m *Manager) Ping(ctx context.Context) error { return m.store.Ping(ctx) }

// Load returns the session named by the request cookie. A missing, forged,
// expired or unknown cookie yields a fresh empty session; only store
// failures are returned as errors.
func (m *Manager) Load(ctx context.Context, r *http.Request) (*Session, error) {
	s := &Session{m: m}

	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return s, nil
	}

	claims, err := m.verifier.Verify(cookie.Value)
	if err != nil {
		return s, nil
	}

	raw, err := m.store.Load(ctx, key(claims.SID))
	if errors.Is(err, ErrNotFound) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session: load: %w", err)
	}

	var data Data
	if err := json.Unmarshal(raw, &data); err != nil {
		// Unreadable state is treated like no state.
		return s, nil
	}

	s.id = claims.SID
	s.data = data
	return s, nil
}

func (m *Manager) save(ctx context.Context, w http.ResponseWriter, s *Session) error {
	if !s.changed {
		return nil
	}

	if s.staleID != "" {
		if err := m.store.Delete(ctx, key(s.staleID)); err != nil {
			return fmt.Errorf("session: delete: %w", err)
		}
		s.staleID = ""
	}

	if s.data.empty() {
		if s.id != "" {
			if err := m.store.Delete(ctx, key(s.id)); err != nil {
				return fmt.Errorf("session: delete: %w", err)
			}
			s.id = ""
		}
		m.clearCookie(w)
		s.changed = false
		return nil
	}

	if s.id == "" {
		id, err := cryptox.GenerateToken(cryptox.TokenSize256)
		if err != nil {
			return fmt.Errorf("session: new id: %w", err)
		}
		s.id = id
	}

	raw, err := json.Marshal(s.data)
	if err != nil {
		return fmt.Errorf("session: marshal: %w", err)
	}

	now := m.now()
	expiresAt := now.Add(m.opts.TTL)
	if err := m.store.Save(ctx, key(s.id), raw, expiresAt); err != nil {
		return fmt.Errorf("session: save: %w", err)
	}

	token, err := m.signer.Sign(jwtx.NewSessionClaims(s.id, issuer, m.opts.TTL, now))
	if err != nil {
		return fmt.Errorf("session: sign: %w", err)
	}

	m.setCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(m.opts.TTL.Seconds()),
		HttpOnly: true,
		Secure:   m.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	s.changed = false
	return nil
}

func (m *Manager) clearCookie(w http.ResponseWriter) {
	m.setCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// setCookie replaces any cookie of the same name already queued on w, so
// saving twice in one request leaves a single Set-Cookie.
func (m *Manager) setCookie(w http.ResponseWriter, c *http.Cookie) {
	h := w.Header()
	kept := h.Values("Set-Cookie")[:0:0]
	for _, v := range h.Values("Set-Cookie") {
		if parsed, err := http.ParseSetCookie(v); err == nil && parsed.Name == c.Name {
			continue
		}
		kept = append(kept, v)
	}
	h.Del("Set-Cookie")
	for _, v := range kept {
		h.Add("Set-Cookie", v)
	}
	if v := c.String(); v != "" {
		h.Add("Set-Cookie", v)
	}
}

// key is what the store sees; raw session ids never leave the cookie.
func key(id string) string { return cryptox.FingerprintToken(id) }
