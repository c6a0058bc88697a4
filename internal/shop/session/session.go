// Package session keeps typed per-visitor state on the server. The cookie
// only carries a signed token naming the session; the state itself lives in
// a Store.
package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/aussiebroadwan/fruitshop/internal/shop/domain"
)

// ErrNotFound is returned by a Store for unknown or expired sessions.
var ErrNotFound = errors.New("session: not found")

// Store persists encoded session data under an opaque key.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte, expiresAt time.Time) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}

// Auth marks a fully authenticated visitor. Balance is a snapshot taken at
// login; the store stays authoritative for checkout.
type Auth struct {
	UserID   int64           `json:"user_id"`
	Username string          `json:"username"`
	Role     domain.Role     `json:"role"`
	Balance  decimal.Decimal `json:"balance"`
}

type FlashKind string

const (
	FlashInfo  FlashKind = "info"
	FlashError FlashKind = "error"
)

type Flash struct {
	Kind    FlashKind `json:"kind"`
	Message string    `json:"message"`
}

// Data is everything a session can hold.
type Data struct {
	Auth                *Auth                       `json:"auth,omitempty"`
	PendingLogin        *domain.PendingLogin        `json:"pending_login,omitempty"`
	PendingRegistration *domain.PendingRegistration `json:"pending_registration,omitempty"`
	Flashes             []Flash                     `json:"flashes,omitempty"`
}

func (d Data) empty() bool {
	return d.Auth == nil && d.PendingLogin == nil && d.PendingRegistration == nil && len(d.Flashes) == 0
}

// Session is the in-request handle. Mutations are kept in memory until Save.
type Session struct {
	m       *Manager
	id      string
	staleID string
	data    Data
	changed bool
}

func (s *Session) Auth() *Auth { return s.data.Auth }

func (s *Session) SetAuth(a *Auth) {
	s.data.Auth = a
	s.changed = true
}

func (s *Session) PendingLogin() *domain.PendingLogin { return s.data.PendingLogin }

func (s *Session) SetPendingLogin(p *domain.PendingLogin) {
	s.data.PendingLogin = p
	s.changed = true
}

func (s *Session) PendingRegistration() *domain.PendingRegistration {
	return s.data.PendingRegistration
}

func (s *Session) SetPendingRegistration(p *domain.PendingRegistration) {
	s.data.PendingRegistration = p
	s.changed = true
}

// AddFlash queues a one-shot message for the next rendered page.
func (s *Session) AddFlash(kind FlashKind, msg string) {
	s.data.Flashes = append(s.data.Flashes, Flash{Kind: kind, Message: msg})
	s.changed = true
}

// Flashes returns and clears the queued messages.
func (s *Session) Flashes() []Flash {
	out := s.data.Flashes
	if len(out) > 0 {
		s.data.Flashes = nil
		s.changed = true
	}
	return out
}

// Reset drops all state and rotates the session id on the next Save.
// Queued flashes survive so a redirect after logout can still show one.
func (s *Session) Reset() {
	if s.id != "" {
		s.staleID = s.id
	}
	s.id = ""
	s.data = Data{Flashes: s.data.Flashes}
	s.changed = true
}

// Save persists pending changes and refreshes the cookie. It must run
// before the response header is written.
func (s *Session) Save(ctx context.Context, w http.ResponseWriter) error {
	return s.m.save(ctx, w, s)
}
