package session_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/fruitshop/internal/shop/domain"
	"github.com/aussiebroadwan/fruitshop/internal/shop/session"
	"github.com/aussiebroadwan/fruitshop/internal/shop/store/storetest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var secret = []byte("0123456789abcdef0123456789abcdef")

type memStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemStore() *memStore { return &memStore{data: map[string][]byte{}} }

func (m *memStore) Load(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, session.ErrNotFound
	}
	return v, nil
}

func (m *memStore) Save(_ context.Context, key string, data []byte, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = data
	return nil
}

func (m *memStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memStore) Ping(context.Context) error { return nil }

func (m *memStore) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	return nil
}

func load(t *testing.T, m *session.Manager, c *http.Cookie) *session.Session {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if c != nil {
		r.AddCookie(c)
	}
	s, err := m.Load(context.Background(), r)
	require.NoError(t, err)
	return s
}

func TestManagerRoundTrip(t *testing.T) {
	store := newMemStore()
	m, err := session.NewManager(store, secret, session.Options{})
	require.NoError(t, err)

	s := load(t, m, nil)
	require.Nil(t, s.Auth())

	s.SetAuth(&session.Auth{UserID: 7, Username: "alice", Role: domain.RoleUser, Balance: decimal.RequireFromString("12.50")})
	s.AddFlash(session.FlashInfo, "hello")
	rec := httptest.NewRecorder()
	require.NoError(t, s.Save(context.Background(), rec))

	c := sessionCookie(t, rec)
	require.NotNil(t, c)
	require.True(t, c.HttpOnly)
	require.Equal(t, 1, store.len())

	again := load(t, m, c)
	require.NotNil(t, again.Auth())
	require.Equal(t, int64(7), again.Auth().UserID)
	require.True(t, again.Auth().Balance.Equal(decimal.RequireFromString("12.5")), "balance snapshot survives the store")
	require.Equal(t, []session.Flash{{Kind: session.FlashInfo, Message: "hello"}}, again.Flashes())
	require.Empty(t, again.Flashes())
}

func TestManagerIgnoresForgedCookie(t *testing.T) {
	store := newMemStore()
	m, err := session.NewManager(store, secret, session.Options{})
	require.NoError(t, err)

	s := load(t, m, nil)
	s.SetAuth(&session.Auth{UserID: 1, Username: "admin", Role: domain.RoleAdmin})
	rec := httptest.NewRecorder()
	require.NoError(t, s.Save(context.Background(), rec))
	c := sessionCookie(t, rec)

	other, err := session.NewManager(store, []byte("ffffffffffffffffffffffffffffffff"), session.Options{})
	require.NoError(t, err)
	require.Nil(t, load(t, other, c).Auth())

	tampered := *c
	tampered.Value = c.Value + "x"
	require.Nil(t, load(t, m, &tampered).Auth())
}

func TestManagerResetRotatesID(t *testing.T) {
	store := newMemStore()
	m, err := session.NewManager(store, secret, session.Options{})
	require.NoError(t, err)

	s := load(t, m, nil)
	s.SetPendingLogin(&domain.PendingLogin{UserID: 3, Codes: []string{"123456"}})
	rec := httptest.NewRecorder()
	require.NoError(t, s.Save(context.Background(), rec))
	first := sessionCookie(t, rec)

	s = load(t, m, first)
	require.NotNil(t, s.PendingLogin())
	s.Reset()
	s.SetAuth(&session.Auth{UserID: 3, Username: "bob", Role: domain.RoleUser})
	rec = httptest.NewRecorder()
	require.NoError(t, s.Save(context.Background(), rec))
	second := sessionCookie(t, rec)

	require.Equal(t, 1, store.len())
	require.Nil(t, load(t, m, first).Auth())

	got := load(t, m, second)
	require.NotNil(t, got.Auth())
	require.Nil(t, got.PendingLogin())
}

func TestManagerClearsEmptySession(t *testing.T) {
	store := newMemStore()
	m, err := session.NewManager(store, secret, session.Options{})
	require.NoError(t, err)

	s := load(t, m, nil)
	s.SetAuth(&session.Auth{UserID: 1})
	rec := httptest.NewRecorder()
	require.NoError(t, s.Save(context.Background(), rec))
	c := sessionCookie(t, rec)

	s = load(t, m, c)
	s.Reset()
	rec = httptest.NewRecorder()
	require.NoError(t, s.Save(context.Background(), rec))

	cleared := sessionCookie(t, rec)
	require.NotNil(t, cleared)
	require.Equal(t, -1, cleared.MaxAge)
	require.Zero(t, store.len())
}

func TestSaveTwiceKeepsOneCookie(t *testing.T) {
	m, err := session.NewManager(newMemStore(), secret, session.Options{})
	require.NoError(t, err)

	s := load(t, m, nil)
	s.AddFlash(session.FlashError, "one")
	rec := httptest.NewRecorder()
	require.NoError(t, s.Save(context.Background(), rec))
	s.AddFlash(session.FlashError, "two")
	require.NoError(t, s.Save(context.Background(), rec))

	require.Len(t, rec.Header().Values("Set-Cookie"), 1)
}

func TestSQLStoreExpiry(t *testing.T) {
	ctx := context.Background()
	s := session.NewSQLStore(storetest.NewSQLite(t))

	require.NoError(t, s.Save(ctx, "live", []byte(`{}`), time.Now().Add(time.Hour)))
	require.NoError(t, s.Save(ctx, "dead", []byte(`{}`), time.Now().Add(-time.Second)))

	_, err := s.Load(ctx, "live")
	require.NoError(t, err)
	_, err = s.Load(ctx, "dead")
	require.ErrorIs(t, err, session.ErrNotFound)
	_, err = s.Load(ctx, "never")
	require.ErrorIs(t, err, session.ErrNotFound)
	require.NoError(t, s.Ping(ctx))
}

func TestLockSerialisesSameSession(t *testing.T) {
	m, err := session.NewManager(newMemStore(), secret, session.Options{})
	require.NoError(t, err)

	s := load(t, m, nil)
	s.SetPendingLogin(&domain.PendingLogin{UserID: 1, ExpiresAt: time.Now().Add(time.Hour)})
	rec := httptest.NewRecorder()
	require.NoError(t, s.Save(context.Background(), rec))
	c := sessionCookie(t, rec)
	require.NotNil(t, c)

	const workers = 20
	errs := make(chan error, workers)
	var wg sync.WaitGroup
	for range workers {
		wg.Go(func() {
			r := httptest.NewRequest(http.MethodPost, "/login/2fa", nil)
			r.AddCookie(c)

			unlock := m.Lock(r)
			defer unlock()

			s, err := m.Load(r.Context(), r)
			if err != nil {
				errs <- err
				return
			}
			p := s.PendingLogin()
			p.Attempts++
			s.SetPendingLogin(p)
			errs <- s.Save(r.Context(), httptest.NewRecorder())
		})
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	require.Equal(t, workers, load(t, m, c).PendingLogin().Attempts)
}

func TestLockIgnoresRequestsWithoutSession(t *testing.T) {
	m, err := session.NewManager(newMemStore(), secret, session.Options{})
	require.NoError(t, err)

	first := m.Lock(httptest.NewRequest(http.MethodPost, "/", nil))
	defer first()

	done := make(chan struct{})
	go func() {
		m.Lock(httptest.NewRequest(http.MethodPost, "/", nil))()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cookieless request waited on another")
	}
}
