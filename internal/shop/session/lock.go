package session

import (
	"net/http"
	"sync"
)

// keyedMutex hands out one mutex per key and forgets keys nobody holds.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*heldLock
}

type heldLock struct {
	mu   sync.Mutex
	refs int
}

func (k *keyedMutex) lock(key string) (unlock func()) {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*heldLock)
	}
	l, ok := k.locks[key]
	if !ok {
		l = &heldLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		k.mu.Lock()
		if l.refs--; l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

// Lock serialises requests carrying the same session cookie until unlock is
// called. Hold it across Load, the handler and Save when the handler's
// decision depends on state a concurrent request could also be changing.
// Requests without a valid cookie have no shared state and are not held.
//
// The lock is per process; sessions shared through Redis by several
// replicas are only serialised within each replica.
func (m *Manager) Lock(r *http.Request) (unlock func()) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return func() {}
	}
	claims, err := m.verifier.Verify(cookie.Value)
	if err != nil {
		return func() {}
	}
	return m.locks.lock(key(claims.SID))
}
