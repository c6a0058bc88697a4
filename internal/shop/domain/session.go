package domain

import "time"

// SessionRecord is a persisted session. Key is the fingerprint of the
// session id, never the id itself.
type SessionRecord struct {
	Key       string
	Data      []byte
	ExpiresAt time.Time
}
