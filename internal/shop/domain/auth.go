package domain

import "time"

const (
	// PendingTTL bounds how long a half-finished login or registration
	// waits for its OTP code.
	PendingTTL = 5 * time.Minute

	// OTPAttemptLimit is the number of wrong codes tolerated before the
	// flow has to start over.
	OTPAttemptLimit = 5
)

// PendingLogin is the state between a correct password and a correct OTP.
type PendingLogin struct {
	UserID    int64     `json:"user_id"`
	Codes     []string  `json:"codes"`
	Attempts  int       `json:"attempts"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (p PendingLogin) Expired(now time.Time) bool { return !now.Before(p.ExpiresAt) }

// PendingRegistration holds a validated sign-up until the new secret has
// been proven with a code.
type PendingRegistration struct {
	Username     string    `json:"username"`
	PasswordHash string    `json:"password_hash"`
	Secret       string    `json:"secret"`
	URI          string    `json:"uri"`
	Codes        []string  `json:"codes"`
	Attempts     int       `json:"attempts"`
	ExpiresAt    time.Time `json:"expires_at"`
}

func (p PendingRegistration) Expired(now time.Time) bool { return !now.Before(p.ExpiresAt) }
