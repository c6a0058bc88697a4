// Package jwtx signs and verifies the HS256 tokens the shop keeps in its
// session cookie. A token names a session and nothing else.
package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultSessionTTL is how long a session cookie stays valid without
// activity.
const DefaultSessionTTL = 24 * time.Hour

// minSecretLength is the shortest HMAC secret accepted (256 bits).
const minSecretLength = 32

var (
	ErrMalformed   = errors.New("jwtx: malformed token")
	ErrIssuer      = errors.New("jwtx: issuer mismatch")
	ErrExpired     = errors.New("jwtx: token expired")
	ErrNotYetValid = errors.New("jwtx: token not yet valid")
	ErrMissingSID  = errors.New("jwtx: missing session id")
)

// Claims are carried by the session cookie.
type Claims struct {
	jwt.RegisteredClaims

	SID string `json:"sid"`
}

// NewSessionClaims builds claims for session sid valid for ttl from now.
func NewSessionClaims(sid, issuer string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		SID: sid,
	}
}

// Validate is called by the jwt parser after the registered claims pass.
func (c Claims) Validate() error {
	if c.SID == "" {
		return ErrMissingSID
	}
	return nil
}

// Signer issues session tokens.
type Signer interface {
	Alg() string
	Sign(Claims) (string, error)
}

// Verifier checks a session token and returns its claims.
type Verifier interface {
	Verify(token string) (Claims, error)
}

// HS256Signer signs with a shared secret. The shop both issues and reads
// its own cookies, so there is no public key to publish.
type HS256Signer struct {
	secret []byte
}

// NewSignerHS256 rejects secrets shorter than 32 bytes.
func NewSignerHS256(secret []byte) (*HS256Signer, error) {
	if len(secret) < minSecretLength {
		return nil, fmt.Errorf("jwtx: HS256 secret must be at least %d bytes", minSecretLength)
	}
	return &HS256Signer{secret: secret}, nil
}

func (s *HS256Signer) Alg() string { return jwt.SigningMethodHS256.Alg() }

func (s *HS256Signer) Sign(claims Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// HS256Verifier accepts tokens from an HS256Signer holding the same secret.
type HS256Verifier struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewVerifierHS256 creates a verifier; an empty issuer accepts any issuer.
func NewVerifierHS256(secret []byte, issuer string) *HS256Verifier {
	return &HS256Verifier{secret: secret, issuer: issuer, now: time.Now}
}

// WithClock makes the verifier judge exp and nbf against now.
func (v *HS256Verifier) WithClock(now func() time.Time) *HS256Verifier {
	v.now = now
	return v
}

// Verify checks the signature, algorithm, issuer, expiry and session id.
func (v *HS256Verifier) Verify(tokenStr string) (Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	var claims Claims
	_, err := jwt.NewParser(opts...).ParseWithClaims(tokenStr, &claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	})
	switch {
	case err == nil:
		return claims, nil
	case errors.Is(err, ErrMissingSID):
		return Claims{}, ErrMissingSID
	case errors.Is(err, jwt.ErrTokenExpired):
		return Claims{}, ErrExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return Claims{}, ErrNotYetValid
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return Claims{}, ErrIssuer
	default:
		return Claims{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
}
