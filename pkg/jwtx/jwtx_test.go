package jwtx_test

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/fruitshop/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte(strings.Repeat("k", 32))

func TestNewSignerHS256RejectsShortSecret(t *testing.T) {
	_, err := jwtx.NewSignerHS256([]byte("short"))
	require.Error(t, err)
}

func TestSignAndVerify(t *testing.T) {
	signer, err := jwtx.NewSignerHS256(testSecret)
	require.NoError(t, err)
	require.Equal(t, "HS256", signer.Alg())

	now := time.Now()
	token, err := signer.Sign(jwtx.NewSessionClaims("sid-1", "fruitshop", time.Hour, now))
	require.NoError(t, err)

	t.Run("round trip", func(t *testing.T) {
		claims, err := jwtx.NewVerifierHS256(testSecret, "fruitshop").Verify(token)
		require.NoError(t, err)
		require.Equal(t, "sid-1", claims.SID)
	})

	t.Run("wrong secret", func(t *testing.T) {
		_, err := jwtx.NewVerifierHS256([]byte(strings.Repeat("x", 32)), "fruitshop").Verify(token)
		require.ErrorIs(t, err, jwtx.ErrMalformed)
	})

	t.Run("tampered payload", func(t *testing.T) {
		parts := strings.Split(token, ".")
		parts[1] = base64.RawURLEncoding.EncodeToString([]byte(`{"sid":"someone-else"}`))
		_, err := jwtx.NewVerifierHS256(testSecret, "").Verify(strings.Join(parts, "."))
		require.ErrorIs(t, err, jwtx.ErrMalformed)
	})

	t.Run("issuer mismatch", func(t *testing.T) {
		_, err := jwtx.NewVerifierHS256(testSecret, "someone-else").Verify(token)
		require.ErrorIs(t, err, jwtx.ErrIssuer)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := jwtx.NewVerifierHS256(testSecret, "").Verify("not.a.jwt")
		require.ErrorIs(t, err, jwtx.ErrMalformed)
	})
}

func TestVerifyRejectsExpired(t *testing.T) {
	signer, err := jwtx.NewSignerHS256(testSecret)
	require.NoError(t, err)

	token, err := signer.Sign(jwtx.NewSessionClaims("sid-1", "", time.Minute, time.Now().Add(-time.Hour)))
	require.NoError(t, err)

	_, err = jwtx.NewVerifierHS256(testSecret, "").Verify(token)
	require.ErrorIs(t, err, jwtx.ErrExpired)
}

func TestVerifyRejectsOtherAlgorithms(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwtx.NewSessionClaims("sid-1", "", time.Hour, time.Now())).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = jwtx.NewVerifierHS256(testSecret, "").Verify(token)
	require.ErrorIs(t, err, jwtx.ErrMalformed)
}

func TestVerifyRequiresSID(t *testing.T) {
	signer, err := jwtx.NewSignerHS256(testSecret)
	require.NoError(t, err)

	token, err := signer.Sign(jwtx.NewSessionClaims("", "", time.Hour, time.Now()))
	require.NoError(t, err)

	_, err = jwtx.NewVerifierHS256(testSecret, "").Verify(token)
	require.ErrorIs(t, err, jwtx.ErrMissingSID)
}

func TestVerifyHonoursClock(t *testing.T) {
	signer, err := jwtx.NewSignerHS256(testSecret)
	require.NoError(t, err)

	issued := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	token, err := signer.Sign(jwtx.NewSessionClaims("sid", "", time.Hour, issued))
	require.NoError(t, err)

	at := func(t time.Time) func() time.Time { return func() time.Time { return t } }

	_, err = jwtx.NewVerifierHS256(testSecret, "").WithClock(at(issued.Add(time.Minute))).Verify(token)
	require.NoError(t, err)

	_, err = jwtx.NewVerifierHS256(testSecret, "").WithClock(at(issued.Add(2 * time.Hour))).Verify(token)
	require.ErrorIs(t, err, jwtx.ErrExpired)

	_, err = jwtx.NewVerifierHS256(testSecret, "").WithClock(at(issued.Add(-time.Minute))).Verify(token)
	require.ErrorIs(t, err, jwtx.ErrNotYetValid)
}
