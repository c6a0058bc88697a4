package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/aussiebroadwan/fruitshop/internal/shop/domain"
	"github.com/aussiebroadwan/fruitshop/internal/shop/store"
	"github.com/aussiebroadwan/fruitshop/pkg/cryptox"
	"github.com/aussiebroadwan/fruitshop/pkg/metrics"
	"github.com/aussiebroadwan/fruitshop/pkg/slogx"
)

const (
	DefaultOTPIssuer  = "Fruit Shop"
	MaxUsernameLength = 50
)

// AuthService drives the two-step login and registration flows. Neither
// step touches the session; callers store the returned pending state and
// hand it back on the second step.
type AuthService struct {
	Store   store.Store
	Issuer  string
	Metrics *metrics.Metrics // optional
	Now     func() time.Time
}

// BeginLogin checks the password and snapshots the OTP codes valid around
// now.
func (s *AuthService) BeginLogin(ctx context.Context, username, password string) (*domain.PendingLogin, error) {
	l := slogx.FromContext(ctx)

	if username == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	user, err := s.Store.Users().GetUserByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		if !errors.Is(err, cryptox.ErrPasswordMismatch) {
			l.Error("stored password hash unusable", slog.Int64("user_id", user.ID), slog.Any("error", err))
		}
		return nil, ErrInvalidCredentials
	}

	// Two-factor is mandatory; an account without a secret cannot log in.
	if user.OTPSecret == "" {
		l.Warn("login refused for account without otp secret", slog.Int64("user_id", user.ID))
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	codes, err := otpCodes(user.OTPSecret, now)
	if err != nil {
		return nil, err
	}

	return &domain.PendingLogin{
		UserID:    user.ID,
		Codes:     codes,
		ExpiresAt: now.Add(domain.PendingTTL),
	}, nil
}

// CompleteLogin checks code against the pending login. A wrong code bumps
// pending.Attempts in place; once the limit is reached ErrTooManyAttempts
// is returned and the caller must discard pending.
func (s *AuthService) CompleteLogin(ctx context.Context, pending *domain.PendingLogin, code string) (domain.User, error) {
	if pending == nil || pending.Expired(s.now()) {
		return domain.User{}, ErrNoPendingAuth
	}
	if code == "" {
		return domain.User{}, ErrMissingOTP
	}

	if err := s.checkCode("login", code, pending.Codes, &pending.Attempts); err != nil {
		if errors.Is(err, ErrTooManyAttempts) {
			slogx.FromContext(ctx).Warn("login locked after repeated otp failures", slog.Int64("user_id", pending.UserID))
		}
		return domain.User{}, err
	}

	user, err := s.Store.Users().GetUserByID(ctx, pending.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrNoPendingAuth
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

// BeginRegistration validates the sign-up and generates a fresh OTP secret.
// Nothing is written until CompleteRegistration.
func (s *AuthService) BeginRegistration(ctx context.Context, username, password string) (*domain.PendingRegistration, error) {
	if username == "" || password == "" {
		return nil, ErrMissingCredentials
	}
	if utf8.RuneCountInString(username) > MaxUsernameLength {
		return nil, ErrUsernameTooLong
	}

	_, err := s.Store.Users().GetUserByUsername(ctx, username)
	if err == nil {
		return nil, ErrUsernameTaken
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	key, err := newOTPKey(s.issuer(), username)
	if err != nil {
		return nil, fmt.Errorf("failed to generate otp secret: %w", err)
	}

	now := s.now()
	codes, err := otpCodes(key.Secret(), now)
	if err != nil {
		return nil, err
	}

	return &domain.PendingRegistration{
		Username:     username,
		PasswordHash: hash,
		Secret:       key.Secret(),
		URI:          key.URL(),
		Codes:        codes,
		ExpiresAt:    now.Add(domain.PendingTTL),
	}, nil
}

// CompleteRegistration proves the new secret and creates the account with
// the starting balance.
func (s *AuthService) CompleteRegistration(ctx context.Context, pending *domain.PendingRegistration, code string) (domain.User, error) {
	if pending == nil || pending.Expired(s.now()) {
		return domain.User{}, ErrNoPendingAuth
	}
	if code == "" {
		return domain.User{}, ErrMissingOTP
	}

	if err := s.checkCode("register", code, pending.Codes, &pending.Attempts); err != nil {
		return domain.User{}, err
	}

	user := domain.User{
		Username:     pending.Username,
		PasswordHash: pending.PasswordHash,
		OTPSecret:    pending.Secret,
		Role:         domain.RoleUser,
		Balance:      domain.StartingBalance,
		CreatedAt:    s.now(),
	}
	id, err := s.Store.Users().CreateUser(ctx, user)
	if errors.Is(err, store.ErrAlreadyExists) {
		return domain.User{}, ErrUsernameTaken
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("failed to create user: %w", err)
	}
	user.ID = id

	slogx.FromContext(ctx).Info("user registered", slog.Int64("user_id", id), slog.String("username", user.Username))
	return user, nil
}

func (s *AuthService) checkCode(flow, code string, codes []string, attempts *int) error {
	if codeMatches(code, codes) {
		s.recordOTP(flow, "success")
		return nil
	}
	*attempts++
	if *attempts >= domain.OTPAttemptLimit {
		s.recordOTP(flow, "locked")
		return ErrTooManyAttempts
	}
	s.recordOTP(flow, "invalid")
	return ErrInvalidOTP
}

func (s *AuthService) recordOTP(flow, result string) {
	if s.Metrics != nil {
		s.Metrics.OTPVerifications.WithLabelValues(flow, result).Inc()
	}
}

func (s *AuthService) issuer() string {
	if s.Issuer == "" {
		return DefaultOTPIssuer
	}
	return s.Issuer
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
