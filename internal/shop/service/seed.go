package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/fruitshop/internal/shop/domain"
	"github.com/aussiebroadwan/fruitshop/internal/shop/store"
	"github.com/aussiebroadwan/fruitshop/pkg/cryptox"
	"github.com/aussiebroadwan/fruitshop/pkg/slogx"
	"github.com/shopspring/decimal"
)

// DefaultFruits is the catalog a fresh database starts with.
var DefaultFruits = []domain.Fruit{
	{Name: "Apple", Price: decimal.RequireFromString("1.99")},
	{Name: "Orange", Price: decimal.RequireFromString("2.99")},
	{Name: "Peach", Price: decimal.RequireFromString("1.49")},
	{Name: "Blueberry", Price: decimal.RequireFromString("0.99")},
	{Name: "Strawberry", Price: decimal.RequireFromString("1.49")},
	{Name: "Kiwi", Price: decimal.RequireFromString("1.99")},
	{Name: "Lemon", Price: decimal.RequireFromString("0.99")},
	{Name: "Lime", Price: decimal.RequireFromString("0.99")},
	{Name: "Watermelon", Price: decimal.RequireFromString("4.99")},
}

// DefaultPromotion is created alongside the catalog.
var DefaultPromotion = domain.Promotion{Code: "10OFF", Discount: decimal.NewFromInt(10), UsesLeft: 99999999}

// SeedService fills an empty database with the catalog, the admin account
// and the default promotion.
type SeedService struct {
	Store         store.Store
	AdminUsername string
	AdminPassword string // generated and logged when empty
	AdminSecret   string // generated when empty
	Issuer        string
	Now           func() time.Time
}

// SeedResult describes what Seed created. Seeded is false when the database
// already had users and nothing was touched.
type SeedResult struct {
	Seeded        bool
	AdminID       int64
	AdminPassword string
	AdminSecret   string
	AdminURI      string
}

func (s *SeedService) Seed(ctx context.Context) (SeedResult, error) {
	l := slogx.FromContext(ctx)

	count, err := s.Store.Users().CountUsers(ctx)
	if err != nil {
		return SeedResult{}, fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return SeedResult{}, nil
	}

	res := SeedResult{Seeded: true, AdminPassword: s.AdminPassword}
	generatedPassword := false
	if res.AdminPassword == "" {
		res.AdminPassword, err = cryptox.GeneratePassword()
		if err != nil {
			return SeedResult{}, fmt.Errorf("failed to generate admin password: %w", err)
		}
		generatedPassword = true
	}

	issuer := s.Issuer
	if issuer == "" {
		issuer = DefaultOTPIssuer
	}
	username := s.AdminUsername
	if username == "" {
		username = "admin"
	}

	generatedSecret := false
	if s.AdminSecret != "" {
		res.AdminSecret, err = NormalizeOTPSecret(s.AdminSecret)
		if err != nil {
			return SeedResult{}, err
		}
		res.AdminURI, err = ProvisioningURI(issuer, username, res.AdminSecret)
		if err != nil {
			return SeedResult{}, fmt.Errorf("failed to build admin otp uri: %w", err)
		}
	} else {
		generatedSecret = true
		key, err := newOTPKey(issuer, username)
		if err != nil {
			return SeedResult{}, fmt.Errorf("failed to generate admin otp secret: %w", err)
		}
		res.AdminSecret, res.AdminURI = key.Secret(), key.URL()
	}

	hash, err := cryptox.HashPassword(res.AdminPassword)
	if err != nil {
		return SeedResult{}, fmt.Errorf("failed to hash admin password: %w", err)
	}

	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		for _, f := range DefaultFruits {
			if _, err := tx.Fruits().CreateFruit(ctx, f); err != nil {
				return fmt.Errorf("failed to create fruit %q: %w", f.Name, err)
			}
		}

		res.AdminID, err = tx.Users().CreateUser(ctx, domain.User{
			Username:     username,
			PasswordHash: hash,
			OTPSecret:    res.AdminSecret,
			Role:         domain.RoleAdmin,
			Balance:      decimal.Zero,
			CreatedAt:    now,
		})
		if err != nil {
			return fmt.Errorf("failed to create admin: %w", err)
		}

		if _, err := tx.Promotions().CreatePromotion(ctx, DefaultPromotion); err != nil {
			return fmt.Errorf("failed to create default promotion: %w", err)
		}
		return nil
	})
	if err != nil {
		return SeedResult{}, err
	}

	// Only credentials nobody configured are logged; they are otherwise
	// unrecoverable.
	attrs := []any{slog.String("username", username)}
	if generatedPassword {
		attrs = append(attrs, slog.String("password", res.AdminPassword))
	}
	if generatedSecret {
		attrs = append(attrs, slog.String("otp_uri", res.AdminURI))
	}
	l.Info("seeded database with catalog and admin account", attrs...)

	return res, nil
}
