package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/aussiebroadwan/fruitshop/internal/shop/domain"
	"github.com/aussiebroadwan/fruitshop/internal/shop/store"
	"github.com/shopspring/decimal"
)

var maxDiscount = decimal.NewFromInt(100)

type PromotionService struct {
	Store store.Store
}

func (s *PromotionService) List(ctx context.Context) ([]domain.Promotion, error) {
	return s.Store.Promotions().ListPromotions(ctx)
}

// Create validates the raw form values and stores the promotion. Any bad
// field yields ErrInvalidPromotion.
func (s *PromotionService) Create(ctx context.Context, code, discount, usesLeft string) (domain.Promotion, error) {
	p, err := parsePromotion(code, discount, usesLeft)
	if err != nil {
		return domain.Promotion{}, err
	}

	p.ID, err = s.Store.Promotions().CreatePromotion(ctx, p)
	if err != nil {
		return domain.Promotion{}, fmt.Errorf("failed to create promotion: %w", err)
	}
	return p, nil
}

func (s *PromotionService) Delete(ctx context.Context, id int64) error {
	err := s.Store.Promotions().DeletePromotion(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrPromotionNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete promotion: %w", err)
	}
	return nil
}

func parsePromotion(code, discount, usesLeft string) (domain.Promotion, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return domain.Promotion{}, ErrInvalidPromotion
	}

	f, err := strconv.ParseFloat(strings.TrimSpace(discount), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return domain.Promotion{}, ErrInvalidPromotion
	}
	d := decimal.NewFromFloat(f).Round(domain.MoneyPlaces)
	if d.IsNegative() || d.GreaterThan(maxDiscount) {
		return domain.Promotion{}, ErrInvalidPromotion
	}

	uses, err := strconv.ParseInt(strings.TrimSpace(usesLeft), 10, 64)
	if err != nil || uses < 0 {
		return domain.Promotion{}, ErrInvalidPromotion
	}

	return domain.Promotion{Code: code, Discount: d, UsesLeft: uses}, nil
}
