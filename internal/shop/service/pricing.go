package service

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/aussiebroadwan/fruitshop/internal/shop/domain"
	"github.com/aussiebroadwan/fruitshop/internal/shop/store"
	"github.com/shopspring/decimal"
)

// Price turns a cart into a quote. It is pure: the same cart, catalog and
// promotion always give the same amounts. A promotion with no uses left is
// ignored rather than rejected; callers that must reject it check first.
func Price(cart domain.Cart, catalog domain.Catalog, promo *domain.Promotion) (domain.Quote, error) {
	ids := make([]int64, 0, len(cart))
	for id := range cart {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	q := domain.Quote{
		Lines:    make([]domain.QuoteLine, 0, len(ids)),
		Subtotal: decimal.Zero,
	}

	for _, id := range ids {
		if _, ok := catalog[id]; !ok {
			return domain.Quote{}, ErrInvalidItem
		}
	}
	for _, id := range ids {
		if cart[id] < 1 {
			return domain.Quote{}, ErrInvalidQuantity
		}
	}

	for _, id := range ids {
		fruit, qty := catalog[id], cart[id]
		q.Lines = append(q.Lines, domain.QuoteLine{FruitID: id, Quantity: qty, UnitPrice: fruit.Price})
		q.Subtotal = q.Subtotal.Add(fruit.Price.Mul(decimal.NewFromInt(qty)))
	}
	q.Subtotal = domain.RoundMoney(q.Subtotal)

	q.Discount = decimal.Zero
	if promo != nil && promo.Redeemable() {
		d := domain.Percent(promo.Discount).Mul(q.Subtotal)
		q.Discount = domain.RoundMoney(decimal.Min(d, q.Subtotal))
		q.PromoCode = promo.Code
	}

	q.Total = domain.RoundMoney(q.Subtotal.Sub(q.Discount))
	return q, nil
}

// PricingService answers cart previews. Unknown or spent codes are simply
// not applied.
type PricingService struct {
	Store store.Store
}

func (s *PricingService) Preview(ctx context.Context, cart domain.Cart, code string) (domain.Quote, error) {
	fruits, err := s.Store.Fruits().ListFruits(ctx)
	if err != nil {
		return domain.Quote{}, fmt.Errorf("failed to list fruits: %w", err)
	}

	var promo *domain.Promotion
	if code != "" {
		p, err := s.Store.Promotions().GetPromotionByCode(ctx, code)
		switch {
		case err == nil:
			promo = &p
		case !errors.Is(err, store.ErrNotFound):
			return domain.Quote{}, fmt.Errorf("failed to look up promotion: %w", err)
		}
	}

	return Price(cart, domain.NewCatalog(fruits), promo)
}
