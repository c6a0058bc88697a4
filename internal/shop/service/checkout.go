package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/fruitshop/internal/shop/domain"
	"github.com/aussiebroadwan/fruitshop/internal/shop/store"
	"github.com/aussiebroadwan/fruitshop/pkg/metrics"
	"github.com/aussiebroadwan/fruitshop/pkg/slogx"
)

type CheckoutService struct {
	Store   store.Store
	Metrics *metrics.Metrics // optional
	Now     func() time.Time
}

// Checkout prices the cart and places the order in a single transaction:
// the promotion use, the order with its items and the balance debit either
// all happen or none do. The first failing check decides the error.
func (s *CheckoutService) Checkout(ctx context.Context, userID int64, cart domain.Cart, code string) (domain.Order, error) {
	order, err := s.checkout(ctx, userID, cart, code)
	s.record(err)
	if err != nil {
		return domain.Order{}, err
	}

	slogx.FromContext(ctx).Info("order placed",
		slog.Int64("order_id", order.ID),
		slog.Int64("user_id", userID),
		slog.String("total", order.Total.StringFixed(2)),
	)
	return order, nil
}

func (s *CheckoutService) checkout(ctx context.Context, userID int64, cart domain.Cart, code string) (domain.Order, error) {
	if len(cart) == 0 {
		return domain.Order{}, ErrEmptyCart
	}

	var order domain.Order
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		fruits, err := tx.Fruits().ListFruits(ctx)
		if err != nil {
			return fmt.Errorf("failed to list fruits: %w", err)
		}
		catalog := domain.NewCatalog(fruits)

		// Item checks come before promo checks.
		if _, err := Price(cart, catalog, nil); err != nil {
			return err
		}

		var promo *domain.Promotion
		if code != "" {
			p, err := tx.Promotions().GetPromotionByCode(ctx, code)
			if errors.Is(err, store.ErrNotFound) {
				return ErrUnknownPromo
			}
			if err != nil {
				return fmt.Errorf("failed to look up promotion: %w", err)
			}
			if !p.Redeemable() {
				return ErrExpiredPromo
			}
			promo = &p
		}

		quote, err := Price(cart, catalog, promo)
		if err != nil {
			return err
		}

		user, err := tx.Users().GetUserByID(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to load user: %w", err)
		}
		if user.Balance.LessThan(quote.Total) {
			return ErrInsufficientBalance
		}

		if promo != nil {
			if err := tx.Promotions().ConsumePromotionUse(ctx, promo.ID); err != nil {
				if errors.Is(err, store.ErrConflict) {
					return ErrExpiredPromo
				}
				return fmt.Errorf("failed to redeem promotion: %w", err)
			}
		}

		order = domain.Order{
			UserID:    userID,
			PromoCode: quote.PromoCode,
			Subtotal:  quote.Subtotal,
			Discount:  quote.Discount,
			Total:     quote.Total,
			CreatedAt: s.now(),
		}
		order.ID, err = tx.Orders().CreateOrder(ctx, order)
		if err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		for _, line := range quote.Lines {
			err := tx.Orders().AddOrderItem(ctx, domain.OrderItem{
				OrderID:   order.ID,
				FruitID:   line.FruitID,
				Quantity:  line.Quantity,
				UnitPrice: line.UnitPrice,
			})
			if err != nil {
				return fmt.Errorf("failed to add order item: %w", err)
			}
		}

		if err := tx.Users().DebitBalance(ctx, userID, quote.Total); err != nil {
			if errors.Is(err, store.ErrConflict) {
				return ErrInsufficientBalance
			}
			return fmt.Errorf("failed to debit balance: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

func (s *CheckoutService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *CheckoutService) record(err error) {
	if s.Metrics == nil {
		return
	}
	s.Metrics.CheckoutTotal.WithLabelValues(checkoutResult(err)).Inc()
}

func checkoutResult(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrEmptyCart):
		return "empty_cart"
	case errors.Is(err, ErrInvalidItem):
		return "invalid_item"
	case errors.Is(err, ErrInvalidQuantity):
		return "invalid_quantity"
	case errors.Is(err, ErrUnknownPromo):
		return "unknown_promo"
	case errors.Is(err, ErrExpiredPromo):
		return "expired_promo"
	case errors.Is(err, ErrInsufficientBalance):
		return "insufficient_balance"
	default:
		return "error"
	}
}
