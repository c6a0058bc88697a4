package service

import (
	"context"
	"sync"
	"testing"

	"github.com/aussiebroadwan/fruitshop/internal/shop/domain"
	"github.com/aussiebroadwan/fruitshop/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCheckoutPlacesOrder(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)
	m := metrics.New()
	svc := &CheckoutService{Store: s, Metrics: m, Now: clock}
	uid := createUser(t, s, "alice", "10.00")

	order, err := svc.Checkout(ctx, uid, domain.Cart{1: 3}, "10OFF")
	require.NoError(t, err)
	require.NotZero(t, order.ID)
	requireMoney(t, "5.37", order.Total)
	require.Equal(t, "10OFF", order.PromoCode)

	u, err := s.Users().GetUserByID(ctx, uid)
	require.NoError(t, err)
	requireMoney(t, "4.63", u.Balance)

	p, err := s.Promotions().GetPromotionByCode(ctx, "10OFF")
	require.NoError(t, err)
	require.Equal(t, DefaultPromotion.UsesLeft-1, p.UsesLeft)

	lines, err := s.Orders().ListOrderLines(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	require.Equal(t, "Apple", lines[0].Name)
	require.Equal(t, int64(3), lines[0].Quantity)

	got, err := s.Orders().GetOrderForUser(ctx, order.ID, uid)
	require.NoError(t, err)
	require.Equal(t, fixedNow.Unix(), got.CreatedAt.Unix())

	require.Equal(t, 1.0, testutil.ToFloat64(m.CheckoutTotal.WithLabelValues("success")))
}

func TestCheckoutFailures(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)
	m := metrics.New()
	svc := &CheckoutService{Store: s, Metrics: m, Now: clock}
	uid := createUser(t, s, "bob", "5.00")

	_, err := s.Promotions().CreatePromotion(ctx, domain.Promotion{Code: "SPENT", Discount: dec("50"), UsesLeft: 0})
	require.NoError(t, err)

	tests := []struct {
		name string
		cart domain.Cart
		code string
		want error
	}{
		{"empty cart", domain.Cart{}, "", ErrEmptyCart},
		{"unknown item", domain.Cart{99: 1}, "", ErrInvalidItem},
		{"bad quantity", domain.Cart{1: -1}, "", ErrInvalidQuantity},
		{"item checked before promo", domain.Cart{99: 1}, "NOPE", ErrInvalidItem},
		{"unknown promo", domain.Cart{1: 1}, "NOPE", ErrUnknownPromo},
		{"spent promo", domain.Cart{1: 1}, "SPENT", ErrExpiredPromo},
		{"insufficient balance", domain.Cart{9: 2}, "", ErrInsufficientBalance},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Checkout(ctx, uid, tt.cart, tt.code)
			require.ErrorIs(t, err, tt.want)
		})
	}

	u, err := s.Users().GetUserByID(ctx, uid)
	require.NoError(t, err)
	requireMoney(t, "5.00", u.Balance)

	orders, err := s.Orders().ListOrdersByUser(ctx, uid)
	require.NoError(t, err)
	require.Empty(t, orders)

	require.Equal(t, 1.0, testutil.ToFloat64(m.CheckoutTotal.WithLabelValues("insufficient_balance")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.CheckoutTotal.WithLabelValues("unknown_promo")))
}

func TestCheckoutFailureKeepsPromotionUse(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)
	svc := &CheckoutService{Store: s, Now: clock}
	uid := createUser(t, s, "carol", "1.00")

	id, err := s.Promotions().CreatePromotion(ctx, domain.Promotion{Code: "ONCE", Discount: dec("10"), UsesLeft: 1})
	require.NoError(t, err)

	_, err = svc.Checkout(ctx, uid, domain.Cart{9: 1}, "ONCE")
	require.ErrorIs(t, err, ErrInsufficientBalance)

	promos, err := s.Promotions().ListPromotions(ctx)
	require.NoError(t, err)
	for _, p := range promos {
		if p.ID == id {
			require.Equal(t, int64(1), p.UsesLeft)
		}
	}
}

func TestCheckoutSingleUsePromotion(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)
	svc := &CheckoutService{Store: s, Now: clock}
	uid := createUser(t, s, "dave", "20.00")

	_, err := s.Promotions().CreatePromotion(ctx, domain.Promotion{Code: "ONCE", Discount: dec("10"), UsesLeft: 1})
	require.NoError(t, err)

	_, err = svc.Checkout(ctx, uid, domain.Cart{1: 1}, "ONCE")
	require.NoError(t, err)

	_, err = svc.Checkout(ctx, uid, domain.Cart{1: 1}, "ONCE")
	require.ErrorIs(t, err, ErrExpiredPromo)
}

func TestCheckoutExactBalance(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)
	svc := &CheckoutService{Store: s, Now: clock}
	uid := createUser(t, s, "erin", "4.99")

	_, err := svc.Checkout(ctx, uid, domain.Cart{9: 1}, "")
	require.NoError(t, err)

	u, err := s.Users().GetUserByID(ctx, uid)
	require.NoError(t, err)
	require.True(t, u.Balance.IsZero())
}

func TestConcurrentCheckoutsNeverOverdraw(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)
	svc := &CheckoutService{Store: s, Now: clock}
	uid := createUser(t, s, "frank", "5.00")

	const n = 4
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = svc.Checkout(ctx, uid, domain.Cart{9: 1}, "")
		}()
	}
	wg.Wait()

	var ok int
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		require.ErrorIs(t, err, ErrInsufficientBalance)
	}
	require.Equal(t, 1, ok)

	u, err := s.Users().GetUserByID(ctx, uid)
	require.NoError(t, err)
	requireMoney(t, "0.01", u.Balance)
}
