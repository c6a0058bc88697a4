package service

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/fruitshop/internal/shop/domain"
	"github.com/stretchr/testify/require"
)

func testCatalog() domain.Catalog {
	return domain.NewCatalog([]domain.Fruit{
		{ID: 1, Name: "Apple", Price: dec("1.99")},
		{ID: 2, Name: "Orange", Price: dec("2.99")},
		{ID: 9, Name: "Watermelon", Price: dec("4.99")},
	})
}

func TestPrice(t *testing.T) {
	t.Parallel()

	tenOff := &domain.Promotion{Code: "10OFF", Discount: dec("10"), UsesLeft: 5}

	t.Run("applies percentage discount", func(t *testing.T) {
		q, err := Price(domain.Cart{1: 3}, testCatalog(), tenOff)
		require.NoError(t, err)
		requireMoney(t, "5.97", q.Subtotal)
		requireMoney(t, "0.60", q.Discount)
		requireMoney(t, "5.37", q.Total)
		require.Equal(t, "10OFF", q.PromoCode)
	})

	t.Run("no promotion", func(t *testing.T) {
		q, err := Price(domain.Cart{1: 1, 2: 2}, testCatalog(), nil)
		require.NoError(t, err)
		requireMoney(t, "7.97", q.Subtotal)
		requireMoney(t, "0.00", q.Discount)
		requireMoney(t, "7.97", q.Total)
		require.Empty(t, q.PromoCode)
		require.Len(t, q.Lines, 2)
		require.Equal(t, int64(1), q.Lines[0].FruitID)
	})

	t.Run("spent promotion is not applied", func(t *testing.T) {
		q, err := Price(domain.Cart{9: 1}, testCatalog(), &domain.Promotion{Code: "X", Discount: dec("50"), UsesLeft: 0})
		require.NoError(t, err)
		requireMoney(t, "0.00", q.Discount)
		require.Empty(t, q.PromoCode)
	})

	t.Run("discount never exceeds subtotal", func(t *testing.T) {
		q, err := Price(domain.Cart{2: 1}, testCatalog(), &domain.Promotion{Code: "FREE", Discount: dec("100"), UsesLeft: 1})
		require.NoError(t, err)
		requireMoney(t, "2.99", q.Discount)
		requireMoney(t, "0.00", q.Total)
	})

	t.Run("rounds half up", func(t *testing.T) {
		// 12.5% of 4.99 = 0.62375
		q, err := Price(domain.Cart{9: 1}, testCatalog(), &domain.Promotion{Code: "ODD", Discount: dec("12.5"), UsesLeft: 1})
		require.NoError(t, err)
		requireMoney(t, "0.62", q.Discount)
		requireMoney(t, "4.37", q.Total)
	})

	t.Run("unknown item", func(t *testing.T) {
		_, err := Price(domain.Cart{42: 1}, testCatalog(), nil)
		require.ErrorIs(t, err, ErrInvalidItem)
	})

	t.Run("unknown item reported before bad quantity", func(t *testing.T) {
		_, err := Price(domain.Cart{1: -1, 42: 1}, testCatalog(), nil)
		require.ErrorIs(t, err, ErrInvalidItem)
	})

	t.Run("non-positive quantity", func(t *testing.T) {
		_, err := Price(domain.Cart{1: 0}, testCatalog(), nil)
		require.ErrorIs(t, err, ErrInvalidQuantity)
		_, err = Price(domain.Cart{1: -3}, testCatalog(), nil)
		require.ErrorIs(t, err, ErrInvalidQuantity)
	})

	t.Run("empty cart prices to zero", func(t *testing.T) {
		q, err := Price(domain.Cart{}, testCatalog(), tenOff)
		require.NoError(t, err)
		requireMoney(t, "0.00", q.Total)
	})
}

func TestPreviewIgnoresBadCodes(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)
	svc := &PricingService{Store: s}

	q, err := svc.Preview(ctx, domain.Cart{1: 3}, "10OFF")
	require.NoError(t, err)
	requireMoney(t, "5.37", q.Total)

	q, err = svc.Preview(ctx, domain.Cart{1: 3}, "NOPE")
	require.NoError(t, err)
	requireMoney(t, "5.97", q.Total)
	require.Empty(t, q.PromoCode)

	_, err = svc.Preview(ctx, domain.Cart{99: 1}, "")
	require.ErrorIs(t, err, ErrInvalidItem)
}
