package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/fruitshop/internal/shop/domain"
	"github.com/aussiebroadwan/fruitshop/internal/shop/store"
	"github.com/aussiebroadwan/fruitshop/internal/shop/store/storetest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newUser(name string, balance string) domain.User {
	return domain.User{
		Username:     name,
		PasswordHash: "hash",
		Role:         domain.RoleUser,
		Balance:      decimal.RequireFromString(balance),
		CreatedAt:    time.Unix(1700000000, 0).UTC(),
	}
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	s := storetest.NewSQLite(t)

	id, err := s.Users().CreateUser(ctx, newUser("alice", "5.00"))
	require.NoError(t, err)

	_, err = s.Users().CreateUser(ctx, newUser("alice", "1.00"))
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	u, err := s.Users().GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, id, u.ID)
	require.Equal(t, "5", u.Balance.String())
	require.Equal(t, domain.RoleUser, u.Role)
	require.Empty(t, u.OTPSecret)

	require.NoError(t, s.Users().SetOTPSecret(ctx, id, "JBSWY3DPEHPK3PXP"))
	u, err = s.Users().GetUserByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "JBSWY3DPEHPK3PXP", u.OTPSecret)

	_, err = s.Users().GetUserByID(ctx, id+100)
	require.ErrorIs(t, err, store.ErrNotFound)

	n, err := s.Users().CountUsers(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
}

func TestDebitBalanceIsGuarded(t *testing.T) {
	ctx := context.Background()
	s := storetest.NewSQLite(t)

	id, err := s.Users().CreateUser(ctx, newUser("bob", "5.00"))
	require.NoError(t, err)

	require.NoError(t, s.Users().DebitBalance(ctx, id, decimal.RequireFromString("4.99")))
	require.ErrorIs(t, s.Users().DebitBalance(ctx, id, decimal.RequireFromString("0.02")), store.ErrConflict)
	require.NoError(t, s.Users().DebitBalance(ctx, id, decimal.RequireFromString("0.01")))

	u, err := s.Users().GetUserByID(ctx, id)
	require.NoError(t, err)
	require.True(t, u.Balance.IsZero())
}

func TestPromotions(t *testing.T) {
	ctx := context.Background()
	s := storetest.NewSQLite(t)

	first, err := s.Promotions().CreatePromotion(ctx, domain.Promotion{Code: "SAVE", Discount: decimal.RequireFromString("12.5"), UsesLeft: 1})
	require.NoError(t, err)
	_, err = s.Promotions().CreatePromotion(ctx, domain.Promotion{Code: "SAVE", Discount: decimal.NewFromInt(50), UsesLeft: 9})
	require.NoError(t, err)

	p, err := s.Promotions().GetPromotionByCode(ctx, "SAVE")
	require.NoError(t, err)
	require.Equal(t, first, p.ID)
	require.Equal(t, "12.5", p.Discount.String())

	require.NoError(t, s.Promotions().ConsumePromotionUse(ctx, first))
	require.ErrorIs(t, s.Promotions().ConsumePromotionUse(ctx, first), store.ErrConflict)

	require.NoError(t, s.Promotions().DeletePromotion(ctx, first))
	require.ErrorIs(t, s.Promotions().DeletePromotion(ctx, first), store.ErrNotFound)

	_, err = s.Promotions().GetPromotionByCode(ctx, "NOPE")
	require.ErrorIs(t, err, store.ErrNotFound)

	all, err := s.Promotions().ListPromotions(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestOrdersAndReviews(t *testing.T) {
	ctx := context.Background()
	s := storetest.NewSQLite(t)

	uid, err := s.Users().CreateUser(ctx, newUser("carol", "5.00"))
	require.NoError(t, err)
	other, err := s.Users().CreateUser(ctx, newUser("dave", "5.00"))
	require.NoError(t, err)
	fid, err := s.Fruits().CreateFruit(ctx, domain.Fruit{Name: "Apple", Price: decimal.RequireFromString("1.99")})
	require.NoError(t, err)

	oid, err := s.Orders().CreateOrder(ctx, domain.Order{
		UserID:    uid,
		PromoCode: "10OFF",
		Subtotal:  decimal.RequireFromString("5.97"),
		Discount:  decimal.RequireFromString("0.60"),
		Total:     decimal.RequireFromString("5.37"),
		CreatedAt: time.Unix(1700000000, 0),
	})
	require.NoError(t, err)
	require.NoError(t, s.Orders().AddOrderItem(ctx, domain.OrderItem{OrderID: oid, FruitID: fid, Quantity: 3, UnitPrice: decimal.RequireFromString("1.99")}))

	o, err := s.Orders().GetOrderForUser(ctx, oid, uid)
	require.NoError(t, err)
	require.Equal(t, "10OFF", o.PromoCode)
	require.Equal(t, "5.37", o.Total.StringFixed(2))

	_, err = s.Orders().GetOrderForUser(ctx, oid, other)
	require.ErrorIs(t, err, store.ErrNotFound)

	lines, err := s.Orders().ListOrderLines(ctx, oid)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	require.Equal(t, "Apple", lines[0].Name)
	require.Equal(t, "5.97", lines[0].Amount().StringFixed(2))

	_, err = s.Reviews().GetReviewByOrder(ctx, oid)
	require.ErrorIs(t, err, store.ErrNotFound)

	rev := domain.OrderReview{OrderID: oid, Title: "Tasty", Comments: "Crisp apples.", CreatedAt: time.Unix(1700000100, 0)}
	_, err = s.Reviews().CreateReview(ctx, rev)
	require.NoError(t, err)
	_, err = s.Reviews().CreateReview(ctx, rev)
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	page, err := s.Reviews().ListReviews(ctx, 9, 0)
	require.NoError(t, err)
	require.Len(t, page, 1)
	require.Equal(t, "carol", page[0].Username)
	require.Equal(t, oid, page[0].OrderID)
}

func TestTxRollback(t *testing.T) {
	ctx := context.Background()
	s := storetest.NewSQLite(t)

	err := s.WithTx(ctx, func(tx store.Tx) error {
		_, err := tx.Users().CreateUser(ctx, newUser("erin", "5.00"))
		require.NoError(t, err)
		return store.ErrConflict
	})
	require.ErrorIs(t, err, store.ErrConflict)

	_, err = s.Users().GetUserByUsername(ctx, "erin")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestSessions(t *testing.T) {
	ctx := context.Background()
	s := storetest.NewSQLite(t)
	now := time.Unix(1700000000, 0)

	require.NoError(t, s.Sessions().UpsertSession(ctx, domain.SessionRecord{Key: "a", Data: []byte(`{"x":1}`), ExpiresAt: now.Add(-time.Second)}))
	require.NoError(t, s.Sessions().UpsertSession(ctx, domain.SessionRecord{Key: "b", Data: []byte(`{}`), ExpiresAt: now.Add(time.Hour)}))
	require.NoError(t, s.Sessions().UpsertSession(ctx, domain.SessionRecord{Key: "b", Data: []byte(`{"y":2}`), ExpiresAt: now.Add(2 * time.Hour)}))

	rec, err := s.Sessions().GetSession(ctx, "b")
	require.NoError(t, err)
	require.JSONEq(t, `{"y":2}`, string(rec.Data))
	require.Equal(t, now.Add(2*time.Hour).Unix(), rec.ExpiresAt.Unix())

	n, err := s.Sessions().DeleteExpiredSessions(ctx, now)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	require.NoError(t, s.Sessions().DeleteSession(ctx, "b"))
	_, err = s.Sessions().GetSession(ctx, "b")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestMigrationsAreIdempotent(t *testing.T) {
	s := storetest.NewSQLite(t)

	v, err := s.SchemaVersion()
	require.NoError(t, err)
	require.EqualValues(t, 1, v)

	require.NoError(t, s.ApplyMigrations())
	require.NoError(t, s.Ping(context.Background()))
}
