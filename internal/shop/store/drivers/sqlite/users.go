package sqlite

import (
	"context"

	"github.com/aussiebroadwan/fruitshop/internal/shop/domain"
	"github.com/aussiebroadwan/fruitshop/internal/shop/store/drivers/sqlite/gen"
	"github.com/shopspring/decimal"
)

type usersRepo struct {
	q *gen.Queries
}

func (r *usersRepo) GetUserByID(ctx context.Context, id int64) (domain.User, error) {
	row, err := r.q.GetUserByID(ctx, id)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return mapUser(row), nil
}

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	row, err := r.q.GetUserByUsername(ctx, username)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return mapUser(row), nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) (int64, error) {
	id, err := r.q.CreateUser(ctx, gen.CreateUserParams{
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		OtpSecret:    u.OTPSecret,
		Role:         string(u.Role),
		BalanceCents: domain.Cents(u.Balance),
		CreatedAt:    u.CreatedAt.Unix(),
	})
	if err != nil {
		return 0, mapUnique(err)
	}
	return id, nil
}

func (r *usersRepo) SetOTPSecret(ctx context.Context, id int64, secret string) error {
	return r.q.UpdateUserOTPSecret(ctx, gen.UpdateUserOTPSecretParams{
		OtpSecret: secret,
		ID:        id,
	})
}

func (r *usersRepo) DebitBalance(ctx context.Context, id int64, amount decimal.Decimal) error {
	return mapRowsAffected(r.q.DebitUserBalance(ctx, gen.DebitUserBalanceParams{
		Amount: domain.Cents(amount),
		ID:     id,
	}))
}

func (r *usersRepo) CountUsers(ctx context.Context) (int64, error) {
	return r.q.CountUsers(ctx)
}
