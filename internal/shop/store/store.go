package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/fruitshop/internal/shop/domain"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrConflict is returned by guarded updates whose condition no longer
	// holds, e.g. a promotion with no uses left.
	ErrConflict = errors.New("store: conditional update matched no rows")
)

// Repositories hands out the per-table repos. On a Tx they are bound to the
// transaction, and a Tx cannot start another one.
type Repositories interface {
	Users() Users
	Fruits() Fruits
	Promotions() Promotions
	Orders() Orders
	Reviews() Reviews
	Sessions() Sessions
}

// Store is the root data access interface. Concrete drivers implement this.
type Store interface {
	Repositories

	// ApplyMigrations brings the schema up to date. Safe on every start.
	ApplyMigrations() error

	// Tx starts a read/write transaction. The caller MUST call Commit() or
	// Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing if fn returns nil and
	// rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a unit of work over the same repos.
type Tx interface {
	Repositories
	Commit() error
	Rollback() error
}

type Users interface {
	GetUserByID(ctx context.Context, id int64) (domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// CreateUser inserts u and returns its id. A taken username yields
	// ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) (int64, error)

	// SetOTPSecret replaces the user's TOTP secret.
	SetOTPSecret(ctx context.Context, id int64, secret string) error

	// DebitBalance subtracts amount only if the balance covers it, returning
	// ErrConflict otherwise.
	DebitBalance(ctx context.Context, id int64, amount decimal.Decimal) error

	CountUsers(ctx context.Context) (int64, error)
}

type Fruits interface {
	// ListFruits returns the catalog ordered by id.
	ListFruits(ctx context.Context) ([]domain.Fruit, error)
	CreateFruit(ctx context.Context, f domain.Fruit) (int64, error)
}

type Promotions interface {
	ListPromotions(ctx context.Context) ([]domain.Promotion, error)

	// GetPromotionByCode returns the lowest-id promotion with this code.
	GetPromotionByCode(ctx context.Context, code string) (domain.Promotion, error)

	CreatePromotion(ctx context.Context, p domain.Promotion) (int64, error)

	// DeletePromotion returns ErrNotFound if no promotion had this id.
	DeletePromotion(ctx context.Context, id int64) error

	// ConsumePromotionUse decrements uses_left if it is still positive,
	// returning ErrConflict otherwise.
	ConsumePromotionUse(ctx context.Context, id int64) error
}

type Orders interface {
	CreateOrder(ctx context.Context, o domain.Order) (int64, error)
	AddOrderItem(ctx context.Context, item domain.OrderItem) error

	// ListOrdersByUser returns the user's orders newest first.
	ListOrdersByUser(ctx context.Context, userID int64) ([]domain.Order, error)

	// GetOrderForUser returns ErrNotFound for orders of other users.
	GetOrderForUser(ctx context.Context, orderID, userID int64) (domain.Order, error)

	ListOrderLines(ctx context.Context, orderID int64) ([]domain.OrderLine, error)
}

type Reviews interface {
	GetReviewByOrder(ctx context.Context, orderID int64) (domain.OrderReview, error)

	// CreateReview returns ErrAlreadyExists if the order was already reviewed.
	CreateReview(ctx context.Context, r domain.OrderReview) (int64, error)

	CountReviews(ctx context.Context) (int64, error)

	// ListReviews returns one page of reviews newest first, joined with the
	// reviewer's username. ItemNames is left empty.
	ListReviews(ctx context.Context, limit, offset int64) ([]domain.ReviewListing, error)
}

type Sessions interface {
	GetSession(ctx context.Context, key string) (domain.SessionRecord, error)
	UpsertSession(ctx context.Context, rec domain.SessionRecord) error
	DeleteSession(ctx context.Context, key string) error

	// DeleteExpiredSessions removes sessions that expired at or before now
	// and reports how many were removed.
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}
