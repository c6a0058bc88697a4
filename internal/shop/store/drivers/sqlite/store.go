package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/aussiebroadwan/fruitshop/internal/shop/domain"
	"github.com/aussiebroadwan/fruitshop/internal/shop/store"
	"github.com/aussiebroadwan/fruitshop/internal/shop/store/drivers/sqlite/gen"
	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type Store struct {
	repos

	db  *sql.DB
	dsn string
}

// DSN turns a database file path into a DSN with the pragmas the store
// relies on. Writers take the lock up front so concurrent checkouts queue
// on busy_timeout instead of failing on lock upgrade.
func DSN(file string) string {
	v := url.Values{}
	v.Add("_pragma", "busy_timeout(5000)")
	v.Add("_pragma", "journal_mode(WAL)")
	v.Add("_pragma", "foreign_keys(1)")
	v.Set("_txlock", "immediate")
	return "file:" + file + "?" + v.Encode()
}

func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{repos: repos{q: gen.New(db)}, db: db, dsn: dsn}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Tx starts a read/write transaction and returns a Tx-scoped Store.
func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &txStore{repos: repos{q: s.q.WithTx(tx)}, tx: tx}, nil
}

// WithTx executes fn within a transaction, committing when fn returns nil.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}

	defer func() {
		_ = tx.Rollback() // no-op after commit
	}()

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit()
}

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

// mapUnique turns a UNIQUE or PRIMARY KEY violation into ErrAlreadyExists.
func mapUnique(err error) error {
	if err == nil {
		return nil
	}
	var se *msqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return store.ErrAlreadyExists
		}
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return store.ErrAlreadyExists
	}
	return err
}

// mapRowsAffected reports ErrConflict for guarded updates that matched nothing.
func mapRowsAffected(n int64, err error) error {
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrConflict
	}
	return nil
}

func mapStringNull(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}

func mapNullString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

func fromUnix(sec int64) time.Time { return time.Unix(sec, 0).UTC() }

func mapUser(row gen.User) domain.User {
	return domain.User{
		ID:           row.ID,
		Username:     row.Username,
		PasswordHash: row.PasswordHash,
		OTPSecret:    row.OtpSecret,
		Role:         domain.Role(row.Role),
		Balance:      domain.FromCents(row.BalanceCents),
		CreatedAt:    fromUnix(row.CreatedAt),
	}
}

func mapFruit(row gen.Fruit) domain.Fruit {
	return domain.Fruit{
		ID:    row.ID,
		Name:  row.Name,
		Price: domain.FromCents(row.PriceCents),
	}
}

// Discounts are stored in basis points so two-place percentages stay exact.
func mapPromotion(row gen.Promotion) domain.Promotion {
	return domain.Promotion{
		ID:       row.ID,
		Code:     row.Code,
		Discount: domain.FromCents(row.DiscountBp),
		UsesLeft: row.UsesLeft,
	}
}

func mapOrder(row gen.Order) domain.Order {
	return domain.Order{
		ID:        row.ID,
		UserID:    row.UserID,
		PromoCode: mapNullString(row.PromoCode),
		Subtotal:  domain.FromCents(row.SubtotalCents),
		Discount:  domain.FromCents(row.DiscountCents),
		Total:     domain.FromCents(row.TotalCents),
		CreatedAt: fromUnix(row.CreatedAt),
	}
}

func mapOrderLine(row gen.ListOrderLinesRow) domain.OrderLine {
	return domain.OrderLine{
		FruitID:   row.FruitID,
		Name:      row.Name,
		UnitPrice: domain.FromCents(row.UnitPriceCents),
		Quantity:  row.Quantity,
	}
}

func mapReview(row gen.OrderReview) domain.OrderReview {
	return domain.OrderReview{
		ID:        row.ID,
		OrderID:   row.OrderID,
		Title:     row.Title,
		Comments:  row.Comments,
		CreatedAt: fromUnix(row.CreatedAt),
	}
}

func mapReviewListing(row gen.ListReviewPageRow) domain.ReviewListing {
	return domain.ReviewListing{
		ReviewID:  row.ID,
		OrderID:   row.OrderID,
		Title:     row.Title,
		Comments:  row.Comments,
		CreatedAt: fromUnix(row.CreatedAt),
		Username:  row.Username,
	}
}
