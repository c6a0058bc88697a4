package sqlite

import (
	"database/sql"

	"github.com/aussiebroadwan/fruitshop/internal/shop/store"
	"github.com/aussiebroadwan/fruitshop/internal/shop/store/drivers/sqlite/gen"
)

// repos binds every table repo to one set of queries, either on the pool or
// on a transaction.
type repos struct {
	q *gen.Queries
}

func (r repos) Users() store.Users           { return &usersRepo{q: r.q} }
func (r repos) Fruits() store.Fruits         { return &fruitsRepo{q: r.q} }
func (r repos) Promotions() store.Promotions { return &promotionsRepo{q: r.q} }
func (r repos) Orders() store.Orders         { return &ordersRepo{q: r.q} }
func (r repos) Reviews() store.Reviews       { return &reviewsRepo{q: r.q} }
func (r repos) Sessions() store.Sessions     { return &sessionsRepo{q: r.q} }

type txStore struct {
	repos

	tx *sql.Tx
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

var (
	_ store.Store = (*Store)(nil)
	_ store.Tx    = (*txStore)(nil)
)
