package session

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/fruitshop/internal/shop/domain"
	"github.com/aussiebroadwan/fruitshop/internal/shop/store"
)

// SQLStore keeps sessions in the shop database's sessions table. Expired
// rows are ignored on read and purged by housekeeping.
type SQLStore struct {
	db  store.Store
	now func() time.Time
}

func NewSQLStore(db store.Store) *SQLStore {
	return &SQLStore{db: db, now: time.Now}
}

func (s *SQLStore) Load(ctx context.Context, key string) ([]byte, error) {
	rec, err := s.db.Sessions().GetSession(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if !s.now().Before(rec.ExpiresAt) {
		return nil, ErrNotFound
	}
	return rec.Data, nil
}

func (s *SQLStore) Save(ctx context.Context, key string, data []byte, expiresAt time.Time) error {
	return s.db.Sessions().UpsertSession(ctx, domain.SessionRecord{
		Key:       key,
		Data:      data,
		ExpiresAt: expiresAt,
	})
}

func (s *SQLStore) Delete(ctx context.Context, key string) error {
	return s.db.Sessions().DeleteSession(ctx, key)
}

func (s *SQLStore) Ping(ctx context.Context) error { return s.db.Ping(ctx) }
