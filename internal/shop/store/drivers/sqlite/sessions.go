package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/fruitshop/internal/shop/domain"
	"github.com/aussiebroadwan/fruitshop/internal/shop/store/drivers/sqlite/gen"
)

type sessionsRepo struct {
	q *gen.Queries
}

func (r *sessionsRepo) GetSession(ctx context.Context, key string) (domain.SessionRecord, error) {
	row, err := r.q.GetSession(ctx, key)
	if err != nil {
		return domain.SessionRecord{}, mapNotFound(err)
	}
	return domain.SessionRecord{
		Key:       row.IDHash,
		Data:      row.Data,
		ExpiresAt: fromUnix(row.ExpiresAt),
	}, nil
}

func (r *sessionsRepo) UpsertSession(ctx context.Context, rec domain.SessionRecord) error {
	return r.q.UpsertSession(ctx, gen.UpsertSessionParams{
		IDHash:    rec.Key,
		Data:      rec.Data,
		ExpiresAt: rec.ExpiresAt.Unix(),
	})
}

func (r *sessionsRepo) DeleteSession(ctx context.Context, key string) error {
	return r.q.DeleteSession(ctx, key)
}

func (r *sessionsRepo) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	return r.q.DeleteExpiredSessions(ctx, now.Unix())
}
