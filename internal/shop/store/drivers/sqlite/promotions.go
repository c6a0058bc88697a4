package sqlite

import (
	"context"

	"github.com/aussiebroadwan/fruitshop/internal/shop/domain"
	"github.com/aussiebroadwan/fruitshop/internal/shop/store"
	"github.com/aussiebroadwan/fruitshop/internal/shop/store/drivers/sqlite/gen"
)

type promotionsRepo struct {
	q *gen.Queries
}

func (r *promotionsRepo) ListPromotions(ctx context.Context) ([]domain.Promotion, error) {
	rows, err := r.q.ListPromotions(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Promotion, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapPromotion(row))
	}
	return out, nil
}

func (r *promotionsRepo) GetPromotionByCode(ctx context.Context, code string) (domain.Promotion, error) {
	row, err := r.q.GetPromotionByCode(ctx, code)
	if err != nil {
		return domain.Promotion{}, mapNotFound(err)
	}
	return mapPromotion(row), nil
}

func (r *promotionsRepo) CreatePromotion(ctx context.Context, p domain.Promotion) (int64, error) {
	return r.q.CreatePromotion(ctx, gen.CreatePromotionParams{
		Code:       p.Code,
		DiscountBp: domain.Cents(p.Discount),
		UsesLeft:   p.UsesLeft,
	})
}

func (r *promotionsRepo) DeletePromotion(ctx context.Context, id int64) error {
	n, err := r.q.DeletePromotion(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *promotionsRepo) ConsumePromotionUse(ctx context.Context, id int64) error {
	return mapRowsAffected(r.q.ConsumePromotionUse(ctx, id))
}
