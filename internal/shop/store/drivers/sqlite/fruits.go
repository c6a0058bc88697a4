package sqlite

import (
	"context"

	"github.com/aussiebroadwan/fruitshop/internal/shop/domain"
	"github.com/aussiebroadwan/fruitshop/internal/shop/store/drivers/sqlite/gen"
)

type fruitsRepo struct {
	q *gen.Queries
}

func (r *fruitsRepo) ListFruits(ctx context.Context) ([]domain.Fruit, error) {
	rows, err := r.q.ListFruits(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Fruit, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapFruit(row))
	}
	return out, nil
}

func (r *fruitsRepo) CreateFruit(ctx context.Context, f domain.Fruit) (int64, error) {
	return r.q.CreateFruit(ctx, gen.CreateFruitParams{
		Name:       f.Name,
		PriceCents: domain.Cents(f.Price),
	})
}
