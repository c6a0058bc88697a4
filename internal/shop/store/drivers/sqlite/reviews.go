package sqlite

import (
	"context"

	"github.com/aussiebroadwan/fruitshop/internal/shop/domain"
	"github.com/aussiebroadwan/fruitshop/internal/shop/store/drivers/sqlite/gen"
)

type reviewsRepo struct {
	q *gen.Queries
}

func (r *reviewsRepo) GetReviewByOrder(ctx context.Context, orderID int64) (domain.OrderReview, error) {
	row, err := r.q.GetReviewByOrder(ctx, orderID)
	if err != nil {
		return domain.OrderReview{}, mapNotFound(err)
	}
	return mapReview(row), nil
}

func (r *reviewsRepo) CreateReview(ctx context.Context, rev domain.OrderReview) (int64, error) {
	id, err := r.q.CreateReview(ctx, gen.CreateReviewParams{
		OrderID:   rev.OrderID,
		Title:     rev.Title,
		Comments:  rev.Comments,
		CreatedAt: rev.CreatedAt.Unix(),
	})
	if err != nil {
		return 0, mapUnique(err)
	}
	return id, nil
}

func (r *reviewsRepo) CountReviews(ctx context.Context) (int64, error) {
	return r.q.CountReviews(ctx)
}

func (r *reviewsRepo) ListReviews(ctx context.Context, limit, offset int64) ([]domain.ReviewListing, error) {
	rows, err := r.q.ListReviewPage(ctx, gen.ListReviewPageParams{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	out := make([]domain.ReviewListing, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapReviewListing(row))
	}
	return out, nil
}
