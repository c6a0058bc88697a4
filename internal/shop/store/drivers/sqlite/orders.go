package sqlite

import (
	"context"

	"github.com/aussiebroadwan/fruitshop/internal/shop/domain"
	"github.com/aussiebroadwan/fruitshop/internal/shop/store/drivers/sqlite/gen"
)

type ordersRepo struct {
	q *gen.Queries
}

func (r *ordersRepo) CreateOrder(ctx context.Context, o domain.Order) (int64, error) {
	return r.q.CreateOrder(ctx, gen.CreateOrderParams{
		UserID:        o.UserID,
		PromoCode:     mapStringNull(o.PromoCode),
		SubtotalCents: domain.Cents(o.Subtotal),
		DiscountCents: domain.Cents(o.Discount),
		TotalCents:    domain.Cents(o.Total),
		CreatedAt:     o.CreatedAt.Unix(),
	})
}

func (r *ordersRepo) AddOrderItem(ctx context.Context, item domain.OrderItem) error {
	return r.q.CreateOrderItem(ctx, gen.CreateOrderItemParams{
		OrderID:        item.OrderID,
		FruitID:        item.FruitID,
		Quantity:       item.Quantity,
		UnitPriceCents: domain.Cents(item.UnitPrice),
	})
}

func (r *ordersRepo) ListOrdersByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	rows, err := r.q.ListOrdersByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Order, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapOrder(row))
	}
	return out, nil
}

func (r *ordersRepo) GetOrderForUser(ctx context.Context, orderID, userID int64) (domain.Order, error) {
	row, err := r.q.GetOrderForUser(ctx, gen.GetOrderForUserParams{ID: orderID, UserID: userID})
	if err != nil {
		return domain.Order{}, mapNotFound(err)
	}
	return mapOrder(row), nil
}

func (r *ordersRepo) ListOrderLines(ctx context.Context, orderID int64) ([]domain.OrderLine, error) {
	rows, err := r.q.ListOrderLines(ctx, orderID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.OrderLine, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapOrderLine(row))
	}
	return out, nil
}
