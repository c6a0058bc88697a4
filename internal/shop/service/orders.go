package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/aussiebroadwan/fruitshop/internal/shop/domain"
	"github.com/aussiebroadwan/fruitshop/internal/shop/store"
)

type OrderService struct {
	Store store.Store
}

// List returns the user's orders, newest first.
func (s *OrderService) List(ctx context.Context, userID int64) ([]domain.Order, error) {
	return s.Store.Orders().ListOrdersByUser(ctx, userID)
}

// Get returns one of the user's orders with its lines and review. Orders of
// other users are reported as not found.
func (s *OrderService) Get(ctx context.Context, userID, orderID int64) (domain.OrderDetail, error) {
	order, err := s.Store.Orders().GetOrderForUser(ctx, orderID, userID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.OrderDetail{}, ErrOrderNotFound
	}
	if err != nil {
		return domain.OrderDetail{}, fmt.Errorf("failed to load order: %w", err)
	}

	lines, err := s.Store.Orders().ListOrderLines(ctx, orderID)
	if err != nil {
		return domain.OrderDetail{}, fmt.Errorf("failed to load order lines: %w", err)
	}

	detail := domain.OrderDetail{Order: order, Lines: lines}

	review, err := s.Store.Reviews().GetReviewByOrder(ctx, orderID)
	switch {
	case err == nil:
		detail.Review = &review
	case !errors.Is(err, store.ErrNotFound):
		return domain.OrderDetail{}, fmt.Errorf("failed to load review: %w", err)
	}
	return detail, nil
}
