package service

import (
	"context"

	"github.com/aussiebroadwan/fruitshop/internal/shop/domain"
	"github.com/aussiebroadwan/fruitshop/internal/shop/store"
)

type CatalogService struct {
	Store store.Store
}

// List returns the catalog ordered by id.
func (s *CatalogService) List(ctx context.Context) ([]domain.Fruit, error) {
	return s.Store.Fruits().ListFruits(ctx)
}

// User returns the account behind id, used by pages that show a balance.
func (s *CatalogService) User(ctx context.Context, id int64) (domain.User, error) {
	return s.Store.Users().GetUserByID(ctx, id)
}
