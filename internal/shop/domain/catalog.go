package domain

import "github.com/shopspring/decimal"

type Fruit struct {
	ID    int64
	Name  string
	Price decimal.Decimal
}

// Catalog indexes fruits by id.
type Catalog map[int64]Fruit

func NewCatalog(fruits []Fruit) Catalog {
	c := make(Catalog, len(fruits))
	for _, f := range fruits {
		c[f.ID] = f
	}
	return c
}

// Cart maps fruit id to requested quantity.
type Cart map[int64]int64
