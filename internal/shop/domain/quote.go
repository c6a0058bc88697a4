package domain

import "github.com/shopspring/decimal"

// Quote is the priced form of a cart.
type Quote struct {
	Lines     []QuoteLine
	Subtotal  decimal.Decimal
	Discount  decimal.Decimal
	Total     decimal.Decimal
	PromoCode string // applied code, empty if none
}

type QuoteLine struct {
	FruitID   int64
	Quantity  int64
	UnitPrice decimal.Decimal
}
