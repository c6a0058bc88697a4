package domain

import "github.com/shopspring/decimal"

// Promotion is a percentage discount code. Codes are not unique; lookups
// resolve to the lowest id.
type Promotion struct {
	ID       int64
	Code     string
	Discount decimal.Decimal // percent, 0-100 with two places
	UsesLeft int64
}

// Redeemable reports whether the code still has uses left.
func (p Promotion) Redeemable() bool { return p.UsesLeft > 0 }
