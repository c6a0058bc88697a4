package domain

import "github.com/shopspring/decimal"

// MoneyPlaces is the number of decimal places every amount is kept at.
const MoneyPlaces = 2

var hundred = decimal.NewFromInt(100)

// RoundMoney rounds half away from zero to two places.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

// Cents converts an amount to integer cents for storage.
func Cents(d decimal.Decimal) int64 {
	return RoundMoney(d).Shift(MoneyPlaces).IntPart()
}

// FromCents converts stored cents back to an amount.
func FromCents(c int64) decimal.Decimal {
	return decimal.New(c, -MoneyPlaces)
}

// Percent returns p as a fraction, e.g. 10 -> 0.1.
func Percent(p decimal.Decimal) decimal.Decimal {
	return p.Div(hundred)
}
