package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID        int64
	UserID    int64
	PromoCode string // snapshot of the redeemed code, empty if none
	Subtotal  decimal.Decimal
	Discount  decimal.Decimal
	Total     decimal.Decimal
	CreatedAt time.Time
}

type OrderItem struct {
	OrderID   int64
	FruitID   int64
	Quantity  int64
	UnitPrice decimal.Decimal
}

// OrderLine is an order item joined with its fruit name.
type OrderLine struct {
	FruitID   int64
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int64
}

func (l OrderLine) Amount() decimal.Decimal {
	return RoundMoney(l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity)))
}

type OrderReview struct {
	ID        int64
	OrderID   int64
	Title     string
	Comments  string
	CreatedAt time.Time
}

// OrderDetail is everything the order page shows.
type OrderDetail struct {
	Order  Order
	Lines  []OrderLine
	Review *OrderReview
}

// ReviewListing is a review flattened with the reviewer and the names of
// the fruit in the reviewed order.
type ReviewListing struct {
	ReviewID  int64
	OrderID   int64
	Title     string
	Comments  string
	CreatedAt time.Time
	Username  string
	ItemNames []string
}
