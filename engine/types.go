package engine

import "github.com/shopspring/decimal"

// Side represents the direction of an order.
type Side int

const (
	// Buy indicates a bid order.
	Buy Side = iota
	// Sell indicates an ask order.
	Sell
)

func (s Side) String() string {
	if s == Buy {
		return "buy"
	}
	return "sell"
}

// Order is a limit order accepted by the market. ID, Side and Price are
// fixed at creation; Quantity is the remaining amount and only the engine
// decrements it while executing trades. An order with zero quantity is
// fully filled.
type Order struct {
	ID       int64
	Side     Side
	Price    decimal.Decimal
	Quantity decimal.Decimal
}

// Trade records one execution between a sell order and a buy order. The
// trade always prints at the sell order's limit price, whichever side was
// the aggressor.
type Trade struct {
	SellOrderID int64
	BuyOrderID  int64
	Price       decimal.Decimal
	Quantity    decimal.Decimal
}

// Quote summarizes the best resting order on each side of the book.
type Quote struct {
	BestBid *Order
	BestAsk *Order
}

// bidRanksAbove reports whether a outranks b in the bid book: higher price
// first, then the older order (lower id) at equal prices.
func bidRanksAbove(a, b *Order) bool {
	if !a.Price.Equal(b.Price) {
		return a.Price.GreaterThan(b.Price)
	}
	return a.ID < b.ID
}

// askRanksAbove reports whether a outranks b in the ask book: lower price
// first, then the older order at equal prices.
func askRanksAbove(a, b *Order) bool {
	if !a.Price.Equal(b.Price) {
		return a.Price.LessThan(b.Price)
	}
	return a.ID < b.ID
}
