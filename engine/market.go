package engine

import "github.com/shopspring/decimal"

// Market is a single-instrument continuous double-auction matching core.
// Each incoming limit order is matched immediately against the opposite
// book under price-time priority; any unfilled remainder rests on its own
// side. Every order ever submitted stays in the history, fully filled or
// not, and every execution is appended to the trade log.
//
// Market is not safe for concurrent use. Callers submitting from multiple
// goroutines must serialize access externally, e.g. through MarketLoop.
type Market struct {
	orders      []*Order
	trades      []Trade
	lastOrderID int64
	bids        *bookSide
	asks        *bookSide
}

// NewMarket builds an empty market.
func NewMarket() *Market {
	return &Market{
		bids: newBookSide(bidRanksAbove),
		asks: newBookSide(askRanksAbove),
	}
}

// EnqueueOrder accepts a limit order, matches it against the opposite book
// and rests any remainder. It returns the id assigned to the order. Price
// and quantity are assumed positive; the engine performs no validation.
func (m *Market) EnqueueOrder(side Side, price, quantity decimal.Decimal) int64 {
	m.lastOrderID++
	order := &Order{ID: m.lastOrderID, Side: side, Price: price, Quantity: quantity}
	m.orders = append(m.orders, order)

	if side == Buy {
		m.match(order, m.asks, m.bids)
	} else {
		m.match(order, m.bids, m.asks)
	}
	return order.ID
}

func (m *Market) match(incoming *Order, opposing, resting *bookSide) {
	for incoming.Quantity.IsPositive() && opposing.size() > 0 {
		best := opposing.peekTop()
		if !crosses(incoming, best) {
			break
		}

		matched := decimal.Min(incoming.Quantity, best.Quantity)
		m.trades = append(m.trades, makeTrade(incoming, best, matched))
		incoming.Quantity = incoming.Quantity.Sub(matched)
		best.Quantity = best.Quantity.Sub(matched)

		if best.Quantity.IsZero() {
			opposing.popTop()
		}
	}

	if incoming.Quantity.IsPositive() {
		resting.push(incoming)
	}
}

// crosses reports whether the incoming order's limit overlaps the best
// opposing order's limit.
func crosses(incoming, best *Order) bool {
	if incoming.Side == Buy {
		return best.Price.LessThanOrEqual(incoming.Price)
	}
	return best.Price.GreaterThanOrEqual(incoming.Price)
}

// makeTrade builds the execution record for one match. The trade prints at
// the sell order's limit price regardless of which order was incoming.
func makeTrade(a, b *Order, quantity decimal.Decimal) Trade {
	sell, buy := a, b
	if a.Side == Buy {
		sell, buy = b, a
	}
	return Trade{
		SellOrderID: sell.ID,
		BuyOrderID:  buy.ID,
		Price:       sell.Price,
		Quantity:    quantity,
	}
}

// Orders returns the full order history in submission order, including
// fully filled orders. The elements are copies, safe for the caller to keep.
func (m *Market) Orders() []Order {
	out := make([]Order, len(m.orders))
	for i, order := range m.orders {
		out[i] = *order
	}
	return out
}

// Trades returns every executed trade in match order.
func (m *Market) Trades() []Trade {
	out := make([]Trade, len(m.trades))
	copy(out, m.trades)
	return out
}

func (m *Market) quote() Quote {
	q := Quote{}
	if best := m.bids.peekTop(); best != nil {
		copy := *best
		q.BestBid = &copy
	}
	if best := m.asks.peekTop(); best != nil {
		copy := *best
		q.BestAsk = &copy
	}
	return q
}
