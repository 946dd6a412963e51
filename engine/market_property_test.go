package engine

import (
	"testing"

	"github.com/shopspring/decimal"
	"pgregory.net/rapid"
)

// Random order streams must keep the matching invariants: quantities never
// go negative, the book never stays crossed, fills conserve quantity, and
// every trade prints at the sell order's limit.
func TestPropertyMatchingInvariants(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		market := NewMarket()
		initial := make(map[int64]decimal.Decimal)

		count := rapid.IntRange(1, 60).Draw(t, "orders")
		for i := 0; i < count; i++ {
			side := Sell
			if rapid.Bool().Draw(t, "isBuy") {
				side = Buy
			}
			price := decimal.NewFromInt(rapid.Int64Range(1, 200).Draw(t, "price"))
			quantity := decimal.NewFromInt(rapid.Int64Range(1, 50).Draw(t, "quantity"))

			id := market.EnqueueOrder(side, price, quantity)
			initial[id] = quantity

			quote := market.quote()
			if quote.BestBid != nil && quote.BestAsk != nil {
				if quote.BestBid.Price.GreaterThanOrEqual(quote.BestAsk.Price) {
					t.Fatalf("book crossed: best bid %s >= best ask %s",
						quote.BestBid.Price, quote.BestAsk.Price)
				}
			}
		}

		orders := market.Orders()
		if len(orders) != count {
			t.Fatalf("history has %d orders, submitted %d", len(orders), count)
		}

		byID := make(map[int64]Order, len(orders))
		filled := make(map[int64]decimal.Decimal, len(orders))
		for _, order := range orders {
			if order.Quantity.IsNegative() {
				t.Fatalf("order %d has negative quantity %s", order.ID, order.Quantity)
			}
			byID[order.ID] = order
			filled[order.ID] = decimal.Zero
		}

		for _, trade := range market.Trades() {
			if !trade.Quantity.IsPositive() {
				t.Fatalf("trade has non-positive quantity %s", trade.Quantity)
			}
			sell, buy := byID[trade.SellOrderID], byID[trade.BuyOrderID]
			if !trade.Price.Equal(sell.Price) {
				t.Fatalf("trade price %s differs from sell limit %s", trade.Price, sell.Price)
			}
			if sell.Price.GreaterThan(buy.Price) {
				t.Fatalf("matched sell limit %s above buy limit %s", sell.Price, buy.Price)
			}
			filled[trade.SellOrderID] = filled[trade.SellOrderID].Add(trade.Quantity)
			filled[trade.BuyOrderID] = filled[trade.BuyOrderID].Add(trade.Quantity)
		}

		for id, order := range byID {
			want := initial[id].Sub(filled[id])
			if !order.Quantity.Equal(want) {
				t.Fatalf("order %d remaining %s, want %s after %s filled of %s",
					id, order.Quantity, want, filled[id], initial[id])
			}
		}
	})
}

// A resting order is in exactly one book while open and in none once filled.
func TestPropertyBookMembership(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		market := NewMarket()

		count := rapid.IntRange(1, 40).Draw(t, "orders")
		for i := 0; i < count; i++ {
			side := Sell
			if rapid.Bool().Draw(t, "isBuy") {
				side = Buy
			}
			price := decimal.NewFromInt(rapid.Int64Range(90, 110).Draw(t, "price"))
			quantity := decimal.NewFromInt(rapid.Int64Range(1, 5).Draw(t, "quantity"))
			market.EnqueueOrder(side, price, quantity)
		}

		resting := make(map[int64]int)
		for _, order := range market.bids.orders {
			if !order.Quantity.IsPositive() {
				t.Fatalf("bid %d rests with quantity %s", order.ID, order.Quantity)
			}
			if order.Side != Buy {
				t.Fatalf("order %d on the bid side is a %s", order.ID, order.Side)
			}
			resting[order.ID]++
		}
		for _, order := range market.asks.orders {
			if !order.Quantity.IsPositive() {
				t.Fatalf("ask %d rests with quantity %s", order.ID, order.Quantity)
			}
			if order.Side != Sell {
				t.Fatalf("order %d on the ask side is a %s", order.ID, order.Side)
			}
			resting[order.ID]++
		}
		for id, n := range resting {
			if n != 1 {
				t.Fatalf("order %d appears %d times across the books", id, n)
			}
		}

		open := 0
		for _, order := range market.Orders() {
			if order.Quantity.IsPositive() {
				open++
				if resting[order.ID] != 1 {
					t.Fatalf("open order %d missing from its book", order.ID)
				}
			} else if resting[order.ID] != 0 {
				t.Fatalf("filled order %d still rests in a book", order.ID)
			}
		}
		if open != market.bids.size()+market.asks.size() {
			t.Fatalf("%d open orders but %d resting entries",
				open, market.bids.size()+market.asks.size())
		}
	})
}
