package engine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func TestFullMatchAtSamePrice(t *testing.T) {
	market := NewMarket()

	buyID := market.EnqueueOrder(Buy, d("1500"), d("1"))
	sellID := market.EnqueueOrder(Sell, d("1500"), d("1"))

	orders := market.Orders()
	assert.Len(t, orders, 2)
	assert.True(t, orders[0].Quantity.IsZero(), "buy order should be fully filled")
	assert.True(t, orders[1].Quantity.IsZero(), "sell order should be fully filled")

	trades := market.Trades()
	assert.Len(t, trades, 1)
	assert.Equal(t, buyID, trades[0].BuyOrderID)
	assert.Equal(t, sellID, trades[0].SellOrderID)
	assert.True(t, trades[0].Price.Equal(d("1500")))
	assert.True(t, trades[0].Quantity.Equal(d("1")))

	assert.Equal(t, 0, market.bids.size())
	assert.Equal(t, 0, market.asks.size())
}

func TestNoMatchWhenPricesDoNotCross(t *testing.T) {
	market := NewMarket()

	market.EnqueueOrder(Buy, d("1400"), d("1"))
	market.EnqueueOrder(Sell, d("1500"), d("1"))

	assert.Empty(t, market.Trades())

	orders := market.Orders()
	assert.Len(t, orders, 2)
	assert.True(t, orders[0].Quantity.Equal(d("1")))
	assert.True(t, orders[1].Quantity.Equal(d("1")))

	assert.Equal(t, 1, market.bids.size())
	assert.Equal(t, 1, market.asks.size())
}

func TestTimePriorityAtEqualPrice(t *testing.T) {
	market := NewMarket()

	first := market.EnqueueOrder(Buy, d("1500"), d("1"))
	second := market.EnqueueOrder(Buy, d("1500"), d("1"))
	sellID := market.EnqueueOrder(Sell, d("1500"), d("2"))

	trades := market.Trades()
	assert.Len(t, trades, 2)
	assert.Equal(t, first, trades[0].BuyOrderID, "earlier order matches first")
	assert.Equal(t, second, trades[1].BuyOrderID)
	for _, trade := range trades {
		assert.Equal(t, sellID, trade.SellOrderID)
		assert.True(t, trade.Quantity.Equal(d("1")))
	}

	for _, order := range market.Orders() {
		assert.True(t, order.Quantity.IsZero())
	}
	assert.Equal(t, 0, market.bids.size())
	assert.Equal(t, 0, market.asks.size())
}

func TestPricePriorityBeatsTimePriority(t *testing.T) {
	market := NewMarket()

	lower := market.EnqueueOrder(Buy, d("1500"), d("1"))
	higher := market.EnqueueOrder(Buy, d("1600"), d("1"))
	market.EnqueueOrder(Sell, d("1500"), d("2"))

	trades := market.Trades()
	assert.Len(t, trades, 2)
	assert.Equal(t, higher, trades[0].BuyOrderID, "better-priced bid matches first")
	assert.Equal(t, lower, trades[1].BuyOrderID)
}

func TestTradePrintsAtSellOrderPrice(t *testing.T) {
	market := NewMarket()

	// Resting sell, aggressing buy at a higher limit.
	sellID := market.EnqueueOrder(Sell, d("1500"), d("1"))
	buyID := market.EnqueueOrder(Buy, d("1600"), d("1"))

	trades := market.Trades()
	assert.Len(t, trades, 1)
	assert.Equal(t, sellID, trades[0].SellOrderID)
	assert.Equal(t, buyID, trades[0].BuyOrderID)
	assert.True(t, trades[0].Price.Equal(d("1500")), "trade prints at the sell limit")

	// Resting buy, aggressing sell at a lower limit: still the sell's price.
	market = NewMarket()
	market.EnqueueOrder(Buy, d("1600"), d("1"))
	market.EnqueueOrder(Sell, d("1500"), d("1"))

	trades = market.Trades()
	assert.Len(t, trades, 1)
	assert.True(t, trades[0].Price.Equal(d("1500")))
}

func TestPartialFillRestsRemainder(t *testing.T) {
	market := NewMarket()

	market.EnqueueOrder(Buy, d("1500"), d("5"))
	market.EnqueueOrder(Sell, d("1500"), d("2"))

	trades := market.Trades()
	assert.Len(t, trades, 1)
	assert.True(t, trades[0].Quantity.Equal(d("2")))

	orders := market.Orders()
	assert.True(t, orders[0].Quantity.Equal(d("3")), "buy keeps the unfilled remainder")
	assert.True(t, orders[1].Quantity.IsZero())

	assert.Equal(t, 1, market.bids.size())
	assert.Equal(t, 0, market.asks.size())
	assert.True(t, market.bids.peekTop().Quantity.Equal(d("3")))
}

func TestAggressorSweepsMultipleLevels(t *testing.T) {
	market := NewMarket()

	market.EnqueueOrder(Sell, d("1500"), d("1"))
	market.EnqueueOrder(Sell, d("1520"), d("1"))
	market.EnqueueOrder(Sell, d("1540"), d("1"))
	market.EnqueueOrder(Buy, d("1530"), d("3"))

	trades := market.Trades()
	assert.Len(t, trades, 2)
	assert.True(t, trades[0].Price.Equal(d("1500")), "best ask fills first")
	assert.True(t, trades[1].Price.Equal(d("1520")))

	orders := market.Orders()
	assert.True(t, orders[3].Quantity.Equal(d("1")), "buy rests its remainder")
	assert.Equal(t, 1, market.bids.size())
	assert.Equal(t, 1, market.asks.size(), "1540 ask is above the buy limit")
}

func TestFractionalQuantities(t *testing.T) {
	market := NewMarket()

	market.EnqueueOrder(Buy, d("1500.25"), d("0.7"))
	market.EnqueueOrder(Sell, d("1500.25"), d("0.3"))

	trades := market.Trades()
	assert.Len(t, trades, 1)
	assert.True(t, trades[0].Quantity.Equal(d("0.3")))

	orders := market.Orders()
	assert.True(t, orders[0].Quantity.Equal(d("0.4")))
	assert.True(t, orders[1].Quantity.IsZero())
}

func TestOrderIDsAreAssignedInSequence(t *testing.T) {
	market := NewMarket()

	first := market.EnqueueOrder(Buy, d("10"), d("1"))
	second := market.EnqueueOrder(Sell, d("20"), d("1"))
	third := market.EnqueueOrder(Buy, d("15"), d("1"))

	assert.Equal(t, int64(1), first)
	assert.Equal(t, int64(2), second)
	assert.Equal(t, int64(3), third)

	orders := market.Orders()
	assert.Len(t, orders, 3)
	for i, order := range orders {
		assert.Equal(t, int64(i+1), order.ID, "history is in submission order")
	}
}

func TestHistoryRetainsFilledOrders(t *testing.T) {
	market := NewMarket()

	market.EnqueueOrder(Buy, d("1500"), d("1"))
	market.EnqueueOrder(Sell, d("1500"), d("1"))
	market.EnqueueOrder(Buy, d("1490"), d("1"))

	orders := market.Orders()
	assert.Len(t, orders, 3, "filled orders stay in history")
	assert.Len(t, market.Trades(), 1)
}

func TestOrdersReturnsCopies(t *testing.T) {
	market := NewMarket()
	market.EnqueueOrder(Buy, d("1500"), d("1"))

	orders := market.Orders()
	orders[0].Quantity = d("99")

	again := market.Orders()
	assert.True(t, again[0].Quantity.Equal(d("1")), "mutating the view must not touch the book")
}
