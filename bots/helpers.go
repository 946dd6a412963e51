package bots

import (
	"github.com/shopspring/decimal"

	"stockmarket/engine"
)

var two = decimal.NewFromInt(2)

// referencePrice picks the price bots quote around: the mid when both sides
// are populated, the single populated side otherwise, and the configured
// base price while the book is empty.
func referencePrice(quote engine.Quote, fallback decimal.Decimal) decimal.Decimal {
	bid := decimal.Zero
	ask := decimal.Zero
	if quote.BestBid != nil {
		bid = quote.BestBid.Price
	}
	if quote.BestAsk != nil {
		ask = quote.BestAsk.Price
	}

	switch {
	case bid.IsPositive() && ask.IsPositive():
		return bid.Add(ask).Div(two)
	case bid.IsPositive():
		return bid
	case ask.IsPositive():
		return ask
	default:
		return fallback
	}
}
