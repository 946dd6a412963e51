package bots

import (
	"context"

	"github.com/shopspring/decimal"

	"stockmarket/engine"
)

// Bot represents a trading agent that can be run under a supervisor.
type Bot interface {
	Start(ctx context.Context, client EngineClient)
}

// EngineClient abstracts the minimal surface bots need from the matching
// engine. Orders cannot be canceled once submitted, so bots shape flow by
// where and when they quote, not by pulling stale orders.
type EngineClient interface {
	EnqueueOrder(ctx context.Context, side engine.Side, price, quantity decimal.Decimal) (int64, error)
	Quote(ctx context.Context) (engine.Quote, error)
	TradeEvents() <-chan engine.Trade
	Symbol() string
	PriceStep() decimal.Decimal
	BasePrice() decimal.Decimal
	OwnsOrder(id int64) bool
}
