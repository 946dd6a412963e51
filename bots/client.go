package bots

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"stockmarket/engine"
)

// ThrottledClient wraps a market loop with basic rate limiting and
// bookkeeping of which order ids this process submitted.
type ThrottledClient struct {
	loop      *engine.MarketLoop
	symbol    string
	priceStep decimal.Decimal
	basePrice decimal.Decimal
	throttle  <-chan time.Time
	trades    <-chan engine.Trade
	mu        sync.Mutex
	owned     map[int64]struct{}
}

// NewThrottledClient builds a client around loop. priceStep is the grid bots
// quote on; basePrice is the reference used while the book is still empty.
func NewThrottledClient(loop *engine.MarketLoop, symbol string, priceStep, basePrice decimal.Decimal, throttle <-chan time.Time) *ThrottledClient {
	return &ThrottledClient{
		loop:      loop,
		symbol:    symbol,
		priceStep: priceStep,
		basePrice: basePrice,
		throttle:  throttle,
		trades:    loop.TradeEvents(),
		owned:     make(map[int64]struct{}),
	}
}

func (c *ThrottledClient) waitThrottle(ctx context.Context) error {
	if c.throttle == nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.throttle:
		return nil
	}
}

func (c *ThrottledClient) EnqueueOrder(ctx context.Context, side engine.Side, price, quantity decimal.Decimal) (int64, error) {
	if err := c.waitThrottle(ctx); err != nil {
		return 0, err
	}
	id := c.loop.EnqueueOrder(side, price, quantity)
	c.mu.Lock()
	c.owned[id] = struct{}{}
	c.mu.Unlock()
	return id, nil
}

func (c *ThrottledClient) Quote(ctx context.Context) (engine.Quote, error) {
	done := make(chan engine.Quote, 1)
	go func() {
		done <- c.loop.Quote()
	}()

	select {
	case <-ctx.Done():
		return engine.Quote{}, ctx.Err()
	case quote := <-done:
		return quote, nil
	}
}

func (c *ThrottledClient) TradeEvents() <-chan engine.Trade {
	return c.trades
}

func (c *ThrottledClient) Symbol() string {
	return c.symbol
}

func (c *ThrottledClient) PriceStep() decimal.Decimal {
	return c.priceStep
}

func (c *ThrottledClient) BasePrice() decimal.Decimal {
	return c.basePrice
}

func (c *ThrottledClient) OwnsOrder(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.owned[id]
	return ok
}
