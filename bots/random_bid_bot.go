package bots

import (
	"context"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"stockmarket/engine"
)

// RandomBidBot places limit bids a random number of steps below the
// reference price.
type RandomBidBot struct {
	Interval   time.Duration
	Quantity   decimal.Decimal
	RangeSteps int64
	rand       *rand.Rand
}

func NewRandomBidBot() *RandomBidBot {
	return &RandomBidBot{
		Interval:   200 * time.Millisecond,
		Quantity:   decimal.NewFromInt(1),
		RangeSteps: 5,
		rand:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (b *RandomBidBot) Start(ctx context.Context, client EngineClient) {
	ticker := time.NewTicker(b.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			b.placeBid(ctx, client)
		}
	}
}

func (b *RandomBidBot) placeBid(ctx context.Context, client EngineClient) {
	quote, err := client.Quote(ctx)
	if err != nil {
		return
	}
	ref := referencePrice(quote, client.BasePrice())
	if !ref.IsPositive() {
		return
	}

	steps := decimal.NewFromInt(b.rand.Int63n(b.RangeSteps + 1))
	price := ref.Sub(steps.Mul(client.PriceStep()))
	if !price.IsPositive() {
		price = client.PriceStep()
	}

	_, _ = client.EnqueueOrder(ctx, engine.Buy, price, b.Quantity)
}
