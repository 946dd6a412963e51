package bots

import (
	"context"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"stockmarket/engine"
)

// RandomAskBot places limit asks a random number of steps above the
// reference price.
type RandomAskBot struct {
	Interval   time.Duration
	Quantity   decimal.Decimal
	RangeSteps int64
	rand       *rand.Rand
}

func NewRandomAskBot() *RandomAskBot {
	return &RandomAskBot{
		Interval:   200 * time.Millisecond,
		Quantity:   decimal.NewFromInt(1),
		RangeSteps: 5,
		rand:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (b *RandomAskBot) Start(ctx context.Context, client EngineClient) {
	ticker := time.NewTicker(b.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			b.placeAsk(ctx, client)
		}
	}
}

func (b *RandomAskBot) placeAsk(ctx context.Context, client EngineClient) {
	quote, err := client.Quote(ctx)
	if err != nil {
		return
	}
	ref := referencePrice(quote, client.BasePrice())
	if !ref.IsPositive() {
		return
	}

	steps := decimal.NewFromInt(b.rand.Int63n(b.RangeSteps + 1))
	price := ref.Add(steps.Mul(client.PriceStep()))

	_, _ = client.EnqueueOrder(ctx, engine.Sell, price, b.Quantity)
}
