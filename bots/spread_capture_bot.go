package bots

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"stockmarket/engine"
)

// SpreadCaptureBot quotes a paired bid and ask one step inside the spread,
// re-quoting whenever the reference price drifts past a threshold. Since
// resting orders cannot be pulled, stale pairs are simply left behind to be
// crossed by later flow.
type SpreadCaptureBot struct {
	Interval       time.Duration
	ThresholdSteps int64
	Quantity       decimal.Decimal
}

func NewSpreadCaptureBot() *SpreadCaptureBot {
	return &SpreadCaptureBot{
		Interval:       300 * time.Millisecond,
		ThresholdSteps: 3,
		Quantity:       decimal.NewFromInt(1),
	}
}

func (b *SpreadCaptureBot) Start(ctx context.Context, client EngineClient) {
	ticker := time.NewTicker(b.Interval)
	defer ticker.Stop()

	var anchor decimal.Decimal
	quoted := false
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			anchor, quoted = b.maybeQuote(ctx, client, anchor, quoted)
		}
	}
}

func (b *SpreadCaptureBot) maybeQuote(ctx context.Context, client EngineClient, anchor decimal.Decimal, quoted bool) (decimal.Decimal, bool) {
	quote, err := client.Quote(ctx)
	if err != nil {
		return anchor, quoted
	}
	ref := referencePrice(quote, client.BasePrice())
	if !ref.IsPositive() {
		return anchor, quoted
	}

	step := client.PriceStep()
	threshold := step.Mul(decimal.NewFromInt(b.ThresholdSteps))
	if quoted && ref.Sub(anchor).Abs().LessThan(threshold) {
		return anchor, quoted
	}

	buyPrice := ref.Sub(step)
	if !buyPrice.IsPositive() {
		buyPrice = step
	}
	sellPrice := ref.Add(step)

	if _, err := client.EnqueueOrder(ctx, engine.Buy, buyPrice, b.Quantity); err != nil {
		return anchor, quoted
	}
	if _, err := client.EnqueueOrder(ctx, engine.Sell, sellPrice, b.Quantity); err != nil {
		return anchor, quoted
	}

	return ref, true
}
