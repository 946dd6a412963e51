package bots

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"stockmarket/engine"
)

// Supervisor orchestrates multiple bots with a shared client and PnL
// tracking over the trade stream.
type Supervisor struct {
	bots     []Bot
	client   *ThrottledClient
	pnl      *pnlTracker
	throttle *time.Ticker
}

// NewSupervisor builds a default swarm of bots and a throttled client.
func NewSupervisor(loop *engine.MarketLoop, symbol string, priceStep, basePrice decimal.Decimal, orderInterval time.Duration) *Supervisor {
	throttle := time.NewTicker(orderInterval)
	client := NewThrottledClient(loop, symbol, priceStep, basePrice, throttle.C)
	bots := []Bot{
		NewRandomBidBot(),
		NewRandomAskBot(),
		NewRandomBidBot(),
		NewRandomAskBot(),
		NewSpreadCaptureBot(),
	}
	return &Supervisor{
		bots:     bots,
		client:   client,
		pnl:      &pnlTracker{},
		throttle: throttle,
	}
}

// Start launches all bots and PnL monitoring until the context is canceled.
func (s *Supervisor) Start(ctx context.Context) {
	logTicker := time.NewTicker(2 * time.Second)
	defer logTicker.Stop()
	defer s.throttle.Stop()

	for _, bot := range s.bots {
		b := bot
		go b.Start(ctx, s.client)
	}

	go s.consumeTrades(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-logTicker.C:
			pos, cash := s.pnl.Snapshot()
			log.Printf("PNL position=%s cash=%s", pos, cash)
		}
	}
}

func (s *Supervisor) consumeTrades(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case trade, ok := <-s.client.TradeEvents():
			if !ok {
				return
			}
			s.pnl.Record(trade, s.client)
		}
	}
}

type pnlTracker struct {
	mu       sync.Mutex
	position decimal.Decimal
	cash     decimal.Decimal
}

func (p *pnlTracker) Record(trade engine.Trade, client EngineClient) {
	p.mu.Lock()
	defer p.mu.Unlock()
	notional := trade.Price.Mul(trade.Quantity)
	if client.OwnsOrder(trade.BuyOrderID) {
		p.position = p.position.Add(trade.Quantity)
		p.cash = p.cash.Sub(notional)
	}
	if client.OwnsOrder(trade.SellOrderID) {
		p.position = p.position.Sub(trade.Quantity)
		p.cash = p.cash.Add(notional)
	}
}

func (p *pnlTracker) Snapshot() (decimal.Decimal, decimal.Decimal) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.position, p.cash
}

// RunExampleSupervisor demonstrates spinning up the supervisor with a fresh
// market loop.
func RunExampleSupervisor() {
	loop := engine.NewMarketLoop()
	sup := NewSupervisor(loop, "STK", decimal.NewFromInt(1), decimal.NewFromInt(10_000), 50*time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	sup.Start(ctx)
	loop.Stop()
	pos, cash := sup.pnl.Snapshot()
	fmt.Printf("final PNL position=%s cash=%s\n", pos, cash)
}
