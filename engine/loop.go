package engine

import "github.com/shopspring/decimal"

type requestType int

const (
	requestEnqueue requestType = iota
	requestOrders
	requestTrades
	requestQuote
	requestStop
)

type marketRequest struct {
	typ      requestType
	side     Side
	price    decimal.Decimal
	quantity decimal.Decimal
	id       chan int64
	orders   chan []Order
	trades   chan []Trade
	quote    chan Quote
}

// MarketLoop serializes access to a Market behind a single worker
// goroutine. It is the dispatcher embedders use when orders arrive from
// more than one goroutine; the Market itself stays single-writer. Executed
// trades are republished on a stream for observers, along with top-of-book
// updates after every submission.
type MarketLoop struct {
	market *Market
	reqCh  chan marketRequest
	events chan Trade
	quotes chan Quote
}

// NewMarketLoop wraps a fresh Market and launches the worker loop.
func NewMarketLoop() *MarketLoop {
	ml := &MarketLoop{
		market: NewMarket(),
		reqCh:  make(chan marketRequest),
		events: make(chan Trade, 64),
		quotes: make(chan Quote, 16),
	}
	go ml.run()
	return ml
}

// EnqueueOrder submits an order through the worker loop and returns the
// assigned id.
func (ml *MarketLoop) EnqueueOrder(side Side, price, quantity decimal.Decimal) int64 {
	id := make(chan int64, 1)
	ml.reqCh <- marketRequest{typ: requestEnqueue, side: side, price: price, quantity: quantity, id: id}
	return <-id
}

// Orders returns a copy of the full order history.
func (ml *MarketLoop) Orders() []Order {
	orders := make(chan []Order, 1)
	ml.reqCh <- marketRequest{typ: requestOrders, orders: orders}
	return <-orders
}

// Trades returns a copy of the full trade log.
func (ml *MarketLoop) Trades() []Trade {
	trades := make(chan []Trade, 1)
	ml.reqCh <- marketRequest{typ: requestTrades, trades: trades}
	return <-trades
}

// Quote returns the current best bid and ask.
func (ml *MarketLoop) Quote() Quote {
	quote := make(chan Quote, 1)
	ml.reqCh <- marketRequest{typ: requestQuote, quote: quote}
	return <-quote
}

// TradeEvents exposes the stream of executed trades.
func (ml *MarketLoop) TradeEvents() <-chan Trade {
	return ml.events
}

// QuoteUpdates exposes the stream of top-of-book updates.
func (ml *MarketLoop) QuoteUpdates() <-chan Quote {
	return ml.quotes
}

// Stop terminates the worker loop and closes the event streams.
func (ml *MarketLoop) Stop() {
	ml.reqCh <- marketRequest{typ: requestStop}
}

func (ml *MarketLoop) run() {
	for req := range ml.reqCh {
		switch req.typ {
		case requestEnqueue:
			before := len(ml.market.trades)
			id := ml.market.EnqueueOrder(req.side, req.price, req.quantity)
			for _, trade := range ml.market.trades[before:] {
				ml.events <- trade
			}
			ml.publishQuote()
			req.id <- id
		case requestOrders:
			req.orders <- ml.market.Orders()
		case requestTrades:
			req.trades <- ml.market.Trades()
		case requestQuote:
			req.quote <- ml.market.quote()
		case requestStop:
			close(ml.events)
			close(ml.quotes)
			close(ml.reqCh)
			return
		}
	}
}

func (ml *MarketLoop) publishQuote() {
	select {
	case ml.quotes <- ml.market.quote():
	default:
	}
}
