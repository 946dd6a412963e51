package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"stockmarket/engine"
)

const (
	defaultListenAddr = ":8080"
	defaultSymbol     = "STK"
)

type server struct {
	loop       *engine.MarketLoop
	symbol     string
	tradeFeed  *feed[engine.Trade]
	quoteFeed  *feed[engine.Quote]
	upgrader   websocket.Upgrader
	authToken  string
	corsOrigin string
}

type orderRequest struct {
	Side     string `json:"side"`
	Price    string `json:"price"`
	Quantity string `json:"quantity"`
}

type orderResponse struct {
	OrderID int64 `json:"orderId"`
}

type publicOrder struct {
	ID       int64  `json:"id"`
	Side     string `json:"side"`
	Price    string `json:"price"`
	Quantity string `json:"quantity"`
}

type publicTrade struct {
	SellOrderID int64  `json:"sellOrderId"`
	BuyOrderID  int64  `json:"buyOrderId"`
	Price       string `json:"price"`
	Quantity    string `json:"quantity"`
}

type quoteResponse struct {
	Symbol  string       `json:"symbol"`
	BestBid *publicOrder `json:"bestBid,omitempty"`
	BestAsk *publicOrder `json:"bestAsk,omitempty"`
}

type outboundMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

func main() {
	_ = godotenv.Load()

	listenAddr := getEnv("LISTEN_ADDR", defaultListenAddr)
	symbol := getEnv("SYMBOL", defaultSymbol)
	authToken := os.Getenv("AUTH_TOKEN")
	corsOrigin := getEnv("CORS_ORIGIN", "*")

	loop := engine.NewMarketLoop()
	srv := newServer(loop, symbol, authToken, corsOrigin)

	log.Printf("listening on %s for symbol %s", listenAddr, symbol)
	if err := http.ListenAndServe(listenAddr, srv.routes()); err != nil {
		log.Fatal(err)
	}
}

func newServer(loop *engine.MarketLoop, symbol, authToken, corsOrigin string) *server {
	s := &server{
		loop:       loop,
		symbol:     symbol,
		tradeFeed:  newFeed[engine.Trade](),
		quoteFeed:  newFeed[engine.Quote](),
		upgrader:   websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
		authToken:  authToken,
		corsOrigin: corsOrigin,
	}

	go s.consumeTrades()
	go s.consumeQuotes()
	return s
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/orders", s.withCORS(s.withAuth(http.HandlerFunc(s.handleOrders))))
	mux.Handle("/trades", s.withCORS(s.withAuth(http.HandlerFunc(s.handleTrades))))
	mux.Handle("/quote", s.withCORS(s.withAuth(http.HandlerFunc(s.handleQuote))))
	mux.Handle("/ws/trades", s.withCORS(s.withAuth(http.HandlerFunc(s.handleTradeStream))))
	mux.Handle("/ws/quote", s.withCORS(s.withAuth(http.HandlerFunc(s.handleQuoteStream))))
	return mux
}

func (s *server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.corsOrigin)
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *server) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.authToken == "" {
			next.ServeHTTP(w, r)
			return
		}

		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if token == "" {
			token = r.URL.Query().Get("token")
		}
		if token != s.authToken {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte("missing or invalid token"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *server) handleOrders(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleSubmit(w, r)
	case http.MethodGet:
		s.handleHistory(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid payload: %w", err))
		return
	}

	side, price, quantity, err := parseOrder(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	id := s.loop.EnqueueOrder(side, price, quantity)
	writeJSON(w, http.StatusCreated, orderResponse{OrderID: id})
}

func (s *server) handleHistory(w http.ResponseWriter, r *http.Request) {
	orders := s.loop.Orders()
	out := make([]publicOrder, len(orders))
	for i := range orders {
		out[i] = toPublicOrder(orders[i])
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *server) handleTrades(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	trades := s.loop.Trades()
	out := make([]publicTrade, len(trades))
	for i := range trades {
		out[i] = toPublicTrade(trades[i])
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *server) handleQuote(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, s.toQuoteResponse(s.loop.Quote()))
}

func (s *server) handleTradeStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	id, ch := s.tradeFeed.subscribe(32)
	defer s.tradeFeed.unsubscribe(id)

	for trade := range ch {
		msg := outboundMessage{Type: "trade", Data: toPublicTrade(trade)}
		if err := conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

func (s *server) handleQuoteStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	id, ch := s.quoteFeed.subscribe(32)
	defer s.quoteFeed.unsubscribe(id)

	for quote := range ch {
		msg := outboundMessage{Type: "quote", Data: s.toQuoteResponse(quote)}
		if err := conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

func (s *server) consumeTrades() {
	for trade := range s.loop.TradeEvents() {
		s.tradeFeed.publish(trade)
	}
}

func (s *server) consumeQuotes() {
	for quote := range s.loop.QuoteUpdates() {
		s.quoteFeed.publish(quote)
	}
}

// parseOrder validates at the gateway edge; the engine itself assumes
// positive values.
func parseOrder(req orderRequest) (engine.Side, decimal.Decimal, decimal.Decimal, error) {
	side, err := parseSide(req.Side)
	if err != nil {
		return 0, decimal.Decimal{}, decimal.Decimal{}, err
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		return 0, decimal.Decimal{}, decimal.Decimal{}, fmt.Errorf("invalid price %q: %w", req.Price, err)
	}
	if !price.IsPositive() {
		return 0, decimal.Decimal{}, decimal.Decimal{}, errors.New("price must be positive")
	}

	quantity, err := decimal.NewFromString(req.Quantity)
	if err != nil {
		return 0, decimal.Decimal{}, decimal.Decimal{}, fmt.Errorf("invalid quantity %q: %w", req.Quantity, err)
	}
	if !quantity.IsPositive() {
		return 0, decimal.Decimal{}, decimal.Decimal{}, errors.New("quantity must be positive")
	}

	return side, price, quantity, nil
}

func parseSide(value string) (engine.Side, error) {
	switch strings.ToLower(value) {
	case "buy", "bid", "b":
		return engine.Buy, nil
	case "sell", "ask", "s":
		return engine.Sell, nil
	default:
		return 0, fmt.Errorf("unknown side %s", value)
	}
}

func toPublicOrder(order engine.Order) publicOrder {
	return publicOrder{
		ID:       order.ID,
		Side:     order.Side.String(),
		Price:    order.Price.String(),
		Quantity: order.Quantity.String(),
	}
}

func toPublicTrade(trade engine.Trade) publicTrade {
	return publicTrade{
		SellOrderID: trade.SellOrderID,
		BuyOrderID:  trade.BuyOrderID,
		Price:       trade.Price.String(),
		Quantity:    trade.Quantity.String(),
	}
}

func (s *server) toQuoteResponse(quote engine.Quote) quoteResponse {
	resp := quoteResponse{Symbol: s.symbol}
	if quote.BestBid != nil {
		bid := toPublicOrder(*quote.BestBid)
		resp.BestBid = &bid
	}
	if quote.BestAsk != nil {
		ask := toPublicOrder(*quote.BestAsk)
		resp.BestAsk = &ask
	}
	return resp
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
