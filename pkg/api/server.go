// Package api exposes the marketplace's read-only inspection surface over
// REST and WebSocket: per-good books, recent trades, and the agent-facing
// observation text.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/agorasim/agora/pkg/market"
	"github.com/agorasim/agora/pkg/storage"
)

// Server handles REST API and WebSocket connections.
type Server struct {
	mp     *market.Marketplace
	store  *storage.Store // may be nil; trade history then comes from the books
	router *mux.Router
	hub    *Hub
	log    *zap.SugaredLogger
}

// NewServer creates an API server over the given marketplace.
func NewServer(mp *market.Marketplace, store *storage.Store, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	sugar := logger.Sugar()

	s := &Server{
		mp:     mp,
		store:  store,
		router: mux.NewRouter(),
		hub:    NewHub(sugar),
		log:    sugar,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/markets", s.handleGetMarkets).Methods("GET")
	api.HandleFunc("/markets/{good}/orderbook", s.handleGetOrderbook).Methods("GET")
	api.HandleFunc("/markets/{good}/trades", s.handleGetTrades).Methods("GET")
	api.HandleFunc("/observation", s.handleGetObservation).Methods("GET")

	s.router.HandleFunc("/ws", s.handleWebSocket)
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
}

// Start runs the WebSocket hub and serves HTTP on addr. Blocks.
func (s *Server) Start(addr string) error {
	go s.hub.Run()

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	})

	s.log.Infow("api_server_starting", "addr", addr)
	return http.ListenAndServe(addr, c.Handler(s.router))
}

func (s *Server) handleGetMarkets(w http.ResponseWriter, r *http.Request) {
	goods := s.mp.Goods()
	response := make([]MarketInfo, 0, len(goods))
	for _, good := range goods {
		view, err := s.mp.ViewBook(good)
		if err != nil {
			continue
		}
		response = append(response, MarketInfo{
			Good:       good,
			BestBid:    quotePtr(view.BestBid),
			BestAsk:    quotePtr(view.BestAsk),
			TradeCount: view.TradeCount,
		})
	}
	respondJSON(w, response)
}

func (s *Server) handleGetOrderbook(w http.ResponseWriter, r *http.Request) {
	good := mux.Vars(r)["good"]

	view, err := s.mp.ViewBook(good)
	if err != nil {
		respondError(w, http.StatusNotFound, "market not found", err.Error())
		return
	}

	response := BookSnapshot{
		Good:      good,
		Bids:      toLevels(view.Bids),
		Asks:      toLevels(view.Asks),
		Step:      s.mp.StepCount(),
		Timestamp: time.Now().UnixMilli(),
	}
	respondJSON(w, response)
}

func (s *Server) handleGetTrades(w http.ResponseWriter, r *http.Request) {
	good := mux.Vars(r)["good"]

	all, err := s.mp.BookTrades(good)
	if err != nil {
		respondError(w, http.StatusNotFound, "market not found", err.Error())
		return
	}

	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	if s.store != nil {
		trades, err := s.store.RecentTrades(good, limit)
		if err == nil {
			respondJSON(w, trades)
			return
		}
		s.log.Errorw("trade_history_read_failed", "good", good, "err", err)
	}

	// Fallback: in-memory ledger, newest first.
	trades := make([]market.TradeRecord, 0, limit)
	for i := len(all) - 1; i >= 0 && len(trades) < limit; i-- {
		trades = append(trades, all[i])
	}
	respondJSON(w, trades)
}

func (s *Server) handleGetObservation(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, ObservationResponse{
		Observation: s.mp.GenerateObservations(),
		Step:        s.mp.StepCount(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]string{"status": "ok"})
}

// BroadcastTrade pushes a settled trade to WebSocket clients.
func (s *Server) BroadcastTrade(ev market.TradeEvent) {
	s.hub.Broadcast(TradeUpdate{
		Type:     "trade",
		Good:     ev.Good,
		Price:    ev.Price,
		Quantity: ev.Quantity,
		Buyer:    ev.Buyer,
		Seller:   ev.Seller,
		Step:     ev.Step,
	})
}

// BroadcastBook pushes the current book for good to WebSocket clients.
func (s *Server) BroadcastBook(good string) {
	view, err := s.mp.ViewBook(good)
	if err != nil {
		return
	}
	s.hub.Broadcast(BookUpdate{
		Type: "orderbook",
		Good: good,
		Bids: toLevels(view.Bids),
		Asks: toLevels(view.Asks),
		Step: s.mp.StepCount(),
	})
}

func toLevels(pairs []market.PriceQty) []PriceLevel {
	levels := make([]PriceLevel, len(pairs))
	for i, p := range pairs {
		levels[i] = PriceLevel{Price: p.Price, Quantity: p.Quantity}
	}
	return levels
}

func quotePtr(q market.Quote) *int64 {
	if !q.Valid {
		return nil
	}
	price := q.Price
	return &price
}

func respondJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, errMsg, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: errMsg, Message: message})
}
