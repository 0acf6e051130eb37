package api

// API response types for REST endpoints and WebSocket messages

// MarketInfo summarizes one good's market.
type MarketInfo struct {
	Good       string `json:"good"`
	BestBid    *int64 `json:"bestBid"`    // nil when the buy side is empty
	BestAsk    *int64 `json:"bestAsk"`    // nil when the sell side is empty
	TradeCount int64  `json:"tradeCount"`
}

// PriceLevel is one resting order as a [price, quantity] pair.
type PriceLevel struct {
	Price    int64 `json:"price"`
	Quantity int64 `json:"quantity"`
}

// BookSnapshot is the current resting book for one good.
type BookSnapshot struct {
	Good      string       `json:"good"`
	Bids      []PriceLevel `json:"bids"` // best bid first
	Asks      []PriceLevel `json:"asks"` // best ask first
	Step      int64        `json:"step"`
	Timestamp int64        `json:"timestamp"` // Unix milliseconds
}

// ObservationResponse carries the agent-facing market summary text.
type ObservationResponse struct {
	Observation string `json:"observation"`
	Step        int64  `json:"step"`
}

// TradeUpdate is broadcast over WebSocket when a trade settles.
type TradeUpdate struct {
	Type     string `json:"type"` // "trade"
	Good     string `json:"good"`
	Price    int64  `json:"price"`
	Quantity int64  `json:"quantity"`
	Buyer    string `json:"buyer"`
	Seller   string `json:"seller"`
	Step     int64  `json:"step"`
}

// BookUpdate is broadcast over WebSocket after each simulation step.
type BookUpdate struct {
	Type string       `json:"type"` // "orderbook"
	Good string       `json:"good"`
	Bids []PriceLevel `json:"bids"`
	Asks []PriceLevel `json:"asks"`
	Step int64        `json:"step"`
}

// ErrorResponse is returned for all errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
