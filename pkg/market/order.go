package market

import "strconv"

// Side of an order, inferred from the sign of its quantity.
type Side int8

const (
	Buy  Side = 1
	Sell Side = -1
)

func (s Side) String() string {
	if s == Buy {
		return "buy"
	}
	return "sell"
}

// Leg is one half of a bilateral exchange: an asset and an amount.
type Leg struct {
	Asset  string
	Amount int64
}

// Account is the ledger capability an agent exposes to the matching engine:
// identity, balance queries, holdings enumeration, and an atomic two-leg
// transfer. The engine depends only on this interface and never mutates
// balances directly. Transfer is assumed infallible once invoked; legitimacy
// is checked before any order may rest or match.
type Account interface {
	ID() string
	BalanceOf(asset string) int64
	Holdings() []string
	// Transfer atomically gives `give` to the counterparty and takes `take`
	// from it.
	Transfer(give, take Leg, counterparty Account)
}

// Environment is the driver-side boundary consumed by Marketplace.Reset.
type Environment interface {
	Accounts() []Account
}

// Order is a single limit order. Quantity is signed: positive buys, negative
// sells, magnitude is the size. An order is never mutated after creation
// except for the ID assigned by the book at admission.
type Order struct {
	Good     string
	Price    int64
	Quantity int64
	Account  Account
	ID       int64
}

// Side returns Buy for non-negative quantity. Zero-quantity orders are
// treated as buys for routing but never pass the legitimacy check.
func (o *Order) Side() Side {
	if o.Quantity >= 0 {
		return Buy
	}
	return Sell
}

// Size returns the unsigned magnitude of the order.
func (o *Order) Size() int64 {
	if o.Quantity < 0 {
		return -o.Quantity
	}
	return o.Quantity
}

// TradeRecord is one entry in a book's append-only trade ledger.
type TradeRecord struct {
	TxnID    int64  `json:"txnId"`
	Price    int64  `json:"price"`
	Quantity int64  `json:"quantity"`
	Buyer    string `json:"buyer"`
	Seller   string `json:"seller"`
}

// TradeEvent is the structured settlement event appended to the marketplace's
// global event log and handed to external consumers.
type TradeEvent struct {
	TxnID    int64  `json:"txnId"`
	Buyer    string `json:"buyer"`
	Seller   string `json:"seller"`
	Good     string `json:"good"`
	Quantity int64  `json:"quantity"`
	Price    int64  `json:"price"`
	Step     int64  `json:"step"`
}

// Quote is a best-price snapshot. Valid is false when the corresponding book
// side was empty.
type Quote struct {
	Price int64 `json:"price"`
	Valid bool  `json:"valid"`
}

func (q Quote) String() string {
	if !q.Valid {
		return "none"
	}
	return strconv.FormatInt(q.Price, 10)
}

// PriceQty is a (price, quantity) pair of one resting order, used by the
// inspection surface.
type PriceQty struct {
	Price    int64 `json:"price"`
	Quantity int64 `json:"quantity"`
}
