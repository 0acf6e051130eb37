package market

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// OrderBook holds the resting buy and sell orders for a single good, the
// append-only trade ledger, and the per-step best bid/ask series.
//
// The buy side is kept sorted by descending price, the sell side by ascending
// price, with ties broken by insertion order. Each admitted order either
// crosses against the single best opposite order, rests, or is dropped; the
// book never walks depth across price levels.
type OrderBook struct {
	good    string
	capital string

	buys  []*Order // descending price, ties by insertion order
	sells []*Order // ascending price, ties by insertion order

	bestBid *Order // head of buys, nil when the side is empty
	bestAsk *Order // head of sells, nil when the side is empty

	orderSeq int64
	tradeSeq int64

	trades []TradeRecord

	bidHistory []Quote
	askHistory []Quote

	onTrade func(TradeEvent)
	log     *zap.SugaredLogger
}

// NewOrderBook creates an empty book for good. capitalAsset is the asset
// buyers pay with. onTrade, if non-nil, is invoked once per settlement.
func NewOrderBook(good, capitalAsset string, onTrade func(TradeEvent), logger *zap.SugaredLogger) *OrderBook {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &OrderBook{
		good:    good,
		capital: capitalAsset,
		onTrade: onTrade,
		log:     logger,
	}
}

func (b *OrderBook) Good() string { return b.good }

// Add admits an order. The side effects happen in a fixed sequence:
// assign the next order ID, cancel any resting order from the same account,
// check legitimacy (dropping silently on failure), then match against the
// single best opposite order or rest. The implicit cancellation takes full
// effect before matching, so an order can never execute against its owner's
// just-cancelled order, and it happens even when the new order is
// subsequently dropped.
func (b *OrderBook) Add(o *Order) {
	o.ID = b.orderSeq
	b.orderSeq++

	b.removeOrdersFrom(o.Account)
	b.resort()

	side := o.Side()
	if !b.legitimate(o, side) {
		b.log.Infow("order_dropped",
			"good", b.good,
			"agent", o.Account.ID(),
			"price", o.Price,
			"quantity", o.Quantity,
		)
		return
	}

	if !b.tryExecute(o, side) {
		if side == Buy {
			b.buys = append(b.buys, o)
		} else {
			b.sells = append(b.sells, o)
		}
		b.log.Infow("order_rested",
			"good", b.good,
			"agent", o.Account.ID(),
			"side", side.String(),
			"price", o.Price,
			"quantity", o.Quantity,
			"order_id", o.ID,
		)
	}
	b.resort()
}

// legitimate reports whether the account can cover the order. The buy-side
// check compares the capital balance against the unit price, not
// price x quantity; settlement transfers the same unit amount.
func (b *OrderBook) legitimate(o *Order, side Side) bool {
	if o.Quantity == 0 {
		return false
	}
	if side == Buy {
		return o.Account.BalanceOf(b.capital) >= o.Price
	}
	return o.Account.BalanceOf(b.good) >= o.Size()
}

// removeOrdersFrom drops every resting order owned by acct from both sides.
// At most one resting order per account can exist, so this clears zero or
// one entries.
func (b *OrderBook) removeOrdersFrom(acct Account) {
	b.buys = withoutAccount(b.buys, acct)
	b.sells = withoutAccount(b.sells, acct)
}

func withoutAccount(orders []*Order, acct Account) []*Order {
	kept := orders[:0]
	for _, o := range orders {
		if o.Account != acct {
			kept = append(kept, o)
		}
	}
	return kept
}

// tryExecute matches the incoming order against the single best opposite
// order. An incoming buy crosses iff its price >= best ask; an incoming sell
// iff its price <= best bid. Any unmatched remainder of the incoming order is
// discarded, never re-matched against deeper levels and never inserted.
func (b *OrderBook) tryExecute(o *Order, side Side) bool {
	if side == Buy {
		if b.bestAsk == nil || o.Price < b.bestAsk.Price {
			return false
		}
		b.execute(o, b.bestAsk)
		return true
	}
	if b.bestBid == nil || o.Price > b.bestBid.Price {
		return false
	}
	b.execute(o, b.bestBid)
	return true
}

// execute settles a match between the incoming order and a resting order.
// Execution happens at the resting (maker) price for min(|incoming|,|resting|)
// units; the capital leg is the unit maker price. The resting order leaves
// the book whether or not it was larger than the incoming order.
func (b *OrderBook) execute(incoming, resting *Order) {
	price := resting.Price
	qty := incoming.Size()
	if resting.Size() < qty {
		qty = resting.Size()
	}

	var buyer, seller Account
	if incoming.Side() == Buy {
		buyer, seller = incoming.Account, resting.Account
		buyer.Transfer(Leg{b.capital, price}, Leg{b.good, qty}, seller)
		b.sells = withoutOrder(b.sells, resting)
	} else {
		buyer, seller = resting.Account, incoming.Account
		seller.Transfer(Leg{b.good, qty}, Leg{b.capital, price}, buyer)
		b.buys = withoutOrder(b.buys, resting)
	}

	rec := TradeRecord{
		TxnID:    b.tradeSeq,
		Price:    price,
		Quantity: qty,
		Buyer:    buyer.ID(),
		Seller:   seller.ID(),
	}
	b.trades = append(b.trades, rec)
	b.tradeSeq++

	if b.onTrade != nil {
		b.onTrade(TradeEvent{
			TxnID:    rec.TxnID,
			Buyer:    buyer.ID(),
			Seller:   seller.ID(),
			Good:     b.good,
			Quantity: qty,
			Price:    price,
		})
	}

	b.log.Infow("trade_executed",
		"good", b.good,
		"txn_id", rec.TxnID,
		"price", price,
		"quantity", qty,
		"buyer", rec.Buyer,
		"seller", rec.Seller,
	)
}

func withoutOrder(orders []*Order, target *Order) []*Order {
	kept := orders[:0]
	for _, o := range orders {
		if o != target {
			kept = append(kept, o)
		}
	}
	return kept
}

// resort restores both side orderings and refreshes the cached best bid/ask
// after any mutation.
func (b *OrderBook) resort() {
	sort.SliceStable(b.buys, func(i, j int) bool { return b.buys[i].Price > b.buys[j].Price })
	sort.SliceStable(b.sells, func(i, j int) bool { return b.sells[i].Price < b.sells[j].Price })

	b.bestBid = nil
	if len(b.buys) > 0 {
		b.bestBid = b.buys[0]
	}
	b.bestAsk = nil
	if len(b.sells) > 0 {
		b.bestAsk = b.sells[0]
	}
}

// Step appends one best-bid/best-ask snapshot to the quote series. It never
// mutates the order collections.
func (b *OrderBook) Step() {
	b.bidHistory = append(b.bidHistory, b.BestBid())
	b.askHistory = append(b.askHistory, b.BestAsk())
}

// Reset clears all orders, counters, ledger entries, and quote series.
func (b *OrderBook) Reset() {
	b.buys = nil
	b.sells = nil
	b.bestBid = nil
	b.bestAsk = nil
	b.orderSeq = 0
	b.tradeSeq = 0
	b.trades = nil
	b.bidHistory = nil
	b.askHistory = nil
}

// BestBid returns the highest resting buy price, invalid when the side is
// empty.
func (b *OrderBook) BestBid() Quote {
	if b.bestBid == nil {
		return Quote{}
	}
	return Quote{Price: b.bestBid.Price, Valid: true}
}

// BestAsk returns the lowest resting sell price, invalid when the side is
// empty.
func (b *OrderBook) BestAsk() Quote {
	if b.bestAsk == nil {
		return Quote{}
	}
	return Quote{Price: b.bestAsk.Price, Valid: true}
}

// Bids returns the buy side as (price, quantity) pairs, best bid first.
func (b *OrderBook) Bids() []PriceQty {
	out := make([]PriceQty, 0, len(b.buys))
	for _, o := range b.buys {
		out = append(out, PriceQty{Price: o.Price, Quantity: o.Quantity})
	}
	return out
}

// Asks returns the sell side as (price, quantity) pairs, best ask first.
func (b *OrderBook) Asks() []PriceQty {
	out := make([]PriceQty, 0, len(b.sells))
	for _, o := range b.sells {
		out = append(out, PriceQty{Price: o.Price, Quantity: o.Quantity})
	}
	return out
}

// FullBook returns every resting order as (price, quantity) pairs, buy side
// followed by sell side.
func (b *OrderBook) FullBook() []PriceQty {
	return append(b.Bids(), b.Asks()...)
}

// BidPrices returns the buy-side prices as display strings, best first.
func (b *OrderBook) BidPrices() []string {
	out := make([]string, 0, len(b.buys))
	for _, o := range b.buys {
		out = append(out, strconv.FormatInt(o.Price, 10))
	}
	return out
}

// AskPrices returns the sell-side prices as display strings, best first.
func (b *OrderBook) AskPrices() []string {
	out := make([]string, 0, len(b.sells))
	for _, o := range b.sells {
		out = append(out, strconv.FormatInt(o.Price, 10))
	}
	return out
}

// Trades returns a copy of the append-only trade ledger.
func (b *OrderBook) Trades() []TradeRecord {
	out := make([]TradeRecord, len(b.trades))
	copy(out, b.trades)
	return out
}

// TradeCount returns the number of settled trades.
func (b *OrderBook) TradeCount() int64 { return b.tradeSeq }

// BidHistory returns the per-step best-bid series.
func (b *OrderBook) BidHistory() []Quote {
	out := make([]Quote, len(b.bidHistory))
	copy(out, b.bidHistory)
	return out
}

// AskHistory returns the per-step best-ask series.
func (b *OrderBook) AskHistory() []Quote {
	out := make([]Quote, len(b.askHistory))
	copy(out, b.askHistory)
	return out
}

// String renders the book as a ladder: sell orders furthest from the market
// first, then buy orders best bid first.
func (b *OrderBook) String() string {
	var sb strings.Builder
	sb.WriteString("===================================\n")
	fmt.Fprintf(&sb, "%s order book\n", b.good)
	sb.WriteString("(price, quantity, agent, id)\n")
	for i := len(b.sells) - 1; i >= 0; i-- {
		o := b.sells[i]
		fmt.Fprintf(&sb, "(%d, %d, %s, %d)\n", o.Price, o.Quantity, o.Account.ID(), o.ID)
	}
	for _, o := range b.buys {
		fmt.Fprintf(&sb, "(%d, %d, %s, %d)\n", o.Price, o.Quantity, o.Account.ID(), o.ID)
	}
	sb.WriteString("===================================")
	return sb.String()
}
