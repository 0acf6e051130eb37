package market

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Marketplace routes agent actions to per-good order books, drives the
// per-step quote snapshots, and keeps the global trade-event log.
//
// Matching semantics are single-threaded and deterministic: the driver
// submits actions strictly sequentially, and submission order decides match
// priority and which prior order gets implicitly cancelled. The mutex only
// shields the read-only inspection surface (HTTP API) from observing a book
// mid-mutation.
type Marketplace struct {
	mu      sync.RWMutex
	capital string
	books   map[string]*OrderBook
	events  []TradeEvent
	step    int64

	// OnTrade, if set, is invoked synchronously once per settled trade,
	// after the event has been appended to the log.
	OnTrade func(TradeEvent)

	log *zap.SugaredLogger
}

// NewMarketplace creates an empty marketplace. capitalAsset is excluded from
// book creation at reset and is the asset buyers pay with.
func NewMarketplace(capitalAsset string, logger *zap.Logger) *Marketplace {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Marketplace{
		capital: capitalAsset,
		books:   make(map[string]*OrderBook),
		log:     logger.Sugar(),
	}
}

// CapitalAsset returns the asset used to pay for goods.
func (m *Marketplace) CapitalAsset() string { return m.capital }

// recordTrade appends to the global event log and forwards to OnTrade.
// Called from inside a book while the marketplace lock is held.
func (m *Marketplace) recordTrade(ev TradeEvent) {
	ev.Step = m.step
	m.events = append(m.events, ev)
	if m.OnTrade != nil {
		m.OnTrade(ev)
	}
}

// Execute dispatches one agent action. PlaceOrder values and canonical *Order
// values are accepted; any other shape is a type error raised synchronously.
// Illegitimate orders are dropped inside the book without error, so a nil
// return does not imply the order rested.
func (m *Marketplace) Execute(acct Account, action any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch a := action.(type) {
	case PlaceOrder:
		book, err := m.bookLocked(a.Good)
		if err != nil {
			return err
		}
		book.Add(&Order{Good: a.Good, Price: a.Price, Quantity: a.Quantity, Account: acct})
		return nil
	case *Order:
		book, err := m.bookLocked(a.Good)
		if err != nil {
			return err
		}
		if a.Account == nil {
			a.Account = acct
		}
		book.Add(a)
		return nil
	case []any:
		// A bare sequence is ambiguous between an order tuple and an action
		// list; callers must use PlaceOrder.
		return fmt.Errorf("action must be a PlaceOrder or *Order, not a list")
	default:
		return fmt.Errorf("unsupported action type %T (want PlaceOrder or *Order)", action)
	}
}

// ActionSpace enumerates the recognized action schema.
func (m *Marketplace) ActionSpace() []Action {
	return []Action{PlaceOrder{}}
}

// Reset rebuilds the marketplace from the environment: one order book per
// non-capital good found in any account's holdings. All prior books, events,
// and counters are cleared.
func (m *Marketplace) Reset(env Environment) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, acct := range env.Accounts() {
		for _, good := range acct.Holdings() {
			if good == m.capital {
				continue
			}
			if _, ok := m.books[good]; !ok {
				m.books[good] = NewOrderBook(good, m.capital, m.recordTrade, m.log)
				m.log.Infow("market_registered", "good", good)
			}
		}
	}

	for _, book := range m.books {
		book.Reset()
	}
	m.events = nil
	m.step = 0
}

// Step appends one best-bid/best-ask snapshot per book. Called once per
// simulation tick; repeated calls without new orders only grow the series.
func (m *Marketplace) Step() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, book := range m.books {
		book.Step()
	}
	m.step++
}

// StepCount returns the number of completed steps since the last reset.
func (m *Marketplace) StepCount() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.step
}

// Book returns the order book for good. The error for an unregistered good
// enumerates the currently registered goods.
func (m *Marketplace) Book(good string) (*OrderBook, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.bookLocked(good)
}

func (m *Marketplace) bookLocked(good string) (*OrderBook, error) {
	book, ok := m.books[good]
	if !ok {
		return nil, fmt.Errorf("market %s not found (registered: %s)", good, strings.Join(m.goodsLocked(), ", "))
	}
	return book, nil
}

// Goods returns the registered good identifiers in sorted order.
func (m *Marketplace) Goods() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.goodsLocked()
}

func (m *Marketplace) goodsLocked() []string {
	goods := make([]string, 0, len(m.books))
	for good := range m.books {
		goods = append(goods, good)
	}
	sort.Strings(goods)
	return goods
}

// BookView is a point-in-time copy of one book's observable state, safe to
// use after the marketplace lock has been released.
type BookView struct {
	Good       string
	Bids       []PriceQty // best bid first
	Asks       []PriceQty // best ask first
	BestBid    Quote
	BestAsk    Quote
	TradeCount int64
}

// ViewBook copies the observable state of good's book under the read lock.
// Concurrent readers (the HTTP and WebSocket surface) must use this or
// BookTrades instead of holding an *OrderBook across lock boundaries.
func (m *Marketplace) ViewBook(good string) (BookView, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	book, err := m.bookLocked(good)
	if err != nil {
		return BookView{}, err
	}
	return BookView{
		Good:       good,
		Bids:       book.Bids(),
		Asks:       book.Asks(),
		BestBid:    book.BestBid(),
		BestAsk:    book.BestAsk(),
		TradeCount: book.TradeCount(),
	}, nil
}

// BookTrades copies good's trade ledger under the read lock, oldest first.
func (m *Marketplace) BookTrades(good string) ([]TradeRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	book, err := m.bookLocked(good)
	if err != nil {
		return nil, err
	}
	return book.Trades(), nil
}

// Events returns a copy of the global trade-event log.
func (m *Marketplace) Events() []TradeEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]TradeEvent, len(m.events))
	copy(out, m.events)
	return out
}

// GenerateObservations renders the agent-facing market summary: one block
// per good with its best bid and best ask.
func (m *Marketplace) GenerateObservations() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var sb strings.Builder
	for _, good := range m.goodsLocked() {
		book := m.books[good]
		sb.WriteString(good)
		sb.WriteString("\n")
		fmt.Fprintf(&sb, "Best bid: %s\n", book.BestBid())
		fmt.Fprintf(&sb, "Best ask: %s\n", book.BestAsk())
	}
	return sb.String()
}

// String renders every book's ladder, one after another.
func (m *Marketplace) String() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var sb strings.Builder
	sb.WriteString("Marketplace\n")
	for _, good := range m.goodsLocked() {
		sb.WriteString(m.books[good].String())
		sb.WriteString("\n")
	}
	return sb.String()
}
