// Package storage persists the marketplace's analytics surface (trade
// records and per-step quote snapshots) in a Pebble database, keyed for
// per-good range scans.
package storage

import (
	"encoding/json"
	"fmt"

	"github.com/cockroachdb/pebble"

	"github.com/agorasim/agora/pkg/market"
)

// Store is an append-mostly Pebble store for trade records and quote
// snapshots. Callers serialize writes; the driver loop is sequential.
type Store struct {
	db *pebble.DB
}

// QuoteSnapshot is one persisted best-bid/best-ask observation.
type QuoteSnapshot struct {
	Step int64        `json:"step"`
	Bid  market.Quote `json:"bid"`
	Ask  market.Quote `json:"ask"`
}

// Open opens (or creates) a Pebble database at path.
func Open(path string) (*Store, error) {
	opts := &pebble.Options{
		Cache:        pebble.NewCache(32 << 20), // 32MB cache
		MemTableSize: 16 << 20,
		MaxOpenFiles: 500,
	}
	db, err := pebble.Open(path, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open pebble db at %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveTrade persists one trade record for good.
func (s *Store) SaveTrade(good string, rec market.TradeRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal trade: %w", err)
	}
	if err := s.db.Set(tradeKey(good, rec.TxnID), data, pebble.NoSync); err != nil {
		return fmt.Errorf("failed to save trade: %w", err)
	}
	return nil
}

// RecentTrades loads up to limit trades for good, newest first.
func (s *Store) RecentTrades(good string, limit int) ([]market.TradeRecord, error) {
	prefix := tradePrefix(good)
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: keyUpperBound(prefix),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open trade iterator: %w", err)
	}
	defer iter.Close()

	var trades []market.TradeRecord
	for iter.Last(); iter.Valid() && len(trades) < limit; iter.Prev() {
		var rec market.TradeRecord
		if err := json.Unmarshal(iter.Value(), &rec); err != nil {
			continue // skip invalid entries
		}
		trades = append(trades, rec)
	}
	return trades, nil
}

// SaveQuotes persists the best-bid/best-ask snapshot for good at step.
func (s *Store) SaveQuotes(good string, step int64, bid, ask market.Quote) error {
	data, err := json.Marshal(QuoteSnapshot{Step: step, Bid: bid, Ask: ask})
	if err != nil {
		return fmt.Errorf("failed to marshal quotes: %w", err)
	}
	if err := s.db.Set(quoteKey(good, step), data, pebble.NoSync); err != nil {
		return fmt.Errorf("failed to save quotes: %w", err)
	}
	return nil
}

// QuoteHistory loads the full quote series for good, oldest first.
func (s *Store) QuoteHistory(good string) ([]QuoteSnapshot, error) {
	prefix := quotePrefix(good)
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: keyUpperBound(prefix),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open quote iterator: %w", err)
	}
	defer iter.Close()

	var quotes []QuoteSnapshot
	for iter.First(); iter.Valid(); iter.Next() {
		var snap QuoteSnapshot
		if err := json.Unmarshal(iter.Value(), &snap); err != nil {
			continue // skip invalid entries
		}
		quotes = append(quotes, snap)
	}
	return quotes, nil
}

// Flush forces buffered writes to disk. Called at shutdown since trade and
// quote writes use NoSync.
func (s *Store) Flush() error {
	return s.db.Flush()
}
