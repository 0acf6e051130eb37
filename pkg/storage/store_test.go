package storage_test

import (
	"path/filepath"
	"testing"

	"github.com/agorasim/agora/pkg/market"
	"github.com/agorasim/agora/pkg/storage"
)

func openStore(t *testing.T) *storage.Store {
	t.Helper()
	s, err := storage.Open(filepath.Join(t.TempDir(), "market.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestTradeRoundTrip(t *testing.T) {
	s := openStore(t)

	recs := []market.TradeRecord{
		{TxnID: 0, Price: 10, Quantity: 3, Buyer: "alice", Seller: "bob"},
		{TxnID: 1, Price: 11, Quantity: 1, Buyer: "carol", Seller: "alice"},
		{TxnID: 2, Price: 9, Quantity: 2, Buyer: "bob", Seller: "carol"},
	}
	for _, rec := range recs {
		if err := s.SaveTrade("apples", rec); err != nil {
			t.Fatalf("save trade: %v", err)
		}
	}
	// A different good must not leak into the scan.
	if err := s.SaveTrade("bananas", market.TradeRecord{TxnID: 0, Price: 5, Quantity: 1, Buyer: "x", Seller: "y"}); err != nil {
		t.Fatalf("save trade: %v", err)
	}

	got, err := s.RecentTrades("apples", 10)
	if err != nil {
		t.Fatalf("recent trades: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d trades, want 3", len(got))
	}
	// Newest first.
	if got[0] != recs[2] || got[1] != recs[1] || got[2] != recs[0] {
		t.Errorf("trades out of order: %v", got)
	}
}

func TestRecentTradesHonorsLimit(t *testing.T) {
	s := openStore(t)

	for i := int64(0); i < 5; i++ {
		if err := s.SaveTrade("apples", market.TradeRecord{TxnID: i, Price: 10 + i, Quantity: 1, Buyer: "a", Seller: "b"}); err != nil {
			t.Fatalf("save trade: %v", err)
		}
	}

	got, err := s.RecentTrades("apples", 2)
	if err != nil {
		t.Fatalf("recent trades: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d trades, want 2", len(got))
	}
	if got[0].TxnID != 4 || got[1].TxnID != 3 {
		t.Errorf("expected the two newest trades, got %v", got)
	}
}

func TestQuoteHistoryOrdering(t *testing.T) {
	s := openStore(t)

	for step := int64(0); step < 3; step++ {
		bid := market.Quote{Price: 10 + step, Valid: true}
		ask := market.Quote{} // empty side
		if err := s.SaveQuotes("apples", step, bid, ask); err != nil {
			t.Fatalf("save quotes: %v", err)
		}
	}

	got, err := s.QuoteHistory("apples")
	if err != nil {
		t.Fatalf("quote history: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d snapshots, want 3", len(got))
	}
	for i, snap := range got {
		if snap.Step != int64(i) {
			t.Errorf("snapshot %d has step %d", i, snap.Step)
		}
		if !snap.Bid.Valid || snap.Bid.Price != 10+int64(i) {
			t.Errorf("snapshot %d bid = %v", i, snap.Bid)
		}
		if snap.Ask.Valid {
			t.Errorf("snapshot %d ask should be invalid, got %v", i, snap.Ask)
		}
	}
}

func TestEmptyScans(t *testing.T) {
	s := openStore(t)

	trades, err := s.RecentTrades("apples", 10)
	if err != nil {
		t.Fatalf("recent trades: %v", err)
	}
	if len(trades) != 0 {
		t.Errorf("expected no trades, got %v", trades)
	}

	quotes, err := s.QuoteHistory("apples")
	if err != nil {
		t.Fatalf("quote history: %v", err)
	}
	if len(quotes) != 0 {
		t.Errorf("expected no quotes, got %v", quotes)
	}
}
