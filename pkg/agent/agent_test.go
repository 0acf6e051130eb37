package agent_test

import (
	"testing"

	"github.com/agorasim/agora/pkg/agent"
	"github.com/agorasim/agora/pkg/market"
)

func TestBalanceOf(t *testing.T) {
	a := agent.New("alice", map[string]int64{"capital": 100, "apples": 3})

	if got := a.BalanceOf("capital"); got != 100 {
		t.Errorf("capital = %d, want 100", got)
	}
	if got := a.BalanceOf("gold"); got != 0 {
		t.Errorf("unknown asset = %d, want 0", got)
	}
}

func TestInventoryIsCopied(t *testing.T) {
	inv := map[string]int64{"capital": 10}
	a := agent.New("alice", inv)
	inv["capital"] = 0

	if got := a.BalanceOf("capital"); got != 10 {
		t.Errorf("agent shares caller's map: capital = %d, want 10", got)
	}
}

func TestHoldingsSorted(t *testing.T) {
	a := agent.New("alice", map[string]int64{"bananas": 1, "apples": 2, "capital": 3})

	got := a.Holdings()
	want := []string{"apples", "bananas", "capital"}
	if len(got) != len(want) {
		t.Fatalf("holdings = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("holdings[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestTransferAppliesBothLegs(t *testing.T) {
	buyer := agent.New("buyer", map[string]int64{"capital": 100})
	seller := agent.New("seller", map[string]int64{"apples": 10})

	buyer.Transfer(
		market.Leg{Asset: "capital", Amount: 10},
		market.Leg{Asset: "apples", Amount: 3},
		seller,
	)

	if got := buyer.BalanceOf("capital"); got != 90 {
		t.Errorf("buyer capital = %d, want 90", got)
	}
	if got := buyer.BalanceOf("apples"); got != 3 {
		t.Errorf("buyer apples = %d, want 3", got)
	}
	if got := seller.BalanceOf("capital"); got != 10 {
		t.Errorf("seller capital = %d, want 10", got)
	}
	if got := seller.BalanceOf("apples"); got != 7 {
		t.Errorf("seller apples = %d, want 7", got)
	}
}

func TestRosterAccounts(t *testing.T) {
	alice := agent.New("alice", nil)
	bob := agent.New("bob", nil)
	roster := agent.NewRoster(alice, bob)

	accounts := roster.Accounts()
	if len(accounts) != 2 {
		t.Fatalf("accounts = %d entries, want 2", len(accounts))
	}
	if accounts[0].ID() != "alice" || accounts[1].ID() != "bob" {
		t.Errorf("accounts out of order: %s, %s", accounts[0].ID(), accounts[1].ID())
	}

	// Roster accounts are the live agents, not copies.
	if accounts[0].(*agent.Agent) != alice {
		t.Error("roster should expose the registered agent instances")
	}
}
