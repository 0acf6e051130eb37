// Package agent provides the reference in-memory implementation of the
// market.Account ledger interface: a named agent holding an asset inventory.
package agent

import (
	"sort"

	"github.com/agorasim/agora/pkg/market"
)

// Agent is a simulation participant with an asset -> quantity inventory.
// Balances change only through Transfer (or the Credit/Debit primitives it is
// built on); the matching engine itself never touches the inventory.
type Agent struct {
	name      string
	inventory map[string]int64
}

// New creates an agent with a copy of the given inventory.
func New(name string, inventory map[string]int64) *Agent {
	inv := make(map[string]int64, len(inventory))
	for asset, qty := range inventory {
		inv[asset] = qty
	}
	return &Agent{name: name, inventory: inv}
}

func (a *Agent) ID() string { return a.name }

// BalanceOf returns the held quantity of asset, zero when absent.
func (a *Agent) BalanceOf(asset string) int64 {
	return a.inventory[asset]
}

// Holdings returns the assets present in the inventory, sorted for
// deterministic iteration.
func (a *Agent) Holdings() []string {
	assets := make([]string, 0, len(a.inventory))
	for asset := range a.inventory {
		assets = append(assets, asset)
	}
	sort.Strings(assets)
	return assets
}

// Credit adds amount of asset to the inventory.
func (a *Agent) Credit(asset string, amount int64) {
	a.inventory[asset] += amount
}

// Debit removes amount of asset from the inventory.
func (a *Agent) Debit(asset string, amount int64) {
	a.inventory[asset] -= amount
}

// Transfer applies a bilateral exchange: this agent gives `give` to the
// counterparty and takes `take` from it. Both legs apply together; there is
// no partial state in between from the caller's point of view. The
// counterparty must expose Credit/Debit (any inventory-backed account does).
func (a *Agent) Transfer(give, take market.Leg, counterparty market.Account) {
	a.Debit(give.Asset, give.Amount)
	a.Credit(take.Asset, take.Amount)

	if cp, ok := counterparty.(interface {
		Credit(asset string, amount int64)
		Debit(asset string, amount int64)
	}); ok {
		cp.Credit(give.Asset, give.Amount)
		cp.Debit(take.Asset, take.Amount)
	}
}

// Roster is a fixed set of agents implementing the market.Environment
// boundary consumed by Marketplace.Reset.
type Roster struct {
	agents []*Agent
}

// NewRoster builds a roster from the given agents.
func NewRoster(agents ...*Agent) *Roster {
	return &Roster{agents: agents}
}

// Accounts returns the roster as ledger accounts, in registration order.
func (r *Roster) Accounts() []market.Account {
	out := make([]market.Account, len(r.agents))
	for i, a := range r.agents {
		out[i] = a
	}
	return out
}

// Agents returns the concrete agents, in registration order.
func (r *Roster) Agents() []*Agent {
	return r.agents
}
