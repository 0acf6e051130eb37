package main

import (
	"math/rand"

	"github.com/agorasim/agora/pkg/agent"
	"github.com/agorasim/agora/pkg/market"
)

// Feeder submits pseudo-random orders on behalf of the demo agents, one per
// agent per step. Seeded, so a run is reproducible end to end.
type Feeder struct {
	rng    *rand.Rand
	agents []*agent.Agent
	goods  []string
}

// NewFeeder creates a feeder over the given agents and goods.
func NewFeeder(seed int64, agents []*agent.Agent, goods []string) *Feeder {
	return &Feeder{
		rng:    rand.New(rand.NewSource(seed)),
		agents: agents,
		goods:  goods,
	}
}

// SubmitOrders places one order per agent: a random good, a price around the
// reference level, and a small signed quantity.
func (f *Feeder) SubmitOrders(mp *market.Marketplace) error {
	if len(f.goods) == 0 {
		return nil
	}
	for _, a := range f.agents {
		good := f.goods[f.rng.Intn(len(f.goods))]
		price := int64(8 + f.rng.Intn(5)) // 8..12
		qty := int64(1 + f.rng.Intn(3))   // 1..3
		if f.rng.Intn(2) == 0 {
			qty = -qty
		}
		if err := mp.Execute(a, market.PlaceOrder{Good: good, Price: price, Quantity: qty}); err != nil {
			return err
		}
	}
	return nil
}
