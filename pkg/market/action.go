package market

// Action is the closed set of inputs Marketplace.Execute recognizes. Anything
// outside this set is rejected at the boundary with a type error.
type Action interface {
	isAction()
}

// PlaceOrder submits a limit order for Good at Price. Quantity is signed:
// positive buys, negative sells.
type PlaceOrder struct {
	Good     string
	Price    int64
	Quantity int64
}

func (PlaceOrder) isAction() {}
