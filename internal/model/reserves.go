package model

import "math/big"

// Reserves holds the pooled quantities of the two tokens in one pair,
// in base units. Base is the carbon token side, Quote the settlement side.
type Reserves struct {
	Base  *big.Int `json:"base"`
	Quote *big.Int `json:"quote"`
}

// Initialized reports whether both reserves are strictly positive. A pool
// with a zero reserve has no defined price.
func (r Reserves) Initialized() bool {
	return r.Base != nil && r.Quote != nil && r.Base.Sign() > 0 && r.Quote.Sign() > 0
}
