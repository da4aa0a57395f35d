package model

import "math/big"

// LiquidityPlan is a funding request clamped against the funder's live
// balances and the configured per-side ceiling. Actual amounts never
// exceed the requested amounts or the available balances.
type LiquidityPlan struct {
	RequestedBase  *big.Int `json:"requested_base"`
	RequestedQuote *big.Int `json:"requested_quote"`
	ActualBase     *big.Int `json:"actual_base"`
	ActualQuote    *big.Int `json:"actual_quote"`
}

// FundResult reports an executed funding sequence: one receipt per step
// in submission order, plus the trading contract's token balances as
// re-read after the final confirmation.
type FundResult struct {
	Receipts  []Receipt `json:"receipts"`
	PoolBase  *big.Int  `json:"pool_base,omitempty"`
	PoolQuote *big.Int  `json:"pool_quote,omitempty"`
	Warning   string    `json:"warning,omitempty"`
}
