package model

import "math/big"

// Quote is the result of pricing a swap against pool reserves.
// Amounts are base units; prices are display-only floats.
type Quote struct {
	InputAmount       *big.Int `json:"input_amount"`
	OutputAmount      *big.Int `json:"output_amount"`
	MinOutputAmount   *big.Int `json:"min_output_amount"`
	SlippageBps       int      `json:"slippage_bps"`
	PriceQuotePerBase float64  `json:"price_quote_per_base"`
	PriceBasePerQuote float64  `json:"price_base_per_quote"`
}
