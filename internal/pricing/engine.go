package pricing

import (
	"errors"
	"fmt"
	"math/big"

	"carbondash/internal/model"
)

// Side selects which token the input amount is denominated in.
type Side string

const (
	BaseIn  Side = "base_in"
	QuoteIn Side = "quote_in"
)

var (
	// ErrInvalidReserves marks a pool with a non-positive reserve.
	ErrInvalidReserves = errors.New("pool reserves not initialized")
	// ErrInvalidInput marks out-of-range caller arguments.
	ErrInvalidInput = errors.New("invalid quote input")
)

const bpsDenominator = 10000

// Quote prices a swap at the pool's mid price and applies the slippage
// tolerance as a floor on the received amount. The output is NOT
// adjusted for the price impact of the trade itself; this mirrors the
// observed pool behavior and is intentional, not a missing fee curve.
// Amounts are base units and all division floors.
func Quote(reserves model.Reserves, side Side, inputAmount *big.Int, slippageBps int) (model.Quote, error) {
	if !reserves.Initialized() {
		return model.Quote{}, ErrInvalidReserves
	}
	if inputAmount == nil || inputAmount.Sign() <= 0 {
		return model.Quote{}, fmt.Errorf("%w: input amount must be positive", ErrInvalidInput)
	}
	if slippageBps < 0 || slippageBps > bpsDenominator {
		return model.Quote{}, fmt.Errorf("%w: slippage %d bps out of [0, %d]", ErrInvalidInput, slippageBps, bpsDenominator)
	}

	var num, den *big.Int
	switch side {
	case BaseIn:
		num, den = reserves.Quote, reserves.Base
	case QuoteIn:
		num, den = reserves.Base, reserves.Quote
	default:
		return model.Quote{}, fmt.Errorf("%w: unknown side %q", ErrInvalidInput, side)
	}

	output := new(big.Int).Mul(inputAmount, num)
	output.Quo(output, den)

	minOutput := new(big.Int).Mul(output, big.NewInt(int64(bpsDenominator-slippageBps)))
	minOutput.Quo(minOutput, big.NewInt(bpsDenominator))

	quotePerBase, _ := new(big.Float).Quo(
		new(big.Float).SetInt(reserves.Quote),
		new(big.Float).SetInt(reserves.Base),
	).Float64()
	basePerQuote, _ := new(big.Float).Quo(
		new(big.Float).SetInt(reserves.Base),
		new(big.Float).SetInt(reserves.Quote),
	).Float64()

	return model.Quote{
		InputAmount:       new(big.Int).Set(inputAmount),
		OutputAmount:      output,
		MinOutputAmount:   minOutput,
		SlippageBps:       slippageBps,
		PriceQuotePerBase: quotePerBase,
		PriceBasePerQuote: basePerQuote,
	}, nil
}
