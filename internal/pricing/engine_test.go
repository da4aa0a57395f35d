package pricing

import (
	"errors"
	"math/big"
	"testing"

	"carbondash/internal/model"
)

func reserves(base, quote int64) model.Reserves {
	return model.Reserves{Base: big.NewInt(base), Quote: big.NewInt(quote)}
}

func TestQuoteBaseIn(t *testing.T) {
	q, err := Quote(reserves(1000, 2000), BaseIn, big.NewInt(10), 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.OutputAmount.Cmp(big.NewInt(20)) != 0 {
		t.Fatalf("output mismatch: got %s, want 20", q.OutputAmount)
	}
	// 20 * 9950 / 10000 = 19.9 -> floors to 19
	if q.MinOutputAmount.Cmp(big.NewInt(19)) != 0 {
		t.Fatalf("min output mismatch: got %s, want 19", q.MinOutputAmount)
	}
	if q.PriceQuotePerBase != 2.0 || q.PriceBasePerQuote != 0.5 {
		t.Fatalf("price mismatch: %f / %f", q.PriceQuotePerBase, q.PriceBasePerQuote)
	}
}

func TestQuoteSidesAreInverse(t *testing.T) {
	input := big.NewInt(1_000_000)
	forward, err := Quote(reserves(3_000_000, 7_000_000), BaseIn, input, 0)
	if err != nil {
		t.Fatalf("forward quote failed: %v", err)
	}
	back, err := Quote(reserves(3_000_000, 7_000_000), QuoteIn, forward.OutputAmount, 0)
	if err != nil {
		t.Fatalf("back quote failed: %v", err)
	}

	diff := new(big.Int).Sub(input, back.OutputAmount)
	if diff.Sign() < 0 {
		t.Fatalf("round trip gained value: %s -> %s", input, back.OutputAmount)
	}
	// Both quotes floor, so the round trip may lose at most one unit per leg.
	if diff.Cmp(big.NewInt(2)) > 0 {
		t.Fatalf("round trip drift too large: %s -> %s", input, back.OutputAmount)
	}
}

func TestQuoteZeroSlippage(t *testing.T) {
	q, err := Quote(reserves(500, 500), BaseIn, big.NewInt(123), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.MinOutputAmount.Cmp(q.OutputAmount) != 0 {
		t.Fatalf("min output should equal output at 0 bps: %s != %s", q.MinOutputAmount, q.OutputAmount)
	}
}

func TestQuoteFullSlippage(t *testing.T) {
	q, err := Quote(reserves(500, 500), QuoteIn, big.NewInt(123), 10000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.MinOutputAmount.Sign() != 0 {
		t.Fatalf("min output should be zero at 10000 bps, got %s", q.MinOutputAmount)
	}
}

func TestQuoteInvalidReserves(t *testing.T) {
	cases := []model.Reserves{
		{Base: big.NewInt(0), Quote: big.NewInt(100)},
		{Base: big.NewInt(100), Quote: big.NewInt(0)},
		{Base: big.NewInt(-1), Quote: big.NewInt(100)},
		{},
	}
	for _, rs := range cases {
		if _, err := Quote(rs, BaseIn, big.NewInt(1), 0); !errors.Is(err, ErrInvalidReserves) {
			t.Fatalf("reserves %+v: expected ErrInvalidReserves, got %v", rs, err)
		}
	}
}

func TestQuoteInvalidInput(t *testing.T) {
	rs := reserves(100, 100)

	if _, err := Quote(rs, BaseIn, big.NewInt(0), 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("zero input: expected ErrInvalidInput, got %v", err)
	}
	if _, err := Quote(rs, BaseIn, big.NewInt(-5), 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("negative input: expected ErrInvalidInput, got %v", err)
	}
	if _, err := Quote(rs, BaseIn, big.NewInt(1), -1); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("negative slippage: expected ErrInvalidInput, got %v", err)
	}
	if _, err := Quote(rs, BaseIn, big.NewInt(1), 10001); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("oversized slippage: expected ErrInvalidInput, got %v", err)
	}
	if _, err := Quote(rs, Side("sideways"), big.NewInt(1), 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("unknown side: expected ErrInvalidInput, got %v", err)
	}
}
