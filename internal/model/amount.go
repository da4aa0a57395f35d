package model

import (
	"fmt"
	"math/big"
	"strings"
)

// ParseAmount converts a human decimal string ("10", "0.553") into base
// units for a token with the given decimal count. Fractional digits
// beyond the token's precision are rejected rather than truncated.
func ParseAmount(value string, decimals uint8) (*big.Int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, fmt.Errorf("amount is empty")
	}
	if strings.HasPrefix(value, "-") {
		return nil, fmt.Errorf("amount is negative: %s", value)
	}

	whole := value
	frac := ""
	if idx := strings.IndexByte(value, '.'); idx >= 0 {
		whole = value[:idx]
		frac = value[idx+1:]
	}
	if whole == "" {
		whole = "0"
	}
	if len(frac) > int(decimals) {
		return nil, fmt.Errorf("amount %s has more than %d fractional digits", value, decimals)
	}
	frac += strings.Repeat("0", int(decimals)-len(frac))

	combined := whole + frac
	amount, ok := new(big.Int).SetString(combined, 10)
	if !ok {
		return nil, fmt.Errorf("amount is not a decimal number: %s", value)
	}
	return amount, nil
}

// FormatAmount renders base units as a human decimal string, trimming
// trailing fractional zeros.
func FormatAmount(amount *big.Int, decimals uint8) string {
	if amount == nil {
		return "0"
	}
	s := amount.String()
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	if len(s) <= int(decimals) {
		s = strings.Repeat("0", int(decimals)-len(s)+1) + s
	}
	cut := len(s) - int(decimals)
	whole, frac := s[:cut], s[cut:]
	frac = strings.TrimRight(frac, "0")
	out := whole
	if frac != "" {
		out += "." + frac
	}
	if neg {
		out = "-" + out
	}
	return out
}
