// Package amount converts between human decimal strings and smallest-unit
// integers. All money math is big.Int string math; floats never touch
// amounts.
package amount

import (
	"fmt"
	"math/big"
	"regexp"
	"strings"
)

var decimalPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)

// IsPositiveDecimal reports whether s is a well-formed decimal > 0.
func IsPositiveDecimal(s string) bool {
	if !decimalPattern.MatchString(s) {
		return false
	}
	stripped := strings.ReplaceAll(s, ".", "")
	return strings.Trim(stripped, "0") != ""
}

// ToBaseUnits converts a decimal string to smallest-denomination units.
// Precision beyond the token's decimals is rejected rather than truncated.
func ToBaseUnits(decimal string, decimals int) (*big.Int, error) {
	if !decimalPattern.MatchString(decimal) {
		return nil, fmt.Errorf("amount %q is not a decimal number", decimal)
	}
	intPart, fracPart, _ := strings.Cut(decimal, ".")
	if len(fracPart) > decimals {
		return nil, fmt.Errorf("amount %q exceeds %d decimal places", decimal, decimals)
	}
	fracPart += strings.Repeat("0", decimals-len(fracPart))

	combined := strings.TrimLeft(intPart+fracPart, "0")
	if combined == "" {
		combined = "0"
	}
	n, ok := new(big.Int).SetString(combined, 10)
	if !ok {
		return nil, fmt.Errorf("amount %q is not a decimal number", decimal)
	}
	return n, nil
}

// FromBaseUnits renders smallest-denomination units as a decimal string with
// trailing zeros trimmed.
func FromBaseUnits(n *big.Int, decimals int) string {
	s := n.String()
	if decimals == 0 {
		return s
	}
	if len(s) <= decimals {
		s = strings.Repeat("0", decimals-len(s)+1) + s
	}
	intPart := s[:len(s)-decimals]
	fracPart := strings.TrimRight(s[len(s)-decimals:], "0")
	if fracPart == "" {
		return intPart
	}
	return intPart + "." + fracPart
}

// SolveLinearInput back-solves the input that yields desiredOut under the
// exchange rate sampled by (probeIn -> probeOut): in = desiredOut * probeIn
// / probeOut, rounded up so the estimate errs toward enough input.
//
// This assumes linear price impact, which only holds approximately. Callers
// must treat the result as a UI estimate, not an on-chain guarantee.
func SolveLinearInput(probeIn, probeOut, desiredOut *big.Int) (*big.Int, error) {
	if probeOut == nil || probeOut.Sign() <= 0 {
		return nil, fmt.Errorf("probe quote returned zero output")
	}
	num := new(big.Int).Mul(desiredOut, probeIn)
	quo, rem := new(big.Int).QuoRem(num, probeOut, new(big.Int))
	if rem.Sign() > 0 {
		quo.Add(quo, big.NewInt(1))
	}
	return quo, nil
}
