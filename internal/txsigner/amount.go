package txsigner

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/furidngrt/octrawallet/internal/model"
)

// Decimals is the number of fractional digits of the display unit: one
// display unit is 10^6 minor units.
const Decimals = 6

// Fee-class tags required by the remote ledger. Transfers under the
// low-value threshold pay the minimum fee unit, everything else the high one.
const (
	FeeTagLow  = "1"
	FeeTagHigh = "3"
)

var (
	minorPerUnit = new(big.Int).SetInt64(1_000_000)

	// 1000 display units, in minor units. The fee-class boundary.
	feeThresholdMinor = new(big.Int).Mul(big.NewInt(1000), minorPerUnit)
)

// AmountToMinorUnits converts a display-unit decimal string to a minor-unit
// integer string using big-integer arithmetic only. Floats would corrupt the
// amount and invalidate the signature, so they are never involved.
func AmountToMinorUnits(amount string) (string, error) {
	whole, frac, err := splitAmount(amount)
	if err != nil {
		return "", err
	}

	w, ok := new(big.Int).SetString(whole, 10)
	if !ok {
		return "", fmt.Errorf("%w: %q", model.ErrInvalidAmount, amount)
	}
	f, ok := new(big.Int).SetString(frac, 10)
	if !ok {
		return "", fmt.Errorf("%w: %q", model.ErrInvalidAmount, amount)
	}

	minor := new(big.Int).Mul(w, minorPerUnit)
	minor.Add(minor, f)
	return minor.String(), nil
}

// FeeTagForAmount computes the deterministic fee-class tag for a
// display-unit amount string.
func FeeTagForAmount(amount string) (string, error) {
	minorStr, err := AmountToMinorUnits(amount)
	if err != nil {
		return "", err
	}
	minor, _ := new(big.Int).SetString(minorStr, 10)
	if minor.Cmp(feeThresholdMinor) < 0 {
		return FeeTagLow, nil
	}
	return FeeTagHigh, nil
}

// MinorUnitsToDisplay converts a minor-unit integer string to a display
// string, trimming trailing zeros but keeping at least one fractional digit.
// Example: "5000000" -> "5.0", "1000500000" -> "1000.5". Remote feeds are
// not trusted to be well formed; anything but a plain digit string renders
// as "0.0" instead of leaking garbage into display output.
func MinorUnitsToDisplay(minor string) string {
	trimmed := strings.TrimSpace(minor)
	if !isDigits(trimmed) {
		return "0.0"
	}
	s := strings.TrimLeft(trimmed, "0")
	if s == "" {
		s = "0"
	}
	for len(s) <= Decimals {
		s = "0" + s
	}

	pos := len(s) - Decimals
	whole, frac := s[:pos], s[pos:]
	frac = strings.TrimRight(frac, "0")
	if frac == "" {
		frac = "0"
	}
	return whole + "." + frac
}

// splitAmount validates the decimal string and returns the whole part and
// the fractional part padded to exactly Decimals digits.
func splitAmount(amount string) (whole, frac string, err error) {
	s := strings.TrimSpace(amount)
	if s == "" {
		return "", "", fmt.Errorf("%w: empty", model.ErrInvalidAmount)
	}
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		return "", "", fmt.Errorf("%w: %q", model.ErrInvalidAmount, amount)
	}

	whole, frac, found := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}
	if !found || frac == "" {
		frac = "0"
	}
	if !isDigits(whole) || !isDigits(frac) {
		return "", "", fmt.Errorf("%w: %q", model.ErrInvalidAmount, amount)
	}
	if len(frac) > Decimals {
		return "", "", fmt.Errorf("%w: more than %d fractional digits in %q",
			model.ErrInvalidAmount, Decimals, amount)
	}

	frac += strings.Repeat("0", Decimals-len(frac))
	return whole, frac, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
