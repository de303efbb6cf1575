package txsigner

import (
	"errors"
	"testing"

	"github.com/furidngrt/octrawallet/internal/model"
)

func TestAmountToMinorUnits(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"1000.5", "1000500000"},
		{"0", "0"},
		{"0.000001", "1"},
		{"1", "1000000"},
		{"5", "5000000"},
		{"123456789.123456", "123456789123456"},
		{".5", "500000"},
		{"999999999999999999999", "999999999999999999999000000"},
	}
	for _, c := range cases {
		got, err := AmountToMinorUnits(c.in)
		if err != nil {
			t.Errorf("AmountToMinorUnits(%q): %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("AmountToMinorUnits(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestAmountToMinorUnitsRejects(t *testing.T) {
	bad := []string{
		"",
		"-1",
		"+1",
		"0.0000001", // 7 fractional digits
		"1,5",
		"1.5.5",
		"NaN",
		"Infinity",
		"1e6",
		"abc",
	}
	for _, in := range bad {
		if _, err := AmountToMinorUnits(in); !errors.Is(err, model.ErrInvalidAmount) {
			t.Errorf("AmountToMinorUnits(%q): expected ErrInvalidAmount, got %v", in, err)
		}
	}
}

func TestMinorUnitsToDisplay(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"5000000", "5.0"},
		{"1000500000", "1000.5"},
		{"1", "0.000001"},
		{"0", "0.0"},
		{"123456789123456", "123456789.123456"},

		// Malformed minor-unit strings render as zero, never pass through.
		{"abc", "0.0"},
		{"12a4", "0.0"},
		{"-5000000", "0.0"},
		{"", "0.0"},
	}
	for _, c := range cases {
		if got := MinorUnitsToDisplay(c.in); got != c.want {
			t.Errorf("MinorUnitsToDisplay(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFeeTagBoundary(t *testing.T) {
	cases := []struct {
		amount string
		want   string
	}{
		{"0.5", FeeTagLow},
		{"999.999999", FeeTagLow},
		{"1000", FeeTagHigh},
		{"1000.000001", FeeTagHigh},
		{"50000", FeeTagHigh},
	}
	for _, c := range cases {
		got, err := FeeTagForAmount(c.amount)
		if err != nil {
			t.Fatalf("FeeTagForAmount(%q): %v", c.amount, err)
		}
		if got != c.want {
			t.Errorf("FeeTagForAmount(%q) = %q, want %q", c.amount, got, c.want)
		}
	}
}
