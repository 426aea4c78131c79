package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// amountPattern requires exactly two fractional digits and no sign.
var amountPattern = regexp.MustCompile(`^\d+\.\d{2}$`)

// ParseAmount converts a decimal string amount (as accepted over HTTP and
// the processor wire format) into minor units. It never uses binary
// floating point arithmetic; comparisons stay exact.
func ParseAmount(s string) (int64, error) {
	if !amountPattern.MatchString(s) {
		return 0, fmt.Errorf("amount %q is not a decimal with exactly two fractional digits", s)
	}
	whole, frac, _ := strings.Cut(s, ".")
	wholeVal, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("amount %q: %w", s, err)
	}
	fracVal, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("amount %q: %w", s, err)
	}
	return wholeVal*100 + fracVal, nil
}

// FormatAmount renders minor units back into the "d+.dd" decimal string used
// on the wire.
func FormatAmount(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%d.%02d", sign, minor/100, minor%100)
}

// ValidAmount reports whether a minor-unit amount is positive and at most
// 999,999.99.
func ValidAmount(minor int64) bool {
	return minor >= MinAmountMinor && minor <= MaxAmountMinor
}

// SupportedCurrencies is the default allow-list; overridden by the
// SUPPORTED_CURRENCIES configuration option.
var SupportedCurrencies = map[string]bool{
	"USD": true,
	"EUR": true,
	"GBP": true,
	"CAD": true,
	"AUD": true,
}

// ValidCurrency reports whether code is a recognized 3-letter currency.
func ValidCurrency(code string, allowList map[string]bool) bool {
	if allowList == nil {
		allowList = SupportedCurrencies
	}
	return allowList[strings.ToUpper(code)]
}
