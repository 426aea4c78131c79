package authorizenet

import (
	"strconv"
	"time"

	"easypay/internal/core/ports"
)

// ValidateCard runs the pre-flight checks applied before a request is
// ever assembled: Luhn checksum, MMYY format, and non-expiry.
func ValidateCard(card ports.Card, now time.Time) *ports.ValidationError {
	if !luhnValid(card.Number) {
		return &ports.ValidationError{Message: "invalid credit card number"}
	}
	if err := validateExpiration(card.ExpirationMMYY, now); err != "" {
		return &ports.ValidationError{Message: err}
	}
	if len(card.CVV) < 3 || len(card.CVV) > 4 {
		return &ports.ValidationError{Message: "card code must be 3 or 4 digits"}
	}
	return nil
}

// ValidateBillingAddress rejects an address with any blank required field
// or a country code that is not two letters.
func ValidateBillingAddress(b ports.BillingAddress) *ports.ValidationError {
	switch "" {
	case b.FirstName, b.LastName:
		return &ports.ValidationError{Message: "billing name must not be empty"}
	case b.Address:
		return &ports.ValidationError{Message: "billing address must not be empty"}
	case b.City, b.State, b.Zip:
		return &ports.ValidationError{Message: "billing city, state, and zip must not be empty"}
	}
	if len(b.Country) != 2 || !isLetters(b.Country) {
		return &ports.ValidationError{Message: "billing country must be a 2-letter code"}
	}
	return nil
}

func isLetters(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'A' || c > 'Z') && (c < 'a' || c > 'z') {
			return false
		}
	}
	return true
}

// luhnValid implements the Luhn checksum over a numeric string.
func luhnValid(number string) bool {
	if len(number) < 13 || len(number) > 19 {
		return false
	}

	sum := 0
	double := false
	for i := len(number) - 1; i >= 0; i-- {
		c := number[i]
		if c < '0' || c > '9' {
			return false
		}
		digit := int(c - '0')
		if double {
			digit *= 2
			if digit > 9 {
				digit -= 9
			}
		}
		sum += digit
		double = !double
	}
	return sum%10 == 0
}

// validateExpiration checks a 4-digit MMYY string, returning an empty
// string when valid or a human-readable reason otherwise.
func validateExpiration(mmyy string, now time.Time) string {
	if len(mmyy) != 4 {
		return "expiration date must be in MMYY format"
	}

	month, err := strconv.Atoi(mmyy[:2])
	if err != nil {
		return "expiration date must be in MMYY format"
	}
	year, err := strconv.Atoi(mmyy[2:])
	if err != nil {
		return "expiration date must be in MMYY format"
	}
	if month < 1 || month > 12 {
		return "invalid month in expiration date"
	}

	fullYear := 2000 + year
	currentYear, currentMonth := now.Year(), int(now.Month())

	if fullYear < currentYear || (fullYear == currentYear && month < currentMonth) {
		return "credit card has expired"
	}
	return ""
}
