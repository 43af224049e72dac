// Package phone validates and normalizes Kenyan mobile subscriber numbers
// into the canonical dialing format M-Pesa expects.
package phone

import (
	"errors"
	"strings"
)

const (
	// CountryCode is the Kenyan dialing prefix in canonical form.
	CountryCode = "254"

	// canonicalLength is country code plus nine subscriber digits.
	canonicalLength = 12
)

// ErrInvalidNumber is returned when a number cannot be normalized into the
// canonical M-Pesa format.
var ErrInvalidNumber = errors.New("invalid subscriber number")

// Normalize converts any accepted input form into the canonical
// "254XXXXXXXXX" digit string. Accepted forms: +254712345678, 254712345678,
// 0712345678 and bare 712345678 (punctuation and spaces are ignored).
func Normalize(raw string) (string, error) {
	digits := stripSeparators(raw)
	if digits == "" {
		return "", ErrInvalidNumber
	}

	switch {
	case strings.HasPrefix(digits, CountryCode):
		// Already country-code prefixed.
	case strings.HasPrefix(digits, "0"):
		digits = CountryCode + digits[1:]
	default:
		digits = CountryCode + digits
	}

	if len(digits) != canonicalLength {
		return "", ErrInvalidNumber
	}

	// Safaricom mobile ranges start with 7 or 1 after the country code.
	subscriber := digits[len(CountryCode):]
	if subscriber[0] != '7' && subscriber[0] != '1' {
		return "", ErrInvalidNumber
	}

	return digits, nil
}

// IsValid reports whether raw can be normalized into a valid M-Pesa number.
func IsValid(raw string) bool {
	_, err := Normalize(raw)
	return err == nil
}

// ValidationError returns a user-displayable message when raw is missing or
// invalid, or an empty string when it is acceptable.
func ValidationError(raw string, required bool) string {
	if strings.TrimSpace(raw) == "" {
		if required {
			return "Phone number is required"
		}
		return ""
	}
	if !IsValid(raw) {
		return "Enter a valid M-Pesa number, e.g. 0712 345 678"
	}
	return ""
}

// stripSeparators keeps digits and drops a single leading plus sign along
// with spaces, dashes, dots and parentheses. Any other character invalidates
// the input.
func stripSeparators(raw string) string {
	var b strings.Builder
	for i, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
		case r == ' ' || r == '-' || r == '.' || r == '(' || r == ')':
		default:
			return ""
		}
	}
	return b.String()
}
