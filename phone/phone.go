package phone

import (
	"strings"
)

const (
	// CountryCode is the default country code applied to national numbers
	CountryCode = "+91"
	// trunkPrefix is the national dialing prefix stripped before adding the country code
	trunkPrefix = "0"
	// nationalLength is the number of digits in a bare national number
	nationalLength = 10
)

// Normalize canonicalizes a raw phone string to +91XXXXXXXXXX form.
// Accepted shapes: "+91XXXXXXXXXX", "91XXXXXXXXXX", "0XXXXXXXXXX" and bare
// 10-digit national numbers, with any whitespace, dashes, dots or parentheses
// in between. Numbers with a leading + keep their country code. There is no
// error path: anything else unrecognized gets the default country code
// prefixed after stripping non-digits. Normalize is idempotent.
func Normalize(raw string) string {
	digits := stripNonDigits(raw)

	// A leading + means the number is already country-coded; keeping it as-is
	// makes every normalized output a fixed point of Normalize.
	if strings.HasPrefix(strings.TrimSpace(raw), "+") {
		return "+" + digits
	}

	cc := strings.TrimPrefix(CountryCode, "+")

	switch {
	case strings.HasPrefix(digits, cc) && len(digits) == len(cc)+nationalLength:
		return "+" + digits
	case strings.HasPrefix(digits, trunkPrefix) && len(digits) == len(trunkPrefix)+nationalLength:
		return CountryCode + digits[len(trunkPrefix):]
	case len(digits) == nationalLength:
		return CountryCode + digits
	default:
		return CountryCode + digits
	}
}

func stripNonDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
