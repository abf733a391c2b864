// Package phone provides phone number utilities.
// This is part of the platform layer and contains no business logic.
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

const defaultRegion = "US"

// NormalizeE164 formats a phone number to E.164. If parsing fails, it returns the trimmed input.
func NormalizeE164(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return trimmed
	}

	number, err := phonenumbers.Parse(trimmed, defaultRegion)
	if err != nil {
		return trimmed
	}

	if !phonenumbers.IsValidNumber(number) {
		return trimmed
	}

	return phonenumbers.Format(number, phonenumbers.E164)
}

// IsDialable reports whether a number may be dialed under the accepted
// country-code prefix. Numbers without the prefix are never dialed, even
// when they would parse as valid local numbers.
func IsDialable(number, allowedPrefix string) bool {
	trimmed := strings.TrimSpace(number)
	if trimmed == "" || allowedPrefix == "" {
		return false
	}
	return strings.HasPrefix(trimmed, allowedPrefix)
}
