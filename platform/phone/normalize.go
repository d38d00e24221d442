// Package phone normalizes client phone numbers before they are stored on a
// montage. This is part of the platform layer and contains no business logic.
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// Numbers without a country prefix are assumed Dutch, matching the customer base.
const defaultRegion = "NL"

// NormalizeE164 formats a phone number to E.164. Unparseable or invalid input
// is stored as typed, only trimmed, so a bad number never blocks intake.
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
