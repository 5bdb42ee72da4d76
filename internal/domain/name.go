package domain

import (
	"fmt"
	"strings"

	"github.com/rivo/uniseg"
)

// maxNameGraphemes is the upper bound on a subscriber name, counted in
// Unicode grapheme clusters rather than bytes or runes so that composed
// characters (emoji, combining accents) count as one.
const maxNameGraphemes = 256

const forbiddenNameCharacters = `<>[]()"'/\`

// SubscriberName is a validated subscriber display name. The zero value is
// not valid; obtain one through ParseSubscriberName.
type SubscriberName struct {
	value string
}

// ParseSubscriberName validates raw input and returns a SubscriberName.
// It rejects empty or whitespace-only strings, strings longer than 256
// grapheme clusters, and strings containing characters that could be used
// for header or markup injection.
func ParseSubscriberName(raw string) (SubscriberName, error) {
	if strings.TrimSpace(raw) == "" {
		return SubscriberName{}, fmt.Errorf("subscriber name is empty or whitespace-only")
	}
	if uniseg.GraphemeClusterCount(raw) > maxNameGraphemes {
		return SubscriberName{}, fmt.Errorf("subscriber name exceeds %d characters", maxNameGraphemes)
	}
	if strings.ContainsAny(raw, forbiddenNameCharacters) {
		return SubscriberName{}, fmt.Errorf("subscriber name contains a forbidden character")
	}
	return SubscriberName{value: raw}, nil
}

// String returns the validated name.
func (n SubscriberName) String() string { return n.value }
