package domain

import (
	"fmt"
	"net/mail"
	"strings"
)

// SubscriberEmail is a syntactically valid email address. The zero value is
// not valid; obtain one through ParseSubscriberEmail.
type SubscriberEmail struct {
	value string
}

// ParseSubscriberEmail validates raw input against RFC 5322 address syntax.
// Only a bare address is accepted; display-name forms ("Jane <j@x.io>") and
// addresses with surrounding whitespace are rejected.
func ParseSubscriberEmail(raw string) (SubscriberEmail, error) {
	if strings.TrimSpace(raw) == "" {
		return SubscriberEmail{}, fmt.Errorf("email address is empty")
	}
	addr, err := mail.ParseAddress(raw)
	if err != nil {
		return SubscriberEmail{}, fmt.Errorf("invalid email address: %w", err)
	}
	if addr.Name != "" || addr.Address != raw {
		return SubscriberEmail{}, fmt.Errorf("email address must be a bare address")
	}
	return SubscriberEmail{value: raw}, nil
}

// String returns the validated address.
func (e SubscriberEmail) String() string { return e.value }
