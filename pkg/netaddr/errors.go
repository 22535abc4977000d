package netaddr

import (
	"errors"
	"fmt"
)

// Parse failure kinds. A *ParseError always unwraps to one of these.
var (
	ErrInvalidAddress = errors.New("invalid IPv4 address")
	ErrInvalidMAC     = errors.New("invalid MAC address")
	ErrInvalidNetwork = errors.New("invalid IPv4 network")
)

// ErrNoReverseZone is returned by Prefix.ReverseZone for prefixes that do not
// fall on an octet boundary usable as an in-addr.arpa zone.
var ErrNoReverseZone = errors.New("prefix has no reverse zone")

// ParseError describes text that could not be parsed into an address value.
type ParseError struct {
	Kind   error
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s: %q", e.Kind, e.Input)
	}
	return fmt.Sprintf("%s: %q: %s", e.Kind, e.Input, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Kind
}

func parseError(kind error, input, reason string) error {
	return &ParseError{Kind: kind, Input: input, Reason: reason}
}
