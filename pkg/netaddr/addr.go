// Package netaddr provides the IPv4 address, CIDR prefix and MAC address value
// types used by the topology model.
//
// All types are immutable values. They can only be obtained through parsing or
// checked constructors, so a value held by a caller is always valid.
package netaddr

import (
	"cmp"
	"fmt"
	"net/netip"
	"strconv"
	"strings"
)

// Addr is an IPv4 address stored as a 32-bit big-endian integer.
type Addr uint32

// ParseAddr parses a dotted-quad IPv4 address. Exactly four decimal octets in
// the range 0-255 are accepted; leading zeros are allowed.
func ParseAddr(s string) (Addr, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 4 {
		return 0, parseError(ErrInvalidAddress, s, "expected four octets")
	}

	var v uint32
	for _, p := range parts {
		if p == "" || !isDigits(p) {
			return 0, parseError(ErrInvalidAddress, s, "octet is not a decimal number")
		}
		n, err := strconv.ParseUint(p, 10, 8)
		if err != nil {
			return 0, parseError(ErrInvalidAddress, s, "octet out of range")
		}
		v = v<<8 | uint32(n)
	}
	return Addr(v), nil
}

// MustParseAddr is like ParseAddr but panics on error. Intended for tests and
// package-level constants.
func MustParseAddr(s string) Addr {
	a, err := ParseAddr(s)
	if err != nil {
		panic(err)
	}
	return a
}

// AddrFromUint32 returns the address with the given raw value.
func AddrFromUint32(v uint32) Addr {
	return Addr(v)
}

// AddrFromNetip converts an IPv4 netip.Addr. IPv4-mapped IPv6 addresses are
// unmapped first.
func AddrFromNetip(a netip.Addr) (Addr, error) {
	a = a.Unmap()
	if !a.Is4() {
		return 0, parseError(ErrInvalidAddress, a.String(), "not an IPv4 address")
	}
	b := a.As4()
	return Addr(uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])), nil
}

// Uint32 returns the raw 32-bit value.
func (a Addr) Uint32() uint32 {
	return uint32(a)
}

// Octets returns the four octets, most significant first.
func (a Addr) Octets() [4]byte {
	return [4]byte{byte(a >> 24), byte(a >> 16), byte(a >> 8), byte(a)}
}

// Netip converts the address to a netip.Addr.
func (a Addr) Netip() netip.Addr {
	return netip.AddrFrom4(a.Octets())
}

// String returns the canonical dotted-quad form.
func (a Addr) String() string {
	o := a.Octets()
	return fmt.Sprintf("%d.%d.%d.%d", o[0], o[1], o[2], o[3])
}

// ReverseString returns the dotted-quad form with the least significant
// octet first, as used in in-addr.arpa names.
func (a Addr) ReverseString() string {
	o := a.Octets()
	return fmt.Sprintf("%d.%d.%d.%d", o[3], o[2], o[1], o[0])
}

// Compare returns -1, 0 or +1 ordering addresses numerically.
func (a Addr) Compare(b Addr) int {
	return cmp.Compare(a, b)
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
