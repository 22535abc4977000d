package netaddr

import (
	"cmp"
	"fmt"
	"iter"
	"math/bits"
	"net/netip"
	"strconv"
	"strings"
)

// Prefix is an IPv4 network: a base address and a mask. The base address
// never has bits set outside the mask.
type Prefix struct {
	addr Addr
	mask uint32
}

// DeriveMask returns the mask with the top n bits set. n must be in [0,32].
func DeriveMask(n int) uint32 {
	if n <= 0 {
		return 0
	}
	if n >= 32 {
		return ^uint32(0)
	}
	return ^uint32(0) << (32 - n)
}

// ParsePrefix parses "A.B.C.D/N". The address must already be the network
// base: "192.168.1.5/24" is rejected rather than masked down.
func ParsePrefix(s string) (Prefix, error) {
	addrText, bitsText, ok := strings.Cut(s, "/")
	if !ok || strings.Contains(bitsText, "/") {
		return Prefix{}, parseError(ErrInvalidNetwork, s, "expected address/length")
	}

	addr, err := ParseAddr(addrText)
	if err != nil {
		return Prefix{}, parseError(ErrInvalidNetwork, s, "bad network address")
	}

	if bitsText == "" || !isDigits(bitsText) {
		return Prefix{}, parseError(ErrInvalidNetwork, s, "prefix length is not a number")
	}
	n, err := strconv.Atoi(bitsText)
	if err != nil || n > 32 {
		return Prefix{}, parseError(ErrInvalidNetwork, s, "prefix length out of range")
	}

	p, err := PrefixFromMask(addr, DeriveMask(n))
	if err != nil {
		return Prefix{}, parseError(ErrInvalidNetwork, s, "host bits set in network address")
	}
	return p, nil
}

// MustParsePrefix is like ParsePrefix but panics on error.
func MustParsePrefix(s string) Prefix {
	p, err := ParsePrefix(s)
	if err != nil {
		panic(err)
	}
	return p
}

// PrefixFrom builds a prefix from a base address and a prefix length.
func PrefixFrom(addr Addr, n int) (Prefix, error) {
	if n < 0 || n > 32 {
		return Prefix{}, parseError(ErrInvalidNetwork, fmt.Sprintf("%s/%d", addr, n), "prefix length out of range")
	}
	return PrefixFromMask(addr, DeriveMask(n))
}

// PrefixFromMask builds a prefix from a base address and an explicit mask.
// The mask is not required to be contiguous; Bits reports whether it is.
func PrefixFromMask(addr Addr, mask uint32) (Prefix, error) {
	if uint32(addr)&mask != uint32(addr) {
		return Prefix{}, parseError(ErrInvalidNetwork, fmt.Sprintf("%s/%s", addr, Addr(mask)), "host bits set in network address")
	}
	return Prefix{addr: addr, mask: mask}, nil
}

// Addr returns the network base address.
func (p Prefix) Addr() Addr {
	return p.addr
}

// Mask returns the network mask as an address value.
func (p Prefix) Mask() Addr {
	return Addr(p.mask)
}

// Bits returns the prefix length. ok is false if the mask is not a run of
// leading one bits.
func (p Prefix) Bits() (n int, ok bool) {
	n = bits.LeadingZeros32(^p.mask)
	if DeriveMask(n) != p.mask {
		return 0, false
	}
	return n, true
}

// Broadcast returns the highest address of the network.
func (p Prefix) Broadcast() Addr {
	return p.addr | Addr(^p.mask)
}

// Contains reports whether a lies inside the network.
func (p Prefix) Contains(a Addr) bool {
	return uint32(a)&p.mask == uint32(p.addr)
}

// ReverseZone returns the in-addr.arpa zone label (without the
// ".in-addr.arpa" suffix) of the network. Only /8, /16 and /24 networks have
// one; any other length returns ErrNoReverseZone.
func (p Prefix) ReverseZone() (string, error) {
	n, ok := p.Bits()
	if !ok || (n != 8 && n != 16 && n != 24) {
		return "", fmt.Errorf("%w: %s", ErrNoReverseZone, p)
	}
	octets := strings.Split(p.addr.ReverseString(), ".")
	return strings.Join(octets[len(octets)-n/8:], "."), nil
}

// Usable yields, in ascending order, every address strictly between the
// network and broadcast addresses. The sequence is empty for /31 and /32.
// Non-contiguous masks are walked over their host bits only.
func (p Prefix) Usable() iter.Seq[Addr] {
	return func(yield func(Addr) bool) {
		host := ^p.mask
		// (s - host) & host is the next subset of the host bits.
		for s := (0 - host) & host; s != 0 && s != host; s = (s - host) & host {
			if !yield(p.addr | Addr(s)) {
				return
			}
		}
	}
}

// Netip converts the prefix. ok is false for non-contiguous masks.
func (p Prefix) Netip() (prefix netip.Prefix, ok bool) {
	n, ok := p.Bits()
	if !ok {
		return netip.Prefix{}, false
	}
	return netip.PrefixFrom(p.addr.Netip(), n), true
}

// Compare orders prefixes by base address, then by mask.
func (p Prefix) Compare(o Prefix) int {
	if c := p.addr.Compare(o.addr); c != 0 {
		return c
	}
	return cmp.Compare(p.mask, o.mask)
}

// String returns CIDR notation, or address/mask for non-contiguous masks.
func (p Prefix) String() string {
	if n, ok := p.Bits(); ok {
		return fmt.Sprintf("%s/%d", p.addr, n)
	}
	return fmt.Sprintf("%s/%s", p.addr, Addr(p.mask))
}
