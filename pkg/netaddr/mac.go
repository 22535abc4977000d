package netaddr

import (
	"bytes"
	"encoding/hex"
	"fmt"
)

// MAC is a 48-bit Ethernet hardware address.
type MAC [6]byte

// macTextLen is six two-digit groups plus five separators.
const macTextLen = 6*2 + 5

// ParseMAC parses six groups of two hexadecimal digits. Each separator may be
// either ':' or '-' independently of the others. Parsing is case-insensitive.
func ParseMAC(s string) (MAC, error) {
	var m MAC
	if len(s) != macTextLen {
		return m, parseError(ErrInvalidMAC, s, "expected six two-digit groups")
	}

	for i := range m {
		off := i * 3
		if i > 0 {
			if sep := s[off-1]; sep != ':' && sep != '-' {
				return MAC{}, parseError(ErrInvalidMAC, s, fmt.Sprintf("unexpected separator %q", sep))
			}
		}
		b, err := hex.DecodeString(s[off : off+2])
		if err != nil {
			return MAC{}, parseError(ErrInvalidMAC, s, "group is not hexadecimal")
		}
		m[i] = b[0]
	}
	return m, nil
}

// MustParseMAC is like ParseMAC but panics on error.
func MustParseMAC(s string) MAC {
	m, err := ParseMAC(s)
	if err != nil {
		panic(err)
	}
	return m
}

// String returns the lowercase colon-separated form.
func (m MAC) String() string {
	return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x", m[0], m[1], m[2], m[3], m[4], m[5])
}

// Compare orders MACs by their octets.
func (m MAC) Compare(o MAC) int {
	return bytes.Compare(m[:], o[:])
}
