// Package models holds the host and network aggregates that make up a
// network configuration, along with their DNS and DHCP metadata.
package models

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/HerbHall/netconfig/pkg/netaddr"
)

var (
	// ErrInvalidName is returned for host, network alias or CNAME labels that
	// do not match the DNS label grammar.
	ErrInvalidName = errors.New("invalid DNS name")

	// ErrAssignmentContract is the panic value used when a host is assigned
	// to a network twice or to an empty network.
	ErrAssignmentContract = errors.New("network assignment contract violated")
)

var dnsNameRE = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9]+$`)

// ValidDNSName reports whether s is a valid host label: a letter followed by
// at least one letter or digit.
func ValidDNSName(s string) bool {
	return dnsNameRE.MatchString(s)
}

// Host is a named endpoint with a fixed address and hardware address.
type Host struct {
	name    string
	ip      netaddr.Addr
	mac     netaddr.MAC
	dns     *DNSInfo
	network string
}

// NewHost validates and builds a host. dns may be nil.
func NewHost(name, ip, mac string, dns *DNSInfo) (*Host, error) {
	if !ValidDNSName(name) {
		return nil, fmt.Errorf("%w: host name %q", ErrInvalidName, name)
	}
	addr, err := netaddr.ParseAddr(ip)
	if err != nil {
		return nil, fmt.Errorf("host %s: %w", name, err)
	}
	hw, err := netaddr.ParseMAC(mac)
	if err != nil {
		return nil, fmt.Errorf("host %s: %w", name, err)
	}
	return &Host{name: name, ip: addr, mac: hw, dns: dns}, nil
}

// Name returns the host label.
func (h *Host) Name() string { return h.name }

// IP returns the host address.
func (h *Host) IP() netaddr.Addr { return h.ip }

// MAC returns the host hardware address.
func (h *Host) MAC() netaddr.MAC { return h.mac }

// DNS returns the host DNS metadata, or nil.
func (h *Host) DNS() *DNSInfo { return h.dns }

// Network returns the name of the network the host was assigned to.
func (h *Host) Network() (string, bool) {
	return h.network, h.network != ""
}

// AssignNetwork records the host's network. It may be called once, with a
// non-empty name; anything else is a programming error and panics.
func (h *Host) AssignNetwork(network string) {
	if network == "" {
		panic(fmt.Errorf("%w: empty network for host %s", ErrAssignmentContract, h.name))
	}
	if h.network != "" {
		panic(fmt.Errorf("%w: host %s already in network %s, cannot assign %s",
			ErrAssignmentContract, h.name, h.network, network))
	}
	h.network = network
}

// Compare orders hosts by address, then by name.
func (h *Host) Compare(o *Host) int {
	if c := h.ip.Compare(o.ip); c != 0 {
		return c
	}
	switch {
	case h.name < o.name:
		return -1
	case h.name > o.name:
		return 1
	}
	return 0
}

func (h *Host) String() string {
	return fmt.Sprintf("%s <%s, %s>", h.name, h.ip, h.mac)
}
