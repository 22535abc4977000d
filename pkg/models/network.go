package models

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/HerbHall/netconfig/pkg/netaddr"
)

// ErrAddressInUse is returned by Network.AddHost when another host already
// holds the address in that network.
var ErrAddressInUse = errors.New("address already in use")

// Network is a named IPv4 subnet with the hosts that live inside it.
type Network struct {
	name      string
	prefix    netaddr.Prefix
	hostsByIP map[netaddr.Addr]*Host
	dhcp      *DHCPInfo
	dns       *DNSServerInfo
}

// NewNetwork validates and builds a network. dhcp and dns may be nil.
func NewNetwork(name, subnet string, dhcp *DHCPInfo, dns *DNSServerInfo) (*Network, error) {
	if !ValidDNSName(name) {
		return nil, fmt.Errorf("%w: network name %q", ErrInvalidName, name)
	}
	prefix, err := netaddr.ParsePrefix(subnet)
	if err != nil {
		return nil, fmt.Errorf("network %s: %w", name, err)
	}
	return &Network{
		name:      name,
		prefix:    prefix,
		hostsByIP: make(map[netaddr.Addr]*Host),
		dhcp:      dhcp,
		dns:       dns,
	}, nil
}

// Name returns the network name.
func (n *Network) Name() string { return n.name }

// Prefix returns the network prefix.
func (n *Network) Prefix() netaddr.Prefix { return n.prefix }

// Contains reports whether addr belongs to the network's prefix.
func (n *Network) Contains(addr netaddr.Addr) bool {
	return n.prefix.Contains(addr)
}

// ReverseZone returns the in-addr.arpa label of the network prefix.
func (n *Network) ReverseZone() (string, error) {
	return n.prefix.ReverseZone()
}

// AddHost stores h under its address. An address already held by another
// host is rejected with ErrAddressInUse and the existing entry is kept.
func (n *Network) AddHost(h *Host) error {
	if cur, ok := n.hostsByIP[h.IP()]; ok && cur != h {
		return fmt.Errorf("%w: %s in %s held by %s", ErrAddressInUse, h.IP(), n.name, cur.Name())
	}
	n.hostsByIP[h.IP()] = h
	return nil
}

// HostByIP returns the host holding addr.
func (n *Network) HostByIP(addr netaddr.Addr) (*Host, bool) {
	h, ok := n.hostsByIP[addr]
	return h, ok
}

// Len returns the number of hosts in the network.
func (n *Network) Len() int { return len(n.hostsByIP) }

// Hosts returns the hosts sorted by address, then name.
func (n *Network) Hosts() []*Host {
	hosts := slices.Collect(maps.Values(n.hostsByIP))
	slices.SortFunc(hosts, (*Host).Compare)
	return hosts
}

// NextAvailableIP returns the lowest usable address not held by any host.
// ok is false when the network is full.
func (n *Network) NextAvailableIP() (addr netaddr.Addr, ok bool) {
	for a := range n.prefix.Usable() {
		if _, taken := n.hostsByIP[a]; !taken {
			return a, true
		}
	}
	return 0, false
}

// DHCP returns the DHCP metadata, or nil.
func (n *Network) DHCP() *DHCPInfo { return n.dhcp }

// HasDHCP reports whether the network is served by DHCP.
func (n *Network) HasDHCP() bool { return n.dhcp != nil }

// DNS returns the DNS server metadata, or nil.
func (n *Network) DNS() *DNSServerInfo { return n.dns }

// HasDNS reports whether zones are generated for the network.
func (n *Network) HasDNS() bool { return n.dns != nil }

// Compare orders networks by prefix.
func (n *Network) Compare(o *Network) int {
	return n.prefix.Compare(o.prefix)
}

func (n *Network) String() string {
	return fmt.Sprintf("%s (%s)", n.name, n.prefix)
}
