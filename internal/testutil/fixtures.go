package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/HerbHall/netconfig/pkg/models"
)

var macSeq atomic.Uint32

// hostFixture collects the raw fields of a host before construction.
type hostFixture struct {
	name string
	ip   string
	mac  string
	dns  *models.DNSInfo
}

// HostOption overrides a field of a host fixture.
type HostOption func(*hostFixture)

// NewHost returns a valid host, failing the test if construction fails.
// Without options it lives at 192.168.1.100 and gets a MAC unique to the
// test binary.
func NewHost(t testing.TB, opts ...HostOption) *models.Host {
	t.Helper()
	n := macSeq.Add(1)
	f := hostFixture{
		name: "testhost",
		ip:   "192.168.1.100",
		mac:  fmt.Sprintf("02:00:00:%02x:%02x:%02x", byte(n>>16), byte(n>>8), byte(n)),
	}
	for _, opt := range opts {
		opt(&f)
	}
	h, err := models.NewHost(f.name, f.ip, f.mac, f.dns)
	if err != nil {
		t.Fatalf("testutil.NewHost: %v", err)
	}
	return h
}

// WithName sets the host name.
func WithName(name string) HostOption {
	return func(f *hostFixture) { f.name = name }
}

// WithIP sets the host address.
func WithIP(ip string) HostOption {
	return func(f *hostFixture) { f.ip = ip }
}

// WithMAC sets the host hardware address.
func WithMAC(mac string) HostOption {
	return func(f *hostFixture) { f.mac = mac }
}

// WithDNS attaches DNS metadata.
func WithDNS(dns *models.DNSInfo) HostOption {
	return func(f *hostFixture) { f.dns = dns }
}

// networkFixture collects the raw fields of a network before construction.
type networkFixture struct {
	dhcp *models.DHCPSpec
	dns  string
}

// NetworkOption overrides a field of a network fixture.
type NetworkOption func(*networkFixture)

// NewNetwork returns a valid network, failing the test if construction fails.
func NewNetwork(t testing.TB, name, subnet string, opts ...NetworkOption) *models.Network {
	t.Helper()
	var f networkFixture
	for _, opt := range opts {
		opt(&f)
	}

	var dhcp *models.DHCPInfo
	if f.dhcp != nil {
		var err error
		if dhcp, err = models.NewDHCPInfo(*f.dhcp); err != nil {
			t.Fatalf("testutil.NewNetwork: %v", err)
		}
	}
	var dns *models.DNSServerInfo
	if f.dns != "" {
		var err error
		if dns, err = models.NewDNSServerInfo(f.dns); err != nil {
			t.Fatalf("testutil.NewNetwork: %v", err)
		}
	}

	n, err := models.NewNetwork(name, subnet, dhcp, dns)
	if err != nil {
		t.Fatalf("testutil.NewNetwork: %v", err)
	}
	return n
}

// WithDHCP attaches DHCP settings.
func WithDHCP(spec models.DHCPSpec) NetworkOption {
	return func(f *networkFixture) { f.dhcp = &spec }
}

// WithDNSAuthority marks the network as DNS-served by authority.
func WithDNSAuthority(authority string) NetworkOption {
	return func(f *networkFixture) { f.dns = authority }
}
