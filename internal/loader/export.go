package loader

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/HerbHall/netconfig/internal/topology"
	"github.com/HerbHall/netconfig/pkg/models"
	"github.com/HerbHall/netconfig/pkg/netaddr"
)

// Export renders a resolved topology as a canonical description: networks
// ordered by prefix, hosts by address, MACs in lower case.
func Export(topo *topology.Topology) ([]byte, error) {
	doc := Document{}
	for _, n := range topo.Networks() {
		doc.Networks = append(doc.Networks, exportNetwork(n))
	}
	for _, h := range topo.Hosts() {
		doc.Hosts = append(doc.Hosts, exportHost(h))
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&doc); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	return buf.Bytes(), nil
}

func exportNetwork(n *models.Network) NetworkYAML {
	y := NetworkYAML{Name: n.Name(), Subnet: n.Prefix().String()}
	if dns := n.DNS(); dns != nil {
		y.DNS = &DNSServerYAML{Authority: dns.Authority.String()}
	}

	d := n.DHCP()
	if d == nil {
		return y
	}
	dy := &DHCPYAML{
		Range:      RangeYAML{From: d.RangeFrom.String(), To: d.RangeTo.String()},
		Broadcast:  optionalString(d.Broadcast),
		Router:     optionalString(d.Router),
		DNSServers: addrStrings(d.DNSServers),
		NTPServers: addrStrings(d.NTPServers),
	}
	if d.Lease != nil {
		dy.LeaseTime = &LeaseTimeYAML{
			Default: int(d.Lease.Default.Seconds()),
			Max:     int(d.Lease.Max.Seconds()),
		}
	}
	if d.PXE != nil {
		dy.PXE = &PXEYAML{Filename: d.PXE.Filename, Next: d.PXE.NextServer.String()}
	}
	y.DHCP = dy
	return y
}

func exportHost(h *models.Host) HostYAML {
	y := HostYAML{Name: h.Name(), IP: h.IP().String(), MAC: h.MAC().String()}
	if dns := h.DNS(); dns != nil {
		y.DNS = &DNSYAML{Text: dns.Text, CNAMEs: dns.CNAMEs}
		if dns.HInfo != nil {
			y.DNS.HInfo = &HInfoYAML{Arch: dns.HInfo.Arch, OS: dns.HInfo.OS}
		}
	}
	return y
}

func optionalString(a *netaddr.Addr) string {
	if a == nil {
		return ""
	}
	return a.String()
}

func addrStrings(addrs []netaddr.Addr) []string {
	if len(addrs) == 0 {
		return nil
	}
	out := make([]string, len(addrs))
	for i, a := range addrs {
		out[i] = a.String()
	}
	return out
}
