// Package dhcp generates an ISC dhcpd configuration covering every network
// with DHCP metadata.
package dhcp

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go4.org/netipx"

	"github.com/HerbHall/netconfig/internal/generator"
	"github.com/HerbHall/netconfig/internal/topology"
	"github.com/HerbHall/netconfig/pkg/models"
	"github.com/HerbHall/netconfig/pkg/netaddr"
)

const defaultPath = "etc/dhcp/dhcpd.conf"

// ErrInvalidRange is returned when a dynamic range does not fit its subnet.
var ErrInvalidRange = errors.New("invalid DHCP range")

//go:embed dhcpd.conf.tmpl
var confText string

var confTemplate = template.Must(template.New("dhcpd.conf").Funcs(template.FuncMap{
	"join": func(addrs []string) string { return strings.Join(addrs, ", ") },
}).Parse(confText))

// Compile-time interface guard.
var _ generator.Generator = (*Generator)(nil)

// Generator renders dhcpd.conf.
type Generator struct {
	path          string
	authoritative bool
	logger        *zap.Logger
}

// New creates the dhcp generator.
func New() *Generator {
	return &Generator{path: defaultPath, authoritative: true, logger: zap.NewNop()}
}

func (g *Generator) Name() string { return "dhcp" }

// Init reads path and authoritative.
func (g *Generator) Init(cfg *viper.Viper, logger *zap.Logger) error {
	g.logger = logger
	if p := cfg.GetString("path"); p != "" {
		g.path = p
	}
	if cfg.IsSet("authoritative") {
		g.authoritative = cfg.GetBool("authoritative")
	}
	return nil
}

type confData struct {
	Authoritative bool
	Subnets       []subnetData
}

type subnetData struct {
	Name       string
	Network    string
	Netmask    string
	RangeFrom  string
	RangeTo    string
	Broadcast  string
	Router     string
	DNSServers []string
	NTPServers []string
	Lease      *leaseData
	PXE        *pxeData
	Hosts      []hostData
}

type leaseData struct {
	Default int64
	Max     int64
}

type pxeData struct {
	Filename string
	Next     string
}

type hostData struct {
	Name string
	MAC  string
	IP   string
}

// Generate validates each DHCP range and writes the configuration file.
func (g *Generator) Generate(ctx context.Context, topo *topology.Topology, out generator.Output) error {
	data := confData{Authoritative: g.authoritative}
	for _, n := range topo.Networks() {
		if !n.HasDHCP() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		dynamic, err := validateRange(n)
		if err != nil {
			return err
		}
		g.warnStatic(n, dynamic)
		data.Subnets = append(data.Subnets, subnet(n))
	}

	var buf bytes.Buffer
	if err := confTemplate.Execute(&buf, data); err != nil {
		return fmt.Errorf("render dhcpd.conf: %w", err)
	}
	if err := out.WriteFile(g.path, buf.Bytes()); err != nil {
		return err
	}
	g.logger.Info("wrote dhcpd configuration", zap.String("file", g.path), zap.Int("subnets", len(data.Subnets)))
	return nil
}

// validateRange checks that the dynamic range of n lies strictly between
// its network and broadcast addresses and returns it.
func validateRange(n *models.Network) (netipx.IPRange, error) {
	d := n.DHCP()
	r := netipx.IPRangeFrom(d.RangeFrom.Netip(), d.RangeTo.Netip())
	if !r.IsValid() {
		return r, fmt.Errorf("%w: network %s: %s", ErrInvalidRange, n.Name(), r)
	}

	prefix, ok := n.Prefix().Netip()
	if !ok {
		return r, fmt.Errorf("%w: network %s: non-contiguous netmask %s", ErrInvalidRange, n.Name(), n.Prefix())
	}
	subnet := netipx.RangeOfPrefix(prefix)

	var b netipx.IPSetBuilder
	b.AddRange(subnet)
	if prefix.Bits() < 31 {
		b.Remove(subnet.From())
		b.Remove(subnet.To())
	}
	usable, err := b.IPSet()
	if err != nil {
		return r, fmt.Errorf("network %s: %w", n.Name(), err)
	}
	if !usable.ContainsRange(r) {
		return r, fmt.Errorf("%w: network %s: range %s not within usable addresses of %s",
			ErrInvalidRange, n.Name(), r, prefix)
	}
	return r, nil
}

// warnStatic logs hosts whose fixed address falls inside the dynamic range.
func (g *Generator) warnStatic(n *models.Network, dynamic netipx.IPRange) {
	for _, h := range n.Hosts() {
		if dynamic.Contains(h.IP().Netip()) {
			g.logger.Warn("static host inside dynamic range",
				zap.String("network", n.Name()),
				zap.String("host", h.Name()),
				zap.String("ip", h.IP().String()),
				zap.String("range", dynamic.String()),
			)
		}
	}
}

func subnet(n *models.Network) subnetData {
	d := n.DHCP()
	s := subnetData{
		Name:       n.Name(),
		Network:    n.Prefix().Addr().String(),
		Netmask:    n.Prefix().Mask().String(),
		RangeFrom:  d.RangeFrom.String(),
		RangeTo:    d.RangeTo.String(),
		Broadcast:  optional(d.Broadcast),
		Router:     optional(d.Router),
		DNSServers: strs(d.DNSServers),
		NTPServers: strs(d.NTPServers),
	}
	if d.Lease != nil {
		s.Lease = &leaseData{
			Default: int64(d.Lease.Default.Seconds()),
			Max:     int64(d.Lease.Max.Seconds()),
		}
	}
	if d.PXE != nil {
		s.PXE = &pxeData{Filename: d.PXE.Filename, Next: d.PXE.NextServer.String()}
	}
	for _, h := range n.Hosts() {
		s.Hosts = append(s.Hosts, hostData{
			Name: h.Name() + "." + n.Name(),
			MAC:  h.MAC().String(),
			IP:   h.IP().String(),
		})
	}
	return s
}

func optional(a *netaddr.Addr) string {
	if a == nil {
		return ""
	}
	return a.String()
}

func strs(addrs []netaddr.Addr) []string {
	out := make([]string, len(addrs))
	for i, a := range addrs {
		out[i] = a.String()
	}
	return out
}
