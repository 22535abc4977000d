// Package bind9 generates BIND 9 forward and reverse zone files for every
// network that declares an authoritative name server.
package bind9

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"path"
	"strconv"
	"time"

	"github.com/miekg/dns"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/HerbHall/netconfig/internal/generator"
	"github.com/HerbHall/netconfig/internal/topology"
	"github.com/HerbHall/netconfig/pkg/models"
	"github.com/HerbHall/netconfig/pkg/netaddr"
)

const (
	defaultTTL     = time.Hour
	defaultZoneDir = "etc/bind"

	soaRefresh = 8 * time.Hour
	soaRetry   = 2 * time.Hour
	soaExpire  = 7 * 24 * time.Hour
)

// Compile-time interface guard.
var _ generator.Generator = (*Generator)(nil)

// Generator renders zone files.
type Generator struct {
	domain  string
	ttl     time.Duration
	zoneDir string
	now     func() time.Time
	logger  *zap.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithClock sets the time source used for SOA serials.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// New creates the bind9 generator.
func New(opts ...Option) *Generator {
	g := &Generator{
		ttl:     defaultTTL,
		zoneDir: defaultZoneDir,
		now:     time.Now,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Generator) Name() string { return "bind9" }

// Init reads domain, ttl and zonedir.
func (g *Generator) Init(cfg *viper.Viper, logger *zap.Logger) error {
	g.logger = logger
	g.domain = cfg.GetString("domain")
	if ttl := cfg.GetDuration("ttl"); ttl > 0 {
		g.ttl = ttl
	}
	if ttl := g.ttl / time.Second; ttl < 1 || ttl > 1<<31-1 {
		return fmt.Errorf("ttl %s out of range", g.ttl)
	}
	if dir := cfg.GetString("zonedir"); dir != "" {
		g.zoneDir = dir
	}
	if g.domain != "" {
		if _, ok := dns.IsDomainName(g.domain); !ok {
			return fmt.Errorf("invalid domain %q", g.domain)
		}
	}
	return nil
}

// Generate writes db.<network> and, where the prefix allows one,
// <reverse>.in-addr.arpa for each network with DNS server metadata.
func (g *Generator) Generate(ctx context.Context, topo *topology.Topology, out generator.Output) error {
	serial := Serial(g.now())
	for _, n := range topo.Networks() {
		if !n.HasDNS() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		z := g.newZone(n, serial)

		forward := path.Join(g.zoneDir, "db."+n.Name())
		if err := out.WriteFile(forward, render(z.ttl, z.forward())); err != nil {
			return err
		}
		g.logger.Info("wrote forward zone", zap.String("network", n.Name()), zap.String("file", forward))

		rev, err := n.ReverseZone()
		if err != nil {
			g.logger.Warn("no reverse zone for network",
				zap.String("network", n.Name()),
				zap.String("prefix", n.Prefix().String()),
				zap.Error(err),
			)
			continue
		}
		reverse := path.Join(g.zoneDir, rev+".in-addr.arpa")
		if err := out.WriteFile(reverse, render(z.ttl, z.reverse(rev))); err != nil {
			return err
		}
		g.logger.Info("wrote reverse zone", zap.String("network", n.Name()), zap.String("file", reverse))
	}
	return nil
}

// Serial returns the YYYYMMDDHH zone serial for t in UTC.
func Serial(t time.Time) uint32 {
	v, _ := strconv.ParseUint(t.UTC().Format("2006010215"), 10, 32)
	return uint32(v)
}

// zone holds the shared state of a network's forward and reverse zones.
type zone struct {
	network *models.Network
	origin  string
	ns      string
	glue    bool
	serial  uint32
	ttl     uint32
}

func (g *Generator) newZone(n *models.Network, serial uint32) *zone {
	origin := n.Name()
	if g.domain != "" {
		origin += "." + g.domain
	}
	origin = dns.Fqdn(origin)

	z := &zone{
		network: n,
		origin:  origin,
		serial:  serial,
		ttl:     uint32(g.ttl / time.Second),
	}
	// Prefer the host that owns the authority address as NS target.
	if h, ok := n.HostByIP(n.DNS().Authority); ok {
		z.ns = z.fqdn(h.Name())
	} else {
		z.ns = z.fqdn(topology.NameserverLabel)
		z.glue = true
	}
	return z
}

func (z *zone) fqdn(label string) string {
	return label + "." + z.origin
}

func (z *zone) hdr(name string, rrtype uint16) dns.RR_Header {
	return dns.RR_Header{Name: name, Rrtype: rrtype, Class: dns.ClassINET, Ttl: z.ttl}
}

func (z *zone) head(name string) []dns.RR {
	return []dns.RR{
		&dns.SOA{
			Hdr:     z.hdr(name, dns.TypeSOA),
			Ns:      z.ns,
			Mbox:    "hostmaster." + z.origin,
			Serial:  z.serial,
			Refresh: uint32(soaRefresh / time.Second),
			Retry:   uint32(soaRetry / time.Second),
			Expire:  uint32(soaExpire / time.Second),
			Minttl:  z.ttl,
		},
		&dns.NS{Hdr: z.hdr(name, dns.TypeNS), Ns: z.ns},
	}
}

func (z *zone) forward() []dns.RR {
	rrs := z.head(z.origin)
	if z.glue {
		rrs = append(rrs, &dns.A{Hdr: z.hdr(z.ns, dns.TypeA), A: ipv4(z.network.DNS().Authority)})
	}

	for _, h := range z.network.Hosts() {
		name := z.fqdn(h.Name())
		rrs = append(rrs, &dns.A{Hdr: z.hdr(name, dns.TypeA), A: ipv4(h.IP())})

		info := h.DNS()
		if info == nil {
			continue
		}
		if info.HInfo != nil {
			rrs = append(rrs, &dns.HINFO{Hdr: z.hdr(name, dns.TypeHINFO), Cpu: info.HInfo.Arch, Os: info.HInfo.OS})
		}
		for _, text := range info.Text {
			rrs = append(rrs, &dns.TXT{Hdr: z.hdr(name, dns.TypeTXT), Txt: []string{text}})
		}
		for _, alias := range info.CNAMEs {
			rrs = append(rrs, &dns.CNAME{Hdr: z.hdr(z.fqdn(alias), dns.TypeCNAME), Target: name})
		}
	}
	return rrs
}

func (z *zone) reverse(rev string) []dns.RR {
	origin := rev + ".in-addr.arpa."
	rrs := z.head(origin)
	for _, h := range z.network.Hosts() {
		name := h.IP().ReverseString() + ".in-addr.arpa."
		rrs = append(rrs, &dns.PTR{Hdr: z.hdr(name, dns.TypePTR), Ptr: z.fqdn(h.Name())})
	}
	return rrs
}

func render(ttl uint32, rrs []dns.RR) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "; generated by netconfig, do not edit\n$TTL %d\n", ttl)
	for _, rr := range rrs {
		buf.WriteString(rr.String())
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

func ipv4(a netaddr.Addr) net.IP {
	o := a.Octets()
	return net.IPv4(o[0], o[1], o[2], o[3]).To4()
}
