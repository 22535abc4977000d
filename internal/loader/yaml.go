// Package loader reads the YAML network description and turns it into
// hosts and networks ready for topology resolution.
package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/HerbHall/netconfig/pkg/models"
)

// ErrEmptyDocument is returned when a description declares no networks.
var ErrEmptyDocument = errors.New("description declares no networks")

// Document is the YAML file structure.
type Document struct {
	Networks []NetworkYAML `yaml:"networks"`
	Hosts    []HostYAML    `yaml:"hosts"`
}

// NetworkYAML describes one network.
type NetworkYAML struct {
	Name   string         `yaml:"name"`
	Subnet string         `yaml:"subnet"`
	DHCP   *DHCPYAML      `yaml:"dhcp,omitempty"`
	DNS    *DNSServerYAML `yaml:"dns,omitempty"`
}

// DHCPYAML describes the DHCP service of a network. Lease times are in
// seconds.
type DHCPYAML struct {
	Range      RangeYAML      `yaml:"range"`
	Broadcast  string         `yaml:"broadcast,omitempty"`
	Router     string         `yaml:"router,omitempty"`
	DNSServers []string       `yaml:"dnsservers,omitempty"`
	NTPServers []string       `yaml:"ntpservers,omitempty"`
	LeaseTime  *LeaseTimeYAML `yaml:"leasetime,omitempty"`
	PXE        *PXEYAML       `yaml:"pxe,omitempty"`
}

// RangeYAML is an inclusive address range.
type RangeYAML struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// LeaseTimeYAML holds lease durations in seconds.
type LeaseTimeYAML struct {
	Default int `yaml:"default"`
	Max     int `yaml:"max"`
}

// PXEYAML holds network boot settings.
type PXEYAML struct {
	Filename string `yaml:"filename"`
	Next     string `yaml:"next"`
}

// DNSServerYAML marks a network as served by an authoritative name server.
type DNSServerYAML struct {
	Authority string `yaml:"authority"`
}

// HostYAML describes one host.
type HostYAML struct {
	Name string   `yaml:"name"`
	IP   string   `yaml:"ip"`
	MAC  string   `yaml:"mac"`
	DNS  *DNSYAML `yaml:"dns,omitempty"`
}

// DNSYAML is optional per-host zone metadata.
type DNSYAML struct {
	HInfo  *HInfoYAML `yaml:"hinfo,omitempty"`
	Text   []string   `yaml:"text,omitempty"`
	CNAMEs []string   `yaml:"cnames,omitempty"`
}

// HInfoYAML is the HINFO pair.
type HInfoYAML struct {
	Arch string `yaml:"arch"`
	OS   string `yaml:"os"`
}

// Load reads and parses the description at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a description. Unknown keys are rejected.
func Parse(data []byte) (*Document, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyDocument
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if len(doc.Networks) == 0 {
		return nil, ErrEmptyDocument
	}
	return &doc, nil
}

// Build validates every entry and constructs the hosts and networks. Errors
// name the offending entry by index and name.
func (d *Document) Build() ([]*models.Host, []*models.Network, error) {
	networks := make([]*models.Network, 0, len(d.Networks))
	for i, n := range d.Networks {
		network, err := n.build()
		if err != nil {
			return nil, nil, fmt.Errorf("network %d (%s): %w", i, n.Name, err)
		}
		networks = append(networks, network)
	}

	hosts := make([]*models.Host, 0, len(d.Hosts))
	for i, h := range d.Hosts {
		host, err := h.build()
		if err != nil {
			return nil, nil, fmt.Errorf("host %d (%s): %w", i, h.Name, err)
		}
		hosts = append(hosts, host)
	}
	return hosts, networks, nil
}

func (n *NetworkYAML) build() (*models.Network, error) {
	var dhcp *models.DHCPInfo
	if n.DHCP != nil {
		var err error
		if dhcp, err = models.NewDHCPInfo(n.DHCP.spec()); err != nil {
			return nil, err
		}
	}

	var dns *models.DNSServerInfo
	if n.DNS != nil {
		var err error
		if dns, err = models.NewDNSServerInfo(n.DNS.Authority); err != nil {
			return nil, err
		}
	}

	return models.NewNetwork(n.Name, n.Subnet, dhcp, dns)
}

func (d *DHCPYAML) spec() models.DHCPSpec {
	s := models.DHCPSpec{
		RangeFrom:  d.Range.From,
		RangeTo:    d.Range.To,
		Broadcast:  d.Broadcast,
		Router:     d.Router,
		DNSServers: d.DNSServers,
		NTPServers: d.NTPServers,
	}
	if d.LeaseTime != nil {
		s.LeaseDefault = time.Duration(d.LeaseTime.Default) * time.Second
		s.LeaseMax = time.Duration(d.LeaseTime.Max) * time.Second
	}
	if d.PXE != nil {
		s.PXEFilename = d.PXE.Filename
		s.PXENext = d.PXE.Next
	}
	return s
}

func (h *HostYAML) build() (*models.Host, error) {
	var dns *models.DNSInfo
	if h.DNS != nil {
		var hinfo *models.HInfo
		if h.DNS.HInfo != nil {
			hinfo = &models.HInfo{Arch: h.DNS.HInfo.Arch, OS: h.DNS.HInfo.OS}
		}
		var err error
		if dns, err = models.NewDNSInfo(hinfo, h.DNS.Text, h.DNS.CNAMEs); err != nil {
			return nil, err
		}
	}
	return models.NewHost(h.Name, h.IP, h.MAC, dns)
}
