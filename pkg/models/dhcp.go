package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/HerbHall/netconfig/pkg/netaddr"
)

// ErrInvalidDHCP is returned for inconsistent DHCP settings.
var ErrInvalidDHCP = errors.New("invalid DHCP settings")

// LeaseTime holds DHCP lease durations.
type LeaseTime struct {
	Default time.Duration
	Max     time.Duration
}

// PXEBoot holds network boot settings.
type PXEBoot struct {
	Filename   string
	NextServer netaddr.Addr
}

// DHCPInfo is the DHCP service description of a network.
type DHCPInfo struct {
	RangeFrom  netaddr.Addr
	RangeTo    netaddr.Addr
	Broadcast  *netaddr.Addr
	Router     *netaddr.Addr
	DNSServers []netaddr.Addr
	NTPServers []netaddr.Addr
	Lease      *LeaseTime
	PXE        *PXEBoot
}

// DHCPSpec is the raw, unparsed form of DHCPInfo as supplied by the loader.
// Empty strings and zero durations mean "not set".
type DHCPSpec struct {
	RangeFrom    string
	RangeTo      string
	Broadcast    string
	Router       string
	DNSServers   []string
	NTPServers   []string
	LeaseDefault time.Duration
	LeaseMax     time.Duration
	PXEFilename  string
	PXENext      string
}

// NewDHCPInfo parses and validates a DHCP description.
func NewDHCPInfo(s DHCPSpec) (*DHCPInfo, error) {
	from, err := netaddr.ParseAddr(s.RangeFrom)
	if err != nil {
		return nil, fmt.Errorf("dhcp range from: %w", err)
	}
	to, err := netaddr.ParseAddr(s.RangeTo)
	if err != nil {
		return nil, fmt.Errorf("dhcp range to: %w", err)
	}
	if from > to {
		return nil, fmt.Errorf("%w: range start %s is after range end %s", ErrInvalidDHCP, from, to)
	}

	info := &DHCPInfo{RangeFrom: from, RangeTo: to}

	if info.Broadcast, err = optionalAddr(s.Broadcast); err != nil {
		return nil, fmt.Errorf("dhcp broadcast: %w", err)
	}
	if info.Router, err = optionalAddr(s.Router); err != nil {
		return nil, fmt.Errorf("dhcp router: %w", err)
	}
	if info.DNSServers, err = parseAddrs(s.DNSServers); err != nil {
		return nil, fmt.Errorf("dhcp dns server: %w", err)
	}
	if info.NTPServers, err = parseAddrs(s.NTPServers); err != nil {
		return nil, fmt.Errorf("dhcp ntp server: %w", err)
	}

	if s.LeaseDefault != 0 || s.LeaseMax != 0 {
		if s.LeaseDefault <= 0 || s.LeaseMax <= 0 {
			return nil, fmt.Errorf("%w: lease time needs both default and max", ErrInvalidDHCP)
		}
		if s.LeaseDefault > s.LeaseMax {
			return nil, fmt.Errorf("%w: default lease %s exceeds max lease %s", ErrInvalidDHCP, s.LeaseDefault, s.LeaseMax)
		}
		info.Lease = &LeaseTime{Default: s.LeaseDefault, Max: s.LeaseMax}
	}

	if s.PXEFilename != "" || s.PXENext != "" {
		if s.PXEFilename == "" {
			return nil, fmt.Errorf("%w: pxe next server without filename", ErrInvalidDHCP)
		}
		next, err := netaddr.ParseAddr(s.PXENext)
		if err != nil {
			return nil, fmt.Errorf("dhcp pxe next server: %w", err)
		}
		info.PXE = &PXEBoot{Filename: s.PXEFilename, NextServer: next}
	}

	return info, nil
}

func optionalAddr(s string) (*netaddr.Addr, error) {
	if s == "" {
		return nil, nil
	}
	a, err := netaddr.ParseAddr(s)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func parseAddrs(in []string) ([]netaddr.Addr, error) {
	out := make([]netaddr.Addr, 0, len(in))
	for _, s := range in {
		a, err := netaddr.ParseAddr(s)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}
