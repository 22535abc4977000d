package models

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/HerbHall/netconfig/pkg/netaddr"
)

// ErrInvalidDNSEntry is returned for HINFO or TXT text that contains
// characters the zone generators cannot emit verbatim.
var ErrInvalidDNSEntry = errors.New("invalid DNS entry")

var (
	hinfoRE = regexp.MustCompile(`^[-_a-zA-Z0-9/ ]+$`)
	txtRE   = regexp.MustCompile(`^[-/=()+a-zA-Z0-9 @.]+$`)
)

// HInfo is the host information pair published as an HINFO record.
type HInfo struct {
	Arch string
	OS   string
}

// DNSInfo is optional per-host zone metadata.
type DNSInfo struct {
	HInfo  *HInfo
	Text   []string
	CNAMEs []string
}

// NewDNSInfo validates host DNS metadata. hinfo may be nil.
func NewDNSInfo(hinfo *HInfo, text, cnames []string) (*DNSInfo, error) {
	if hinfo != nil {
		if !hinfoRE.MatchString(hinfo.Arch) {
			return nil, fmt.Errorf("%w: %q is no valid HINFO architecture", ErrInvalidDNSEntry, hinfo.Arch)
		}
		if !hinfoRE.MatchString(hinfo.OS) {
			return nil, fmt.Errorf("%w: %q is no valid HINFO operating system", ErrInvalidDNSEntry, hinfo.OS)
		}
	}
	for _, t := range text {
		if !txtRE.MatchString(t) {
			return nil, fmt.Errorf("%w: %q is no valid TXT entry", ErrInvalidDNSEntry, t)
		}
	}
	for _, c := range cnames {
		if !ValidDNSName(c) {
			return nil, fmt.Errorf("%w: CNAME %q", ErrInvalidName, c)
		}
	}
	return &DNSInfo{
		HInfo:  hinfo,
		Text:   append([]string(nil), text...),
		CNAMEs: append([]string(nil), cnames...),
	}, nil
}

// DNSServerInfo marks a network as having its zones served; Authority is the
// address of the authoritative name server.
type DNSServerInfo struct {
	Authority netaddr.Addr
}

// NewDNSServerInfo parses the authority address.
func NewDNSServerInfo(authority string) (*DNSServerInfo, error) {
	a, err := netaddr.ParseAddr(authority)
	if err != nil {
		return nil, fmt.Errorf("dns authority: %w", err)
	}
	return &DNSServerInfo{Authority: a}, nil
}
