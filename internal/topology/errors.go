package topology

import (
	"errors"
	"fmt"
	"strings"

	"github.com/HerbHall/netconfig/pkg/models"
	"github.com/HerbHall/netconfig/pkg/netaddr"
)

// Resolution failure kinds. Every error returned by Resolve unwraps to one of
// these.
var (
	ErrUnresolvedHost       = errors.New("host not contained in any network")
	ErrOverlappingNetworks  = errors.New("host contained in more than one network")
	ErrDuplicateNetworkName = errors.New("duplicate network name")
	ErrDuplicateHostName    = errors.New("duplicate host name")
	ErrDuplicateAlias       = errors.New("duplicate alias name")
	ErrReservedName         = errors.New("reserved name")
	ErrDuplicateMAC         = errors.New("duplicate MAC address")
	ErrDuplicateIP          = errors.New("duplicate IP address")
)

// UnresolvedHostError reports a host whose address matches no network.
type UnresolvedHostError struct {
	Host *models.Host
}

func (e *UnresolvedHostError) Error() string {
	return fmt.Sprintf("host %s with IP %s is not contained within any declared network",
		e.Host.Name(), e.Host.IP())
}

func (e *UnresolvedHostError) Unwrap() error { return ErrUnresolvedHost }

// OverlappingNetworksError reports a host whose address matches several
// declared networks.
type OverlappingNetworksError struct {
	Host     *models.Host
	Networks []*models.Network
}

func (e *OverlappingNetworksError) Error() string {
	names := make([]string, len(e.Networks))
	for i, n := range e.Networks {
		names[i] = n.String()
	}
	return fmt.Sprintf("host %s with IP %s is contained in overlapping networks: %s",
		e.Host.Name(), e.Host.IP(), strings.Join(names, ", "))
}

func (e *OverlappingNetworksError) Unwrap() error { return ErrOverlappingNetworks }

// DuplicateNetworkNameError reports two networks declared with one name.
type DuplicateNetworkNameError struct {
	Name   string
	First  *models.Network
	Second *models.Network
}

func (e *DuplicateNetworkNameError) Error() string {
	return fmt.Sprintf("duplicate network name %s: %s collides with %s", e.Name, e.Second.Prefix(), e.First.Prefix())
}

func (e *DuplicateNetworkNameError) Unwrap() error { return ErrDuplicateNetworkName }

// DuplicateHostNameError reports two hosts sharing a name inside a network.
type DuplicateHostNameError struct {
	Network string
	First   *models.Host
	Second  *models.Host
}

func (e *DuplicateHostNameError) Error() string {
	return fmt.Sprintf("duplicate hostname %s.%s: %s collides with %s",
		e.Second.Name(), e.Network, e.Second, e.First)
}

func (e *DuplicateHostNameError) Unwrap() error { return ErrDuplicateHostName }

// DuplicateMACError reports two hosts sharing a hardware address.
type DuplicateMACError struct {
	MAC    netaddr.MAC
	First  *models.Host
	Second *models.Host
}

func (e *DuplicateMACError) Error() string {
	return fmt.Sprintf("duplicate MAC address %s: %s collides with %s", e.MAC, e.Second, e.First)
}

func (e *DuplicateMACError) Unwrap() error { return ErrDuplicateMAC }

// DuplicateIPError reports two hosts sharing an address. NextAvailable is the
// lowest free address of the owning network, if any, as a remediation hint.
type DuplicateIPError struct {
	IP               netaddr.Addr
	First            *models.Host
	Second           *models.Host
	Network          string
	NextAvailable    netaddr.Addr
	HasNextAvailable bool
}

func (e *DuplicateIPError) Error() string {
	hint := "network " + e.Network + " is full"
	if e.HasNextAvailable {
		hint = "next available is " + e.NextAvailable.String()
	}
	return fmt.Sprintf("duplicate IP address %s: %s collides with %s (%s)", e.IP, e.Second, e.First, hint)
}

func (e *DuplicateIPError) Unwrap() error { return ErrDuplicateIP }

// DuplicateAliasError reports a CNAME alias that reuses an owner name already
// taken in its network, by a host name or by another alias. First holds the
// name first; it may be Second itself.
type DuplicateAliasError struct {
	Network string
	Name    string
	First   *models.Host
	Second  *models.Host
}

func (e *DuplicateAliasError) Error() string {
	return fmt.Sprintf("duplicate name %s.%s: alias of %s collides with %s", e.Name, e.Network, e.Second, e.First)
}

func (e *DuplicateAliasError) Unwrap() error { return ErrDuplicateAlias }

// ReservedNameError reports a host or alias using the nameserver label of a
// network that needs a glue record for its authority.
type ReservedNameError struct {
	Network string
	Name    string
	Host    *models.Host
}

func (e *ReservedNameError) Error() string {
	return fmt.Sprintf("name %s.%s of %s is reserved for the nameserver of network %s",
		e.Name, e.Network, e.Host, e.Network)
}

func (e *ReservedNameError) Unwrap() error { return ErrReservedName }
