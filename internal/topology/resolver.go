// Package topology assigns hosts to their networks and enforces the
// configuration-wide uniqueness rules. The result is a validated Topology that
// generators consume read-only.
package topology

import (
	"slices"

	"go.uber.org/zap"

	"github.com/HerbHall/netconfig/pkg/models"
	"github.com/HerbHall/netconfig/pkg/netaddr"
)

// Resolver validates a host and network set into a Topology.
type Resolver struct {
	logger *zap.Logger
}

// NewResolver creates a resolver. A nil logger disables logging.
func NewResolver(logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{logger: logger}
}

// Resolve is shorthand for NewResolver(nil).Resolve.
func Resolve(hosts []*models.Host, networks []*models.Network) (*Topology, error) {
	return NewResolver(nil).Resolve(hosts, networks)
}

// NameserverLabel is the owner name given to the glue record of a served
// network whose authority address belongs to none of its hosts.
const NameserverLabel = "ns"

// Resolve places every host in its network and checks, in order:
// containment, network name uniqueness, per-network name uniqueness over
// host names, CNAME aliases and the nameserver label, then global MAC and IP
// uniqueness. The first violation aborts resolution and no topology is
// returned.
//
// Hosts and networks are only modified once every check has passed, so a
// failed call leaves its inputs untouched and may be retried after fixing
// them. After a successful call the hosts belong to the returned topology
// and must not be resolved again.
func (r *Resolver) Resolve(hosts []*models.Host, networks []*models.Network) (*Topology, error) {
	owner, err := assign(hosts, networks)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("hosts placed", zap.Int("hosts", len(hosts)), zap.Int("networks", len(networks)))

	byName, err := checkNetworkNames(networks)
	if err != nil {
		return nil, err
	}
	if err := checkNames(hosts, networks, owner); err != nil {
		return nil, err
	}
	r.logger.Debug("names unique")

	if err := checkMACs(hosts); err != nil {
		return nil, err
	}
	if err := checkIPs(hosts, owner); err != nil {
		return nil, err
	}
	r.logger.Debug("addresses unique")

	for _, h := range hosts {
		n := owner[h]
		h.AssignNetwork(n.Name())
		if err := n.AddHost(h); err != nil {
			return nil, err
		}
	}
	return newTopology(hosts, networks, byName), nil
}

// assign finds the single network containing each host.
func assign(hosts []*models.Host, networks []*models.Network) (map[*models.Host]*models.Network, error) {
	owner := make(map[*models.Host]*models.Network, len(hosts))
	for _, h := range hosts {
		var matches []*models.Network
		for _, n := range networks {
			if n.Contains(h.IP()) {
				matches = append(matches, n)
			}
		}

		switch len(matches) {
		case 0:
			return nil, &UnresolvedHostError{Host: h}
		case 1:
			owner[h] = matches[0]
		default:
			return nil, &OverlappingNetworksError{Host: h, Networks: matches}
		}
	}
	return owner, nil
}

func checkNetworkNames(networks []*models.Network) (map[string]*models.Network, error) {
	byName := make(map[string]*models.Network, len(networks))
	for _, n := range networks {
		if first, ok := byName[n.Name()]; ok {
			return nil, &DuplicateNetworkNameError{Name: n.Name(), First: first, Second: n}
		}
		byName[n.Name()] = n
	}
	return byName, nil
}

// nameEntry is the holder of an owner name inside a network.
type nameEntry struct {
	host  *models.Host
	alias bool
}

// checkNames enforces one namespace per network: host names, CNAME aliases
// and, where glue is emitted, NameserverLabel may each appear once.
func checkNames(hosts []*models.Host, networks []*models.Network, owner map[*models.Host]*models.Network) error {
	type key struct{ network, name string }
	seen := make(map[key]nameEntry, len(hosts))
	for _, h := range hosts {
		network := owner[h].Name()
		k := key{network, h.Name()}
		if first, ok := seen[k]; ok {
			if first.alias {
				return &DuplicateAliasError{Network: network, Name: h.Name(), First: first.host, Second: h}
			}
			return &DuplicateHostNameError{Network: network, First: first.host, Second: h}
		}
		seen[k] = nameEntry{host: h}
	}
	for _, h := range hosts {
		info := h.DNS()
		if info == nil {
			continue
		}
		network := owner[h].Name()
		for _, alias := range info.CNAMEs {
			k := key{network, alias}
			if first, ok := seen[k]; ok {
				return &DuplicateAliasError{Network: network, Name: alias, First: first.host, Second: h}
			}
			seen[k] = nameEntry{host: h, alias: true}
		}
	}

	for _, n := range networks {
		if !n.HasDNS() || authorityHeld(n, hosts, owner) {
			continue
		}
		if e, ok := seen[key{n.Name(), NameserverLabel}]; ok {
			return &ReservedNameError{Network: n.Name(), Name: NameserverLabel, Host: e.host}
		}
	}
	return nil
}

func authorityHeld(n *models.Network, hosts []*models.Host, owner map[*models.Host]*models.Network) bool {
	for _, h := range hosts {
		if owner[h] == n && h.IP() == n.DNS().Authority {
			return true
		}
	}
	return false
}

func checkMACs(hosts []*models.Host) error {
	seen := make(map[netaddr.MAC]*models.Host, len(hosts))
	for _, h := range hosts {
		if first, ok := seen[h.MAC()]; ok {
			return &DuplicateMACError{MAC: h.MAC(), First: first, Second: h}
		}
		seen[h.MAC()] = h
	}
	return nil
}

func checkIPs(hosts []*models.Host, owner map[*models.Host]*models.Network) error {
	seen := make(map[netaddr.Addr]*models.Host, len(hosts))
	for _, h := range hosts {
		first, ok := seen[h.IP()]
		if !ok {
			seen[h.IP()] = h
			continue
		}
		n := owner[h]
		e := &DuplicateIPError{IP: h.IP(), First: first, Second: h, Network: n.Name()}
		e.NextAvailable, e.HasNextAvailable = nextAvailable(n, hosts, owner)
		return e
	}
	return nil
}

// nextAvailable returns the lowest usable address of n held by no host of
// n, visited or not.
func nextAvailable(n *models.Network, hosts []*models.Host, owner map[*models.Host]*models.Network) (netaddr.Addr, bool) {
	taken := make(map[netaddr.Addr]bool)
	for _, h := range hosts {
		if owner[h] == n {
			taken[h.IP()] = true
		}
	}
	for a := range n.Prefix().Usable() {
		if !taken[a] {
			return a, true
		}
	}
	return 0, false
}

// Topology is a resolved, validated set of hosts and networks.
type Topology struct {
	hosts    []*models.Host
	networks []*models.Network
	byName   map[string]*models.Network
}

func newTopology(hosts []*models.Host, networks []*models.Network, byName map[string]*models.Network) *Topology {
	hs := slices.Clone(hosts)
	slices.SortFunc(hs, (*models.Host).Compare)
	ns := slices.Clone(networks)
	slices.SortFunc(ns, (*models.Network).Compare)
	return &Topology{hosts: hs, networks: ns, byName: byName}
}

// Hosts returns every host ordered by address.
func (t *Topology) Hosts() []*models.Host {
	return slices.Clone(t.hosts)
}

// Networks returns every network ordered by prefix.
func (t *Topology) Networks() []*models.Network {
	return slices.Clone(t.networks)
}

// Network looks a network up by name.
func (t *Topology) Network(name string) (*models.Network, bool) {
	n, ok := t.byName[name]
	return n, ok
}

// NetworkOf returns the network h was assigned to.
func (t *Topology) NetworkOf(h *models.Host) (*models.Network, bool) {
	name, ok := h.Network()
	if !ok {
		return nil, false
	}
	return t.Network(name)
}
