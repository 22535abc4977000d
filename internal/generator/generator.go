// Package generator defines the output generators that turn a resolved
// topology into service configuration files, and the registry that runs
// them.
package generator

import (
	"context"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/HerbHall/netconfig/internal/topology"
)

// Generator renders one kind of configuration artefact.
type Generator interface {
	// Name returns the generator's unique identifier (e.g., "bind9", "dhcp").
	// It selects the generators.<name> configuration subtree.
	Name() string

	// Init configures the generator. cfg holds the generators.<name> subtree.
	Init(cfg *viper.Viper, logger *zap.Logger) error

	// Generate writes the generator's files for topo to out.
	Generate(ctx context.Context, topo *topology.Topology, out Output) error
}
