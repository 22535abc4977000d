// Package yamlexport writes the resolved topology back out as a canonical
// YAML description.
package yamlexport

import (
	"context"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/HerbHall/netconfig/internal/generator"
	"github.com/HerbHall/netconfig/internal/loader"
	"github.com/HerbHall/netconfig/internal/topology"
)

const defaultPath = "netconfig.yaml"

// Compile-time interface guard.
var _ generator.Generator = (*Generator)(nil)

// Generator emits loader.Export output.
type Generator struct {
	path   string
	logger *zap.Logger
}

// New creates the yaml generator.
func New() *Generator {
	return &Generator{path: defaultPath, logger: zap.NewNop()}
}

func (g *Generator) Name() string { return "yaml" }

func (g *Generator) Init(cfg *viper.Viper, logger *zap.Logger) error {
	g.logger = logger
	if p := cfg.GetString("path"); p != "" {
		g.path = p
	}
	return nil
}

func (g *Generator) Generate(_ context.Context, topo *topology.Topology, out generator.Output) error {
	data, err := loader.Export(topo)
	if err != nil {
		return err
	}
	if err := out.WriteFile(g.path, data); err != nil {
		return err
	}
	g.logger.Info("wrote canonical description", zap.String("file", g.path))
	return nil
}
