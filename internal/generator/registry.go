package generator

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/HerbHall/netconfig/internal/config"
	"github.com/HerbHall/netconfig/internal/topology"
)

// ErrNoGenerators is returned by GenerateAll when nothing was initialized.
var ErrNoGenerators = errors.New("no generators enabled")

// Registry holds the compiled-in generators in registration order.
type Registry struct {
	mu         sync.RWMutex
	generators map[string]Generator
	order      []string
	enabled    []string
	logger     *zap.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		generators: make(map[string]Generator),
		logger:     logger,
	}
}

// Register adds a generator to the registry.
func (r *Registry) Register(g Generator) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := g.Name()
	if name == "" {
		return errors.New("generator has an empty name")
	}
	if _, exists := r.generators[name]; exists {
		return fmt.Errorf("generator %q already registered", name)
	}

	r.generators[name] = g
	r.order = append(r.order, name)
	r.logger.Debug("generator registered", zap.String("name", name))
	return nil
}

// InitAll initializes every generator whose generators.<name>.enabled key is
// true and remembers it for GenerateAll. Disabled generators are skipped.
func (r *Registry) InitAll(cfg *config.Config) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.enabled = r.enabled[:0]
	for _, name := range r.order {
		g := r.generators[name]

		sub := cfg.Sub("generators." + name)
		if !sub.GetBool("enabled") {
			r.logger.Info("generator disabled, skipping", zap.String("name", name))
			continue
		}

		if err := g.Init(sub.Viper(), r.logger.Named(name)); err != nil {
			return fmt.Errorf("failed to initialize generator %q: %w", name, err)
		}
		r.enabled = append(r.enabled, name)
	}
	return nil
}

// GenerateAll runs the initialized generators in registration order and
// stops at the first failure.
func (r *Registry) GenerateAll(ctx context.Context, topo *topology.Topology, out Output) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.enabled) == 0 {
		return ErrNoGenerators
	}
	for _, name := range r.enabled {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.logger.Info("running generator", zap.String("name", name))
		if err := r.generators[name].Generate(ctx, topo, out); err != nil {
			return fmt.Errorf("generator %q: %w", name, err)
		}
	}
	return nil
}

// Get returns a generator by name.
func (r *Registry) Get(name string) (Generator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.generators[name]
	return g, ok
}

// All returns all registered generators in registration order.
func (r *Registry) All() []Generator {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Generator, 0, len(r.order))
	for _, name := range r.order {
		result = append(result, r.generators[name])
	}
	return result
}

// Enabled returns the names of the generators InitAll initialized.
func (r *Registry) Enabled() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.enabled...)
}
