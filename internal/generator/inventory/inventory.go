// Package inventory writes the resolved topology into an SQLite database
// that other tooling can query.
package inventory

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/HerbHall/netconfig/internal/generator"
	"github.com/HerbHall/netconfig/internal/store"
	"github.com/HerbHall/netconfig/internal/topology"
	"github.com/HerbHall/netconfig/internal/version"
	"github.com/HerbHall/netconfig/pkg/models"
)

const (
	defaultPath = "inventory.db"
	owner       = "inventory"
)

// Compile-time interface guard.
var _ generator.Generator = (*Generator)(nil)

// Generator builds the inventory database.
type Generator struct {
	path   string
	now    func() time.Time
	newID  func() uuid.UUID
	logger *zap.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithClock sets the time source recorded as the run timestamp.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// WithRunID sets the run ID source.
func WithRunID(newID func() uuid.UUID) Option {
	return func(g *Generator) { g.newID = newID }
}

// New creates the inventory generator.
func New(opts ...Option) *Generator {
	g := &Generator{
		path:   defaultPath,
		now:    time.Now,
		newID:  uuid.New,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Generator) Name() string { return "inventory" }

// Init reads path.
func (g *Generator) Init(cfg *viper.Viper, logger *zap.Logger) error {
	g.logger = logger
	if p := cfg.GetString("path"); p != "" {
		g.path = p
	}
	return nil
}

// Generate builds a fresh database in a scratch directory and hands the
// finished file to out.
func (g *Generator) Generate(ctx context.Context, topo *topology.Topology, out generator.Output) error {
	dir, err := os.MkdirTemp("", "netconfig-inventory-")
	if err != nil {
		return fmt.Errorf("create scratch directory: %w", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "inventory.db")
	s, err := store.New(path)
	if err != nil {
		return err
	}
	runID, err := g.Populate(ctx, s, topo)
	if cerr := s.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("close inventory: %w", cerr)
	}
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read inventory: %w", err)
	}
	if err := out.WriteFile(g.path, data); err != nil {
		return err
	}
	g.logger.Info("wrote inventory",
		zap.String("file", g.path),
		zap.String("run_id", runID.String()),
		zap.Int("networks", len(topo.Networks())),
		zap.Int("hosts", len(topo.Hosts())),
	)
	return nil
}

// Populate migrates s and inserts topo as a single new run.
func (g *Generator) Populate(ctx context.Context, s *store.SQLiteStore, topo *topology.Topology) (uuid.UUID, error) {
	if err := s.Migrate(ctx, owner, migrations()); err != nil {
		return uuid.Nil, err
	}

	runID := g.newID()
	err := s.Tx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO runs (id, generated_at, version) VALUES (?, ?, ?)",
			runID.String(), g.now().UTC(), version.Short(),
		); err != nil {
			return fmt.Errorf("insert run: %w", err)
		}
		for _, n := range topo.Networks() {
			if err := insertNetwork(ctx, tx, runID, n); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return runID, nil
}

func insertNetwork(ctx context.Context, tx *sql.Tx, runID uuid.UUID, n *models.Network) error {
	var next, reverse, authority sql.NullString
	if addr, ok := n.NextAvailableIP(); ok {
		next = sql.NullString{String: addr.String(), Valid: true}
	}
	if rev, err := n.ReverseZone(); err == nil {
		reverse = sql.NullString{String: rev + ".in-addr.arpa", Valid: true}
	}
	if n.HasDNS() {
		authority = sql.NullString{String: n.DNS().Authority.String(), Valid: true}
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO networks (name, run_id, prefix, netmask, broadcast, host_count, next_available, reverse_zone, dhcp, dns_authority)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		n.Name(), runID.String(), n.Prefix().String(), n.Prefix().Mask().String(), n.Prefix().Broadcast().String(),
		n.Len(), next, reverse, n.HasDHCP(), authority,
	)
	if err != nil {
		return fmt.Errorf("insert network %s: %w", n.Name(), err)
	}

	for _, h := range n.Hosts() {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO hosts (network, name, run_id, ip, ip_int, mac) VALUES (?, ?, ?, ?, ?, ?)",
			n.Name(), h.Name(), runID.String(), h.IP().String(), int64(h.IP().Uint32()), h.MAC().String(),
		)
		if err != nil {
			return fmt.Errorf("insert host %s.%s: %w", h.Name(), n.Name(), err)
		}
		if h.DNS() == nil {
			continue
		}
		for _, alias := range h.DNS().CNAMEs {
			_, err := tx.ExecContext(ctx,
				"INSERT INTO host_aliases (network, alias, host) VALUES (?, ?, ?)",
				n.Name(), alias, h.Name(),
			)
			if err != nil {
				return fmt.Errorf("insert alias %s.%s: %w", alias, n.Name(), err)
			}
		}
	}
	return nil
}
