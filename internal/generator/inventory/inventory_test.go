package inventory

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/HerbHall/netconfig/internal/generator"
	"github.com/HerbHall/netconfig/internal/store"
	"github.com/HerbHall/netconfig/internal/testutil"
	"github.com/HerbHall/netconfig/internal/topology"
	"github.com/HerbHall/netconfig/pkg/models"
)

var fixedRun = uuid.MustParse("6f1c2b8e-3d4a-4e5f-9a0b-1c2d3e4f5a6b")

func newGenerator() *Generator {
	return New(
		WithClock(testutil.NewClock().Now),
		WithRunID(func() uuid.UUID { return fixedRun }),
	)
}

func homeTopology(t *testing.T) *topology.Topology {
	t.Helper()
	aliases, err := models.NewDNSInfo(nil, nil, []string{"files", "backup"})
	require.NoError(t, err)

	topo, err := topology.Resolve(
		[]*models.Host{
			testutil.NewHost(t, testutil.WithName("router"), testutil.WithIP("192.168.1.1")),
			testutil.NewHost(t, testutil.WithName("nas"), testutil.WithIP("192.168.1.2"), testutil.WithDNS(aliases)),
			testutil.NewHost(t, testutil.WithName("left"), testutil.WithIP("10.9.9.1")),
			testutil.NewHost(t, testutil.WithName("right"), testutil.WithIP("10.9.9.2")),
		},
		[]*models.Network{
			testutil.NewNetwork(t, "lan", "192.168.1.0/24", testutil.WithDNSAuthority("192.168.1.1")),
			testutil.NewNetwork(t, "p2p", "10.9.9.0/30"),
		},
	)
	require.NoError(t, err)
	return topo
}

func TestPopulate(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()

	runID, err := newGenerator().Populate(ctx, s, homeTopology(t))
	require.NoError(t, err)
	assert.Equal(t, fixedRun, runID)

	var runs int
	require.NoError(t, s.DB().QueryRowContext(ctx, "SELECT COUNT(*) FROM runs WHERE id = ?", fixedRun.String()).Scan(&runs))
	assert.Equal(t, 1, runs)

	var (
		prefix, broadcast string
		hostCount         int
		next, reverse     sql.NullString
		authority         sql.NullString
	)
	err = s.DB().QueryRowContext(ctx,
		"SELECT prefix, broadcast, host_count, next_available, reverse_zone, dns_authority FROM networks WHERE name = 'lan'",
	).Scan(&prefix, &broadcast, &hostCount, &next, &reverse, &authority)
	require.NoError(t, err)
	assert.Equal(t, "192.168.1.0/24", prefix)
	assert.Equal(t, "192.168.1.255", broadcast)
	assert.Equal(t, 2, hostCount)
	assert.Equal(t, sql.NullString{String: "192.168.1.3", Valid: true}, next)
	assert.Equal(t, sql.NullString{String: "1.168.192.in-addr.arpa", Valid: true}, reverse)
	assert.Equal(t, "192.168.1.1", authority.String)

	err = s.DB().QueryRowContext(ctx,
		"SELECT next_available, reverse_zone, dns_authority FROM networks WHERE name = 'p2p'",
	).Scan(&next, &reverse, &authority)
	require.NoError(t, err)
	assert.False(t, next.Valid, "full network has no next address")
	assert.False(t, reverse.Valid, "/30 has no reverse zone")
	assert.False(t, authority.Valid)

	rows, err := s.DB().QueryContext(ctx, "SELECT name FROM hosts ORDER BY ip_int")
	require.NoError(t, err)
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		names = append(names, name)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{"left", "right", "router", "nas"}, names)

	var aliasCount int
	require.NoError(t, s.DB().QueryRowContext(ctx,
		"SELECT COUNT(*) FROM host_aliases WHERE network = 'lan' AND host = 'nas'").Scan(&aliasCount))
	assert.Equal(t, 2, aliasCount)
}

func TestGenerateWritesDatabase(t *testing.T) {
	cfg := viper.New()
	cfg.Set("path", "db/netconfig.db")
	g := newGenerator()
	require.NoError(t, g.Init(cfg, zap.NewNop()))

	out := generator.NewMemoryOutput()
	require.NoError(t, g.Generate(context.Background(), homeTopology(t), out))

	data, ok := out.File("db/netconfig.db")
	require.True(t, ok)

	path := filepath.Join(t.TempDir(), "copy.db")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	s, err := store.New(path)
	require.NoError(t, err)
	defer s.Close()

	var hosts int
	require.NoError(t, s.DB().QueryRow("SELECT COUNT(*) FROM hosts").Scan(&hosts))
	assert.Equal(t, 4, hosts)
}
