package loader

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HerbHall/netconfig/internal/topology"
	"github.com/HerbHall/netconfig/pkg/models"
	"github.com/HerbHall/netconfig/pkg/netaddr"
)

func loadHome(t *testing.T) ([]*models.Host, []*models.Network) {
	t.Helper()
	doc, err := Load(filepath.Join("testdata", "home.yaml"))
	require.NoError(t, err)
	hosts, networks, err := doc.Build()
	require.NoError(t, err)
	return hosts, networks
}

func TestLoadBuild(t *testing.T) {
	hosts, networks := loadHome(t)
	require.Len(t, networks, 2)
	require.Len(t, hosts, 3)

	lan := networks[0]
	assert.Equal(t, "lan", lan.Name())
	assert.Equal(t, "192.168.1.0/24", lan.Prefix().String())
	require.True(t, lan.HasDNS())
	assert.Equal(t, "192.168.1.1", lan.DNS().Authority.String())

	d := lan.DHCP()
	require.NotNil(t, d)
	assert.Equal(t, "192.168.1.100", d.RangeFrom.String())
	assert.Equal(t, "192.168.1.199", d.RangeTo.String())
	require.NotNil(t, d.Lease)
	assert.Equal(t, time.Hour, d.Lease.Default)
	assert.Equal(t, 24*time.Hour, d.Lease.Max)
	require.NotNil(t, d.PXE)
	assert.Equal(t, "pxelinux.0", d.PXE.Filename)

	assert.False(t, networks[1].HasDHCP())
	assert.False(t, networks[1].HasDNS())

	router := hosts[0]
	assert.Equal(t, "00:0d:b9:11:22:33", router.MAC().String())
	require.NotNil(t, router.DNS())
	assert.Equal(t, []string{"gw", "ns"}, router.DNS().CNAMEs)
	assert.Equal(t, "OpenWrt", router.DNS().HInfo.OS)
	assert.Equal(t, "00:11:32:aa:bb:cc", hosts[1].MAC().String())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "absent.yaml"))
	assert.ErrorContains(t, err, "failed to read file")
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{"empty", "", ErrEmptyDocument},
		{"no networks", "hosts: []\n", ErrEmptyDocument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("networks:\n  - name: lan\n    cidr: 10.0.0.0/8\n"))
	assert.ErrorContains(t, err, "failed to parse YAML")
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    error
		context string
	}{
		{
			name:    "bad subnet",
			data:    "networks:\n  - name: lan\n    subnet: 10.0.0.1/8\n",
			want:    netaddr.ErrInvalidNetwork,
			context: "network 0 (lan)",
		},
		{
			name:    "bad network name",
			data:    "networks:\n  - name: my lan\n    subnet: 10.0.0.0/8\n",
			want:    models.ErrInvalidName,
			context: "network 0 (my lan)",
		},
		{
			name:    "bad dhcp range",
			data:    "networks:\n  - name: lan\n    subnet: 10.0.0.0/8\n    dhcp:\n      range: {from: 10.0.0.9, to: 10.0.0.1}\n",
			want:    models.ErrInvalidDHCP,
			context: "network 0 (lan)",
		},
		{
			name:    "bad host name",
			data:    "networks:\n  - name: lan\n    subnet: 10.0.0.0/8\nhosts:\n  - name: my-host\n    ip: 10.0.0.1\n    mac: 00:00:00:00:00:01\n",
			want:    models.ErrInvalidName,
			context: "host 0 (my-host)",
		},
		{
			name:    "bad mac",
			data:    "networks:\n  - name: lan\n    subnet: 10.0.0.0/8\nhosts:\n  - name: box\n    ip: 10.0.0.1\n    mac: 00:00:00:00:00\n",
			want:    netaddr.ErrInvalidMAC,
			context: "host 0 (box)",
		},
		{
			name:    "bad txt",
			data:    "networks:\n  - name: lan\n    subnet: 10.0.0.0/8\nhosts:\n  - name: box\n    ip: 10.0.0.1\n    mac: 00:00:00:00:00:01\n    dns:\n      text: [\"a;b\"]\n",
			want:    models.ErrInvalidDNSEntry,
			context: "host 0 (box)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse([]byte(tt.data))
			require.NoError(t, err)
			_, _, err = doc.Build()
			require.ErrorIs(t, err, tt.want)
			assert.Contains(t, err.Error(), tt.context)
		})
	}
}

func TestExportRoundTrip(t *testing.T) {
	hosts, networks := loadHome(t)
	topo, err := topology.Resolve(hosts, networks)
	require.NoError(t, err)

	out, err := Export(topo)
	require.NoError(t, err)

	doc, err := Parse(out)
	require.NoError(t, err)
	require.Len(t, doc.Networks, 2)
	assert.Equal(t, "dmz", doc.Networks[0].Name, "networks ordered by prefix")
	require.Len(t, doc.Hosts, 3)
	assert.Equal(t, "web", doc.Hosts[0].Name, "hosts ordered by address")
	assert.Equal(t, "00:0d:b9:11:22:33", doc.Hosts[1].MAC)

	lan := doc.Networks[1]
	require.NotNil(t, lan.DHCP)
	require.NotNil(t, lan.DHCP.LeaseTime)
	assert.Equal(t, 86400, lan.DHCP.LeaseTime.Max)
	assert.Equal(t, "192.168.1.2", lan.DHCP.PXE.Next)

	hosts2, networks2, err := doc.Build()
	require.NoError(t, err)
	topo2, err := topology.Resolve(hosts2, networks2)
	require.NoError(t, err)

	again, err := Export(topo2)
	require.NoError(t, err)
	assert.Equal(t, string(out), string(again), "export is stable")
}
