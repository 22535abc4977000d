// Package config loads netconfig settings through viper and exposes them
// behind a small nil-safe wrapper.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables that override settings,
// e.g. NETCONFIG_OUTPUT_DIR for output.dir.
const EnvPrefix = "NETCONFIG"

// Generators known to the default configuration.
var generatorNames = []string{"bind9", "dhcp", "inventory", "yaml"}

// Config is a read-only view over a viper instance.
type Config struct {
	v *viper.Viper
}

// New wraps v. A nil viper yields a Config whose getters return zero values.
func New(v *viper.Viper) *Config {
	if v == nil {
		v = viper.New()
	}
	return &Config{v: v}
}

// Load reads the YAML configuration file at path, if any, on top of the
// defaults and binds NETCONFIG_* environment variables.
func Load(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) {
				return nil, fmt.Errorf("config file %s not found: %w", path, err)
			}
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	return New(v), nil
}

// SetDefaults registers the default value of every known key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("output.dir", "outdir")
	for _, name := range generatorNames {
		v.SetDefault("generators."+name+".enabled", true)
	}
	v.SetDefault("generators.bind9.domain", "")
	v.SetDefault("generators.bind9.ttl", time.Hour)
	v.SetDefault("generators.bind9.zonedir", "etc/bind")
	v.SetDefault("generators.dhcp.path", "etc/dhcp/dhcpd.conf")
	v.SetDefault("generators.dhcp.authoritative", true)
	v.SetDefault("generators.inventory.path", "inventory.db")
	v.SetDefault("generators.yaml.path", "netconfig.yaml")
}

// Viper returns the wrapped viper instance.
func (c *Config) Viper() *viper.Viper { return c.v }

func (c *Config) GetString(key string) string          { return c.v.GetString(key) }
func (c *Config) GetInt(key string) int                { return c.v.GetInt(key) }
func (c *Config) GetBool(key string) bool              { return c.v.GetBool(key) }
func (c *Config) GetDuration(key string) time.Duration { return c.v.GetDuration(key) }
func (c *Config) IsSet(key string) bool                { return c.v.IsSet(key) }

// Set overrides key, taking precedence over file, environment and defaults.
func (c *Config) Set(key string, value any) { c.v.Set(key, value) }

// Sub returns the subtree rooted at key. A missing key yields an empty
// Config rather than nil. Unlike viper.Sub, defaults and environment
// overrides of keys below key are carried over.
func (c *Config) Sub(key string) *Config {
	sub := viper.New()
	prefix := strings.ToLower(key) + "."
	for _, k := range c.v.AllKeys() {
		if rest, ok := strings.CutPrefix(k, prefix); ok {
			sub.Set(rest, c.v.Get(k))
		}
	}
	return New(sub)
}

// Unmarshal decodes the whole configuration into target using mapstructure
// tags.
func (c *Config) Unmarshal(target any) error {
	return c.v.Unmarshal(target)
}
