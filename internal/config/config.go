package config

import (
	"fmt"
	"slices"

	"github.com/dmitrijs2005/billarchive/internal/common"
	"github.com/dmitrijs2005/billarchive/internal/filex"
	"github.com/dmitrijs2005/billarchive/internal/flagx"
)

// Config holds runtime settings for the billarchive CLI.
type Config struct {
	Dir             string
	LogLevel        string
	LogFormat       string
	MetricsTextfile string
	EnvFile         string
	Storage         Storage
	Options         map[string]string
	Backends        map[string]Backend
}

// Storage selects the metadata database.
type Storage struct {
	Driver string
	DSN    string
}

// Backend is one configured backend instance.
type Backend struct {
	Module  string
	Params  map[string]string
	Options map[string]string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.EnvFile = ".env"
	c.Storage = Storage{Driver: "sqlite", DSN: "billarchive.db"}
	c.Options = map[string]string{}
	c.Backends = map[string]Backend{}
}

// LoadConfig constructs a Config from defaults, the config file named by
// -c/-config (if any) and the remaining flags, in that order. It returns
// the positional arguments left after the flags.
func LoadConfig(args []string) (*Config, []string, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if path := flagx.ConfigFile(args); path != "" {
		if err := parseFile(cfg, path); err != nil {
			return nil, nil, err
		}
	}

	rest, err := parseFlags(cfg, args)
	if err != nil {
		return nil, nil, err
	}

	dsn, err := filex.ExpandHome(cfg.Storage.DSN)
	if err != nil {
		return nil, nil, err
	}
	cfg.Storage.DSN = dsn

	if err := cfg.validate(); err != nil {
		return nil, nil, err
	}
	return cfg, rest, nil
}

func (c *Config) validate() error {
	for name, b := range c.Backends {
		if b.Module == "" {
			return fmt.Errorf("%w: backend %s has no module", common.ErrInvalidConfig, name)
		}
	}
	return nil
}

// Option looks name up in the options of backend, then in the global
// options.
func (c *Config) Option(backend, name string) (string, bool) {
	if b, ok := c.Backends[backend]; ok {
		if v, ok := b.Options[name]; ok {
			return v, true
		}
	}
	v, ok := c.Options[name]
	return v, ok
}

// RootDir is the output directory of backend, see filex.RootDir.
func (c *Config) RootDir(backend string) (string, error) {
	var own string
	if b, ok := c.Backends[backend]; ok {
		own = b.Options["dir"]
	}
	return filex.RootDir(own, c.Dir, backend)
}

// BackendNames returns the configured backend names, sorted.
func (c *Config) BackendNames() []string {
	names := make([]string, 0, len(c.Backends))
	for name := range c.Backends {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
