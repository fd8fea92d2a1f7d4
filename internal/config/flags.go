package config

import (
	"flag"
	"fmt"
	"io"
)

// parseFlags overlays cfg with command-line flags and returns the
// arguments following them.
//
//	-c/-config  config file (already consumed by LoadConfig)
//	-d          output directory
//	-s          storage DSN
//	-S          storage driver
//	-l          log level
//	-m          metrics textfile
func parseFlags(cfg *Config, args []string) ([]string, error) {
	fs := flag.NewFlagSet("billarchive", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var configFile string
	fs.StringVar(&configFile, "config", "", "path to config file")
	fs.StringVar(&configFile, "c", "", "path to config file (short)")
	fs.StringVar(&cfg.Dir, "d", cfg.Dir, "output directory shared by all backends")
	fs.StringVar(&cfg.Storage.DSN, "s", cfg.Storage.DSN, "metadata storage DSN")
	fs.StringVar(&cfg.Storage.Driver, "S", cfg.Storage.Driver, "metadata storage driver (sqlite or postgres)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.MetricsTextfile, "m", cfg.MetricsTextfile, "Prometheus textfile to write metrics to")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}
	return fs.Args(), nil
}
