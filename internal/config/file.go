package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dmitrijs2005/billarchive/internal/common"
)

// fileConfig is a DTO used exclusively for decoding config files.
type fileConfig struct {
	Dir             string                       `json:"dir" yaml:"dir"`
	LogLevel        string                       `json:"log_level" yaml:"log_level"`
	LogFormat       string                       `json:"log_format" yaml:"log_format"`
	MetricsTextfile string                       `json:"metrics_textfile" yaml:"metrics_textfile"`
	EnvFile         string                       `json:"env_file" yaml:"env_file"`
	Storage         fileStorage                  `json:"storage" yaml:"storage"`
	Options         map[string]Scalar            `json:"options" yaml:"options"`
	Backends        map[string]fileBackendConfig `json:"backends" yaml:"backends"`
}

type fileStorage struct {
	Driver string `json:"driver" yaml:"driver"`
	DSN    string `json:"dsn" yaml:"dsn"`
}

type fileBackendConfig struct {
	Module  string            `json:"module" yaml:"module"`
	Params  map[string]Scalar `json:"params" yaml:"params"`
	Options map[string]Scalar `json:"options" yaml:"options"`
}

// parseFile overlays cfg with the values set in the file at path.
func parseFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %v", common.ErrInvalidConfig, path, err)
	}

	setIf(&cfg.Dir, fc.Dir)
	setIf(&cfg.LogLevel, fc.LogLevel)
	setIf(&cfg.LogFormat, fc.LogFormat)
	setIf(&cfg.MetricsTextfile, fc.MetricsTextfile)
	setIf(&cfg.EnvFile, fc.EnvFile)
	setIf(&cfg.Storage.Driver, fc.Storage.Driver)
	setIf(&cfg.Storage.DSN, fc.Storage.DSN)

	for k, v := range fc.Options {
		cfg.Options[k] = string(v)
	}
	for name, b := range fc.Backends {
		cfg.Backends[name] = Backend{
			Module:  b.Module,
			Params:  toStrings(b.Params),
			Options: toStrings(b.Options),
		}
	}
	return nil
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func toStrings(m map[string]Scalar) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = string(v)
	}
	return out
}

// Scalar is a config value written as a string, boolean or number and
// kept in its textual form.
type Scalar string

func (s *Scalar) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*s = Scalar(str)
		return nil
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch v.(type) {
	case nil:
		*s = ""
	case bool, float64:
		*s = Scalar(b)
	default:
		return fmt.Errorf("expected a scalar value, got %s", b)
	}
	return nil
}

func (s *Scalar) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a scalar value", n.Line)
	}
	if n.Tag == "!!null" {
		*s = ""
		return nil
	}
	*s = Scalar(n.Value)
	return nil
}
