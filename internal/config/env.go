package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// LoadEnv reads variables from the dotenv file at path. A missing file
// yields an empty map.
func LoadEnv(path string) (map[string]string, error) {
	if path == "" {
		return map[string]string{}, nil
	}
	env, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read env file %s: %w", path, err)
	}
	return env, nil
}

// BackendParams returns the params of backend with ${VAR} references
// expanded from env, then from the process environment.
func (c *Config) BackendParams(backend string, env map[string]string) map[string]string {
	b := c.Backends[backend]
	out := make(map[string]string, len(b.Params))
	for k, v := range b.Params {
		out[k] = os.Expand(v, func(name string) string {
			if val, ok := env[name]; ok {
				return val
			}
			return os.Getenv(name)
		})
	}
	return out
}
