package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/dmitrijs2005/billarchive/internal/backend"
	"github.com/dmitrijs2005/billarchive/internal/common"
)

// promptValue marks a backend param that is read from the terminal.
const promptValue = "prompt"

// selectBackends validates names against the config; no names means all
// configured backends.
func (a *App) selectBackends(names []string) ([]string, error) {
	if len(names) == 0 {
		names = a.config.BackendNames()
		if len(names) == 0 {
			return nil, fmt.Errorf("%w: no backends configured", common.ErrInvalidConfig)
		}
		return names, nil
	}
	for _, name := range names {
		if _, ok := a.config.Backends[name]; !ok {
			return nil, fmt.Errorf("%w: unknown backend %s", common.ErrInvalidConfig, name)
		}
	}
	return names, nil
}

// buildBackend instantiates the backend called name. Params set to
// "prompt" are asked for once per App.
func (a *App) buildBackend(ctx context.Context, name string) (backend.Backend, error) {
	params := a.config.BackendParams(name, a.env)

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		if !strings.EqualFold(params[k], promptValue) {
			continue
		}
		id := name + "." + k
		if v, ok := a.secrets[id]; ok {
			params[k] = v
			continue
		}
		v, err := getSecret(a.out, fmt.Sprintf("%s %s: ", name, k))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", id, err)
		}
		a.secrets[id] = string(v)
		params[k] = string(v)
	}

	return backend.Build(ctx, a.config.Backends[name].Module, name, backend.Params(params))
}
