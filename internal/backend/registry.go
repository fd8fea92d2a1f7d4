package backend

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/dmitrijs2005/billarchive/internal/common"
)

// Factory builds a backend instance called name from its params.
type Factory func(ctx context.Context, name string, params Params) (Backend, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register makes a backend module available to Build. It panics when the
// module is registered twice.
func Register(module string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	if _, dup := factories[module]; dup {
		panic("backend: Register called twice for module " + module)
	}
	factories[module] = f
}

// Build instantiates the backend module.
func Build(ctx context.Context, module, name string, params Params) (Backend, error) {
	mu.RLock()
	f, ok := factories[module]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q (backend %s)", common.ErrUnknownModule, module, name)
	}
	b, err := f(ctx, name, params)
	if err != nil {
		return nil, fmt.Errorf("backend %s: %w", name, err)
	}
	return b, nil
}

// Modules lists the registered module names in sorted order.
func Modules() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Params are the module-specific settings of a backend.
type Params map[string]string

// Get returns the value of key, or def when it is unset or empty.
func (p Params) Get(key, def string) string {
	if v := p[key]; v != "" {
		return v
	}
	return def
}

// Required returns the value of key or an ErrMissingParam.
func (p Params) Required(key string) (string, error) {
	v := p[key]
	if v == "" {
		return "", fmt.Errorf("%w: %s", common.ErrMissingParam, key)
	}
	return v, nil
}

// Bool parses key strictly, see common.ParseBool.
func (p Params) Bool(key string, def bool) (bool, error) {
	v, ok := p[key]
	if !ok || v == "" {
		return def, nil
	}
	b, err := common.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("param %s: %w", key, err)
	}
	return b, nil
}
