package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/billarchive/internal/backend"
	"github.com/dmitrijs2005/billarchive/internal/buildinfo"
)

var ErrBackendsFailed = errors.New("backends failed")

// Download runs a sync pass for each selected backend. Every backend is
// attempted; the returned error lists those that failed.
func (a *App) Download(ctx context.Context, names []string) error {
	names, err := a.selectBackends(names)
	if err != nil {
		return err
	}

	var failed []string
	for _, name := range names {
		if ctx.Err() != nil {
			failed = append(failed, name)
			continue
		}
		if err := a.download(ctx, name); err != nil {
			a.logger.Error(ctx, "backend failed", "backend", name, "error", err)
			failed = append(failed, name)
		}
	}

	if path := a.config.MetricsTextfile; path != "" {
		if err := a.metrics.WriteTextfile(path); err != nil {
			a.logger.Warn(ctx, "cannot write metrics", "path", path, "error", err)
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("%w: %s", ErrBackendsFailed, strings.Join(failed, ", "))
	}
	return nil
}

func (a *App) download(ctx context.Context, name string) error {
	b, err := a.buildBackend(ctx, name)
	if err != nil {
		now := time.Now()
		a.metrics.FinishSync(name, now, now, err)
		return fmt.Errorf("backend %s: %w", name, err)
	}
	return a.engine.Sync(ctx, b)
}

// Status prints what the metadata store holds for each selected backend.
func (a *App) Status(ctx context.Context, names []string) error {
	names, err := a.selectBackends(names)
	if err != nil {
		return err
	}
	for _, name := range names {
		sum, err := a.store.Summary(ctx, name)
		if err != nil {
			return fmt.Errorf("status %s: %w", name, err)
		}
		fmt.Fprintf(a.out, "%s: %d subscriptions, %d documents seen, %d downloaded\n",
			sum.Backend, sum.Subscriptions, sum.DocumentsSeen, sum.DocumentsStored)
	}
	return nil
}

// Backends lists the configured backends and the modules they can use.
func (a *App) Backends(_ context.Context) error {
	for _, name := range a.config.BackendNames() {
		fmt.Fprintf(a.out, "%s (%s)\n", name, a.config.Backends[name].Module)
	}
	fmt.Fprintf(a.out, "Available modules: %s\n", strings.Join(backend.Modules(), ", "))
	return nil
}

func (a *App) Version(_ context.Context) error {
	buildinfo.PrintBuildData(a.out)
	return nil
}
