package cli

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/dmitrijs2005/billarchive/internal/config"
	"github.com/dmitrijs2005/billarchive/internal/logging"
	"github.com/dmitrijs2005/billarchive/internal/metadata"
	"github.com/dmitrijs2005/billarchive/internal/metrics"
	"github.com/dmitrijs2005/billarchive/internal/syncer"

	_ "github.com/dmitrijs2005/billarchive/internal/backend/dirbackend"
	_ "github.com/dmitrijs2005/billarchive/internal/backend/s3backend"
)

type App struct {
	config  *config.Config
	env     map[string]string
	secrets map[string]string
	store   *metadata.Store
	engine  *syncer.Engine
	metrics *metrics.SyncMetrics
	logger  logging.Logger
	out     io.Writer
	in      io.Reader
}

// NewApp opens the metadata store and builds an App writing to stdout.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(os.Stderr, c.LogLevel, c.LogFormat)

	env, err := config.LoadEnv(c.EnvFile)
	if err != nil {
		return nil, err
	}

	store, err := metadata.Open(ctx, c.Storage.Driver, c.Storage.DSN)
	if err != nil {
		logger.Error(ctx, "error initializing metadata store", "driver", c.Storage.Driver, "error", err)
		return nil, err
	}

	return newApp(c, env, store, logger, os.Stdout, os.Stdin), nil
}

func newApp(c *config.Config, env map[string]string, store *metadata.Store, logger logging.Logger, out io.Writer, in io.Reader) *App {
	m := metrics.NewSyncMetrics()
	return &App{
		config:  c,
		env:     env,
		secrets: map[string]string{},
		store:   store,
		metrics: m,
		logger:  logger,
		out:     out,
		in:      in,
		engine:  syncer.New(c, store, logger, syncer.WithOutput(out), syncer.WithMetrics(m)),
	}
}

func (a *App) Close() error {
	return a.store.Close()
}

// Run executes args as a single command, or starts the interactive loop
// when args is empty.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Welcome to billarchive (type 'help' for commands)")
		runREPL(ctx, a, bufio.NewScanner(a.in))
		return nil
	}
	_, err := dispatch(ctx, a, args[0], args[1:])
	return err
}
