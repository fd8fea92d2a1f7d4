// Package syncer implements the incremental document synchronization of
// one backend: it walks subscriptions and documents, decides what to
// fetch, writes new files under the backend's output directory and
// records what was seen and fetched in the metadata store.
package syncer

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/billarchive/internal/backend"
	"github.com/dmitrijs2005/billarchive/internal/domain"
	"github.com/dmitrijs2005/billarchive/internal/filex"
	"github.com/dmitrijs2005/billarchive/internal/logging"
	"github.com/dmitrijs2005/billarchive/internal/metrics"
)

// Store is the metadata the engine reads and writes.
type Store interface {
	Touch(ctx context.Context, now time.Time, object map[string]any, key ...string) (initial bool, err error)
	MarkDownloaded(ctx context.Context, now time.Time, digest string, key ...string) error
}

// FilesystemFactory opens the output tree rooted at root, creating it
// when needed.
type FilesystemFactory func(root string) (billy.Filesystem, error)

type Engine struct {
	options OptionSource
	store   Store
	logger  logging.Logger
	out     io.Writer
	metrics *metrics.SyncMetrics
	openFS  FilesystemFactory
	now     func() time.Time
}

type Option func(*Engine)

// WithOutput sets where user-facing progress lines go. Defaults to
// io.Discard.
func WithOutput(w io.Writer) Option {
	return func(e *Engine) { e.out = w }
}

func WithMetrics(m *metrics.SyncMetrics) Option {
	return func(e *Engine) { e.metrics = m }
}

func WithFilesystem(f FilesystemFactory) Option {
	return func(e *Engine) { e.openFS = f }
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func New(options OptionSource, store Store, logger logging.Logger, opts ...Option) *Engine {
	e := &Engine{
		options: options,
		store:   store,
		logger:  logger,
		out:     io.Discard,
		openFS:  filex.OSFilesystem,
		now:     time.Now,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Sync runs one pass over b. Per-document conditions such as an existing
// file or a rejected content type are logged and skipped. Configuration
// errors, metadata store failures and backend listing or download errors
// end the pass and are returned.
func (e *Engine) Sync(ctx context.Context, b backend.Backend) (err error) {
	name := b.Name()
	started := e.now()
	defer func() {
		if e.metrics != nil {
			e.metrics.FinishSync(name, started, e.now(), err)
		}
	}()

	settings, err := ResolveSettings(e.options, name)
	if err != nil {
		return fmt.Errorf("backend %s: %w", name, err)
	}

	fmt.Fprintf(e.out, "Processing backend %q\n", name)

	fs, err := e.openFS(settings.Root)
	if err != nil {
		return fmt.Errorf("backend %s: %w", name, err)
	}

	p := &pass{
		engine:   e,
		backend:  b,
		settings: settings,
		fs:       fs,
		logger:   e.logger.With("backend", name, "run", uuid.NewString()),
	}
	p.logger.Debug(ctx, "sync started", "root", settings.Root)

	for sub, err := range b.Subscriptions(ctx) {
		if err != nil {
			return fmt.Errorf("backend %s: %w", name, err)
		}
		if err := p.subscription(ctx, sub); err != nil {
			return fmt.Errorf("backend %s: subscription %s: %w", name, sub.ID, err)
		}
	}

	p.logger.Debug(ctx, "sync finished", "elapsed", e.now().Sub(started).String())
	return nil
}

// pass holds the state of one Sync call.
type pass struct {
	engine   *Engine
	backend  backend.Backend
	settings Settings
	fs       billy.Filesystem
	logger   logging.Logger
}

func (p *pass) subscription(ctx context.Context, sub domain.Subscription) error {
	log := p.logger.With("subscription", sub.ID)
	log.Debug(ctx, "downloading subscription")

	now := p.engine.now()
	initial, err := p.engine.store.Touch(ctx, now, sub.Snapshot(), domain.SubscriptionKey(p.backend.Name(), sub.ID)...)
	if err != nil {
		return err
	}

	dir, err := p.settings.Formatter.SubscriptionDir(p.settings.Template, sub)
	if err != nil {
		return err
	}
	if dir != "" {
		if err := p.fs.MkdirAll(dir, 0o770); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	cutoff, expr, ok := p.settings.Cutoff(initial, now)
	if !ok {
		log.Warn(ctx, "ignoring unparseable date threshold", "value", expr, "initial", initial)
	}

	interleave := p.settings.DownloadWhenListing
	if interleave && !backend.InterleaveSafe(p.backend) {
		log.Warn(ctx, "backend cannot download while listing, collecting documents first")
		interleave = false
	}

	var pending []domain.Document
	for doc, err := range p.backend.Documents(ctx, sub) {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if when, ok := doc.When(); ok && when.Before(cutoff) {
			log.Info(ctx, "reached date threshold", "document", doc.ID, "cutoff", cutoff.Format(time.DateTime))
			break
		}
		if interleave {
			if err := p.document(ctx, sub, doc); err != nil {
				return err
			}
			continue
		}
		pending = append(pending, doc)
	}

	for _, doc := range pending {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.document(ctx, sub, doc); err != nil {
			return err
		}
	}
	return nil
}
