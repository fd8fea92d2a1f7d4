// Package backend defines the contract between the sync engine and the
// document sources it archives, plus a registry that builds sources from
// configuration by module name.
package backend

import (
	"context"
	"iter"

	"github.com/dmitrijs2005/billarchive/internal/domain"
)

// Backend is a source of subscriptions and their documents.
//
// Subscriptions and Documents yield items lazily in backend order. A
// non-nil error ends the sequence. Documents are expected newest first;
// the engine stops listing at the first document older than its cutoff.
type Backend interface {
	Name() string
	Subscriptions(ctx context.Context) iter.Seq2[domain.Subscription, error]
	Documents(ctx context.Context, sub domain.Subscription) iter.Seq2[domain.Document, error]
	// Download returns the document content. Empty content with a nil
	// error means the backend had nothing to serve.
	Download(ctx context.Context, doc domain.Document) ([]byte, error)
}

// InterleaveChecker is implemented by backends that know whether a
// download may be issued while a document listing is still in progress.
type InterleaveChecker interface {
	InterleaveSafe() bool
}

// InterleaveSafe reports whether b tolerates downloads during listing.
// Backends that do not say are assumed to tolerate it.
func InterleaveSafe(b Backend) bool {
	if c, ok := b.(InterleaveChecker); ok {
		return c.InterleaveSafe()
	}
	return true
}
