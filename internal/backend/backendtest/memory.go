// Package backendtest provides an in-memory backend for tests.
package backendtest

import (
	"context"
	"iter"

	"github.com/dmitrijs2005/billarchive/internal/domain"
)

// Memory is a backend serving fixed data. DownloadCalls records
// the ids passed to Download.
type Memory struct {
	BackendName   string
	Items         []Subscription
	Interleave    bool
	DownloadCalls []string
	ListErr       error

	listing bool
}

// Subscription groups the documents and file contents of one
// subscription. Files is keyed by document id.
type Subscription struct {
	Subscription domain.Subscription
	Documents    []domain.Document
	Files        map[string][]byte
}

func (m *Memory) Name() string { return m.BackendName }

func (m *Memory) InterleaveSafe() bool { return m.Interleave }

// Listing reports whether a Documents sequence is being consumed.
func (m *Memory) Listing() bool { return m.listing }

func (m *Memory) Subscriptions(ctx context.Context) iter.Seq2[domain.Subscription, error] {
	return func(yield func(domain.Subscription, error) bool) {
		if m.ListErr != nil {
			yield(domain.Subscription{}, m.ListErr)
			return
		}
		for _, it := range m.Items {
			if !yield(it.Subscription, nil) {
				return
			}
		}
	}
}

func (m *Memory) Documents(ctx context.Context, sub domain.Subscription) iter.Seq2[domain.Document, error] {
	return func(yield func(domain.Document, error) bool) {
		m.listing = true
		defer func() { m.listing = false }()
		for _, it := range m.Items {
			if it.Subscription.ID != sub.ID {
				continue
			}
			for _, d := range it.Documents {
				if !yield(d, nil) {
					return
				}
			}
		}
	}
}

func (m *Memory) Download(ctx context.Context, doc domain.Document) ([]byte, error) {
	m.DownloadCalls = append(m.DownloadCalls, doc.ID)
	for _, it := range m.Items {
		if data, ok := it.Files[doc.ID]; ok {
			return data, nil
		}
	}
	return nil, nil
}
