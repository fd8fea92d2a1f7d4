package backendtest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/billarchive/internal/backend"
	"github.com/dmitrijs2005/billarchive/internal/domain"
)

var _ backend.Backend = (*Memory)(nil)

func TestMemory_ListsAndDownloads(t *testing.T) {
	m := &Memory{
		Items: []Subscription{{
			Subscription: domain.Subscription{ID: "s1"},
			Documents:    []domain.Document{{ID: "d1"}, {ID: "d2"}},
			Files:        map[string][]byte{"d1": []byte("x")},
		}},
	}
	ctx := context.Background()

	var subs []string
	for s, err := range m.Subscriptions(ctx) {
		require.NoError(t, err)
		subs = append(subs, s.ID)
	}
	assert.Equal(t, []string{"s1"}, subs)

	var docs []string
	for d, err := range m.Documents(ctx, domain.Subscription{ID: "s1"}) {
		require.NoError(t, err)
		assert.True(t, m.Listing())
		docs = append(docs, d.ID)
	}
	assert.Equal(t, []string{"d1", "d2"}, docs)
	assert.False(t, m.Listing())

	data, err := m.Download(ctx, domain.Document{ID: "d2"})
	require.NoError(t, err)
	assert.Nil(t, data)
	assert.Equal(t, []string{"d2"}, m.DownloadCalls)

	m.ListErr = errors.New("boom")
	for _, err := range m.Subscriptions(ctx) {
		assert.EqualError(t, err, "boom")
	}
}

func TestMemory_InterleaveCapability(t *testing.T) {
	assert.True(t, backend.InterleaveSafe(&Memory{Interleave: true}))
	assert.False(t, backend.InterleaveSafe(&Memory{Interleave: false}))
}
