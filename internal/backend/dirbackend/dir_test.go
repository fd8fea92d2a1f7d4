package dirbackend

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/billarchive/internal/backend"
	"github.com/dmitrijs2005/billarchive/internal/common"
	"github.com/dmitrijs2005/billarchive/internal/domain"
)

func put(t *testing.T, fs billy.Filesystem, name, content string) {
	t.Helper()
	require.NoError(t, util.WriteFile(fs, name, []byte(content), 0o644))
}

func subscriptions(t *testing.T, b *Backend) []string {
	t.Helper()
	var ids []string
	for sub, err := range b.Subscriptions(context.Background()) {
		require.NoError(t, err)
		ids = append(ids, sub.ID)
	}
	return ids
}

func documents(t *testing.T, b *Backend, id string) []domain.Document {
	t.Helper()
	var docs []domain.Document
	for doc, err := range b.Documents(context.Background(), domain.Subscription{ID: id}) {
		require.NoError(t, err)
		docs = append(docs, doc)
	}
	return docs
}

func TestSubscriptions_SkipsFilesAndHidden(t *testing.T) {
	fs := memfs.New()
	put(t, fs, "water/a.pdf", "%PDF")
	put(t, fs, "power/b.pdf", "%PDF")
	put(t, fs, ".cache/c.pdf", "%PDF")
	put(t, fs, "README", "top-level file")

	b := NewWithFilesystem("local", fs)
	assert.Equal(t, "local", b.Name())
	assert.True(t, backend.InterleaveSafe(b))
	assert.Equal(t, []string{"power", "water"}, subscriptions(t, b))
}

func TestDocuments_Mapping(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "water", "bill"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "water", "bill", "2024-01.PDF"), []byte("%PDF-1.4"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "water", "notice.txt"), []byte("hi"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "water", ".hidden.pdf"), []byte("x"), 0o644))

	older := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(filepath.Join(dir, "water", "notice.txt"), older, older))
	require.NoError(t, os.Chtimes(filepath.Join(dir, "water", "bill", "2024-01.PDF"), newer, newer))

	b, err := New(context.Background(), "local", backend.Params{"path": dir})
	require.NoError(t, err)

	docs := documents(t, b.(*Backend), "water")
	require.Len(t, docs, 2)

	bill := docs[0]
	assert.Equal(t, "bill/2024-01", bill.ID)
	assert.Equal(t, "2024-01", bill.Label)
	assert.Equal(t, "pdf", bill.Format)
	assert.Equal(t, "bill", bill.Type)
	assert.True(t, bill.HasFile)
	assert.Equal(t, "8", bill.Extra["size"])
	require.NotNil(t, bill.Date)
	assert.True(t, bill.Date.Equal(newer))

	notice := docs[1]
	assert.Equal(t, "notice", notice.ID)
	assert.Equal(t, "txt", notice.Format)
	assert.Empty(t, notice.Type)

	data, err := b.Download(context.Background(), bill)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))
}

func TestDownload_MissingFileIsNoData(t *testing.T) {
	b := NewWithFilesystem("local", memfs.New())
	data, err := b.Download(context.Background(), domain.Document{URL: "water/gone.pdf"})
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestNew_Errors(t *testing.T) {
	_, err := New(context.Background(), "local", backend.Params{})
	require.ErrorIs(t, err, common.ErrMissingParam)

	_, err = New(context.Background(), "local", backend.Params{"path": filepath.Join(t.TempDir(), "missing")})
	require.Error(t, err)

	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	_, err = New(context.Background(), "local", backend.Params{"path": file})
	require.Error(t, err)
}

func TestRegistered(t *testing.T) {
	assert.Contains(t, backend.Modules(), Module)
}
