// Package dirbackend archives documents from a local directory tree laid
// out as <path>/<subscription>/[<type>/]<name>.<format>. It is mostly
// useful to re-file documents fetched by other tools.
package dirbackend

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"

	"github.com/dmitrijs2005/billarchive/internal/backend"
	"github.com/dmitrijs2005/billarchive/internal/domain"
	"github.com/dmitrijs2005/billarchive/internal/filex"
)

const Module = "dir"

func init() {
	backend.Register(Module, New)
}

type Backend struct {
	name string
	fs   billy.Filesystem
}

// New builds a backend over the "path" param.
func New(_ context.Context, name string, params backend.Params) (backend.Backend, error) {
	root, err := params.Required("path")
	if err != nil {
		return nil, err
	}
	root, err = filex.ExpandHome(root)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("source directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source directory: %s is not a directory", root)
	}
	return NewWithFilesystem(name, osfs.New(root)), nil
}

// NewWithFilesystem builds a backend over fs.
func NewWithFilesystem(name string, fs billy.Filesystem) *Backend {
	return &Backend{name: name, fs: fs}
}

func (b *Backend) Name() string { return b.name }

func (b *Backend) InterleaveSafe() bool { return true }

func (b *Backend) Subscriptions(ctx context.Context) iter.Seq2[domain.Subscription, error] {
	return func(yield func(domain.Subscription, error) bool) {
		entries, err := b.fs.ReadDir("/")
		if err != nil {
			yield(domain.Subscription{}, fmt.Errorf("list subscriptions: %w", err))
			return
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
		for _, e := range entries {
			if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
				continue
			}
			sub := domain.Subscription{
				ID:    e.Name(),
				Label: e.Name(),
				URL:   b.fs.Join(b.fs.Root(), e.Name()),
			}
			if !yield(sub, nil) {
				return
			}
		}
	}
}

// Documents walks the subscription directory and yields its files, most
// recently modified first.
func (b *Backend) Documents(ctx context.Context, sub domain.Subscription) iter.Seq2[domain.Document, error] {
	return func(yield func(domain.Document, error) bool) {
		var docs []domain.Document
		err := util.Walk(b.fs, sub.ID, func(p string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if p != sub.ID && strings.HasPrefix(info.Name(), ".") {
				if info.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if info.IsDir() {
				return ctx.Err()
			}
			docs = append(docs, document(sub.ID, filepath.ToSlash(p), info))
			return nil
		})
		if err != nil && !errors.Is(err, filepath.SkipDir) {
			yield(domain.Document{}, fmt.Errorf("list documents of %s: %w", sub.ID, err))
			return
		}

		sort.SliceStable(docs, func(i, j int) bool { return docs[i].Date.After(*docs[j].Date) })

		for _, d := range docs {
			if !yield(d, nil) {
				return
			}
		}
	}
}

func (b *Backend) Download(_ context.Context, doc domain.Document) ([]byte, error) {
	data, err := util.ReadFile(b.fs, doc.URL)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", doc.URL, err)
	}
	return data, nil
}

func document(subID, p string, info os.FileInfo) domain.Document {
	rel := strings.TrimPrefix(p, subID+"/")
	ext := path.Ext(rel)
	id := strings.TrimSuffix(rel, ext)
	mod := info.ModTime()

	doc := domain.Document{
		ID:      id,
		URL:     p,
		Label:   path.Base(id),
		Format:  strings.ToLower(strings.TrimPrefix(ext, ".")),
		Date:    &mod,
		HasFile: true,
		Extra:   map[string]string{"size": strconv.FormatInt(info.Size(), 10)},
	}
	if dir, _, ok := strings.Cut(rel, "/"); ok {
		doc.Type = dir
	}
	return doc
}
