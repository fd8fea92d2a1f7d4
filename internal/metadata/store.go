package metadata

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/billarchive/internal/dbx"
	"github.com/dmitrijs2005/billarchive/internal/domain"
)

// Store persists SyncRecords on top of a Repository. Each read-modify-write
// runs in its own transaction.
type Store struct {
	db      *sql.DB
	dialect Dialect
	repo    *SQLRepository
}

func NewStore(db *sql.DB, d Dialect) *Store {
	return &Store{db: db, dialect: d, repo: NewSQLRepository(db, d)}
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Record loads the record stored under key. ok is false when there is none.
func (s *Store) Record(ctx context.Context, key ...string) (rec domain.SyncRecord, ok bool, err error) {
	return load(ctx, s.repo, Key(key...))
}

// Touch records that the object under key was seen at now: last_seen is
// always moved, first_seen is only set when absent, and the object
// snapshot is replaced. initial reports whether first_seen was absent.
func (s *Store) Touch(ctx context.Context, now time.Time, object map[string]any, key ...string) (initial bool, err error) {
	k := Key(key...)
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := NewSQLRepository(tx, s.dialect)
		rec, _, err := load(ctx, repo, k)
		if err != nil {
			return err
		}
		initial = rec.Info.FirstSeen == nil
		if initial {
			rec.Info.FirstSeen = &now
		}
		rec.Info.LastSeen = &now
		rec.Object = object
		return save(ctx, repo, k, rec)
	})
	return initial, err
}

// MarkDownloaded sets downloaded_at and the content digest of the record
// under key.
func (s *Store) MarkDownloaded(ctx context.Context, now time.Time, digest string, key ...string) error {
	k := Key(key...)
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := NewSQLRepository(tx, s.dialect)
		rec, _, err := load(ctx, repo, k)
		if err != nil {
			return err
		}
		rec.Info.DownloadedAt = &now
		rec.Info.Digest = digest
		return save(ctx, repo, k, rec)
	})
}

// Summary counts the records stored for backend.
func (s *Store) Summary(ctx context.Context, backend string) (domain.Summary, error) {
	sum := domain.Summary{Backend: backend}
	pairs, err := s.repo.List(ctx, Key(backend)+"/")
	if err != nil {
		return sum, err
	}
	for k, raw := range pairs {
		parts := SplitKey(k)
		switch {
		case len(parts) == 3 && parts[2] == domain.SegSubscription:
			sum.Subscriptions++
		case len(parts) == 4 && parts[2] == domain.SegDocuments:
			sum.DocumentsSeen++
			var rec domain.SyncRecord
			if err := json.Unmarshal(raw, &rec); err != nil {
				return sum, fmt.Errorf("decode metadata[%s]: %w", k, err)
			}
			if rec.Info.DownloadedAt != nil {
				sum.DocumentsStored++
			}
		}
	}
	return sum, nil
}

func load(ctx context.Context, repo Repository, key string) (domain.SyncRecord, bool, error) {
	var rec domain.SyncRecord
	raw, err := repo.Get(ctx, key)
	if err != nil || raw == nil {
		return rec, false, err
	}
	if err := json.Unmarshal(raw, &rec); err != nil {
		return rec, false, fmt.Errorf("decode metadata[%s]: %w", key, err)
	}
	return rec, true, nil
}

func save(ctx context.Context, repo Repository, key string, rec domain.SyncRecord) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode metadata[%s]: %w", key, err)
	}
	return repo.Set(ctx, key, raw)
}
