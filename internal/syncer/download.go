package syncer

import (
	"context"
	"fmt"
	"path"
	"path/filepath"

	"github.com/dmitrijs2005/billarchive/internal/cryptox"
	"github.com/dmitrijs2005/billarchive/internal/domain"
	"github.com/dmitrijs2005/billarchive/internal/filex"
	"github.com/dmitrijs2005/billarchive/internal/formatter"
	"github.com/dmitrijs2005/billarchive/internal/metrics"
)

// document records doc as seen and fetches it unless one of the skip
// conditions applies.
func (p *pass) document(ctx context.Context, sub domain.Subscription, doc domain.Document) error {
	name := p.backend.Name()
	key := domain.DocumentKey(name, sub.ID, doc.ID)
	log := p.logger.With("subscription", sub.ID, "document", doc.ID)

	if _, err := p.engine.store.Touch(ctx, p.engine.now(), doc.Snapshot(), key...); err != nil {
		return err
	}

	if !p.settings.Accepts(doc.Type) {
		log.Info(ctx, "document has no accepted type, no download", "type", doc.Type)
		p.observe(metrics.OutcomeRejectedType)
		return nil
	}

	rel, err := p.settings.Formatter.Path(p.settings.Template, sub, doc, doc.Format)
	if err != nil {
		return err
	}
	rel = formatter.Relative(rel)
	full := filepath.Join(p.settings.Root, filepath.FromSlash(rel))
	log = log.With("path", full)

	if dir := path.Dir(rel); dir != "." {
		if err := p.fs.MkdirAll(dir, 0o770); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	if !doc.HasFile {
		log.Info(ctx, "document has no file, no download")
		p.observe(metrics.OutcomeNoFile)
		return nil
	}

	exists, err := filex.Exists(p.fs, rel)
	if err != nil {
		return err
	}
	if exists {
		log.Info(ctx, "file already exists, no download")
		p.observe(metrics.OutcomeExists)
		return nil
	}

	log.Info(ctx, "downloading")
	data, err := p.backend.Download(ctx, doc)
	if err != nil {
		return fmt.Errorf("download %s: %w", doc.ID, err)
	}
	if len(data) == 0 {
		log.Warn(ctx, "backend returned no data")
		p.observe(metrics.OutcomeEmpty)
		return nil
	}

	if ok, expected, detected := checkMIME(rel, data); !ok {
		log.Warn(ctx, "unexpected MIME type, considering corrupt download", "expected", expected, "detected", detected)
		p.observe(metrics.OutcomeMIMEMismatch)
		return nil
	}

	if err := filex.WriteFile(p.fs, rel, data, 0o644); err != nil {
		return err
	}
	if err := filex.MakeReadOnly(p.fs, rel); err != nil {
		log.Warn(ctx, "could not set file as read-only", "error", err)
	}

	fmt.Fprintf(p.engine.out, "Downloaded %s\n", full)
	p.observe(metrics.OutcomeDownloaded)

	// a written file always gets downloaded_at, even when ctx is cancelled
	return p.engine.store.MarkDownloaded(context.WithoutCancel(ctx), p.engine.now(), cryptox.Digest(data), key...)
}

func (p *pass) observe(outcome string) {
	if p.engine.metrics != nil {
		p.engine.metrics.ObserveDocument(p.backend.Name(), outcome)
	}
}
