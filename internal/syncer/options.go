package syncer

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dmitrijs2005/billarchive/internal/common"
	"github.com/dmitrijs2005/billarchive/internal/formatter"
	"github.com/dmitrijs2005/billarchive/internal/threshold"
)

// DefaultFilename is the template used when no "filename" option is set.
const DefaultFilename = "{subscription.id}/{document.id}.{extension}"

// Option names read by the engine.
const (
	OptFilename            = "filename"
	OptSlashReplacement    = "slash_character_replacement"
	OptAcceptedTypes       = "accepted_types"
	OptDownloadWhenListing = "download_when_listing"
	OptSyncUntil           = "sync_until"
	OptInitialSyncUntil    = "initial_sync_until"
)

// OptionSource resolves configuration for one backend. Option looks the
// name up in the backend section, then globally; ok is false when neither
// sets it.
type OptionSource interface {
	Option(backend, name string) (value string, ok bool)
	RootDir(backend string) (string, error)
}

// Settings are the options of one backend, checked up front so that
// configuration mistakes abort the pass before anything is written.
type Settings struct {
	Root                string
	Template            *formatter.Template
	Formatter           *formatter.Formatter
	AcceptedTypes       []string
	DownloadWhenListing bool
	SyncUntil           string
	InitialSyncUntil    string
}

func ResolveSettings(src OptionSource, backend string) (Settings, error) {
	var s Settings
	var err error

	if s.Root, err = src.RootDir(backend); err != nil {
		return s, fmt.Errorf("output directory: %w", err)
	}

	tmpl := DefaultFilename
	if v, ok := src.Option(backend, OptFilename); ok && v != "" {
		tmpl = v
	}
	if s.Template, err = formatter.Parse(tmpl); err != nil {
		return s, err
	}

	slash, _ := src.Option(backend, OptSlashReplacement)
	s.Formatter = formatter.New(slash)

	if v, ok := src.Option(backend, OptAcceptedTypes); ok {
		s.AcceptedTypes = strings.Fields(strings.ToLower(v))
	}

	if v, ok := src.Option(backend, OptDownloadWhenListing); ok {
		if s.DownloadWhenListing, err = common.ParseBool(v); err != nil {
			return s, fmt.Errorf("option %s: %w", OptDownloadWhenListing, err)
		}
	}

	s.SyncUntil, _ = src.Option(backend, OptSyncUntil)
	s.InitialSyncUntil, _ = src.Option(backend, OptInitialSyncUntil)
	return s, nil
}

// Accepts reports whether documents of type docType may be downloaded.
func (s Settings) Accepts(docType string) bool {
	if len(s.AcceptedTypes) == 0 {
		return true
	}
	return slices.Contains(s.AcceptedTypes, strings.ToLower(docType))
}

// Cutoff returns the oldest document date to keep listing for, and the
// expression it was computed from. Unset or unparseable expressions give
// the zero time, which keeps everything.
func (s Settings) Cutoff(initial bool, now time.Time) (time.Time, string, bool) {
	expr := s.SyncUntil
	if initial {
		expr = s.InitialSyncUntil
	}
	if expr == "" {
		return time.Time{}, "", true
	}
	t, ok := threshold.ParseAt(expr, now)
	if !ok {
		return time.Time{}, expr, false
	}
	return t, expr, true
}
