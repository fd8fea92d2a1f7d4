package syncer

import (
	"mime"
	"path"

	"github.com/gabriel-vasile/mimetype"
)

// checkMIME compares the media type sniffed from data with the one implied
// by the extension of name. The sniffed type matches when it or one of its
// parents does, so CSV content is accepted for a .txt name. Names whose
// extension maps to no known media type never match.
func checkMIME(name string, data []byte) (ok bool, expected, detected string) {
	m := mimetype.Detect(data)
	detected = m.String()

	expected = mime.TypeByExtension(path.Ext(name))
	if expected == "" {
		return false, "", detected
	}
	if mt, _, err := mime.ParseMediaType(expected); err == nil {
		expected = mt
	}
	for t := m; t != nil; t = t.Parent() {
		if t.Is(expected) {
			return true, expected, detected
		}
	}
	return false, expected, detected
}
