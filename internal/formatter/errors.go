package formatter

import (
	"errors"
	"fmt"
)

// ErrTemplate is matched by every TemplateError via errors.Is.
var ErrTemplate = errors.New("template error")

// TemplateError reports a malformed template or a field that cannot be
// resolved against the supplied values.
type TemplateError struct {
	Template string
	Pos      int
	Msg      string
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("template %q: %s at offset %d", e.Template, e.Msg, e.Pos)
}

func (e *TemplateError) Unwrap() error {
	return ErrTemplate
}

func newError(tmpl string, pos int, format string, args ...any) *TemplateError {
	return &TemplateError{Template: tmpl, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}
