package formatter

import (
	"fmt"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/billarchive/internal/domain"
)

// DefaultSlashReplacement replaces "/" in sanitized text values.
const DefaultSlashReplacement = "_slash_"

// Formatter renders templates. The zero value is not usable; call New.
type Formatter struct {
	slash string
}

// New returns a Formatter replacing "/" with slashReplacement, or with
// DefaultSlashReplacement when it is empty.
func New(slashReplacement string) *Formatter {
	if slashReplacement == "" {
		slashReplacement = DefaultSlashReplacement
	}
	return &Formatter{slash: slashReplacement}
}

// Sanitize makes a single text value safe to use as (part of) a path
// segment.
func (f *Formatter) Sanitize(s string) string {
	s = strings.ReplaceAll(s, "/", f.slash)
	if strings.HasPrefix(s, ".") {
		s = "dot_" + s[1:]
	}
	return s
}

// Format parses tmpl and renders it against positional args.
func (f *Formatter) Format(tmpl string, args ...any) (string, error) {
	return f.FormatMap(tmpl, nil, args...)
}

// FormatMap parses tmpl and renders it against named and positional args.
func (f *Formatter) FormatMap(tmpl string, named map[string]any, args ...any) (string, error) {
	t, err := Parse(tmpl)
	if err != nil {
		return "", err
	}
	return f.Execute(t, named, args...)
}

// Execute renders a parsed template. Arguments may be strings, integers,
// booleans, time.Time, domain.Value or domain.Fielder (subscriptions and
// documents).
func (f *Formatter) Execute(t *Template, named map[string]any, args ...any) (string, error) {
	return f.execute(t, t.segs, named, args)
}

// Path renders the archive path of doc with the names the sync engine
// exposes to templates: subscription, document and extension.
func (f *Formatter) Path(t *Template, sub domain.Subscription, doc domain.Document, extension string) (string, error) {
	return f.Execute(t, map[string]any{
		"subscription": sub,
		"document":     doc,
		"extension":    extension,
	})
}

// SubscriptionDir renders the leading directories of t that depend on the
// subscription only. It returns "" when the template has no such prefix.
func (f *Formatter) SubscriptionDir(t *Template, sub domain.Subscription) (string, error) {
	prefix := subscriptionPrefix(t.segs)
	if len(prefix) == 0 {
		return "", nil
	}
	dir, err := f.execute(t, prefix, map[string]any{"subscription": sub}, nil)
	if err != nil {
		return "", err
	}
	return Relative(dir), nil
}

// Relative cleans p and keeps it below the archive root: ".." elements
// cannot climb out of it and leading slashes are dropped.
func Relative(p string) string {
	return path.Clean("/" + p)[1:]
}

func subscriptionPrefix(segs []segment) []segment {
	cut := -1
	var lastLit string
	for i, s := range segs {
		if s.field != nil {
			if s.field.name != "subscription" {
				break
			}
			continue
		}
		if strings.Contains(s.literal, "/") {
			cut = i
			lastLit = s.literal
		}
	}
	if cut < 0 {
		return nil
	}
	prefix := append([]segment(nil), segs[:cut]...)
	return append(prefix, segment{literal: lastLit[:strings.LastIndexByte(lastLit, '/')+1]})
}

func (f *Formatter) execute(t *Template, segs []segment, named map[string]any, args []any) (string, error) {
	var b strings.Builder
	for _, s := range segs {
		if s.field == nil {
			b.WriteString(s.literal)
			continue
		}
		out, err := f.render(t, s.field, named, args)
		if err != nil {
			return "", err
		}
		b.WriteString(out)
	}
	return b.String(), nil
}

func (f *Formatter) render(t *Template, fd *field, named map[string]any, args []any) (string, error) {
	var raw any
	if fd.index >= 0 {
		if fd.index >= len(args) {
			return "", newError(t.src, fd.pos, "replacement index %d out of range", fd.index)
		}
		raw = args[fd.index]
	} else {
		v, ok := named[fd.name]
		if !ok {
			return "", newError(t.src, fd.pos, "unknown field %q", fd.name)
		}
		raw = v
	}

	v, obj, err := resolve(raw)
	if err != nil {
		return "", newError(t.src, fd.pos, "%v", err)
	}
	for _, attr := range fd.attrs {
		if obj == nil {
			return "", newError(t.src, fd.pos, "value has no attribute %q", attr)
		}
		got, ok := obj.Field(attr)
		if !ok {
			return "", newError(t.src, fd.pos, "unknown attribute %q", attr)
		}
		v, obj = got, nil
	}
	if obj != nil {
		// whole entities render through String and are never sanitized
		s, ok := obj.(fmt.Stringer)
		if !ok {
			return "", newError(t.src, fd.pos, "cannot render %T", obj)
		}
		v = domain.Decimal(s.String())
	}

	v = f.convert(v, fd.conv)

	out, err := applySpec(v, fd.spec)
	if err != nil {
		return "", newError(t.src, fd.pos, "%v", err)
	}
	return out, nil
}

func (f *Formatter) convert(v domain.Value, conv byte) domain.Value {
	switch conv {
	case 0:
		if s, ok := v.Text(); ok {
			return domain.Text(f.Sanitize(s))
		}
	case 'd':
		if v.IsMissing() {
			return domain.Timestamp(time.Time{})
		}
	case 's':
		if _, ok := v.Text(); !ok {
			return domain.Text(v.String())
		}
	case 'r':
		return domain.Text(strconv.Quote(v.String()))
	}
	return v
}

func resolve(raw any) (domain.Value, domain.Fielder, error) {
	switch x := raw.(type) {
	case domain.Value:
		return x, nil, nil
	case domain.Fielder:
		return domain.Value{}, x, nil
	case string:
		return domain.Text(x), nil, nil
	case bool:
		return domain.Bool(x), nil, nil
	case int:
		return domain.Int(int64(x)), nil, nil
	case int32:
		return domain.Int(int64(x)), nil, nil
	case int64:
		return domain.Int(x), nil, nil
	case uint:
		return domain.Int(int64(x)), nil, nil
	case time.Time:
		return domain.Timestamp(x), nil, nil
	case *time.Time:
		if x == nil {
			return domain.NotAvailable, nil, nil
		}
		return domain.Timestamp(*x), nil, nil
	case fmt.Stringer:
		return domain.Decimal(x.String()), nil, nil
	case nil:
		return domain.NotAvailable, nil, nil
	}
	return domain.Value{}, nil, fmt.Errorf("unsupported value of type %T", raw)
}
