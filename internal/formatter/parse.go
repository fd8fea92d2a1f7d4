package formatter

import (
	"strconv"
	"strings"
)

// Template is a parsed file-name template. It is immutable and can be
// executed any number of times.
type Template struct {
	src  string
	segs []segment
}

type segment struct {
	literal string
	field   *field
}

type field struct {
	pos   int
	name  string // keyword name; empty for positional fields
	index int    // positional index, -1 for keyword fields
	attrs []string
	conv  byte
	spec  string
}

func (t *Template) String() string { return t.src }

// Parse checks the syntax of tmpl and returns the parsed template.
func Parse(tmpl string) (*Template, error) {
	p := parser{src: tmpl}
	if err := p.run(); err != nil {
		return nil, err
	}
	return &Template{src: tmpl, segs: p.segs}, nil
}

type parser struct {
	src     string
	segs    []segment
	lit     strings.Builder
	autoIdx int
	auto    bool
	manual  bool
}

func (p *parser) flush() {
	if p.lit.Len() > 0 {
		p.segs = append(p.segs, segment{literal: p.lit.String()})
		p.lit.Reset()
	}
}

func (p *parser) run() error {
	s := p.src
	for i := 0; i < len(s); {
		switch c := s[i]; c {
		case '{':
			if i+1 < len(s) && s[i+1] == '{' {
				p.lit.WriteByte('{')
				i += 2
				continue
			}
			f, next, err := p.field(i)
			if err != nil {
				return err
			}
			p.flush()
			p.segs = append(p.segs, segment{field: f})
			i = next
		case '}':
			if i+1 < len(s) && s[i+1] == '}' {
				p.lit.WriteByte('}')
				i += 2
				continue
			}
			return newError(s, i, "single '}' encountered")
		default:
			p.lit.WriteByte(c)
			i++
		}
	}
	p.flush()
	return nil
}

// field parses the replacement field opening at start and returns the
// offset just past its closing brace.
func (p *parser) field(start int) (*field, int, error) {
	s := p.src
	i := start + 1

	nameStart := i
	for i < len(s) && s[i] != '!' && s[i] != ':' && s[i] != '}' {
		if s[i] == '{' {
			return nil, 0, newError(s, i, "unexpected '{' in field name")
		}
		if s[i] == '[' {
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				return nil, 0, newError(s, i, "missing ']' in field name")
			}
			i += end
		}
		i++
	}
	if i >= len(s) {
		return nil, 0, newError(s, start, "expected '}' before end of string")
	}

	f := &field{pos: start, index: -1}
	if err := p.fieldName(f, s[nameStart:i]); err != nil {
		return nil, 0, err
	}

	if s[i] == '!' {
		if i+1 >= len(s) {
			return nil, 0, newError(s, i, "end of string while looking for conversion specifier")
		}
		f.conv = s[i+1]
		switch f.conv {
		case 'u', 'd', 's', 'r':
		default:
			return nil, 0, newError(s, i+1, "unknown conversion specifier %q", string(f.conv))
		}
		i += 2
		if i >= len(s) || (s[i] != ':' && s[i] != '}') {
			return nil, 0, newError(s, i, "expected ':' after conversion specifier")
		}
	}

	if s[i] == ':' {
		specStart := i + 1
		end := strings.IndexAny(s[specStart:], "{}")
		if end < 0 {
			return nil, 0, newError(s, start, "expected '}' before end of string")
		}
		if s[specStart+end] == '{' {
			return nil, 0, newError(s, specStart+end, "nested replacement fields are not supported")
		}
		f.spec = s[specStart : specStart+end]
		i = specStart + end
	}

	return f, i + 1, nil
}

func (p *parser) fieldName(f *field, name string) error {
	first := name
	rest := ""
	if cut := strings.IndexAny(name, ".["); cut >= 0 {
		first, rest = name[:cut], name[cut:]
	}

	switch {
	case first == "":
		if p.manual {
			return newError(p.src, f.pos, "cannot switch from manual field numbering to automatic")
		}
		p.auto = true
		f.index = p.autoIdx
		p.autoIdx++
	case isDigits(first):
		if p.auto {
			return newError(p.src, f.pos, "cannot switch from automatic field numbering to manual")
		}
		p.manual = true
		n, err := strconv.Atoi(first)
		if err != nil {
			return newError(p.src, f.pos, "invalid field index %q", first)
		}
		f.index = n
	default:
		f.name = first
	}

	for rest != "" {
		switch rest[0] {
		case '.':
			rest = rest[1:]
			end := strings.IndexAny(rest, ".[")
			if end < 0 {
				end = len(rest)
			}
			if end == 0 {
				return newError(p.src, f.pos, "empty attribute in field name")
			}
			f.attrs = append(f.attrs, rest[:end])
			rest = rest[end:]
		case '[':
			end := strings.IndexByte(rest, ']')
			if end <= 1 {
				return newError(p.src, f.pos, "empty attribute in field name")
			}
			f.attrs = append(f.attrs, rest[1:end])
			rest = rest[end+1:]
			if rest != "" && rest[0] != '.' && rest[0] != '[' {
				return newError(p.src, f.pos, "only '.' or '[' may follow ']' in field name")
			}
		}
	}
	return nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
