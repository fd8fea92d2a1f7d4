package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/billarchive/internal/domain"
)

func applySpec(v domain.Value, spec string) (string, error) {
	if spec == "" {
		return v.String(), nil
	}
	if t, ok := v.Time(); ok {
		return strftime(t, spec)
	}
	if v.IsMissing() {
		return "", fmt.Errorf("format spec %q applied to %s value", spec, strings.ToLower(v.String()))
	}

	ps, err := parseStdSpec(spec)
	if err != nil {
		return "", err
	}

	var body string
	numeric := false
	switch ps.verb {
	case 'd':
		n, ok := v.Int()
		if !ok {
			return "", fmt.Errorf("format spec %q requires an integer value", spec)
		}
		body = strconv.FormatInt(n, 10)
		numeric = true
	default:
		if n, ok := v.Int(); ok && ps.verb == 0 {
			body = strconv.FormatInt(n, 10)
			numeric = true
		} else {
			body = v.String()
		}
		if ps.precision >= 0 {
			if numeric {
				return "", fmt.Errorf("precision not allowed in integer format spec %q", spec)
			}
			body = truncate(body, ps.precision)
		}
	}
	return ps.pad(body, numeric), nil
}

type stdSpec struct {
	fill      rune
	align     byte
	zero      bool
	width     int
	precision int
	verb      byte
}

// parseStdSpec parses [[fill]align][0][width][.precision][type].
func parseStdSpec(spec string) (stdSpec, error) {
	ps := stdSpec{fill: ' ', precision: -1}
	rest := spec

	if r, size := utf8.DecodeRuneInString(rest); size < len(rest) && isAlign(rest[size]) {
		ps.fill, ps.align = r, rest[size]
		rest = rest[size+1:]
	} else if rest != "" && isAlign(rest[0]) {
		ps.align = rest[0]
		rest = rest[1:]
	}

	if strings.HasPrefix(rest, "0") {
		ps.zero = true
		rest = rest[1:]
	}

	n := leadingDigits(rest)
	if n > 0 {
		ps.width, _ = strconv.Atoi(rest[:n])
		rest = rest[n:]
	}

	if strings.HasPrefix(rest, ".") {
		rest = rest[1:]
		n = leadingDigits(rest)
		if n == 0 {
			return ps, fmt.Errorf("format spec %q: missing precision", spec)
		}
		ps.precision, _ = strconv.Atoi(rest[:n])
		rest = rest[n:]
	}

	switch rest {
	case "":
	case "s", "d":
		ps.verb = rest[0]
	default:
		return ps, fmt.Errorf("invalid format spec %q", spec)
	}
	return ps, nil
}

func (ps stdSpec) pad(body string, numeric bool) string {
	n := utf8.RuneCountInString(body)
	if n >= ps.width {
		return body
	}
	fill := ps.fill
	align := ps.align
	if ps.zero && align == 0 {
		fill, align = '0', '='
	}
	if align == 0 {
		align = '<'
		if numeric {
			align = '>'
		}
	}
	gap := ps.width - n
	f := string(fill)
	switch align {
	case '>':
		return strings.Repeat(f, gap) + body
	case '^':
		left := gap / 2
		return strings.Repeat(f, left) + body + strings.Repeat(f, gap-left)
	case '=':
		if numeric && strings.HasPrefix(body, "-") {
			return "-" + strings.Repeat(f, gap) + body[1:]
		}
		return strings.Repeat(f, gap) + body
	default:
		return body + strings.Repeat(f, gap)
	}
}

func isAlign(c byte) bool {
	return c == '<' || c == '>' || c == '^' || c == '='
}

func leadingDigits(s string) int {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return i
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
