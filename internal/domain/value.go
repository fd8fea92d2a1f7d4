package domain

import (
	"fmt"
	"strconv"
	"time"
)

type Kind int

const (
	KindText Kind = iota
	KindInt
	KindBool
	KindDecimal
	KindDate
	KindTime
	KindNotLoaded
	KindNotAvailable
)

// Value is a tagged attribute value.
type Value struct {
	kind Kind
	text string
	num  int64
	b    bool
	t    time.Time
}

var (
	NotLoaded    = Value{kind: KindNotLoaded}
	NotAvailable = Value{kind: KindNotAvailable}
)

func Text(s string) Value { return Value{kind: KindText, text: s} }
func Int(n int64) Value { return Value{kind: KindInt, num: n} }
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }
func Decimal(s string) Value { return Value{kind: KindDecimal, text: s} }
func Date(t time.Time) Value { return Value{kind: KindDate, t: t} }
func Timestamp(t time.Time) Value { return Value{kind: KindTime, t: t} }

func (v Value) Kind() Kind { return v.kind }

// IsMissing reports whether v is one of the NotLoaded/NotAvailable markers.
func (v Value) IsMissing() bool {
	return v.kind == KindNotLoaded || v.kind == KindNotAvailable
}

// Text returns the raw string of a text value.
func (v Value) Text() (string, bool) {
	if v.kind != KindText {
		return "", false
	}
	return v.text, true
}

func (v Value) Int() (int64, bool) {
	if v.kind != KindInt {
		return 0, false
	}
	return v.num, true
}

// Time returns the point in time held by a date or timestamp value.
func (v Value) Time() (time.Time, bool) {
	if v.kind != KindDate && v.kind != KindTime {
		return time.Time{}, false
	}
	return v.t, true
}

// String renders v the way it appears in a file name when no format spec
// is given.
func (v Value) String() string {
	switch v.kind {
	case KindText, KindDecimal:
		return v.text
	case KindInt:
		return strconv.FormatInt(v.num, 10)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindDate:
		return v.t.Format(time.DateOnly)
	case KindTime:
		if v.t.Nanosecond() != 0 {
			return v.t.Format("2006-01-02 15:04:05.000000")
		}
		return v.t.Format(time.DateTime)
	case KindNotLoaded:
		return "Not loaded"
	case KindNotAvailable:
		return "Not available"
	default:
		return fmt.Sprintf("Value(%d)", int(v.kind))
	}
}

// Fielder is implemented by entities whose attributes can be looked up by
// name. ok is false when the entity has no such attribute at all.
type Fielder interface {
	Field(name string) (v Value, ok bool)
}

func textOrMissing(s string) Value {
	if s == "" {
		return NotAvailable
	}
	return Text(s)
}

func decimalOrMissing(s string) Value {
	if s == "" {
		return NotAvailable
	}
	return Decimal(s)
}

func dateOrMissing(t *time.Time) Value {
	if t == nil || t.IsZero() {
		return NotAvailable
	}
	return Date(*t)
}

func extraField(extra map[string]string, name string) (Value, bool) {
	s, ok := extra[name]
	if !ok {
		return Value{}, false
	}
	if s == "" {
		return NotLoaded, true
	}
	return Text(s), true
}
