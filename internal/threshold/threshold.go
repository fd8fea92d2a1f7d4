// Package threshold turns sync cutoff expressions such as "30 days" or
// "2023-01-15" into points in time.
package threshold

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

var durationRe = regexp.MustCompile(`^(\d+) (day|month|year)s?$`)

// Parse evaluates text relative to the current time.
func Parse(text string) (time.Time, bool) {
	return ParseAt(text, time.Now())
}

// ParseAt evaluates text relative to now. Relative durations are counted
// back from midnight of now's day; month and year steps land on the last
// day of the target month when the day does not exist there. Absolute
// dates are parsed in now's location. ok is false when text is empty or
// matches neither form.
func ParseAt(text string, now time.Time) (t time.Time, ok bool) {
	if text == "" {
		return time.Time{}, false
	}
	if m := durationRe.FindStringSubmatch(text); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return time.Time{}, false
		}
		return back(now, n, m[2]), true
	}
	return absolute(strings.TrimSpace(text), now.Location())
}

func back(now time.Time, n int, unit string) time.Time {
	y, mo, d := now.Date()
	loc := now.Location()
	switch unit {
	case "day":
		return time.Date(y, mo, d-n, 0, 0, 0, 0, loc)
	case "month":
		return clipped(y, int(mo)-n, d, loc)
	default:
		return clipped(y-n, int(mo), d, loc)
	}
}

// clipped builds the date y-m-d, clamping d to the length of the month.
func clipped(y, m, d int, loc *time.Location) time.Time {
	first := time.Date(y, time.Month(m), 1, 0, 0, 0, 0, loc)
	if last := first.AddDate(0, 1, -1).Day(); d > last {
		d = last
	}
	return first.AddDate(0, 0, d-1)
}

func absolute(text string, loc *time.Location) (t time.Time, ok bool) {
	if text == "" {
		return time.Time{}, false
	}
	defer func() {
		if recover() != nil {
			t, ok = time.Time{}, false
		}
	}()
	t, err := dateparse.ParseIn(text, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
