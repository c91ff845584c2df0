package validator

import (
	"fmt"
	"strings"
	"time"
)

// DateTimeFormat is a named date/time layout shared by the DateFormat rule and
// the parser. The zero value means "not set".
type DateTimeFormat uint8

const (
	FormatUnset DateTimeFormat = iota
	Year
	YearMonth
	YearMonthDay
	YearMonthDayCompact
	DateTime
	DateTimeCompact
	Time
	TimeCompact
)

type formatSpec struct {
	name    string
	layout  string
	pattern string
}

var formatSpecs = map[DateTimeFormat]formatSpec{
	Year:                {"Year", "2006", "YYYY"},
	YearMonth:           {"YearMonth", "2006-01", "YYYY-MM"},
	YearMonthDay:        {"YearMonthDay", "2006-01-02", "YYYY-MM-DD"},
	YearMonthDayCompact: {"YearMonthDayCompact", "20060102", "YYYYMMDD"},
	DateTime:            {"DateTime", "2006-01-02 15:04:05", "YYYY-MM-DD hh:mm:ss"},
	DateTimeCompact:     {"DateTimeCompact", "20060102150405", "YYYYMMDDhhmmss"},
	Time:                {"Time", "15:04", "hh:mm"},
	TimeCompact:         {"TimeCompact", "150405", "hhmmss"},
}

// Valid reports whether f is one of the declared formats.
func (f DateTimeFormat) Valid() bool {
	_, ok := formatSpecs[f]
	return ok
}

// Layout returns the Go reference layout, or "" for an unset format.
func (f DateTimeFormat) Layout() string {
	return formatSpecs[f].layout
}

// Pattern returns a human-readable pattern such as "YYYY-MM-DD".
func (f DateTimeFormat) Pattern() string {
	return formatSpecs[f].pattern
}

func (f DateTimeFormat) String() string {
	if s, ok := formatSpecs[f]; ok {
		return s.name
	}
	return "Unset"
}

// Matches parses raw strictly: the parse must succeed and formatting the result
// must give back raw unchanged, so single-digit fields, trailing input and
// out-of-range components are all rejected.
func (f DateTimeFormat) Matches(raw string) bool {
	layout := f.Layout()
	if layout == "" || len(raw) != len(layout) {
		return false
	}
	t, err := time.Parse(layout, raw)
	if err != nil {
		return false
	}
	return t.Format(layout) == raw
}

// ParseDateTimeFormat resolves a format by name. Matching ignores case and
// underscores, so "YearMonthDay", "yearmonthday" and "year_month_day" are equal.
func ParseDateTimeFormat(name string) (DateTimeFormat, error) {
	normalized := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), "_", ""))
	for f, s := range formatSpecs {
		if strings.ToLower(s.name) == normalized {
			return f, nil
		}
	}
	return FormatUnset, fmt.Errorf("%w: unknown format %q", ErrDateTimeFormatNotSet, name)
}
