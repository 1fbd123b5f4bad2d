package util

import (
	"strconv"
	"time"
)

var layouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// ParseTime tries RFC3339 variants, a space-separated UTC layout and unix
// seconds. The result is always UTC.
func ParseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
		return time.Unix(ts, 0).UTC(), true
	}
	return time.Time{}, false
}

// ParseRFC3339 accepts only RFC3339 timestamps, with or without fractional
// seconds. The result is always UTC.
func ParseRFC3339(s string) (time.Time, bool) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}

// ParseTimeDefault parses time or returns default if empty/invalid.
func ParseTimeDefault(s string, def time.Time) time.Time {
	if t, ok := ParseTime(s); ok {
		return t
	}
	return def
}

// BucketStart returns the start of the epoch-aligned bucket of width step
// containing t. Unlike time.Truncate it is defined for times before 1970.
func BucketStart(t time.Time, step time.Duration) time.Time {
	if step <= 0 {
		return t
	}
	s := int64(step / time.Second)
	if s <= 0 {
		return t.Truncate(step)
	}
	unix := t.Unix()
	b := unix / s
	if unix%s < 0 {
		b--
	}
	return time.Unix(b*s, 0).UTC()
}
