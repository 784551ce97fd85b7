// photosync ⸻ internal/timestamp/timestamp.go
// timestamp normalization into the tag-table pattern

package timestamp

import (
	"fmt"
	"time"
)

// Layout is the pattern the downstream metadata containers require:
// colon-delimited date, space, colon-delimited time, no offset.
const Layout = "2006:01:02 15:04:05"

// accepted ISO-8601 shapes from export descriptors
var isoLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

const csvLayout = "01/02/2006 15:04:05"

// ParseError reports a raw value that could not be normalized.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unparsable timestamp %q: %v", e.Raw, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Normalizer converts source timestamps into Layout, pinned to one zone so
// a whole run is deterministic. Use time.Local for real runs.
type Normalizer struct {
	Location *time.Location
}

func New(loc *time.Location) *Normalizer {
	if loc == nil {
		loc = time.Local
	}
	return &Normalizer{Location: loc}
}

// FromUTC normalizes an ISO-8601 export timestamp. The wall-clock fields
// are reinterpreted as a UTC instant even when the source carries an
// offset, then converted to the normalizer's zone. Sources without an
// offset are assumed UTC; users far from UTC get timestamps off by their
// offset from the author's original zone. Known approximation, kept for
// compatibility with previously exported data.
func (n *Normalizer) FromUTC(raw string) (string, error) {
	var parsed time.Time
	var err error
	for _, layout := range isoLayouts {
		parsed, err = time.Parse(layout, raw)
		if err == nil {
			break
		}
	}
	if err != nil {
		return "", &ParseError{Raw: raw, Err: err}
	}

	y, mo, d := parsed.Date()
	h, mi, s := parsed.Clock()
	utc := time.Date(y, mo, d, h, mi, s, 0, time.UTC)

	return utc.In(n.Location).Format(Layout), nil
}

// FromCSVDate composes a MM/DD/YYYY scan date with a fixed noon
// time-of-day and reformats it. No zone conversion: scanned photos carry
// no instant, only a wall date.
func (n *Normalizer) FromCSVDate(raw string) (string, error) {
	parsed, err := time.Parse(csvLayout, raw+" 12:00:00")
	if err != nil {
		return "", &ParseError{Raw: raw, Err: err}
	}
	return parsed.Format(Layout), nil
}

// Validate checks a value that should already be in Layout
// (scanned-photo descriptors carry them pre-normalized).
func Validate(raw string) error {
	if _, err := time.Parse(Layout, raw); err != nil {
		return &ParseError{Raw: raw, Err: err}
	}
	return nil
}
