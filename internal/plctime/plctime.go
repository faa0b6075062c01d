// Package plctime normalizes the PLC gateway's local-zone timestamps
// into canonical UTC instants.
package plctime

import (
	"errors"
	"fmt"
	"time"
)

// The gateway emits a fixed-width format with microsecond precision and
// no zone designator, e.g. "20240221 16:09:35.603000".
const (
	inputLayout  = "20060102 15:04:05.000000"
	outputLayout = "2006-01-02T15:04:05.000000Z"
)

var ErrMalformedTimestamp = errors.New("malformed timestamp")

// Normalizer converts gateway timestamps from its local zone to UTC.
type Normalizer struct {
	loc *time.Location
}

// NewNormalizer builds a Normalizer for a fixed UTC offset in hours
// (the PLC site zone, +9 for the reference deployment).
func NewNormalizer(utcOffsetHours int) *Normalizer {
	name := fmt.Sprintf("UTC%+d", utcOffsetHours)
	return &Normalizer{loc: time.FixedZone(name, utcOffsetHours*3600)}
}

// Normalize parses a local-zone gateway timestamp and returns the ISO-8601
// UTC form with microseconds and a literal Z suffix.
func (n *Normalizer) Normalize(ts string) (string, error) {
	t, err := time.ParseInLocation(inputLayout, ts, n.loc)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrMalformedTimestamp, ts)
	}
	return t.UTC().Format(outputLayout), nil
}
