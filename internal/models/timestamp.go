package models

import (
	"fmt"
	"strings"
	"time"
)

// timeLayout is the marketplace timestamp format: ISO-like, no zone, no
// fractional seconds.
const timeLayout = "2006-01-02T15:04:05"

// Timestamp wraps time.Time to round-trip the marketplace format through
// JSON. Fractional seconds in the input are dropped on parse.
type Timestamp struct {
	time.Time
}

func ParseTimestamp(s string) (Timestamp, error) {
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return Timestamp{}, fmt.Errorf("could not parse timestamp %q: %w", s, err)
	}
	return Timestamp{Time: t}, nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.Format(timeLayout) + `"`), nil
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		return nil
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	t.Time = parsed.Time
	return nil
}

func (t Timestamp) String() string {
	return t.Format(timeLayout)
}
