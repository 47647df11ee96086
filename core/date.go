package core

import (
	"encoding/json"
	"fmt"
	"time"
)

// dateKind tags serialized timestamps so they can be told apart from plain
// strings when a document is read back.
const dateKind = "date"

// isoMillis keeps millisecond precision, matching what older clients wrote.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

type dateEnvelope struct {
	Kind  string `json:"$kind"`
	Value string `json:"$value"`
}

// Date is a timestamp that round-trips through the persistence codec as a
// tagged {"$kind":"date","$value":...} envelope instead of a bare string.
type Date struct {
	time.Time
}

// Now returns the current time truncated to millisecond precision, which is
// the precision the envelope format preserves.
func Now() Date {
	return NewDate(time.Now())
}

// NewDate wraps t, normalizing to UTC and millisecond precision.
func NewDate(t time.Time) Date {
	return Date{t.UTC().Truncate(time.Millisecond)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(dateEnvelope{
		Kind:  dateKind,
		Value: d.UTC().Format(isoMillis),
	})
}

func (d *Date) UnmarshalJSON(data []byte) error {
	// Documents written before the envelope format carry a bare ISO string.
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return fmt.Errorf("invalid date value %q: %w", s, err)
		}
		*d = NewDate(t)
		return nil
	}

	var env dateEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	if env.Kind != dateKind {
		return fmt.Errorf("unexpected envelope kind %q", env.Kind)
	}
	t, err := time.Parse(time.RFC3339, env.Value)
	if err != nil {
		return fmt.Errorf("invalid date value %q: %w", env.Value, err)
	}
	*d = NewDate(t)
	return nil
}
