// Package timex provides a time.Duration wrapper that supports JSON
// configuration values written either as duration strings ("15m") or
// as integer nanoseconds.
package timex

import (
	"encoding/json"
	"errors"
	"time"
)

// Duration wraps a time.Duration for JSON unmarshalling.
type Duration struct {
	Duration time.Duration
}

// UnmarshalJSON accepts a quoted duration string parsed with
// time.ParseDuration, or a bare number interpreted as nanoseconds.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		d.Duration = parsed
	default:
		return errors.New("invalid duration value")
	}
	return nil
}

// MarshalJSON writes the duration in string form ("1h30m0s").
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Duration.String())
}
