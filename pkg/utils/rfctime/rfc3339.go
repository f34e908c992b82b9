package rfctime

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Format string for date-time in RFC3339, disallowing Z as time-offset.
//
// Use it to stringify time.Time forcing timezone offset not to use "Z".
const RFC3339DateTimeFormat string = "2006-01-02T15:04:05.999-07:00"

// Format string for date-time in RFC3339, allowing Z as time-offset.
//
// Use it to parse RFC3339 date-time expression.
const RFC3339DateTimeFormatZ string = time.RFC3339Nano

// Format string for full-date in RFC3339.
const RFC3339DateFormat string = "2006-01-02"

// date-time in https://www.ietf.org/rfc/rfc3339.txt .
// this is known as a subset of ISO8601 extended format.
//
// This type is useful to interchange timestamps via network/file.
type RFC3339 time.Time

func (rfctime RFC3339) Time() time.Time {
	return time.Time(rfctime)
}

func (rfctime *RFC3339) Equal(other *RFC3339) bool {
	if (rfctime == nil) != (other == nil) {
		return false
	}
	return rfctime == nil || rfctime.Time().Equal(other.Time())
}

// get string expression.
//
// It formatted by RFC3339DateTimeFormat.
func (t RFC3339) String() string {
	return time.Time(t).Format(RFC3339DateTimeFormat)
}

// Parse string to RFC3339 time.
//
// Full-date without time ("2026-10-15") is also accepted, as midnight in UTC.
func ParseRFC3339DateTime(s string) (RFC3339, error) {
	if t, err := time.Parse(RFC3339DateTimeFormatZ, s); err == nil {
		return RFC3339(t), nil
	}
	t, err := time.Parse(RFC3339DateFormat, s)
	if err != nil {
		return *new(RFC3339), fmt.Errorf("%q is neither date-time nor date in RFC3339", s)
	}
	return RFC3339(t), nil
}

// Ref returns pointer of RFC3339 of t, or nil for nil.
func Ref(t *time.Time) *RFC3339 {
	if t == nil {
		return nil
	}
	r := RFC3339(*t)
	return &r
}

// implement encoding/json.Marshaller
func (t RFC3339) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf(`"%s"`, t)), nil
}

// implement encoding/json.Unmarshaller
func (t *RFC3339) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	ret, err := ParseRFC3339DateTime(s)
	if err != nil {
		return err
	}

	*t = ret
	return nil
}

// full-date in RFC3339, like "2026-10-15".
//
// Only the date part of the time is meaningful.
type Date time.Time

func (d Date) Time() time.Time {
	return time.Time(d)
}

func (d Date) String() string {
	return time.Time(d).Format(RFC3339DateFormat)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf(`"%s"`, d)), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	t, err := time.Parse(RFC3339DateFormat, s)
	if err != nil {
		return err
	}
	*d = Date(t)
	return nil
}
