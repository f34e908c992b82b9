package rfctime_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/opst/todofab/pkg/utils/rfctime"
)

func TestRFC3339(t *testing.T) {
	t.Run("it marshals time with offset", func(t *testing.T) {
		tm := time.Date(2026, time.October, 15, 10, 30, 0, 0, time.UTC)
		b, err := json.Marshal(rfctime.RFC3339(tm))
		if err != nil {
			t.Fatal(err)
		}
		if string(b) != `"2026-10-15T10:30:00+00:00"` {
			t.Errorf("unexpected: %s", b)
		}
	})

	for when, then := range map[string]time.Time{
		`"2026-10-15T10:30:00Z"`:          time.Date(2026, time.October, 15, 10, 30, 0, 0, time.UTC),
		`"2026-10-15T19:30:00.123+09:00"`: time.Date(2026, time.October, 15, 10, 30, 0, 123_000_000, time.UTC),
		`"2026-10-15"`:                    time.Date(2026, time.October, 15, 0, 0, 0, 0, time.UTC),
	} {
		t.Run("it unmarshals "+when, func(t *testing.T) {
			var actual rfctime.RFC3339
			if err := json.Unmarshal([]byte(when), &actual); err != nil {
				t.Fatal(err)
			}
			if !actual.Time().Equal(then) {
				t.Errorf("unmatch: (actual, expected) = (%s, %s)", actual, then)
			}
		})
	}

	t.Run("it rejects broken time", func(t *testing.T) {
		var actual rfctime.RFC3339
		if err := json.Unmarshal([]byte(`"tomorrow"`), &actual); err == nil {
			t.Error("expected error does not occur")
		}
	})

	t.Run("Ref keeps nil", func(t *testing.T) {
		if rfctime.Ref(nil) != nil {
			t.Error("Ref(nil) is not nil")
		}
		tm := time.Date(2026, time.October, 15, 0, 0, 0, 0, time.UTC)
		if r := rfctime.Ref(&tm); r == nil || !r.Time().Equal(tm) {
			t.Errorf("unexpected: %v", r)
		}
	})
}

func TestDate(t *testing.T) {
	d := rfctime.Date(time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC))
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `"2026-10-01"` {
		t.Errorf("unexpected: %s", b)
	}

	var actual rfctime.Date
	if err := json.Unmarshal(b, &actual); err != nil {
		t.Fatal(err)
	}
	if !actual.Time().Equal(d.Time()) {
		t.Errorf("unmatch: (actual, expected) = (%s, %s)", actual, d)
	}
}
