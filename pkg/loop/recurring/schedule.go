package recurring

import (
	"fmt"
	"strings"
	"time"

	"github.com/opst/todofab/pkg/loop"
)

// Schedule is a Policy waiting for wall-clock slots.
type Schedule interface {
	Policy

	// Following returns the first slot strictly after now, in UTC.
	Following(now time.Time) time.Time
}

type scheduleKind int

const (
	hourly scheduleKind = iota
	daily
	weekly
)

type schedule struct {
	kind    scheduleKind
	weekday time.Weekday
	hour    int
	minute  int
}

// Hourly runs at the minute of every hour.
func Hourly(minute int) Schedule {
	return schedule{kind: hourly, minute: minute}
}

// Daily runs at hour:minute (UTC) of every day.
func Daily(hour, minute int) Schedule {
	return schedule{kind: daily, hour: hour, minute: minute}
}

// Weekly runs at hour:minute (UTC) of the day of every week.
func Weekly(day time.Weekday, hour, minute int) Schedule {
	return schedule{kind: weekly, weekday: day, hour: hour, minute: minute}
}

func (s schedule) String() string {
	switch s.kind {
	case hourly:
		return fmt.Sprintf("hourly:%02d", s.minute)
	case weekly:
		return fmt.Sprintf(
			"weekly:%s:%02d:%02d",
			strings.ToLower(s.weekday.String()[:3]), s.hour, s.minute,
		)
	default:
		return fmt.Sprintf("daily:%02d:%02d", s.hour, s.minute)
	}
}

// Next continues immediately while updated.
// Otherwise, it waits until the following slot.
func (s schedule) Next(updated bool, _ error) loop.Next {
	if updated {
		return loop.Continue(0)
	}
	now := time.Now()
	return loop.Continue(s.Following(now).Sub(now))
}

func (s schedule) Following(now time.Time) time.Time {
	now = now.UTC()
	switch s.kind {
	case hourly:
		t := now.Truncate(time.Hour).Add(time.Duration(s.minute) * time.Minute)
		if !t.After(now) {
			t = t.Add(time.Hour)
		}
		return t
	case weekly:
		t := time.Date(now.Year(), now.Month(), now.Day(), s.hour, s.minute, 0, 0, time.UTC)
		t = t.AddDate(0, 0, (int(s.weekday)-int(now.Weekday())+7)%7)
		if !t.After(now) {
			t = t.AddDate(0, 0, 7)
		}
		return t
	default:
		t := time.Date(now.Year(), now.Month(), now.Day(), s.hour, s.minute, 0, 0, time.UTC)
		if !t.After(now) {
			t = t.AddDate(0, 0, 1)
		}
		return t
	}
}
