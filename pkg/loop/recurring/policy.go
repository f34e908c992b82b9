package recurring

import (
	"fmt"
	"strings"
	"time"

	"github.com/opst/todofab/pkg/loop"
)

const policySyntax = "forever[:COOLDOWN]|backlog|daily:HH:MM|hourly:MM|weekly:DOW:HH:MM"

// ParsePolicy parses policy notation.
//
// - "forever[:COOLDOWN]": run forever. When backlog is over, wait COOLDOWN (default: 0).
//
// - "backlog": run until backlog is over.
//
// - "daily:HH:MM", "hourly:MM", "weekly:DOW:HH:MM": run until backlog is over,
// then wait for the next slot of the schedule (in UTC). DOW is like "sun", "mon", ... .
func ParsePolicy(s string) (Policy, error) {
	typ, param, ok := strings.Cut(s, ":")
	switch typ {
	case "forever":
		if !ok || param == "" {
			return Forever(0), nil
		}

		period, err := time.ParseDuration(param)
		if err != nil {
			return nil, fmt.Errorf(`failed to parse: %s as "forever:COOLDOWN": %w`, s, err)
		}
		return Forever(period), nil
	case "backlog":
		if ok {
			return nil, fmt.Errorf("backlog policy does not take paramters: %s", s)
		}
		return Backlog(), nil
	case "daily":
		h, m, err := parseClock(param)
		if err != nil {
			return nil, fmt.Errorf(`failed to parse: %s as "daily:HH:MM": %w`, s, err)
		}
		return Daily(h, m), nil
	case "hourly":
		m, err := parseRange(param, 0, 59)
		if err != nil {
			return nil, fmt.Errorf(`failed to parse: %s as "hourly:MM": %w`, s, err)
		}
		return Hourly(m), nil
	case "weekly":
		dow, clock, _ := strings.Cut(param, ":")
		w, err := parseWeekday(dow)
		if err != nil {
			return nil, fmt.Errorf(`failed to parse: %s as "weekly:DOW:HH:MM": %w`, s, err)
		}
		h, m, err := parseClock(clock)
		if err != nil {
			return nil, fmt.Errorf(`failed to parse: %s as "weekly:DOW:HH:MM": %w`, s, err)
		}
		return Weekly(w, h, m), nil
	}
	return nil, fmt.Errorf("unknown policy name: %s (should be one of -- %s)", typ, policySyntax)
}

// Policy for loop task behavior.
// How the policy behaves depends on the implementation of Next() method.
type Policy interface {
	Next(updated bool, err error) loop.Next
	String() string
}

// Restart immediately while there are things to do.
// Otherwise, restart after interval.
func Forever(intervalWaitingBacklog time.Duration) Policy {
	return forever(intervalWaitingBacklog)
}

type forever time.Duration

func (f forever) String() string {
	return fmt.Sprintf("forever:%s", time.Duration(f).String())
}

func (f forever) Next(updated bool, err error) loop.Next {
	if updated {
		return loop.Continue(0)
	}
	return loop.Continue(time.Duration(f))
}

// Restart immediately while there are things to do.
// Otherwise, Break(nil).
func Backlog() Policy {
	return backlog
}

type backlogPolicy struct{}

func (backlogPolicy) String() string {
	return "backlog"
}

func (backlogPolicy) Next(updated bool, err error) loop.Next {
	if updated {
		return loop.Continue(0)
	}
	return loop.Break(nil)
}

var backlog = backlogPolicy{}

// add a provisory clause: In case of error, Break with that error.
func UntilError(p Policy) Policy {
	return untilError{base: p}
}

type untilError struct {
	base Policy
}

func (u untilError) String() string {
	return fmt.Sprintf("%s (until error)", u.base.String())
}

func (u untilError) Next(updated bool, err error) loop.Next {
	if err != nil {
		return loop.Break(err)
	}
	return u.base.Next(updated, err)
}

func parseClock(s string) (hour int, minute int, err error) {
	hh, mm, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, fmt.Errorf("time should be HH:MM: %q", s)
	}
	if hour, err = parseRange(hh, 0, 23); err != nil {
		return 0, 0, err
	}
	if minute, err = parseRange(mm, 0, 59); err != nil {
		return 0, 0, err
	}
	return hour, minute, nil
}

func parseRange(s string, lo, hi int) (int, error) {
	if s == "" || 2 < len(s) {
		return 0, fmt.Errorf("%q is not a number in %d..%d", s, lo, hi)
	}
	n := 0
	for _, c := range s {
		if c < '0' || '9' < c {
			return 0, fmt.Errorf("%q is not a number in %d..%d", s, lo, hi)
		}
		n = n*10 + int(c-'0')
	}
	if n < lo || hi < n {
		return 0, fmt.Errorf("%q is not a number in %d..%d", s, lo, hi)
	}
	return n, nil
}

func parseWeekday(s string) (time.Weekday, error) {
	name := strings.ToLower(s)
	for w := time.Sunday; w <= time.Saturday; w++ {
		full := strings.ToLower(w.String())
		if name == full || name == full[:3] {
			return w, nil
		}
	}
	return 0, fmt.Errorf("unknown day of week: %q", s)
}
