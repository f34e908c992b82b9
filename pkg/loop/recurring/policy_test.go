package recurring_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/opst/todofab/pkg/loop"
	"github.com/opst/todofab/pkg/loop/recurring"
)

func TestParsePolicy(t *testing.T) {
	for name, testcase := range map[string]struct {
		when        string
		then        recurring.Policy
		expectError bool
	}{
		"forever means forever": {
			when: "forever",
			then: recurring.Forever(0),
		},
		"forever:3s means forever with cooldown 3 seconds": {
			when: "forever:3s",
			then: recurring.Forever(3 * time.Second),
		},
		"forever:someday can not be parsed (someday is not time.Duration)": {
			when:        "forever:someday",
			expectError: true,
		},
		"backlog means backlog": {
			when: "backlog",
			then: recurring.Backlog(),
		},
		"backlog:param can not be parsed (it should not take any parameters)": {
			when:        "backlog:param",
			expectError: true,
		},
		"daily:00:01 runs at 00:01 every day": {
			when: "daily:00:01",
			then: recurring.Daily(0, 1),
		},
		"daily:7:30 accepts an hour without leading zero": {
			when: "daily:7:30",
			then: recurring.Daily(7, 30),
		},
		"daily:24:00 can not be parsed (hour is out of range)": {
			when:        "daily:24:00",
			expectError: true,
		},
		"daily without time can not be parsed": {
			when:        "daily",
			expectError: true,
		},
		"hourly:00 runs at the top of every hour": {
			when: "hourly:00",
			then: recurring.Hourly(0),
		},
		"hourly:60 can not be parsed (minute is out of range)": {
			when:        "hourly:60",
			expectError: true,
		},
		"weekly:sun:02:00 runs on every sunday": {
			when: "weekly:sun:02:00",
			then: recurring.Weekly(time.Sunday, 2, 0),
		},
		"weekly:Monday:09:15 accepts full name of the day": {
			when: "weekly:Monday:09:15",
			then: recurring.Weekly(time.Monday, 9, 15),
		},
		"weekly:someday:02:00 can not be parsed": {
			when:        "weekly:someday:02:00",
			expectError: true,
		},
		"empty string can not be parsed (it is not policy)": {
			when:        "",
			expectError: true,
		},
		"unknown policy can not be parsed": {
			when:        "???????unknown??????",
			expectError: true,
		},
	} {
		t.Run(name, func(t *testing.T) {
			when, expected := testcase.when, testcase.then
			actual, err := recurring.ParsePolicy(when)

			if testcase.expectError {
				if err == nil {
					t.Fatal("expected error does not occured")
				}
				return
			}

			if err != nil {
				t.Fatal(err)
			}

			if actual != expected {
				t.Errorf("unmatch: (actual, expected) = (%v, %v)", actual, expected)
			}
		})
	}
}

func TestPolicy_String(t *testing.T) {
	for _, notation := range []string{
		"forever:0s", "forever:3s", "backlog",
		"daily:00:01", "hourly:05", "weekly:sun:02:00",
	} {
		t.Run(notation, func(t *testing.T) {
			p, err := recurring.ParsePolicy(notation)
			if err != nil {
				t.Fatal(err)
			}
			if p.String() != notation {
				t.Errorf("unmatch: (actual, expected) = (%s, %s)", p.String(), notation)
			}
		})
	}
}

func TestSchedule_Following(t *testing.T) {
	// 2026-10-15 is Thursday.
	now := time.Date(2026, time.October, 15, 10, 30, 0, 0, time.UTC)

	for name, testcase := range map[string]struct {
		when recurring.Schedule
		now  time.Time
		then time.Time
	}{
		"hourly, later in the same hour": {
			when: recurring.Hourly(45),
			now:  now,
			then: time.Date(2026, time.October, 15, 10, 45, 0, 0, time.UTC),
		},
		"hourly, passed in the hour": {
			when: recurring.Hourly(0),
			now:  now,
			then: time.Date(2026, time.October, 15, 11, 0, 0, 0, time.UTC),
		},
		"hourly, exactly on the slot goes to the next hour": {
			when: recurring.Hourly(30),
			now:  now,
			then: time.Date(2026, time.October, 15, 11, 30, 0, 0, time.UTC),
		},
		"daily, later today": {
			when: recurring.Daily(23, 0),
			now:  now,
			then: time.Date(2026, time.October, 15, 23, 0, 0, 0, time.UTC),
		},
		"daily, passed today": {
			when: recurring.Daily(0, 1),
			now:  now,
			then: time.Date(2026, time.October, 16, 0, 1, 0, 0, time.UTC),
		},
		"daily, across the end of month": {
			when: recurring.Daily(0, 1),
			now:  time.Date(2026, time.October, 31, 12, 0, 0, 0, time.UTC),
			then: time.Date(2026, time.November, 1, 0, 1, 0, 0, time.UTC),
		},
		"weekly, later in the week": {
			when: recurring.Weekly(time.Sunday, 2, 0),
			now:  now,
			then: time.Date(2026, time.October, 18, 2, 0, 0, 0, time.UTC),
		},
		"weekly, later today": {
			when: recurring.Weekly(time.Thursday, 12, 0),
			now:  now,
			then: time.Date(2026, time.October, 15, 12, 0, 0, 0, time.UTC),
		},
		"weekly, passed today": {
			when: recurring.Weekly(time.Thursday, 9, 0),
			now:  now,
			then: time.Date(2026, time.October, 22, 9, 0, 0, 0, time.UTC),
		},
		"now in other timezone is seen in UTC": {
			when: recurring.Daily(0, 1),
			// 2026-10-16 09:00 in Tokyo = 2026-10-16 00:00 UTC
			now:  time.Date(2026, time.October, 16, 9, 0, 0, 0, time.FixedZone("JST", 9*60*60)),
			then: time.Date(2026, time.October, 16, 0, 1, 0, 0, time.UTC),
		},
	} {
		t.Run(name, func(t *testing.T) {
			actual := testcase.when.Following(testcase.now)
			if !actual.Equal(testcase.then) {
				t.Errorf("unmatch: (actual, expected) = (%s, %s)", actual, testcase.then)
			}
		})
	}
}

func TestPolicy_Next(t *testing.T) {
	t.Run("forever continues immediately while updated, or after cooldown", func(t *testing.T) {
		p := recurring.Forever(3 * time.Second)
		if got := p.Next(true, nil); got != loop.Continue(0) {
			t.Errorf("updated: %s", got)
		}
		if got := p.Next(false, nil); got != loop.Continue(3*time.Second) {
			t.Errorf("not updated: %s", got)
		}
	})

	t.Run("backlog breaks when not updated", func(t *testing.T) {
		p := recurring.Backlog()
		if got := p.Next(true, nil); got != loop.Continue(0) {
			t.Errorf("updated: %s", got)
		}
		if got := p.Next(false, nil); got != loop.Break(nil) {
			t.Errorf("not updated: %s", got)
		}
	})

	t.Run("schedule waits until the next slot when not updated", func(t *testing.T) {
		p := recurring.Hourly(0)
		before := time.Now()
		got := p.Next(false, nil)
		if got.IsBreak() {
			t.Fatalf("it breaks: %s", got)
		}
		if got.Interval() <= 0 || time.Hour < got.Interval() {
			t.Errorf("interval is out of (0, 1h]: %s", got.Interval())
		}
		expected := p.Following(before)
		if d := before.Add(got.Interval()).Sub(expected); d < -time.Second || time.Second < d {
			t.Errorf("interval does not reach the following slot: %s (slot: %s)", got.Interval(), expected)
		}
		if got := p.Next(true, nil); got != loop.Continue(0) {
			t.Errorf("updated: %s", got)
		}
	})

	t.Run("UntilError breaks with error", func(t *testing.T) {
		expectedErr := errors.New("fake error")
		p := recurring.UntilError(recurring.Forever(0))
		got := p.Next(true, expectedErr)
		if !got.IsBreak() || !errors.Is(got.Err(), expectedErr) {
			t.Errorf("it does not break with error: %s", got)
		}
		if got := p.Next(true, nil); got != loop.Continue(0) {
			t.Errorf("without error: %s", got)
		}
	})

	t.Run("Applied task is driven by the policy", func(t *testing.T) {
		task := recurring.Task[int](func(_ context.Context, v int) (int, bool, error) {
			return v + 1, v+1 < 5, nil
		})

		actual, err := loop.Start(context.Background(), 0, task.Applied(recurring.Backlog()))
		if err != nil {
			t.Fatal(err)
		}
		if actual != 5 {
			t.Errorf("unmatch: (actual, expected) = (%d, %d)", actual, 5)
		}
	})
}
