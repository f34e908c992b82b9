package domain

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"time"
	_ "time/tzdata"

	domerr "github.com/opst/todofab/pkg/domain/errors"
)

type GoalStatus string

const (
	GoalActive    GoalStatus = "active"
	GoalPaused    GoalStatus = "paused"
	GoalCompleted GoalStatus = "completed"
	GoalCancelled GoalStatus = "cancelled"
)

func (s GoalStatus) String() string {
	return string(s)
}

func AsGoalStatus(s string) (GoalStatus, error) {
	switch st := GoalStatus(s); st {
	case GoalActive, GoalPaused, GoalCompleted, GoalCancelled:
		return st, nil
	}
	return "", fmt.Errorf(
		`%w: goal status should be one of "active", "paused", "completed" or "cancelled": %q`,
		domerr.ErrInvalidValue, s,
	)
}

var dailyTimePattern = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):([0-5][0-9])$`)

// DailyTime is a time of day, in minutes precision.
type DailyTime struct {
	Hour   int
	Minute int
}

// ParseDailyTime parses "HH:MM" (leading zero of hour is optional).
func ParseDailyTime(s string) (DailyTime, error) {
	m := dailyTimePattern.FindStringSubmatch(s)
	if m == nil {
		return DailyTime{}, fmt.Errorf("%w: daily time must be in HH:MM format: %q", domerr.ErrInvalidValue, s)
	}
	h, _ := strconv.Atoi(m[1])
	min, _ := strconv.Atoi(m[2])
	return DailyTime{Hour: h, Minute: min}, nil
}

func (dt DailyTime) String() string {
	return fmt.Sprintf("%02d:%02d", dt.Hour, dt.Minute)
}

// RepeatConfig tells which days a goal is due.
type RepeatConfig struct {
	// Days of the week. Empty means every day.
	Weekdays []time.Weekday

	IncludeWeekends bool
}

// DefaultRepeatConfig is from Monday to Friday.
func DefaultRepeatConfig() RepeatConfig {
	return RepeatConfig{
		Weekdays: []time.Weekday{
			time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday,
		},
		IncludeWeekends: false,
	}
}

func (rc RepeatConfig) Validate() error {
	for _, w := range rc.Weekdays {
		if w < time.Sunday || time.Saturday < w {
			return fmt.Errorf("%w: weekdays must be between 0 (Sunday) and 6 (Saturday): %d", domerr.ErrInvalidValue, w)
		}
	}
	return nil
}

// Permits returns true if the repeat config allows the weekday.
func (rc RepeatConfig) Permits(w time.Weekday) bool {
	if !rc.IncludeWeekends && (w == time.Saturday || w == time.Sunday) {
		return false
	}
	if len(rc.Weekdays) != 0 && !slices.Contains(rc.Weekdays, w) {
		return false
	}
	return true
}

type GoalStats struct {
	CompletedDays   int
	TotalDays       int
	CompletionRate  int
	LastStatsUpdate time.Time
}

// CompletionRate is a percentage of completed in total, rounded half up.
//
// When total is 0, it returns 0.
func CompletionRate(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return (200*completed + total) / (2 * total)
}

type MonthlyGoal struct {
	Id     string
	UserId string

	Title       string
	Description string
	DailyTime   DailyTime

	// first day of the month. Only the date part is meaningful.
	StartDate time.Time

	// last day of the month. Only the date part is meaningful.
	EndDate time.Time

	// IANA timezone name. Days of the goal are counted in this timezone.
	Timezone string

	Status GoalStatus
	Repeat RepeatConfig
	Stats  GoalStats

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Location returns the timezone of the goal. It falls back to UTC for unknown names.
func (g MonthlyGoal) Location() *time.Location {
	loc, err := LoadTimezone(g.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Today returns the date of now in the timezone of the goal.
func (g MonthlyGoal) Today(now time.Time) time.Time {
	return DateOf(now.In(g.Location()))
}

// IsDueOn returns true if the goal should have a task on the date.
//
// A goal is due when it is active, the date is in [StartDate, EndDate],
// and the weekday of the date is permitted by repeat config.
func (g MonthlyGoal) IsDueOn(date time.Time) bool {
	if g.Status != GoalActive {
		return false
	}
	d := DateOf(date)
	if d.Before(DateOf(g.StartDate)) || d.After(DateOf(g.EndDate)) {
		return false
	}
	return g.Repeat.Permits(d.Weekday())
}

// DueAt returns the deadline of the task for the date: the daily time of the date in the timezone of the goal.
func (g MonthlyGoal) DueAt(date time.Time) time.Time {
	return time.Date(
		date.Year(), date.Month(), date.Day(),
		g.DailyTime.Hour, g.DailyTime.Minute, 0, 0,
		g.Location(),
	)
}

// TaskFor returns a spec of the task for the date.
func (g MonthlyGoal) TaskFor(date time.Time) GoalTaskSpec {
	d := DateOf(date)
	return GoalTaskSpec{
		UserId:        g.UserId,
		MonthlyGoalId: g.Id,
		GoalDate:      d,
		Title:         g.Title,
		Description:   g.Description,
		DueDate:       g.DueAt(d),
	}
}

// DateOf drops time part of t, as it is seen in t's location.
//
// The result is midnight in UTC.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// MonthOf returns the first and the last day of the month where t is in, as seen in t's location.
func MonthOf(t time.Time) (first time.Time, last time.Time) {
	return Month(t.Year(), t.Month())
}

// Month returns the first and the last day of the month.
func Month(year int, month time.Month) (first time.Time, last time.Time) {
	first = time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last = first.AddDate(0, 1, -1)
	return first, last
}

func LoadTimezone(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown timezone %q: %w", domerr.ErrInvalidValue, name, err)
	}
	return loc, nil
}

// GoalSpec is a content of a new monthly goal.
type GoalSpec struct {
	UserId      string
	Title       string
	Description string
	DailyTime   DailyTime
	Timezone    string
	Repeat      RepeatConfig
}

func (s GoalSpec) Validate() error {
	_, tzErr := LoadTimezone(s.Timezone)
	return errors.Join(
		ValidateTitle(s.Title),
		s.Repeat.Validate(),
		tzErr,
	)
}

// Materialize creates the goal for the month where now is in (in the goal's timezone).
func (s GoalSpec) Materialize(now time.Time) MonthlyGoal {
	tz := s.Timezone
	if tz == "" {
		tz = "UTC"
	}
	g := MonthlyGoal{
		UserId:      s.UserId,
		Title:       s.Title,
		Description: s.Description,
		DailyTime:   s.DailyTime,
		Timezone:    tz,
		Status:      GoalActive,
		Repeat:      s.Repeat,
	}
	g.StartDate, g.EndDate = MonthOf(now.In(g.Location()))
	return g
}

// GoalPatch is a partial update of a monthly goal. Nil fields are left unchanged.
type GoalPatch struct {
	Title       *string
	Description *string
	DailyTime   *DailyTime
	Timezone    *string
	Repeat      *RepeatConfig
	Status      *GoalStatus
}

func (p GoalPatch) Validate() error {
	errs := []error{}
	if p.Title != nil {
		errs = append(errs, ValidateTitle(*p.Title))
	}
	if p.Timezone != nil {
		_, err := LoadTimezone(*p.Timezone)
		errs = append(errs, err)
	}
	if p.Repeat != nil {
		errs = append(errs, p.Repeat.Validate())
	}
	if p.Status != nil {
		_, err := AsGoalStatus(string(*p.Status))
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (p GoalPatch) Apply(g MonthlyGoal) MonthlyGoal {
	if p.Title != nil {
		g.Title = *p.Title
	}
	if p.Description != nil {
		g.Description = *p.Description
	}
	if p.DailyTime != nil {
		g.DailyTime = *p.DailyTime
	}
	if p.Timezone != nil {
		g.Timezone = *p.Timezone
	}
	if p.Repeat != nil {
		g.Repeat = RepeatConfig{
			Weekdays:        append([]time.Weekday{}, p.Repeat.Weekdays...),
			IncludeWeekends: p.Repeat.IncludeWeekends,
		}
	}
	if p.Status != nil {
		g.Status = *p.Status
	}
	return g
}

type GoalFindQuery struct {
	UserId string

	// empty matches all.
	Status []GoalStatus

	// when both are set, goals overlapping with [Since, Until] (dates) are matched.
	Since *time.Time
	Until *time.Time
}

// GoalReport is a progress report of goals in a month.
type GoalReport struct {
	Year  int
	Month time.Month

	Goals []MonthlyGoal

	// count of Done tasks generated by the goals in the month.
	CompletedTasks int
}

func (r GoalReport) ActiveGoals() int {
	n := 0
	for _, g := range r.Goals {
		if g.Status == GoalActive {
			n += 1
		}
	}
	return n
}
