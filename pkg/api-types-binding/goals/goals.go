package goals

import (
	"fmt"
	"time"

	apigoals "github.com/opst/todofab/pkg/api/types/goals"
	bindtasks "github.com/opst/todofab/pkg/api-types-binding/tasks"
	"github.com/opst/todofab/pkg/domain"
	domerr "github.com/opst/todofab/pkg/domain/errors"
	"github.com/opst/todofab/pkg/utils"
	"github.com/opst/todofab/pkg/utils/rfctime"
)

func ComposeRepeatConfig(rc domain.RepeatConfig) apigoals.RepeatConfig {
	return apigoals.RepeatConfig{
		Weekdays:        utils.Map(rc.Weekdays, func(w time.Weekday) int { return int(w) }),
		IncludeWeekends: rc.IncludeWeekends,
	}
}

func Compose(g domain.MonthlyGoal) apigoals.Goal {
	stats := apigoals.Stats{
		CompletedDays:  g.Stats.CompletedDays,
		TotalDays:      g.Stats.TotalDays,
		CompletionRate: g.Stats.CompletionRate,
	}
	if !g.Stats.LastStatsUpdate.IsZero() {
		stats.LastStatsUpdate = rfctime.Ref(&g.Stats.LastStatsUpdate)
	}
	return apigoals.Goal{
		Id:           g.Id,
		UserId:       g.UserId,
		Title:        g.Title,
		Description:  g.Description,
		DailyTime:    g.DailyTime.String(),
		StartDate:    rfctime.Date(g.StartDate),
		EndDate:      rfctime.Date(g.EndDate),
		Timezone:     g.Timezone,
		Status:       g.Status.String(),
		RepeatConfig: ComposeRepeatConfig(g.Repeat),
		Stats:        stats,
		CreatedAt:    rfctime.RFC3339(g.CreatedAt),
		UpdatedAt:    rfctime.RFC3339(g.UpdatedAt),
	}
}

func ComposeDetail(g domain.MonthlyGoal, tasks []domain.Task) apigoals.Detail {
	return apigoals.Detail{
		Goal:  Compose(g),
		Tasks: utils.Map(tasks, bindtasks.Compose),
		Progress: apigoals.Progress{
			Completed: g.Stats.CompletedDays,
			Total:     g.Stats.TotalDays,
			Rate:      g.Stats.CompletionRate,
		},
	}
}

func ComposeReport(r domain.GoalReport) apigoals.Report {
	return apigoals.Report{
		Month:       int(r.Month),
		Year:        r.Year,
		TotalGoals:  len(r.Goals),
		ActiveGoals: r.ActiveGoals(),
		TotalTasks:  r.CompletedTasks,
		Goals: utils.Map(r.Goals, func(g domain.MonthlyGoal) apigoals.ReportEntry {
			return apigoals.ReportEntry{
				Id:             g.Id,
				Title:          g.Title,
				CompletedDays:  g.Stats.CompletedDays,
				TotalDays:      g.Stats.TotalDays,
				CompletionRate: g.Stats.CompletionRate,
				Status:         g.Status.String(),
			}
		}),
	}
}

func parseWeekdays(ws []int) ([]time.Weekday, error) {
	ret := make([]time.Weekday, 0, len(ws))
	for _, w := range ws {
		if w < int(time.Sunday) || int(time.Saturday) < w {
			return nil, fmt.Errorf("%w: weekdays must be between 0 (Sunday) and 6 (Saturday): %d", domerr.ErrInvalidValue, w)
		}
		ret = append(ret, time.Weekday(w))
	}
	return ret, nil
}

// ParseRepeatConfig fills absent fields with the default (Monday to Friday, without weekends).
func ParseRepeatConfig(rc *apigoals.RepeatConfigUpdate) (domain.RepeatConfig, error) {
	ret := domain.DefaultRepeatConfig()
	if rc == nil {
		return ret, nil
	}
	if rc.Weekdays != nil {
		ws, err := parseWeekdays(*rc.Weekdays)
		if err != nil {
			return domain.RepeatConfig{}, err
		}
		ret.Weekdays = ws
	}
	if rc.IncludeWeekends != nil {
		ret.IncludeWeekends = *rc.IncludeWeekends
	}
	return ret, nil
}

func ParseCreate(userId string, c apigoals.Create) (domain.GoalSpec, error) {
	dt, err := domain.ParseDailyTime(c.DailyTime)
	if err != nil {
		return domain.GoalSpec{}, err
	}
	rc, err := ParseRepeatConfig(c.RepeatConfig)
	if err != nil {
		return domain.GoalSpec{}, err
	}
	spec := domain.GoalSpec{
		UserId:      userId,
		Title:       c.Title,
		Description: c.Description,
		DailyTime:   dt,
		Timezone:    c.Timezone,
		Repeat:      rc,
	}
	if err := spec.Validate(); err != nil {
		return domain.GoalSpec{}, err
	}
	return spec, nil
}

// ParseUpdate converts a request into a patch of goal.
//
// Absent fields in repeatConfig are taken from current.
func ParseUpdate(current domain.MonthlyGoal, u apigoals.Update) (domain.GoalPatch, error) {
	patch := domain.GoalPatch{
		Title:       u.Title,
		Description: u.Description,
		Timezone:    u.Timezone,
	}
	if u.DailyTime != nil {
		dt, err := domain.ParseDailyTime(*u.DailyTime)
		if err != nil {
			return domain.GoalPatch{}, err
		}
		patch.DailyTime = &dt
	}
	if u.RepeatConfig != nil {
		rc := domain.RepeatConfig{
			Weekdays:        append([]time.Weekday{}, current.Repeat.Weekdays...),
			IncludeWeekends: current.Repeat.IncludeWeekends,
		}
		if u.RepeatConfig.Weekdays != nil {
			ws, err := parseWeekdays(*u.RepeatConfig.Weekdays)
			if err != nil {
				return domain.GoalPatch{}, err
			}
			rc.Weekdays = ws
		}
		if u.RepeatConfig.IncludeWeekends != nil {
			rc.IncludeWeekends = *u.RepeatConfig.IncludeWeekends
		}
		patch.Repeat = &rc
	}
	if u.Status != nil {
		st, err := domain.AsGoalStatus(*u.Status)
		if err != nil {
			return domain.GoalPatch{}, err
		}
		patch.Status = &st
	}
	if err := patch.Validate(); err != nil {
		return domain.GoalPatch{}, err
	}
	return patch, nil
}
