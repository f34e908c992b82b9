package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/opst/todofab/pkg/conn/db/postgres/pool/testenv"
	"github.com/opst/todofab/pkg/domain"
	domerr "github.com/opst/todofab/pkg/domain/errors"
	kpggoal "github.com/opst/todofab/pkg/domain/goal/db/postgres"
	kpgtask "github.com/opst/todofab/pkg/domain/task/db/postgres"
	kpguser "github.com/opst/todofab/pkg/domain/user/db/postgres"
	"github.com/opst/todofab/pkg/utils/try"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestGoal(t *testing.T) {
	ctx := context.Background()
	broaker := testenv.NewPoolBroaker(ctx, t)

	october := func(userId string, title string) domain.MonthlyGoal {
		return domain.MonthlyGoal{
			UserId:    userId,
			Title:     title,
			DailyTime: domain.DailyTime{Hour: 21, Minute: 30},
			StartDate: date(2026, time.October, 1),
			EndDate:   date(2026, time.October, 31),
			Timezone:  "Asia/Tokyo",
			Status:    domain.GoalActive,
			Repeat:    domain.DefaultRepeatConfig(),
		}
	}

	t.Run("Create, Get, Find and Update", func(t *testing.T) {
		pool := broaker.GetPool(ctx, t)
		testee := kpggoal.New(pool)
		users := kpguser.New(pool)
		u := try.To(users.Register(ctx, domain.UserSpec{Email: "a@example.com", PasswordHash: "h"})).OrFatal(t)
		other := try.To(users.Register(ctx, domain.UserSpec{Email: "b@example.com", PasswordHash: "h"})).OrFatal(t)

		first := try.To(testee.Create(ctx, october(u.Id, "first"))).OrFatal(t)
		if first.Id == "" || first.DailyTime.String() != "21:30" || len(first.Repeat.Weekdays) != 5 {
			t.Errorf("unexpected goal: %+v", first)
		}
		if !first.StartDate.Equal(date(2026, time.October, 1)) || !first.EndDate.Equal(date(2026, time.October, 31)) {
			t.Errorf("unexpected window: %s - %s", first.StartDate, first.EndDate)
		}

		paused := october(u.Id, "second")
		paused.Status = domain.GoalPaused
		second := try.To(testee.Create(ctx, paused)).OrFatal(t)

		november := october(u.Id, "november")
		november.StartDate = date(2026, time.November, 1)
		november.EndDate = date(2026, time.November, 30)
		try.To(testee.Create(ctx, november)).OrFatal(t)

		if _, err := testee.Get(ctx, other.Id, first.Id); !errors.Is(err, domerr.ErrMissing) {
			t.Errorf("goal of another user should be missing: %v", err)
		}

		all := try.To(testee.Find(ctx, domain.GoalFindQuery{UserId: u.Id})).OrFatal(t)
		if len(all) != 3 || all[0].Title != "november" {
			t.Errorf("goals should be newest first: %+v", all)
		}

		since, until := domain.Month(2026, time.October)
		inOctober := try.To(testee.Find(ctx, domain.GoalFindQuery{UserId: u.Id, Since: &since, Until: &until})).OrFatal(t)
		if len(inOctober) != 2 {
			t.Errorf("unexpected goals in october: %+v", inOctober)
		}

		pausedOnly := try.To(testee.Find(ctx, domain.GoalFindQuery{UserId: u.Id, Status: []domain.GoalStatus{domain.GoalPaused}})).OrFatal(t)
		if len(pausedOnly) != 1 || pausedOnly[0].Id != second.Id {
			t.Errorf("unexpected paused goals: %+v", pausedOnly)
		}

		title := "renamed"
		repeat := domain.RepeatConfig{Weekdays: []time.Weekday{}, IncludeWeekends: true}
		updated := try.To(testee.Update(ctx, u.Id, first.Id, domain.GoalPatch{Title: &title, Repeat: &repeat})).OrFatal(t)
		if updated.Title != "renamed" || !updated.Repeat.IncludeWeekends || len(updated.Repeat.Weekdays) != 0 {
			t.Errorf("unexpected goal: %+v", updated)
		}

		active := try.To(testee.Active(ctx)).OrFatal(t)
		if len(active) != 2 {
			t.Errorf("unexpected active goals: %+v", active)
		}
	})

	t.Run("GenerateTask is idempotent, and RefreshStats counts tasks of the month", func(t *testing.T) {
		pool := broaker.GetPool(ctx, t)
		testee := kpggoal.New(pool)
		tasks := kpgtask.New(pool)
		u := try.To(kpguser.New(pool).Register(ctx, domain.UserSpec{Email: "a@example.com", PasswordHash: "h"})).OrFatal(t)
		g := try.To(testee.Create(ctx, october(u.Id, "daily"))).OrFatal(t)

		for _, d := range []int{1, 2, 5} {
			created := try.To(testee.GenerateTask(ctx, g.TaskFor(date(2026, time.October, d)))).OrFatal(t)
			if !created {
				t.Errorf("task of day %d should be created", d)
			}
		}
		if again := try.To(testee.GenerateTask(ctx, g.TaskFor(date(2026, time.October, 1)))).OrFatal(t); again {
			t.Error("task of the same day should not be created twice")
		}

		generated, total := try.To2(tasks.Find(ctx, domain.TaskFindQuery{UserId: u.Id, MonthlyGoalId: &g.Id})).OrFatal(t)
		if total != 3 {
			t.Fatalf("expected 3 tasks, but %d", total)
		}
		first := generated[0]
		if first.Project != domain.GoalTaskProject || first.Status != domain.TaskToDo || len(first.Tags) != 2 {
			t.Errorf("unexpected generated task: %+v", first)
		}
		if first.GoalDate == nil || !first.GoalDate.Equal(date(2026, time.October, 1)) {
			t.Errorf("unexpected goal date: %v", first.GoalDate)
		}
		// 21:30 in Tokyo is 12:30 in UTC
		if first.DueDate == nil || !first.DueDate.Equal(time.Date(2026, time.October, 1, 12, 30, 0, 0, time.UTC)) {
			t.Errorf("unexpected due date: %v", first.DueDate)
		}

		done := domain.TaskDone
		try.To(tasks.Update(ctx, u.Id, first.Id, domain.TaskPatch{Status: &done})).OrFatal(t)

		now := time.Date(2026, time.October, 10, 0, 0, 0, 0, time.UTC)
		stats := try.To(testee.RefreshStats(ctx, g.Id, now)).OrFatal(t)
		if stats.TotalDays != 3 || stats.CompletedDays != 1 || stats.CompletionRate != 33 {
			t.Errorf("unexpected stats: %+v", stats)
		}
		// repeating gives the same result
		stats = try.To(testee.RefreshStats(ctx, g.Id, now)).OrFatal(t)
		if stats.TotalDays != 3 || stats.CompletedDays != 1 || !stats.LastStatsUpdate.Equal(now) {
			t.Errorf("unexpected stats: %+v", stats)
		}

		reloaded := try.To(testee.Get(ctx, u.Id, g.Id)).OrFatal(t)
		if reloaded.Stats.CompletionRate != 33 {
			t.Errorf("stats are not stored: %+v", reloaded.Stats)
		}

		// next month in Tokyo: tasks of the goal's own month are still counted
		nextMonth := time.Date(2026, time.October, 31, 16, 0, 0, 0, time.UTC)
		stats = try.To(testee.RefreshStats(ctx, g.Id, nextMonth)).OrFatal(t)
		if stats.TotalDays != 3 || stats.CompletedDays != 1 || stats.CompletionRate != 33 {
			t.Errorf("unexpected stats: %+v", stats)
		}
		if !stats.LastStatsUpdate.Equal(nextMonth) {
			t.Errorf("unexpected last update: %v", stats.LastStatsUpdate)
		}

		if n := try.To(testee.CountDoneTasks(ctx, u.Id, date(2026, time.October, 1), date(2026, time.October, 31))).OrFatal(t); n != 1 {
			t.Errorf("unexpected count of done tasks: %d", n)
		}

		if _, err := testee.RefreshStats(ctx, "00000000-0000-0000-0000-000000000000", now); !errors.Is(err, domerr.ErrMissing) {
			t.Errorf("expected ErrMissing, but got %v", err)
		}
	})

	t.Run("SetStatus, PurgeTasks and Delete", func(t *testing.T) {
		pool := broaker.GetPool(ctx, t)
		testee := kpggoal.New(pool)
		tasks := kpgtask.New(pool)
		u := try.To(kpguser.New(pool).Register(ctx, domain.UserSpec{Email: "a@example.com", PasswordHash: "h"})).OrFatal(t)
		g := try.To(testee.Create(ctx, october(u.Id, "daily"))).OrFatal(t)

		try.To(testee.GenerateTask(ctx, g.TaskFor(date(2026, time.October, 1)))).OrFatal(t)
		try.To(testee.GenerateTask(ctx, g.TaskFor(date(2026, time.October, 2)))).OrFatal(t)
		plain := try.To(tasks.Create(ctx, u.Id, domain.TaskSpec{Title: "plain", Status: domain.TaskDone})).OrFatal(t)

		generated, _ := try.To2(tasks.Find(ctx, domain.TaskFindQuery{UserId: u.Id, MonthlyGoalId: &g.Id})).OrFatal(t)
		done := domain.TaskDone
		try.To(tasks.Update(ctx, u.Id, generated[0].Id, domain.TaskPatch{Status: &done})).OrFatal(t)

		if n := try.To(testee.PurgeTasks(ctx, time.Now().Add(-time.Hour))).OrFatal(t); n != 0 {
			t.Errorf("recent tasks should not be purged: %d", n)
		}
		if n := try.To(testee.PurgeTasks(ctx, time.Now().Add(time.Hour))).OrFatal(t); n != 1 {
			t.Errorf("done goal task should be purged: %d", n)
		}
		if _, err := tasks.Get(ctx, u.Id, plain.Id); err != nil {
			t.Errorf("plain task should be kept: %v", err)
		}

		if err := testee.SetStatus(ctx, g.Id, domain.GoalCompleted); err != nil {
			t.Fatal(err)
		}
		if s := try.To(testee.Get(ctx, u.Id, g.Id)).OrFatal(t).Status; s != domain.GoalCompleted {
			t.Errorf("unexpected status: %s", s)
		}

		if err := testee.Delete(ctx, u.Id, g.Id); err != nil {
			t.Fatal(err)
		}
		if _, total := try.To2(tasks.Find(ctx, domain.TaskFindQuery{UserId: u.Id, Archived: domain.AnyArchived})).OrFatal(t); total != 1 {
			t.Errorf("tasks of the goal should be deleted: %d remains", total)
		}
		if err := testee.Delete(ctx, u.Id, g.Id); !errors.Is(err, domerr.ErrMissing) {
			t.Errorf("expected ErrMissing, but got %v", err)
		}
	})
}
