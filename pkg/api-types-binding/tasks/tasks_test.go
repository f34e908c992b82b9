package tasks_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	bindtasks "github.com/opst/todofab/pkg/api-types-binding/tasks"
	apitasks "github.com/opst/todofab/pkg/api/types/tasks"
	"github.com/opst/todofab/pkg/domain"
	domerr "github.com/opst/todofab/pkg/domain/errors"
	"github.com/opst/todofab/pkg/utils/pointer"
	"github.com/opst/todofab/pkg/utils/rfctime"
	"github.com/opst/todofab/pkg/utils/try"
)

func TestCompose(t *testing.T) {
	due := time.Date(2026, time.October, 15, 9, 0, 0, 0, time.UTC)
	goalDate := time.Date(2026, time.October, 15, 0, 0, 0, 0, time.UTC)
	created := time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC)

	actual := bindtasks.Compose(domain.Task{
		Id: "task-1", UserId: "user-1",
		Title: "run", Status: domain.TaskDone, Priority: domain.PriorityHigh,
		Project: domain.GoalTaskProject, Tags: nil,
		DueDate: &due, MonthlyGoalId: pointer.Ref("goal-1"), GoalDate: &goalDate,
		CreatedAt: created, UpdatedAt: created,
	})

	b := try.To(json.Marshal(actual)).OrFatal(t)
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatal(err)
	}

	expected := map[string]any{
		"id": "task-1", "userId": "user-1",
		"title": "run", "description": "",
		"status": "Done", "priority": "high",
		"project": "Monthly Goals", "tags": []any{},
		"dueDate": "2026-10-15T09:00:00+00:00", "reminderAt": nil,
		"isArchived": false, "monthlyGoalId": "goal-1", "goalDate": "2026-10-15",
		"createdAt": "2026-10-01T00:00:00+00:00", "updatedAt": "2026-10-01T00:00:00+00:00",
	}
	if diff := cmp.Diff(expected, m); diff != "" {
		t.Errorf("(-expected, +actual)\n%s", diff)
	}
}

func TestParseCreate(t *testing.T) {
	t.Run("it fills defaults", func(t *testing.T) {
		actual := try.To(bindtasks.ParseCreate(apitasks.Create{Title: "write report"})).OrFatal(t)
		expected := domain.TaskSpec{
			Title: "write report", Status: domain.TaskToDo, Priority: domain.PriorityMedium, Tags: []string{},
		}
		if diff := cmp.Diff(expected, actual); diff != "" {
			t.Errorf("(-expected, +actual)\n%s", diff)
		}
	})

	for name, when := range map[string]apitasks.Create{
		"missing title":    {},
		"unknown status":   {Title: "x", Status: "Someday"},
		"unknown priority": {Title: "x", Priority: "urgent"},
	} {
		t.Run("it rejects "+name, func(t *testing.T) {
			_, err := bindtasks.ParseCreate(when)
			if !errors.Is(err, domerr.ErrInvalidValue) {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestParseUpdate(t *testing.T) {
	due := time.Date(2026, time.October, 20, 0, 0, 0, 0, time.UTC)
	for name, testcase := range map[string]struct {
		when string
		then func(*testing.T, domain.TaskPatch)
	}{
		"absent dueDate is left unchanged": {
			when: `{"title": "new title"}`,
			then: func(t *testing.T, p domain.TaskPatch) {
				if p.Title == nil || *p.Title != "new title" {
					t.Errorf("title: %v", p.Title)
				}
				if p.DueDate.IsSet() {
					t.Error("dueDate is set")
				}
			},
		},
		"null dueDate clears": {
			when: `{"dueDate": null}`,
			then: func(t *testing.T, p domain.TaskPatch) {
				if !p.DueDate.IsSet() || p.DueDate.Value() != nil {
					t.Errorf("dueDate is not null: %v", p.DueDate.Value())
				}
			},
		},
		"dueDate with date": {
			when: `{"dueDate": "2026-10-20", "status": "In progress"}`,
			then: func(t *testing.T, p domain.TaskPatch) {
				if v := p.DueDate.Value(); v == nil || !v.Equal(due) {
					t.Errorf("dueDate: %v", v)
				}
				if p.Status == nil || *p.Status != domain.TaskInProgress {
					t.Errorf("status: %v", p.Status)
				}
			},
		},
	} {
		t.Run(name, func(t *testing.T) {
			var u apitasks.Update
			if err := json.Unmarshal([]byte(testcase.when), &u); err != nil {
				t.Fatal(err)
			}
			testcase.then(t, try.To(bindtasks.ParseUpdate(u)).OrFatal(t))
		})
	}

	t.Run("it rejects invalid status", func(t *testing.T) {
		_, err := bindtasks.ParseUpdate(apitasks.Update{Status: pointer.Ref("Later")})
		if !errors.Is(err, domerr.ErrInvalidValue) {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestParseSyncedCreate(t *testing.T) {
	var synced apitasks.SyncedTask
	if err := json.Unmarshal([]byte(
		`{"id": "ignored", "title": "offline task", "priority": "low", "dueDate": "2026-10-20T10:00:00Z", "reminderAt": null}`,
	), &synced); err != nil {
		t.Fatal(err)
	}

	actual := try.To(bindtasks.ParseSyncedCreate(synced)).OrFatal(t)
	due := rfctime.RFC3339(time.Date(2026, time.October, 20, 10, 0, 0, 0, time.UTC))
	if actual.Title != "offline task" || actual.Priority != domain.PriorityLow || actual.Status != domain.TaskToDo {
		t.Errorf("unexpected: %+v", actual)
	}
	if actual.DueDate == nil || !actual.DueDate.Equal(due.Time()) {
		t.Errorf("dueDate: %v", actual.DueDate)
	}
	if actual.ReminderAt != nil {
		t.Errorf("reminderAt: %v", actual.ReminderAt)
	}
	if synced.Id != "ignored" {
		t.Errorf("id: %s", synced.Id)
	}
}
