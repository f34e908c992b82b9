package domain_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/opst/todofab/pkg/domain"
	domerr "github.com/opst/todofab/pkg/domain/errors"
	"github.com/opst/todofab/pkg/utils/nullable"
)

func ptr[T any](v T) *T {
	return &v
}

func TestTaskSpec(t *testing.T) {
	t.Run("WithDefaults fills status, priority and tags", func(t *testing.T) {
		actual := domain.TaskSpec{Title: "a"}.WithDefaults()
		expected := domain.TaskSpec{
			Title:    "a",
			Status:   domain.TaskToDo,
			Priority: domain.PriorityMedium,
			Tags:     []string{},
		}
		if diff := cmp.Diff(expected, actual); diff != "" {
			t.Errorf("(-want +got):\n%s", diff)
		}
	})

	for name, testcase := range map[string]struct {
		when     domain.TaskSpec
		wantsErr bool
	}{
		"valid": {
			when: domain.TaskSpec{Title: "a", Status: domain.TaskDone, Priority: domain.PriorityHigh},
		},
		"title of 255 characters": {
			when: domain.TaskSpec{Title: strings.Repeat("あ", 255), Status: domain.TaskToDo, Priority: domain.PriorityLow},
		},
		"title of 256 characters": {
			when:     domain.TaskSpec{Title: strings.Repeat("a", 256), Status: domain.TaskToDo, Priority: domain.PriorityLow},
			wantsErr: true,
		},
		"empty title": {
			when:     domain.TaskSpec{Title: "", Status: domain.TaskToDo, Priority: domain.PriorityLow},
			wantsErr: true,
		},
		"unknown status": {
			when:     domain.TaskSpec{Title: "a", Status: "Pending", Priority: domain.PriorityLow},
			wantsErr: true,
		},
		"unknown priority": {
			when:     domain.TaskSpec{Title: "a", Status: domain.TaskToDo, Priority: "urgent"},
			wantsErr: true,
		},
	} {
		t.Run("Validate: "+name, func(t *testing.T) {
			err := testcase.when.Validate()
			if testcase.wantsErr {
				if !errors.Is(err, domerr.ErrInvalidValue) {
					t.Errorf("expected ErrInvalidValue, but got %v", err)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestTaskPatch(t *testing.T) {
	due := time.Date(2026, time.October, 20, 9, 0, 0, 0, time.UTC)
	reminder := time.Date(2026, time.October, 19, 9, 0, 0, 0, time.UTC)
	base := domain.Task{
		Id:          "task-1",
		UserId:      "user-1",
		Title:       "before",
		Description: "desc",
		Status:      domain.TaskToDo,
		Priority:    domain.PriorityLow,
		Project:     "p",
		Tags:        []string{"x"},
		DueDate:     &due,
		ReminderAt:  &reminder,
	}

	t.Run("empty patch changes nothing", func(t *testing.T) {
		if diff := cmp.Diff(base, domain.TaskPatch{}.Apply(base)); diff != "" {
			t.Errorf("(-want +got):\n%s", diff)
		}
	})

	t.Run("set fields are replaced, null dates are cleared", func(t *testing.T) {
		newDue := due.Add(24 * time.Hour)
		patch := domain.TaskPatch{
			Title:      ptr("after"),
			Status:     ptr(domain.TaskDone),
			Tags:       &[]string{"y", "z"},
			DueDate:    nullable.Of(newDue),
			ReminderAt: nullable.Null[time.Time](),
			IsArchived: ptr(true),
		}
		actual := patch.Apply(base)

		expected := base
		expected.Title = "after"
		expected.Status = domain.TaskDone
		expected.Tags = []string{"y", "z"}
		expected.DueDate = &newDue
		expected.ReminderAt = nil
		expected.IsArchived = true
		if diff := cmp.Diff(expected, actual); diff != "" {
			t.Errorf("(-want +got):\n%s", diff)
		}
		if base.Title != "before" {
			t.Error("original task is modified")
		}
	})

	t.Run("Validate rejects invalid fields", func(t *testing.T) {
		if err := (domain.TaskPatch{Title: ptr("")}).Validate(); !errors.Is(err, domerr.ErrInvalidValue) {
			t.Errorf("title: unexpected error %v", err)
		}
		if err := (domain.TaskPatch{Priority: ptr(domain.TaskPriority("x"))}).Validate(); !errors.Is(err, domerr.ErrInvalidValue) {
			t.Errorf("priority: unexpected error %v", err)
		}
		if err := (domain.TaskPatch{Status: ptr(domain.TaskOnApproval)}).Validate(); err != nil {
			t.Errorf("status: unexpected error %v", err)
		}
	})
}

func TestAsArchived(t *testing.T) {
	for when, then := range map[string]domain.Archived{
		"":      domain.OnlyActive,
		"false": domain.OnlyActive,
		"true":  domain.OnlyArchived,
		"all":   domain.AnyArchived,
	} {
		actual, err := domain.AsArchived(when)
		if err != nil {
			t.Errorf("%q: unexpected error: %v", when, err)
		}
		if actual != then {
			t.Errorf("%q: expected %s, but got %s", when, then, actual)
		}
	}

	if _, err := domain.AsArchived("yes"); !errors.Is(err, domerr.ErrInvalidValue) {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestPriorityRank(t *testing.T) {
	if !(domain.PriorityLow.Rank() < domain.PriorityMedium.Rank() && domain.PriorityMedium.Rank() < domain.PriorityHigh.Rank()) {
		t.Error("priorities are not ordered")
	}
}
