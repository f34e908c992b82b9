package tasks

import (
	"time"

	apitasks "github.com/opst/todofab/pkg/api/types/tasks"
	"github.com/opst/todofab/pkg/domain"
	"github.com/opst/todofab/pkg/utils/nullable"
	"github.com/opst/todofab/pkg/utils/rfctime"
)

func Compose(t domain.Task) apitasks.Task {
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}
	ret := apitasks.Task{
		Id:            t.Id,
		UserId:        t.UserId,
		Title:         t.Title,
		Description:   t.Description,
		Status:        t.Status.String(),
		Priority:      t.Priority.String(),
		Project:       t.Project,
		Tags:          tags,
		DueDate:       rfctime.Ref(t.DueDate),
		ReminderAt:    rfctime.Ref(t.ReminderAt),
		IsArchived:    t.IsArchived,
		MonthlyGoalId: t.MonthlyGoalId,
		CreatedAt:     rfctime.RFC3339(t.CreatedAt),
		UpdatedAt:     rfctime.RFC3339(t.UpdatedAt),
	}
	if t.GoalDate != nil {
		d := rfctime.Date(*t.GoalDate)
		ret.GoalDate = &d
	}
	return ret
}

func timeOf(r *rfctime.RFC3339) *time.Time {
	if r == nil {
		return nil
	}
	t := r.Time()
	return &t
}

func nullableTimeOf(n nullable.Nullable[rfctime.RFC3339]) nullable.Nullable[time.Time] {
	if !n.IsSet() {
		return nullable.Absent[time.Time]()
	}
	if v := n.Value(); v != nil {
		return nullable.Of(v.Time())
	}
	return nullable.Null[time.Time]()
}

// ParseCreate converts a request into a spec of task, with defaults filled.
func ParseCreate(c apitasks.Create) (domain.TaskSpec, error) {
	spec := domain.TaskSpec{
		Title:       c.Title,
		Description: c.Description,
		Status:      domain.TaskStatus(c.Status),
		Priority:    domain.TaskPriority(c.Priority),
		Project:     c.Project,
		Tags:        c.Tags,
		DueDate:     timeOf(c.DueDate),
		ReminderAt:  timeOf(c.ReminderAt),
		IsArchived:  c.IsArchived,
	}.WithDefaults()
	if err := spec.Validate(); err != nil {
		return domain.TaskSpec{}, err
	}
	return spec, nil
}

// ParseUpdate converts a request into a patch of task.
func ParseUpdate(u apitasks.Update) (domain.TaskPatch, error) {
	patch := domain.TaskPatch{
		Title:       u.Title,
		Description: u.Description,
		Project:     u.Project,
		Tags:        u.Tags,
		DueDate:     nullableTimeOf(u.DueDate),
		ReminderAt:  nullableTimeOf(u.ReminderAt),
		IsArchived:  u.IsArchived,
	}
	if u.Status != nil {
		s := domain.TaskStatus(*u.Status)
		patch.Status = &s
	}
	if u.Priority != nil {
		p := domain.TaskPriority(*u.Priority)
		patch.Priority = &p
	}
	if err := patch.Validate(); err != nil {
		return domain.TaskPatch{}, err
	}
	return patch, nil
}

// ParseSyncedCreate converts a task in a sync "create" operation into a spec of task.
//
// Fields given as null are treated as absent.
func ParseSyncedCreate(t apitasks.SyncedTask) (domain.TaskSpec, error) {
	c := apitasks.Create{}
	if t.Title != nil {
		c.Title = *t.Title
	}
	if t.Description != nil {
		c.Description = *t.Description
	}
	if t.Status != nil {
		c.Status = *t.Status
	}
	if t.Priority != nil {
		c.Priority = *t.Priority
	}
	if t.Project != nil {
		c.Project = *t.Project
	}
	if t.Tags != nil {
		c.Tags = *t.Tags
	}
	c.DueDate = t.DueDate.Value()
	c.ReminderAt = t.ReminderAt.Value()
	if t.IsArchived != nil {
		c.IsArchived = *t.IsArchived
	}
	return ParseCreate(c)
}
