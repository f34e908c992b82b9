package domain

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	domerr "github.com/opst/todofab/pkg/domain/errors"
	"github.com/opst/todofab/pkg/utils/nullable"
)

type TaskStatus string

const (
	TaskToDo       TaskStatus = "To do"
	TaskInProgress TaskStatus = "In progress"
	TaskOnApproval TaskStatus = "On approval"
	TaskDone       TaskStatus = "Done"
)

func (s TaskStatus) String() string {
	return string(s)
}

func AsTaskStatus(s string) (TaskStatus, error) {
	switch st := TaskStatus(s); st {
	case TaskToDo, TaskInProgress, TaskOnApproval, TaskDone:
		return st, nil
	}
	return "", fmt.Errorf(
		`%w: task status should be one of "To do", "In progress", "On approval" or "Done": %q`,
		domerr.ErrInvalidValue, s,
	)
}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

func (p TaskPriority) String() string {
	return string(p)
}

// Rank orders priorities. Higher priority has bigger rank.
func (p TaskPriority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

func AsTaskPriority(s string) (TaskPriority, error) {
	switch p := TaskPriority(s); p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return p, nil
	}
	return "", fmt.Errorf(
		`%w: task priority should be one of "low", "medium" or "high": %q`,
		domerr.ErrInvalidValue, s,
	)
}

const MaxTitleLength = 255

// project name for tasks generated by monthly goals.
const GoalTaskProject = "Monthly Goals"

// tags for tasks generated by monthly goals.
func GoalTaskTags() []string {
	return []string{"monthly-goal", "recurring"}
}

type Task struct {
	Id     string
	UserId string

	Title       string
	Description string
	Status      TaskStatus
	Priority    TaskPriority
	Project     string
	Tags        []string
	DueDate     *time.Time
	ReminderAt  *time.Time
	IsArchived  bool

	// set when the task is generated by a monthly goal.
	MonthlyGoalId *string

	// the day (in the timezone of the goal) this task is generated for.
	// Only the date part is meaningful.
	GoalDate *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TaskSpec is a content of a new task.
type TaskSpec struct {
	Title       string
	Description string
	Status      TaskStatus
	Priority    TaskPriority
	Project     string
	Tags        []string
	DueDate     *time.Time
	ReminderAt  *time.Time
	IsArchived  bool
}

// WithDefaults fills zero-valued Status and Priority.
func (s TaskSpec) WithDefaults() TaskSpec {
	if s.Status == "" {
		s.Status = TaskToDo
	}
	if s.Priority == "" {
		s.Priority = PriorityMedium
	}
	if s.Tags == nil {
		s.Tags = []string{}
	}
	return s
}

func (s TaskSpec) Validate() error {
	return errors.Join(
		ValidateTitle(s.Title),
		validateStatus(s.Status),
		validatePriority(s.Priority),
	)
}

func ValidateTitle(title string) error {
	if title == "" {
		return fmt.Errorf("%w: title is required", domerr.ErrInvalidValue)
	}
	if MaxTitleLength < utf8.RuneCountInString(title) {
		return fmt.Errorf(
			"%w: title must be %d characters or less", domerr.ErrInvalidValue, MaxTitleLength,
		)
	}
	return nil
}

func validateStatus(s TaskStatus) error {
	_, err := AsTaskStatus(string(s))
	return err
}

func validatePriority(p TaskPriority) error {
	_, err := AsTaskPriority(string(p))
	return err
}

// TaskPatch is a partial update of a task. Nil (or absent) fields are left unchanged.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *TaskStatus
	Priority    *TaskPriority
	Project     *string
	Tags        *[]string
	DueDate     nullable.Nullable[time.Time]
	ReminderAt  nullable.Nullable[time.Time]
	IsArchived  *bool
}

func (p TaskPatch) Validate() error {
	errs := []error{}
	if p.Title != nil {
		errs = append(errs, ValidateTitle(*p.Title))
	}
	if p.Status != nil {
		errs = append(errs, validateStatus(*p.Status))
	}
	if p.Priority != nil {
		errs = append(errs, validatePriority(*p.Priority))
	}
	return errors.Join(errs...)
}

// Apply returns a copy of the task with the patch applied.
func (p TaskPatch) Apply(t Task) Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Project != nil {
		t.Project = *p.Project
	}
	if p.Tags != nil {
		t.Tags = append([]string{}, (*p.Tags)...)
	}
	if p.DueDate.IsSet() {
		t.DueDate = p.DueDate.Value()
	}
	if p.ReminderAt.IsSet() {
		t.ReminderAt = p.ReminderAt.Value()
	}
	if p.IsArchived != nil {
		t.IsArchived = *p.IsArchived
	}
	return t
}

// Archived selects tasks by their archive flag.
type Archived string

const (
	OnlyActive   Archived = "false"
	OnlyArchived Archived = "true"
	AnyArchived  Archived = "all"
)

func AsArchived(s string) (Archived, error) {
	switch a := Archived(s); a {
	case OnlyActive, OnlyArchived, AnyArchived:
		return a, nil
	case "":
		return OnlyActive, nil
	}
	return "", fmt.Errorf(`%w: archived should be one of "true", "false" or "all": %q`, domerr.ErrInvalidValue, s)
}

type TaskFindQuery struct {
	UserId string

	// case-insensitive substring of title. empty matches all.
	Title string

	// empty matches all.
	Status []TaskStatus

	// empty matches all.
	Project string

	Archived Archived

	// set when tasks of a monthly goal are queried.
	MonthlyGoalId *string

	Offset int
	Limit  int
}

// GoalTaskSpec is a task to be generated by a monthly goal.
type GoalTaskSpec struct {
	UserId        string
	MonthlyGoalId string

	// the day the task is generated for.
	GoalDate time.Time

	Title       string
	Description string
	DueDate     time.Time
}
