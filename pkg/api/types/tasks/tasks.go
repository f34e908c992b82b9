package tasks

import (
	"encoding/json"

	"github.com/opst/todofab/pkg/utils/nullable"
	"github.com/opst/todofab/pkg/utils/rfctime"
)

type Task struct {
	Id            string           `json:"id"`
	UserId        string           `json:"userId"`
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	Status        string           `json:"status"`
	Priority      string           `json:"priority"`
	Project       string           `json:"project"`
	Tags          []string         `json:"tags"`
	DueDate       *rfctime.RFC3339 `json:"dueDate"`
	ReminderAt    *rfctime.RFC3339 `json:"reminderAt"`
	IsArchived    bool             `json:"isArchived"`
	MonthlyGoalId *string          `json:"monthlyGoalId"`
	GoalDate      *rfctime.Date    `json:"goalDate,omitempty"`
	CreatedAt     rfctime.RFC3339  `json:"createdAt"`
	UpdatedAt     rfctime.RFC3339  `json:"updatedAt"`
}

// Create is a request body to create a task.
type Create struct {
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	Status      string           `json:"status,omitempty"`
	Priority    string           `json:"priority,omitempty"`
	Project     string           `json:"project,omitempty"`
	Tags        []string         `json:"tags,omitempty"`
	DueDate     *rfctime.RFC3339 `json:"dueDate,omitempty"`
	ReminderAt  *rfctime.RFC3339 `json:"reminderAt,omitempty"`
	IsArchived  bool             `json:"isArchived,omitempty"`
}

// Update is a request body to update a task partially.
//
// Absent fields are left unchanged. dueDate and reminderAt are cleared with null.
type Update struct {
	Title       *string                            `json:"title,omitempty"`
	Description *string                            `json:"description,omitempty"`
	Status      *string                            `json:"status,omitempty"`
	Priority    *string                            `json:"priority,omitempty"`
	Project     *string                            `json:"project,omitempty"`
	Tags        *[]string                          `json:"tags,omitempty"`
	DueDate     nullable.Nullable[rfctime.RFC3339] `json:"dueDate"`
	ReminderAt  nullable.Nullable[rfctime.RFC3339] `json:"reminderAt"`
	IsArchived  *bool                              `json:"isArchived,omitempty"`
}

type List struct {
	Tasks []Task `json:"tasks"`
	Total int    `json:"total"`
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
}

// Message is a response with a message and the task.
type Message struct {
	Message string `json:"message"`
	Task    *Task  `json:"task,omitempty"`
}

type Deleted struct {
	Message     string      `json:"message"`
	DeletedTask DeletedTask `json:"deletedTask"`
}

type DeletedTask struct {
	Id        string          `json:"id"`
	Title     string          `json:"title"`
	DeletedAt rfctime.RFC3339 `json:"deletedAt"`
}

type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

type SyncRequest struct {
	Operations []Operation `json:"operations"`
}

// Operation is an operation done by a client while offline.
//
// Task is a SyncedTask. It is kept raw so that a broken task fails only its own operation.
// For create, Task is read as Create.
// For update, Task is read as Update with "id".
// For delete, only "id" of Task is used.
type Operation struct {
	Op         Op              `json:"op"`
	ClientOpId string          `json:"clientOpId"`
	ClientId   string          `json:"clientId,omitempty"`
	Task       json.RawMessage `json:"task,omitempty"`
}

// SyncedTask is a task in sync operations.
type SyncedTask struct {
	Id string `json:"id,omitempty"`
	Update
}

type SyncStatus string

const (
	SyncSuccess SyncStatus = "success"
	SyncError   SyncStatus = "error"
)

type SyncResult struct {
	ClientOpId string     `json:"clientOpId"`
	Status     SyncStatus `json:"status"`
	ServerTask *Task      `json:"serverTask,omitempty"`
	Message    string     `json:"message,omitempty"`
}

type Mapping struct {
	ClientId string `json:"clientId"`
	ServerId string `json:"serverId"`
}

type SyncResponse struct {
	Results  []SyncResult `json:"results"`
	Mappings []Mapping    `json:"mappings"`
}
