package goals

import (
	apitasks "github.com/opst/todofab/pkg/api/types/tasks"
	"github.com/opst/todofab/pkg/utils/rfctime"
)

type RepeatConfig struct {
	// 0 (Sunday) .. 6 (Saturday)
	Weekdays        []int `json:"weekdays"`
	IncludeWeekends bool  `json:"includeWeekends"`
}

type Stats struct {
	CompletedDays   int              `json:"completedDays"`
	TotalDays       int              `json:"totalDays"`
	CompletionRate  int              `json:"completionRate"`
	LastStatsUpdate *rfctime.RFC3339 `json:"lastStatsUpdate"`
}

type Goal struct {
	Id           string          `json:"id"`
	UserId       string          `json:"userId"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	DailyTime    string          `json:"dailyTime"`
	StartDate    rfctime.Date    `json:"startDate"`
	EndDate      rfctime.Date    `json:"endDate"`
	Timezone     string          `json:"timezone"`
	Status       string          `json:"status"`
	RepeatConfig RepeatConfig    `json:"repeatConfig"`
	Stats        Stats           `json:"stats"`
	CreatedAt    rfctime.RFC3339 `json:"createdAt"`
	UpdatedAt    rfctime.RFC3339 `json:"updatedAt"`
}

// RepeatConfigUpdate is a repeatConfig in requests. Absent fields take defaults.
type RepeatConfigUpdate struct {
	Weekdays        *[]int `json:"weekdays,omitempty"`
	IncludeWeekends *bool  `json:"includeWeekends,omitempty"`
}

type Create struct {
	Title        string              `json:"title"`
	Description  string              `json:"description,omitempty"`
	DailyTime    string              `json:"dailyTime"`
	Timezone     string              `json:"timezone,omitempty"`
	RepeatConfig *RepeatConfigUpdate `json:"repeatConfig,omitempty"`
}

// Update is a partial update of a goal. Absent fields are left unchanged.
type Update struct {
	Title        *string             `json:"title,omitempty"`
	Description  *string             `json:"description,omitempty"`
	DailyTime    *string             `json:"dailyTime,omitempty"`
	Timezone     *string             `json:"timezone,omitempty"`
	RepeatConfig *RepeatConfigUpdate `json:"repeatConfig,omitempty"`
	Status       *string             `json:"status,omitempty"`
}

type Message struct {
	Message string `json:"message"`
	Goal    *Goal  `json:"goal,omitempty"`
}

type List struct {
	Goals []Goal `json:"goals"`
}

type Progress struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
	Rate      int `json:"rate"`
}

type Detail struct {
	Goal     Goal            `json:"goal"`
	Tasks    []apitasks.Task `json:"tasks"`
	Progress Progress        `json:"progress"`
}

type ReportEntry struct {
	Id             string `json:"id"`
	Title          string `json:"title"`
	CompletedDays  int    `json:"completedDays"`
	TotalDays      int    `json:"totalDays"`
	CompletionRate int    `json:"completionRate"`
	Status         string `json:"status"`
}

type Report struct {
	Month       int           `json:"month"`
	Year        int           `json:"year"`
	TotalGoals  int           `json:"totalGoals"`
	ActiveGoals int           `json:"activeGoals"`
	TotalTasks  int           `json:"totalTasks"`
	Goals       []ReportEntry `json:"goals"`
}
