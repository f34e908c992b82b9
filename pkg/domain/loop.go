package domain

import (
	"errors"
	"fmt"
)

type LoopType string

const (
	// generates today's task for each due monthly goal.
	GoalGenerationLoop LoopType = "goal-generation"

	// recomputes statistics of active monthly goals.
	GoalStatsLoop LoopType = "goal-stats"

	// removes old, completed tasks generated by monthly goals.
	GoalCleanupLoop LoopType = "goal-cleanup"
)

func (lt LoopType) String() string {
	return string(lt)
}

func (lt LoopType) IsKnown() bool {
	switch lt {
	case GoalGenerationLoop, GoalStatsLoop, GoalCleanupLoop:
		return true
	default:
		return false
	}
}

func LoopTypes() []LoopType {
	return []LoopType{GoalGenerationLoop, GoalStatsLoop, GoalCleanupLoop}
}

func AsLoopType(s string) (LoopType, error) {
	l := LoopType(s)
	if l.IsKnown() {
		return l, nil
	}
	return l, fmt.Errorf(`%w: "%s"`, ErrUnknownLoopType, s)
}

var ErrUnknownLoopType = errors.New("unknown loop type")
