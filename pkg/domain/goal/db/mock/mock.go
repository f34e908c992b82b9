package mocks

import (
	"context"
	"errors"
	"time"

	"github.com/opst/todofab/pkg/domain"
	kgoal "github.com/opst/todofab/pkg/domain/goal/db"
	dbmock "github.com/opst/todofab/pkg/domain/internal/db/mock"
)

type GoalInterface struct {
	Impl struct {
		Create         func(ctx context.Context, goal domain.MonthlyGoal) (domain.MonthlyGoal, error)
		Get            func(ctx context.Context, userId string, goalId string) (domain.MonthlyGoal, error)
		Find           func(ctx context.Context, query domain.GoalFindQuery) ([]domain.MonthlyGoal, error)
		Update         func(ctx context.Context, userId string, goalId string, patch domain.GoalPatch) (domain.MonthlyGoal, error)
		Delete         func(ctx context.Context, userId string, goalId string) error
		Active         func(ctx context.Context) ([]domain.MonthlyGoal, error)
		SetStatus      func(ctx context.Context, goalId string, status domain.GoalStatus) error
		GenerateTask   func(ctx context.Context, spec domain.GoalTaskSpec) (bool, error)
		RefreshStats   func(ctx context.Context, goalId string, now time.Time) (domain.GoalStats, error)
		PurgeTasks     func(ctx context.Context, doneBefore time.Time) (int64, error)
		CountDoneTasks func(ctx context.Context, userId string, since time.Time, until time.Time) (int, error)
	}
	Calls struct {
		Create dbmock.CallLog[domain.MonthlyGoal]
		Get    dbmock.CallLog[GoalRef]
		Find   dbmock.CallLog[domain.GoalFindQuery]
		Update dbmock.CallLog[struct {
			GoalRef
			Patch domain.GoalPatch
		}]
		Delete    dbmock.CallLog[GoalRef]
		Active    dbmock.CallLog[struct{}]
		SetStatus dbmock.CallLog[struct {
			GoalId string
			Status domain.GoalStatus
		}]
		GenerateTask dbmock.CallLog[domain.GoalTaskSpec]
		RefreshStats dbmock.CallLog[struct {
			GoalId string
			Now    time.Time
		}]
		PurgeTasks     dbmock.CallLog[time.Time]
		CountDoneTasks dbmock.CallLog[struct {
			UserId string
			Since  time.Time
			Until  time.Time
		}]
	}
}

type GoalRef struct {
	UserId string
	GoalId string
}

var _ kgoal.GoalInterface = &GoalInterface{}

func NewGoalInterface() *GoalInterface {
	return &GoalInterface{}
}

func (m *GoalInterface) Create(ctx context.Context, goal domain.MonthlyGoal) (domain.MonthlyGoal, error) {
	m.Calls.Create = append(m.Calls.Create, goal)
	if m.Impl.Create != nil {
		return m.Impl.Create(ctx, goal)
	}
	panic(errors.New("it should not be called"))
}

func (m *GoalInterface) Get(ctx context.Context, userId string, goalId string) (domain.MonthlyGoal, error) {
	m.Calls.Get = append(m.Calls.Get, GoalRef{UserId: userId, GoalId: goalId})
	if m.Impl.Get != nil {
		return m.Impl.Get(ctx, userId, goalId)
	}
	panic(errors.New("it should not be called"))
}

func (m *GoalInterface) Find(ctx context.Context, query domain.GoalFindQuery) ([]domain.MonthlyGoal, error) {
	m.Calls.Find = append(m.Calls.Find, query)
	if m.Impl.Find != nil {
		return m.Impl.Find(ctx, query)
	}
	panic(errors.New("it should not be called"))
}

func (m *GoalInterface) Update(ctx context.Context, userId string, goalId string, patch domain.GoalPatch) (domain.MonthlyGoal, error) {
	m.Calls.Update = append(m.Calls.Update, struct {
		GoalRef
		Patch domain.GoalPatch
	}{GoalRef: GoalRef{UserId: userId, GoalId: goalId}, Patch: patch})
	if m.Impl.Update != nil {
		return m.Impl.Update(ctx, userId, goalId, patch)
	}
	panic(errors.New("it should not be called"))
}

func (m *GoalInterface) Delete(ctx context.Context, userId string, goalId string) error {
	m.Calls.Delete = append(m.Calls.Delete, GoalRef{UserId: userId, GoalId: goalId})
	if m.Impl.Delete != nil {
		return m.Impl.Delete(ctx, userId, goalId)
	}
	panic(errors.New("it should not be called"))
}

func (m *GoalInterface) Active(ctx context.Context) ([]domain.MonthlyGoal, error) {
	m.Calls.Active = append(m.Calls.Active, struct{}{})
	if m.Impl.Active != nil {
		return m.Impl.Active(ctx)
	}
	panic(errors.New("it should not be called"))
}

func (m *GoalInterface) SetStatus(ctx context.Context, goalId string, status domain.GoalStatus) error {
	m.Calls.SetStatus = append(m.Calls.SetStatus, struct {
		GoalId string
		Status domain.GoalStatus
	}{GoalId: goalId, Status: status})
	if m.Impl.SetStatus != nil {
		return m.Impl.SetStatus(ctx, goalId, status)
	}
	panic(errors.New("it should not be called"))
}

func (m *GoalInterface) GenerateTask(ctx context.Context, spec domain.GoalTaskSpec) (bool, error) {
	m.Calls.GenerateTask = append(m.Calls.GenerateTask, spec)
	if m.Impl.GenerateTask != nil {
		return m.Impl.GenerateTask(ctx, spec)
	}
	panic(errors.New("it should not be called"))
}

func (m *GoalInterface) RefreshStats(ctx context.Context, goalId string, now time.Time) (domain.GoalStats, error) {
	m.Calls.RefreshStats = append(m.Calls.RefreshStats, struct {
		GoalId string
		Now    time.Time
	}{GoalId: goalId, Now: now})
	if m.Impl.RefreshStats != nil {
		return m.Impl.RefreshStats(ctx, goalId, now)
	}
	panic(errors.New("it should not be called"))
}

func (m *GoalInterface) PurgeTasks(ctx context.Context, doneBefore time.Time) (int64, error) {
	m.Calls.PurgeTasks = append(m.Calls.PurgeTasks, doneBefore)
	if m.Impl.PurgeTasks != nil {
		return m.Impl.PurgeTasks(ctx, doneBefore)
	}
	panic(errors.New("it should not be called"))
}

func (m *GoalInterface) CountDoneTasks(ctx context.Context, userId string, since time.Time, until time.Time) (int, error) {
	m.Calls.CountDoneTasks = append(m.Calls.CountDoneTasks, struct {
		UserId string
		Since  time.Time
		Until  time.Time
	}{UserId: userId, Since: since, Until: until})
	if m.Impl.CountDoneTasks != nil {
		return m.Impl.CountDoneTasks(ctx, userId, since, until)
	}
	panic(errors.New("it should not be called"))
}
