package mocks

import (
	"context"
	"errors"

	"github.com/opst/todofab/pkg/domain"
	dbmock "github.com/opst/todofab/pkg/domain/internal/db/mock"
	ktask "github.com/opst/todofab/pkg/domain/task/db"
)

type TaskInterface struct {
	Impl struct {
		Create  func(ctx context.Context, userId string, spec domain.TaskSpec) (domain.Task, error)
		Get     func(ctx context.Context, userId string, taskId string) (domain.Task, error)
		Find    func(ctx context.Context, query domain.TaskFindQuery) ([]domain.Task, int, error)
		Update  func(ctx context.Context, userId string, taskId string, patch domain.TaskPatch) (domain.Task, error)
		Archive func(ctx context.Context, userId string, taskId string) (domain.Task, error)
		Restore func(ctx context.Context, userId string, taskId string) (domain.Task, error)
		Delete  func(ctx context.Context, userId string, taskId string) (domain.Task, error)
	}
	Calls struct {
		Create dbmock.CallLog[struct {
			UserId string
			Spec   domain.TaskSpec
		}]
		Get    dbmock.CallLog[TaskRef]
		Find   dbmock.CallLog[domain.TaskFindQuery]
		Update dbmock.CallLog[struct {
			TaskRef
			Patch domain.TaskPatch
		}]
		Archive dbmock.CallLog[TaskRef]
		Restore dbmock.CallLog[TaskRef]
		Delete  dbmock.CallLog[TaskRef]
	}
}

type TaskRef struct {
	UserId string
	TaskId string
}

var _ ktask.TaskInterface = &TaskInterface{}

func NewTaskInterface() *TaskInterface {
	return &TaskInterface{}
}

func (m *TaskInterface) Create(ctx context.Context, userId string, spec domain.TaskSpec) (domain.Task, error) {
	m.Calls.Create = append(m.Calls.Create, struct {
		UserId string
		Spec   domain.TaskSpec
	}{UserId: userId, Spec: spec})
	if m.Impl.Create != nil {
		return m.Impl.Create(ctx, userId, spec)
	}
	panic(errors.New("it should not be called"))
}

func (m *TaskInterface) Get(ctx context.Context, userId string, taskId string) (domain.Task, error) {
	m.Calls.Get = append(m.Calls.Get, TaskRef{UserId: userId, TaskId: taskId})
	if m.Impl.Get != nil {
		return m.Impl.Get(ctx, userId, taskId)
	}
	panic(errors.New("it should not be called"))
}

func (m *TaskInterface) Find(ctx context.Context, query domain.TaskFindQuery) ([]domain.Task, int, error) {
	m.Calls.Find = append(m.Calls.Find, query)
	if m.Impl.Find != nil {
		return m.Impl.Find(ctx, query)
	}
	panic(errors.New("it should not be called"))
}

func (m *TaskInterface) Update(ctx context.Context, userId string, taskId string, patch domain.TaskPatch) (domain.Task, error) {
	m.Calls.Update = append(m.Calls.Update, struct {
		TaskRef
		Patch domain.TaskPatch
	}{TaskRef: TaskRef{UserId: userId, TaskId: taskId}, Patch: patch})
	if m.Impl.Update != nil {
		return m.Impl.Update(ctx, userId, taskId, patch)
	}
	panic(errors.New("it should not be called"))
}

func (m *TaskInterface) Archive(ctx context.Context, userId string, taskId string) (domain.Task, error) {
	m.Calls.Archive = append(m.Calls.Archive, TaskRef{UserId: userId, TaskId: taskId})
	if m.Impl.Archive != nil {
		return m.Impl.Archive(ctx, userId, taskId)
	}
	panic(errors.New("it should not be called"))
}

func (m *TaskInterface) Restore(ctx context.Context, userId string, taskId string) (domain.Task, error) {
	m.Calls.Restore = append(m.Calls.Restore, TaskRef{UserId: userId, TaskId: taskId})
	if m.Impl.Restore != nil {
		return m.Impl.Restore(ctx, userId, taskId)
	}
	panic(errors.New("it should not be called"))
}

func (m *TaskInterface) Delete(ctx context.Context, userId string, taskId string) (domain.Task, error) {
	m.Calls.Delete = append(m.Calls.Delete, TaskRef{UserId: userId, TaskId: taskId})
	if m.Impl.Delete != nil {
		return m.Impl.Delete(ctx, userId, taskId)
	}
	panic(errors.New("it should not be called"))
}
