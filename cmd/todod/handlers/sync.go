package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	bindtasks "github.com/opst/todofab/pkg/api-types-binding/tasks"
	apitasks "github.com/opst/todofab/pkg/api/types/tasks"
	"github.com/opst/todofab/pkg/domain"
	domerr "github.com/opst/todofab/pkg/domain/errors"
	taskdb "github.com/opst/todofab/pkg/domain/task/db"
)

// messages of failed sync operations.
const (
	SyncMissingServerId = "missing server id"
	SyncTaskNotFound    = "task not found"
	SyncUnknownOp       = "unknown op"
	SyncInternalError   = "internal error"
)

type syncFailure string

func (f syncFailure) Error() string {
	return string(f)
}

// SyncTasksHandler applies queued offline operations in order.
//
// Each operation succeeds or fails on its own. The response always has 200 unless the request is broken.
func SyncTasksHandler(dbtask taskdb.TaskInterface, goals StatsRefresher) echo.HandlerFunc {
	return func(c echo.Context) error {
		req, err := decodeJSON[apitasks.SyncRequest](c)
		if err != nil {
			return err
		}

		s := syncer{c: c, db: dbtask, goals: goals, userId: UserId(c)}
		resp := apitasks.SyncResponse{
			Results:  make([]apitasks.SyncResult, 0, len(req.Operations)),
			Mappings: []apitasks.Mapping{},
		}
		for _, op := range req.Operations {
			task, err := s.apply(op)
			if err != nil {
				msg := err.Error()
				if failure := syncFailure(""); !errors.As(err, &failure) {
					c.Logger().Errorf("sync operation %s (%s) failed: %s", op.ClientOpId, op.Op, err)
					msg = SyncInternalError
				}
				resp.Results = append(resp.Results, apitasks.SyncResult{
					ClientOpId: op.ClientOpId,
					Status:     apitasks.SyncError,
					Message:    msg,
				})
				continue
			}

			composed := bindtasks.Compose(task)
			resp.Results = append(resp.Results, apitasks.SyncResult{
				ClientOpId: op.ClientOpId,
				Status:     apitasks.SyncSuccess,
				ServerTask: &composed,
			})
			if op.Op == apitasks.OpCreate {
				resp.Mappings = append(resp.Mappings, apitasks.Mapping{
					ClientId: op.ClientId,
					ServerId: task.Id,
				})
			}
		}
		return c.JSON(http.StatusOK, resp)
	}
}

type syncer struct {
	c      echo.Context
	db     taskdb.TaskInterface
	goals  StatsRefresher
	userId string
}

// apply runs an operation.
//
// Errors which can be told to the client are syncFailure.
func (s syncer) apply(op apitasks.Operation) (domain.Task, error) {
	switch op.Op {
	case apitasks.OpCreate, apitasks.OpUpdate, apitasks.OpDelete:
	default:
		return domain.Task{}, syncFailure(SyncUnknownOp)
	}

	t, err := syncedTask(op.Task)
	if err != nil {
		return domain.Task{}, err
	}
	switch op.Op {
	case apitasks.OpCreate:
		return s.create(t)
	case apitasks.OpUpdate:
		return s.update(t)
	default:
		return s.delete(t)
	}
}

// syncedTask reads the task of an operation. A missing task is read as empty.
func syncedTask(raw json.RawMessage) (apitasks.SyncedTask, error) {
	var t apitasks.SyncedTask
	if len(bytes.TrimSpace(raw)) == 0 {
		return t, nil
	}
	if err := json.Unmarshal(raw, &t); err != nil {
		return apitasks.SyncedTask{}, syncFailure(
			fmt.Errorf("%w: task: %s", domerr.ErrInvalidValue, err).Error(),
		)
	}
	return t, nil
}

func (s syncer) serverId(t apitasks.SyncedTask) (string, error) {
	if t.Id == "" {
		return "", syncFailure(SyncMissingServerId)
	}
	id, err := uuid.Parse(t.Id)
	if err != nil {
		return "", syncFailure(SyncTaskNotFound)
	}
	return id.String(), nil
}

func (s syncer) failure(err error) error {
	switch {
	case errors.Is(err, domerr.ErrMissing):
		return syncFailure(SyncTaskNotFound)
	case errors.Is(err, domerr.ErrInvalidValue):
		return syncFailure(err.Error())
	}
	return err
}

func (s syncer) create(t apitasks.SyncedTask) (domain.Task, error) {
	spec, err := bindtasks.ParseSyncedCreate(t)
	if err != nil {
		return domain.Task{}, s.failure(err)
	}
	created, err := s.db.Create(s.c.Request().Context(), s.userId, spec)
	if err != nil {
		return domain.Task{}, s.failure(err)
	}
	return created, nil
}

func (s syncer) update(t apitasks.SyncedTask) (domain.Task, error) {
	taskId, err := s.serverId(t)
	if err != nil {
		return domain.Task{}, err
	}
	patch, err := bindtasks.ParseUpdate(t.Update)
	if err != nil {
		return domain.Task{}, s.failure(err)
	}
	updated, err := s.db.Update(s.c.Request().Context(), s.userId, taskId, patch)
	if err != nil {
		return domain.Task{}, s.failure(err)
	}
	refreshGoalOf(s.c, s.goals, updated)
	return updated, nil
}

// delete archives the task. Archiving an archived task succeeds.
func (s syncer) delete(t apitasks.SyncedTask) (domain.Task, error) {
	taskId, err := s.serverId(t)
	if err != nil {
		return domain.Task{}, err
	}
	ctx := s.c.Request().Context()
	archived, err := s.db.Archive(ctx, s.userId, taskId)
	if errors.Is(err, domerr.ErrInvalidState) {
		archived, err = s.db.Get(ctx, s.userId, taskId)
	}
	if err != nil {
		return domain.Task{}, s.failure(err)
	}
	return archived, nil
}
