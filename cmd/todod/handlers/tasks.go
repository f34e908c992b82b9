package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	bindtasks "github.com/opst/todofab/pkg/api-types-binding/tasks"
	apierr "github.com/opst/todofab/pkg/api/types/errors"
	apitasks "github.com/opst/todofab/pkg/api/types/tasks"
	"github.com/opst/todofab/pkg/domain"
	taskdb "github.com/opst/todofab/pkg/domain/task/db"
	"github.com/opst/todofab/pkg/utils"
	"github.com/opst/todofab/pkg/utils/rfctime"
)

const (
	DefaultPageSize = 100
	MaxPageSize     = 500
)

// StatsRefresher recomputes statistics of a monthly goal.
type StatsRefresher interface {
	Refresh(ctx context.Context, goalId string) (domain.GoalStats, error)
}

// refreshGoalOf recomputes statistics of the goal which generated the task, if any.
//
// A failure is logged and not returned: the change of the task is committed already.
func refreshGoalOf(c echo.Context, goals StatsRefresher, t domain.Task) {
	if t.MonthlyGoalId == nil {
		return
	}
	if _, err := goals.Refresh(c.Request().Context(), *t.MonthlyGoalId); err != nil {
		c.Logger().Warnf("failed to refresh statistics of goal %s: %s", *t.MonthlyGoalId, err)
	}
}

func parseStatuses(values []string) ([]domain.TaskStatus, error) {
	statuses := []domain.TaskStatus{}
	for _, v := range values {
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s == "" {
				continue
			}
			st, err := domain.AsTaskStatus(s)
			if err != nil {
				return nil, err
			}
			statuses = append(statuses, st)
		}
	}
	return statuses, nil
}

func ListTasksHandler(dbtask taskdb.TaskInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		page, err := queryInt(c, "page", 1)
		if err != nil {
			return err
		}
		if page < 1 {
			return apierr.BadRequest("page should be 1 or greater", nil)
		}
		limit, err := queryInt(c, "limit", DefaultPageSize)
		if err != nil {
			return err
		}
		if limit < 1 {
			return apierr.BadRequest("limit should be 1 or greater", nil)
		}
		limit = min(limit, MaxPageSize)

		statuses, err := parseStatuses(c.QueryParams()["status"])
		if err != nil {
			return apierr.BadRequest(err.Error(), err)
		}
		archived, err := domain.AsArchived(c.QueryParam("archived"))
		if err != nil {
			return apierr.BadRequest(err.Error(), err)
		}

		found, total, err := dbtask.Find(ctx, domain.TaskFindQuery{
			UserId:   UserId(c),
			Title:    c.QueryParam("q"),
			Status:   statuses,
			Project:  c.QueryParam("project"),
			Archived: archived,
			Offset:   (page - 1) * limit,
			Limit:    limit,
		})
		if err != nil {
			return apierr.InternalServerError(err)
		}

		return c.JSON(http.StatusOK, apitasks.List{
			Tasks: utils.Map(found, bindtasks.Compose),
			Total: total,
			Page:  page,
			Limit: limit,
		})
	}
}

func CreateTaskHandler(dbtask taskdb.TaskInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		req, err := decodeJSON[apitasks.Create](c)
		if err != nil {
			return err
		}
		spec, err := bindtasks.ParseCreate(req)
		if err != nil {
			return asHTTPError(err, "task")
		}

		created, err := dbtask.Create(c.Request().Context(), UserId(c), spec)
		if err != nil {
			return asHTTPError(err, "task")
		}
		return c.JSON(http.StatusCreated, bindtasks.Compose(created))
	}
}

// UpdateTaskHandler applies a partial update to the task.
//
// When the task is generated by a monthly goal, statistics of the goal are recomputed.
func UpdateTaskHandler(dbtask taskdb.TaskInterface, goals StatsRefresher, param string) echo.HandlerFunc {
	return func(c echo.Context) error {
		taskId, err := pathId(c, param)
		if err != nil {
			return err
		}
		req, err := decodeJSON[apitasks.Update](c)
		if err != nil {
			return err
		}
		patch, err := bindtasks.ParseUpdate(req)
		if err != nil {
			return asHTTPError(err, "task")
		}

		updated, err := dbtask.Update(c.Request().Context(), UserId(c), taskId, patch)
		if err != nil {
			return asHTTPError(err, "task")
		}
		refreshGoalOf(c, goals, updated)
		return c.JSON(http.StatusOK, bindtasks.Compose(updated))
	}
}

// DeleteTaskHandler archives the task. With "?hard=true", it removes the task instead.
func DeleteTaskHandler(dbtask taskdb.TaskInterface, goals StatsRefresher, param string) echo.HandlerFunc {
	hard := HardDeleteTaskHandler(dbtask, goals, param)
	return func(c echo.Context) error {
		if strings.EqualFold(c.QueryParam("hard"), "true") {
			return hard(c)
		}

		taskId, err := pathId(c, param)
		if err != nil {
			return err
		}
		archived, err := dbtask.Archive(c.Request().Context(), UserId(c), taskId)
		if err != nil {
			return asHTTPError(err, "task")
		}
		composed := bindtasks.Compose(archived)
		return c.JSON(http.StatusOK, apitasks.Message{Message: "task archived", Task: &composed})
	}
}

func HardDeleteTaskHandler(dbtask taskdb.TaskInterface, goals StatsRefresher, param string) echo.HandlerFunc {
	return func(c echo.Context) error {
		taskId, err := pathId(c, param)
		if err != nil {
			return err
		}
		deleted, err := dbtask.Delete(c.Request().Context(), UserId(c), taskId)
		if err != nil {
			return asHTTPError(err, "task")
		}
		refreshGoalOf(c, goals, deleted)
		return c.JSON(http.StatusOK, apitasks.Deleted{
			Message: "task deleted permanently",
			DeletedTask: apitasks.DeletedTask{
				Id:        deleted.Id,
				Title:     deleted.Title,
				DeletedAt: rfctime.RFC3339(time.Now()),
			},
		})
	}
}

func RestoreTaskHandler(dbtask taskdb.TaskInterface, param string) echo.HandlerFunc {
	return func(c echo.Context) error {
		taskId, err := pathId(c, param)
		if err != nil {
			return err
		}
		restored, err := dbtask.Restore(c.Request().Context(), UserId(c), taskId)
		if err != nil {
			return asHTTPError(err, "task")
		}
		composed := bindtasks.Compose(restored)
		return c.JSON(http.StatusOK, apitasks.Message{Message: "task restored", Task: &composed})
	}
}
