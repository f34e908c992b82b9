package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	bindgoals "github.com/opst/todofab/pkg/api-types-binding/goals"
	apierr "github.com/opst/todofab/pkg/api/types/errors"
	apigoals "github.com/opst/todofab/pkg/api/types/goals"
	"github.com/opst/todofab/pkg/domain"
	goaldb "github.com/opst/todofab/pkg/domain/goal/db"
	taskdb "github.com/opst/todofab/pkg/domain/task/db"
	"github.com/opst/todofab/pkg/metrics"
	"github.com/opst/todofab/pkg/utils"
)

// GoalScheduler generates tasks of goals on request.
type GoalScheduler interface {
	StatsRefresher

	// GenerateFor creates the task of today for the goal, if it is due.
	GenerateFor(ctx context.Context, goal domain.MonthlyGoal) (bool, error)

	Now() time.Time
}

// catchUp generates the task of today and recomputes statistics, and returns the goal with fresh statistics.
//
// Failures are logged. The goal itself is stored already.
func catchUp(c echo.Context, sched GoalScheduler, m *metrics.Metrics, trigger string, g domain.MonthlyGoal) domain.MonthlyGoal {
	ctx := c.Request().Context()
	if created, err := sched.GenerateFor(ctx, g); err != nil {
		c.Logger().Warnf("failed to generate the task of goal %s: %s", g.Id, err)
	} else if created {
		m.Generated(trigger, 1)
	}

	stats, err := sched.Refresh(ctx, g.Id)
	if err != nil {
		c.Logger().Warnf("failed to refresh statistics of goal %s: %s", g.Id, err)
		return g
	}
	g.Stats = stats
	return g
}

// CreateGoalHandler creates a goal for the current month (in the timezone of the goal),
// and generates the task of today if the goal is due today.
func CreateGoalHandler(dbgoal goaldb.GoalInterface, sched GoalScheduler, m *metrics.Metrics) echo.HandlerFunc {
	return func(c echo.Context) error {
		req, err := decodeJSON[apigoals.Create](c)
		if err != nil {
			return err
		}
		spec, err := bindgoals.ParseCreate(UserId(c), req)
		if err != nil {
			return asHTTPError(err, "monthly goal")
		}

		created, err := dbgoal.Create(c.Request().Context(), spec.Materialize(sched.Now()))
		if err != nil {
			return asHTTPError(err, "monthly goal")
		}
		created = catchUp(c, sched, m, "create", created)

		composed := bindgoals.Compose(created)
		return c.JSON(http.StatusCreated, apigoals.Message{
			Message: "monthly goal created", Goal: &composed,
		})
	}
}

// monthQuery reads "month" and "year" query parameters.
//
// # Returns
//
// - bool: true if both are given. When only one of them is given, it is an error.
func monthQuery(c echo.Context, now time.Time) (int, time.Month, bool, error) {
	if c.QueryParam("month") == "" && c.QueryParam("year") == "" {
		return now.Year(), now.Month(), false, nil
	}
	if c.QueryParam("month") == "" || c.QueryParam("year") == "" {
		return 0, 0, false, apierr.BadRequest("month and year should be given together", nil)
	}
	month, err := queryInt(c, "month", 0)
	if err != nil {
		return 0, 0, false, err
	}
	if month < 1 || 12 < month {
		return 0, 0, false, apierr.BadRequest("month should be between 1 and 12", nil)
	}
	year, err := queryInt(c, "year", 0)
	if err != nil {
		return 0, 0, false, err
	}
	if year < 1 {
		return 0, 0, false, apierr.BadRequest("year should be positive", nil)
	}
	return year, time.Month(month), true, nil
}

func ListGoalsHandler(dbgoal goaldb.GoalInterface, clock func() time.Time) echo.HandlerFunc {
	return func(c echo.Context) error {
		query := domain.GoalFindQuery{UserId: UserId(c), Status: []domain.GoalStatus{}}
		for _, v := range c.QueryParams()["status"] {
			for _, s := range strings.Split(v, ",") {
				if s = strings.TrimSpace(s); s == "" {
					continue
				}
				st, err := domain.AsGoalStatus(s)
				if err != nil {
					return apierr.BadRequest(err.Error(), err)
				}
				query.Status = append(query.Status, st)
			}
		}

		year, month, given, err := monthQuery(c, clock().UTC())
		if err != nil {
			return err
		}
		if given {
			since, until := domain.Month(year, month)
			query.Since, query.Until = &since, &until
		}

		found, err := dbgoal.Find(c.Request().Context(), query)
		if err != nil {
			return apierr.InternalServerError(err)
		}
		return c.JSON(http.StatusOK, apigoals.List{Goals: utils.Map(found, bindgoals.Compose)})
	}
}

// GetGoalHandler responds the goal with its tasks and progress.
func GetGoalHandler(dbgoal goaldb.GoalInterface, dbtask taskdb.TaskInterface, goals StatsRefresher, param string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		goalId, err := pathId(c, param)
		if err != nil {
			return err
		}
		userId := UserId(c)

		g, err := dbgoal.Get(ctx, userId, goalId)
		if err != nil {
			return asHTTPError(err, "monthly goal")
		}
		if stats, err := goals.Refresh(ctx, g.Id); err != nil {
			c.Logger().Warnf("failed to refresh statistics of goal %s: %s", g.Id, err)
		} else {
			g.Stats = stats
		}

		tasks, _, err := dbtask.Find(ctx, domain.TaskFindQuery{
			UserId:        userId,
			MonthlyGoalId: &g.Id,
			Archived:      domain.AnyArchived,
		})
		if err != nil {
			return apierr.InternalServerError(err)
		}
		return c.JSON(http.StatusOK, bindgoals.ComposeDetail(g, tasks))
	}
}

// UpdateGoalHandler applies a partial update to the goal.
//
// When the goal is active after the update, the task of today is generated if due.
func UpdateGoalHandler(dbgoal goaldb.GoalInterface, sched GoalScheduler, m *metrics.Metrics, param string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		goalId, err := pathId(c, param)
		if err != nil {
			return err
		}
		userId := UserId(c)

		current, err := dbgoal.Get(ctx, userId, goalId)
		if err != nil {
			return asHTTPError(err, "monthly goal")
		}
		req, err := decodeJSON[apigoals.Update](c)
		if err != nil {
			return err
		}
		patch, err := bindgoals.ParseUpdate(current, req)
		if err != nil {
			return asHTTPError(err, "monthly goal")
		}

		updated, err := dbgoal.Update(ctx, userId, goalId, patch)
		if err != nil {
			return asHTTPError(err, "monthly goal")
		}
		updated = catchUp(c, sched, m, "update", updated)

		composed := bindgoals.Compose(updated)
		return c.JSON(http.StatusOK, apigoals.Message{
			Message: "monthly goal updated", Goal: &composed,
		})
	}
}

// DeleteGoalHandler removes the goal and tasks generated by it.
func DeleteGoalHandler(dbgoal goaldb.GoalInterface, param string) echo.HandlerFunc {
	return func(c echo.Context) error {
		goalId, err := pathId(c, param)
		if err != nil {
			return err
		}
		if err := dbgoal.Delete(c.Request().Context(), UserId(c), goalId); err != nil {
			return asHTTPError(err, "monthly goal")
		}
		return c.JSON(http.StatusOK, apigoals.Message{Message: "monthly goal deleted"})
	}
}

// ProgressReportHandler reports goals in a month ("month" and "year" query, the current month by default).
func ProgressReportHandler(dbgoal goaldb.GoalInterface, clock func() time.Time) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		userId := UserId(c)

		year, month, _, err := monthQuery(c, clock().UTC())
		if err != nil {
			return err
		}
		first, last := domain.Month(year, month)

		found, err := dbgoal.Find(ctx, domain.GoalFindQuery{
			UserId: userId, Since: &first, Until: &last,
		})
		if err != nil {
			return apierr.InternalServerError(err)
		}
		done, err := dbgoal.CountDoneTasks(ctx, userId, first, last)
		if err != nil {
			return apierr.InternalServerError(err)
		}

		return c.JSON(http.StatusOK, bindgoals.ComposeReport(domain.GoalReport{
			Year:           year,
			Month:          month,
			Goals:          found,
			CompletedTasks: done,
		}))
	}
}
