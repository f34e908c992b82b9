package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v4"
	kpool "github.com/opst/todofab/pkg/conn/db/postgres/pool"
	"github.com/opst/todofab/pkg/domain"
	pgerrors "github.com/opst/todofab/pkg/domain/errors/dberrors/postgres"
	kgoal "github.com/opst/todofab/pkg/domain/goal/db"
	xe "github.com/opst/todofab/pkg/errors"
)

type pgGoal struct {
	pool kpool.Pool
}

func New(pool kpool.Pool) kgoal.GoalInterface {
	return &pgGoal{pool: pool}
}

const goalColumns = `
	"id"::text, "user_id"::text, "title", "description", "daily_time",
	"start_date", "end_date", "timezone", "status", "weekdays", "include_weekends",
	"completed_days", "total_days", "completion_rate", "last_stats_update",
	"created_at", "updated_at"
`

func scanGoal(row pgx.Row) (domain.MonthlyGoal, error) {
	g := domain.MonthlyGoal{}
	var dailyTime, status string
	var weekdays []int16
	var lastStatsUpdate pgtype.Timestamptz

	if err := row.Scan(
		&g.Id, &g.UserId, &g.Title, &g.Description, &dailyTime,
		&g.StartDate, &g.EndDate, &g.Timezone, &status, &weekdays, &g.Repeat.IncludeWeekends,
		&g.Stats.CompletedDays, &g.Stats.TotalDays, &g.Stats.CompletionRate, &lastStatsUpdate,
		&g.CreatedAt, &g.UpdatedAt,
	); err != nil {
		return domain.MonthlyGoal{}, err
	}

	dt, err := domain.ParseDailyTime(dailyTime)
	if err != nil {
		return domain.MonthlyGoal{}, err
	}
	g.DailyTime = dt
	g.Status = domain.GoalStatus(status)
	g.Repeat.Weekdays = make([]time.Weekday, 0, len(weekdays))
	for _, w := range weekdays {
		g.Repeat.Weekdays = append(g.Repeat.Weekdays, time.Weekday(w))
	}
	if lastStatsUpdate.Status == pgtype.Present {
		g.Stats.LastStatsUpdate = lastStatsUpdate.Time
	}
	return g, nil
}

func weekdaysOf(rc domain.RepeatConfig) []int16 {
	ws := make([]int16, 0, len(rc.Weekdays))
	for _, w := range rc.Weekdays {
		ws = append(ws, int16(w))
	}
	return ws
}

func (m *pgGoal) Create(ctx context.Context, goal domain.MonthlyGoal) (domain.MonthlyGoal, error) {
	g, err := scanGoal(m.pool.QueryRow(
		ctx,
		`
		insert into "monthly_goal" (
			"id", "user_id", "title", "description", "daily_time",
			"start_date", "end_date", "timezone", "status", "weekdays", "include_weekends"
		)
		values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		returning `+goalColumns,
		uuid.NewString(), goal.UserId, goal.Title, goal.Description, goal.DailyTime.String(),
		domain.DateOf(goal.StartDate), domain.DateOf(goal.EndDate), goal.Timezone,
		string(goal.Status), weekdaysOf(goal.Repeat), goal.Repeat.IncludeWeekends,
	))
	if err != nil {
		return domain.MonthlyGoal{}, xe.Wrap(err)
	}
	return g, nil
}

func get(ctx context.Context, conn kpool.Queryer, userId string, goalId string, lock bool) (domain.MonthlyGoal, error) {
	query := `select ` + goalColumns + ` from "monthly_goal" where "id" = $1 and "user_id" = $2`
	if lock {
		query += ` for update`
	}
	g, err := scanGoal(conn.QueryRow(ctx, query, goalId, userId))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.MonthlyGoal{}, pgerrors.Missing{Table: "monthly_goal", Identity: goalId}
	} else if err != nil {
		return domain.MonthlyGoal{}, xe.Wrap(err)
	}
	return g, nil
}

func (m *pgGoal) Get(ctx context.Context, userId string, goalId string) (domain.MonthlyGoal, error) {
	return get(ctx, m.pool, userId, goalId, false)
}

func queryGoals(ctx context.Context, conn kpool.Queryer, sql string, args ...any) ([]domain.MonthlyGoal, error) {
	rows, err := conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer rows.Close()

	goals := []domain.MonthlyGoal{}
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, xe.Wrap(err)
		}
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, xe.Wrap(err)
	}
	return goals, nil
}

func (m *pgGoal) Find(ctx context.Context, query domain.GoalFindQuery) ([]domain.MonthlyGoal, error) {
	where := []string{`"user_id" = $1`}
	args := []any{query.UserId}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if len(query.Status) != 0 {
		status := make([]string, 0, len(query.Status))
		for _, s := range query.Status {
			status = append(status, string(s))
		}
		where = append(where, `"status" = any(`+arg(status)+`)`)
	}
	if query.Since != nil {
		where = append(where, `"end_date" >= `+arg(domain.DateOf(*query.Since)))
	}
	if query.Until != nil {
		where = append(where, `"start_date" <= `+arg(domain.DateOf(*query.Until)))
	}

	return queryGoals(
		ctx, m.pool,
		`select `+goalColumns+` from "monthly_goal"
		where `+strings.Join(where, " and ")+`
		order by "created_at" desc, "id" asc`,
		args...,
	)
}

func (m *pgGoal) Update(ctx context.Context, userId string, goalId string, patch domain.GoalPatch) (domain.MonthlyGoal, error) {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return domain.MonthlyGoal{}, xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	current, err := get(ctx, tx, userId, goalId, true)
	if err != nil {
		return domain.MonthlyGoal{}, err
	}
	g := patch.Apply(current)

	updated, err := scanGoal(tx.QueryRow(
		ctx,
		`
		update "monthly_goal"
		set
			"title" = $3, "description" = $4, "daily_time" = $5, "timezone" = $6,
			"status" = $7, "weekdays" = $8, "include_weekends" = $9, "updated_at" = now()
		where "id" = $1 and "user_id" = $2
		returning `+goalColumns,
		goalId, userId, g.Title, g.Description, g.DailyTime.String(), g.Timezone,
		string(g.Status), weekdaysOf(g.Repeat), g.Repeat.IncludeWeekends,
	))
	if err != nil {
		return domain.MonthlyGoal{}, xe.Wrap(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.MonthlyGoal{}, xe.Wrap(err)
	}
	return updated, nil
}

func (m *pgGoal) Delete(ctx context.Context, userId string, goalId string) error {
	// generated tasks are removed by "on delete cascade".
	ctag, err := m.pool.Exec(
		ctx, `delete from "monthly_goal" where "id" = $1 and "user_id" = $2`, goalId, userId,
	)
	if err != nil {
		return xe.Wrap(err)
	}
	if ctag.RowsAffected() == 0 {
		return pgerrors.Missing{Table: "monthly_goal", Identity: goalId}
	}
	return nil
}

func (m *pgGoal) Active(ctx context.Context) ([]domain.MonthlyGoal, error) {
	return queryGoals(
		ctx, m.pool,
		`select `+goalColumns+` from "monthly_goal" where "status" = $1 order by "created_at" asc, "id" asc`,
		string(domain.GoalActive),
	)
}

func (m *pgGoal) SetStatus(ctx context.Context, goalId string, status domain.GoalStatus) error {
	ctag, err := m.pool.Exec(
		ctx,
		`update "monthly_goal" set "status" = $2, "updated_at" = now() where "id" = $1`,
		goalId, string(status),
	)
	if err != nil {
		return xe.Wrap(err)
	}
	if ctag.RowsAffected() == 0 {
		return pgerrors.Missing{Table: "monthly_goal", Identity: goalId}
	}
	return nil
}

func (m *pgGoal) GenerateTask(ctx context.Context, spec domain.GoalTaskSpec) (bool, error) {
	ctag, err := m.pool.Exec(
		ctx,
		`
		insert into "task" (
			"id", "user_id", "title", "description", "status", "priority",
			"project", "tags", "due_date", "monthly_goal_id", "goal_date"
		)
		values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		on conflict ("monthly_goal_id", "goal_date") do nothing
		`,
		uuid.NewString(), spec.UserId, spec.Title, spec.Description,
		string(domain.TaskToDo), string(domain.PriorityMedium),
		domain.GoalTaskProject, domain.GoalTaskTags(), spec.DueDate,
		spec.MonthlyGoalId, domain.DateOf(spec.GoalDate),
	)
	if err != nil {
		return false, xe.Wrap(err)
	}
	return ctag.RowsAffected() != 0, nil
}

func (m *pgGoal) RefreshStats(ctx context.Context, goalId string, now time.Time) (domain.GoalStats, error) {
	stats := domain.GoalStats{}
	err := m.pool.QueryRow(
		ctx,
		`
		update "monthly_goal" as "g"
		set
			"total_days" = "s"."total",
			"completed_days" = "s"."completed",
			"completion_rate" = case
				when "s"."total" = 0 then 0
				else (200 * "s"."completed" + "s"."total") / (2 * "s"."total")
			end,
			"last_stats_update" = $2,
			"updated_at" = now()
		from (
			select
				count("t"."id")::int as "total",
				(count("t"."id") filter (where "t"."status" = $3))::int as "completed"
			from "monthly_goal" as "m"
			left join "task" as "t"
				on "t"."monthly_goal_id" = "m"."id"
				and "m"."start_date" <= "t"."goal_date"
				and "t"."goal_date" <= "m"."end_date"
			where "m"."id" = $1
		) as "s"
		where "g"."id" = $1
		returning "g"."completed_days", "g"."total_days", "g"."completion_rate", "g"."last_stats_update"
		`,
		goalId, now, string(domain.TaskDone),
	).Scan(&stats.CompletedDays, &stats.TotalDays, &stats.CompletionRate, &stats.LastStatsUpdate)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.GoalStats{}, pgerrors.Missing{Table: "monthly_goal", Identity: goalId}
	} else if err != nil {
		return domain.GoalStats{}, xe.Wrap(err)
	}
	return stats, nil
}

func (m *pgGoal) PurgeTasks(ctx context.Context, doneBefore time.Time) (int64, error) {
	ctag, err := m.pool.Exec(
		ctx,
		`
		delete from "task"
		where "monthly_goal_id" is not null and "status" = $1 and "updated_at" < $2
		`,
		string(domain.TaskDone), doneBefore,
	)
	if err != nil {
		return 0, xe.Wrap(err)
	}
	return ctag.RowsAffected(), nil
}

func (m *pgGoal) CountDoneTasks(ctx context.Context, userId string, since time.Time, until time.Time) (int, error) {
	var n int
	if err := m.pool.QueryRow(
		ctx,
		`
		select count(*) from "task"
		where "user_id" = $1 and "monthly_goal_id" is not null and "status" = $2
			and $3 <= "goal_date" and "goal_date" <= $4
		`,
		userId, string(domain.TaskDone), domain.DateOf(since), domain.DateOf(until),
	).Scan(&n); err != nil {
		return 0, xe.Wrap(err)
	}
	return n, nil
}
