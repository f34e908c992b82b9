package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v4"
	kpool "github.com/opst/todofab/pkg/conn/db/postgres/pool"
	"github.com/opst/todofab/pkg/domain"
	domerr "github.com/opst/todofab/pkg/domain/errors"
	pgerrors "github.com/opst/todofab/pkg/domain/errors/dberrors/postgres"
	ktask "github.com/opst/todofab/pkg/domain/task/db"
	xe "github.com/opst/todofab/pkg/errors"
)

type pgTask struct {
	pool kpool.Pool
}

func New(pool kpool.Pool) ktask.TaskInterface {
	return &pgTask{pool: pool}
}

const taskColumns = `
	"id"::text, "user_id"::text, "title", "description", "status", "priority",
	"project", "tags", "due_date", "reminder_at", "is_archived",
	"monthly_goal_id"::text, "goal_date", "created_at", "updated_at"
`

const taskOrder = `
	order by
		"due_date" asc nulls last,
		case "priority" when 'high' then 3 when 'medium' then 2 when 'low' then 1 else 0 end desc,
		"created_at" asc,
		"id" asc
`

func scanTask(row pgx.Row) (domain.Task, error) {
	t := domain.Task{}
	var status, priority string
	var dueDate, reminderAt pgtype.Timestamptz
	var goalId pgtype.Text
	var goalDate pgtype.Date

	if err := row.Scan(
		&t.Id, &t.UserId, &t.Title, &t.Description, &status, &priority,
		&t.Project, &t.Tags, &dueDate, &reminderAt, &t.IsArchived,
		&goalId, &goalDate, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return domain.Task{}, err
	}

	t.Status = domain.TaskStatus(status)
	t.Priority = domain.TaskPriority(priority)
	if t.Tags == nil {
		t.Tags = []string{}
	}
	if dueDate.Status == pgtype.Present {
		d := dueDate.Time
		t.DueDate = &d
	}
	if reminderAt.Status == pgtype.Present {
		r := reminderAt.Time
		t.ReminderAt = &r
	}
	if goalId.Status == pgtype.Present {
		g := goalId.String
		t.MonthlyGoalId = &g
	}
	if goalDate.Status == pgtype.Present {
		d := goalDate.Time
		t.GoalDate = &d
	}
	return t, nil
}

func (m *pgTask) Create(ctx context.Context, userId string, spec domain.TaskSpec) (domain.Task, error) {
	spec = spec.WithDefaults()
	t, err := scanTask(m.pool.QueryRow(
		ctx,
		`
		insert into "task" (
			"id", "user_id", "title", "description", "status", "priority",
			"project", "tags", "due_date", "reminder_at", "is_archived"
		)
		values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		returning `+taskColumns,
		uuid.NewString(), userId, spec.Title, spec.Description,
		string(spec.Status), string(spec.Priority),
		spec.Project, spec.Tags, spec.DueDate, spec.ReminderAt, spec.IsArchived,
	))
	if err != nil {
		return domain.Task{}, xe.Wrap(err)
	}
	return t, nil
}

func get(ctx context.Context, conn kpool.Queryer, userId string, taskId string, lock bool) (domain.Task, error) {
	query := `select ` + taskColumns + ` from "task" where "id" = $1 and "user_id" = $2`
	if lock {
		query += ` for update`
	}
	t, err := scanTask(conn.QueryRow(ctx, query, taskId, userId))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Task{}, pgerrors.Missing{Table: "task", Identity: taskId}
	} else if err != nil {
		return domain.Task{}, xe.Wrap(err)
	}
	return t, nil
}

func (m *pgTask) Get(ctx context.Context, userId string, taskId string) (domain.Task, error) {
	return get(ctx, m.pool, userId, taskId, false)
}

func (m *pgTask) Find(ctx context.Context, query domain.TaskFindQuery) ([]domain.Task, int, error) {
	where := []string{`"user_id" = $1`}
	args := []any{query.UserId}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if query.Title != "" {
		where = append(where, `"title" ilike '%' || `+arg(escapeLike(query.Title))+` || '%'`)
	}
	if len(query.Status) != 0 {
		status := make([]string, 0, len(query.Status))
		for _, s := range query.Status {
			status = append(status, string(s))
		}
		where = append(where, `"status" = any(`+arg(status)+`)`)
	}
	if query.Project != "" {
		where = append(where, `"project" = `+arg(query.Project))
	}
	switch query.Archived {
	case domain.OnlyArchived:
		where = append(where, `"is_archived"`)
	case domain.AnyArchived:
	default:
		where = append(where, `not "is_archived"`)
	}
	if query.MonthlyGoalId != nil {
		where = append(where, `"monthly_goal_id" = `+arg(*query.MonthlyGoalId))
	}
	cond := strings.Join(where, " and ")

	var total int
	if err := m.pool.QueryRow(
		ctx, `select count(*) from "task" where `+cond, args...,
	).Scan(&total); err != nil {
		return nil, 0, xe.Wrap(err)
	}

	sql := `select ` + taskColumns + ` from "task" where ` + cond + taskOrder
	if 0 < query.Limit {
		sql += ` limit ` + arg(query.Limit)
	}
	if 0 < query.Offset {
		sql += ` offset ` + arg(query.Offset)
	}

	rows, err := m.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, xe.Wrap(err)
	}
	defer rows.Close()

	tasks := []domain.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, 0, xe.Wrap(err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, xe.Wrap(err)
	}
	return tasks, total, nil
}

// escapeLike escapes wildcards of LIKE pattern.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func write(ctx context.Context, conn kpool.Queryer, t domain.Task) (domain.Task, error) {
	updated, err := scanTask(conn.QueryRow(
		ctx,
		`
		update "task"
		set
			"title" = $3, "description" = $4, "status" = $5, "priority" = $6,
			"project" = $7, "tags" = $8, "due_date" = $9, "reminder_at" = $10,
			"is_archived" = $11, "updated_at" = now()
		where "id" = $1 and "user_id" = $2
		returning `+taskColumns,
		t.Id, t.UserId, t.Title, t.Description, string(t.Status), string(t.Priority),
		t.Project, t.Tags, t.DueDate, t.ReminderAt, t.IsArchived,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Task{}, pgerrors.Missing{Table: "task", Identity: t.Id}
	} else if err != nil {
		return domain.Task{}, xe.Wrap(err)
	}
	return updated, nil
}

// modify reads the task with lock, and writes back what the callback returns.
func (m *pgTask) modify(
	ctx context.Context, userId string, taskId string,
	callback func(domain.Task) (domain.Task, error),
) (domain.Task, error) {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return domain.Task{}, xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	current, err := get(ctx, tx, userId, taskId, true)
	if err != nil {
		return domain.Task{}, err
	}
	next, err := callback(current)
	if err != nil {
		return domain.Task{}, err
	}
	updated, err := write(ctx, tx, next)
	if err != nil {
		return domain.Task{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Task{}, xe.Wrap(err)
	}
	return updated, nil
}

func (m *pgTask) Update(ctx context.Context, userId string, taskId string, patch domain.TaskPatch) (domain.Task, error) {
	return m.modify(ctx, userId, taskId, func(t domain.Task) (domain.Task, error) {
		return patch.Apply(t), nil
	})
}

func (m *pgTask) Archive(ctx context.Context, userId string, taskId string) (domain.Task, error) {
	return m.modify(ctx, userId, taskId, func(t domain.Task) (domain.Task, error) {
		if t.IsArchived {
			return t, fmt.Errorf("%w: task is already archived", domerr.ErrInvalidState)
		}
		t.IsArchived = true
		return t, nil
	})
}

func (m *pgTask) Restore(ctx context.Context, userId string, taskId string) (domain.Task, error) {
	return m.modify(ctx, userId, taskId, func(t domain.Task) (domain.Task, error) {
		if !t.IsArchived {
			return t, fmt.Errorf("%w: task is not archived", domerr.ErrInvalidState)
		}
		t.IsArchived = false
		return t, nil
	})
}

func (m *pgTask) Delete(ctx context.Context, userId string, taskId string) (domain.Task, error) {
	t, err := scanTask(m.pool.QueryRow(
		ctx,
		`delete from "task" where "id" = $1 and "user_id" = $2 returning `+taskColumns,
		taskId, userId,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Task{}, pgerrors.Missing{Table: "task", Identity: taskId}
	} else if err != nil {
		return domain.Task{}, xe.Wrap(err)
	}
	return t, nil
}
