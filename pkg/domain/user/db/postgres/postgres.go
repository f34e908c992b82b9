package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	kpool "github.com/opst/todofab/pkg/conn/db/postgres/pool"
	"github.com/opst/todofab/pkg/domain"
	pgerrors "github.com/opst/todofab/pkg/domain/errors/dberrors/postgres"
	kpgtoken "github.com/opst/todofab/pkg/domain/token/db/postgres"
	kuser "github.com/opst/todofab/pkg/domain/user/db"
	xe "github.com/opst/todofab/pkg/errors"
)

type pgUser struct {
	pool kpool.Pool
}

func New(pool kpool.Pool) kuser.UserInterface {
	return &pgUser{pool: pool}
}

const userColumns = `"id"::text, "name", "email", "password_hash", "avatar_url", "created_at"`

func scanUser(row pgx.Row) (domain.User, error) {
	u := domain.User{}
	err := row.Scan(&u.Id, &u.Name, &u.Email, &u.PasswordHash, &u.AvatarUrl, &u.CreatedAt)
	return u, err
}

func (m *pgUser) Register(ctx context.Context, spec domain.UserSpec) (domain.User, error) {
	u, err := scanUser(m.pool.QueryRow(
		ctx,
		`
		insert into "users" ("id", "name", "email", "password_hash")
		values ($1, $2, $3, $4)
		returning `+userColumns,
		uuid.NewString(), spec.Name, domain.NormalizeEmail(spec.Email), spec.PasswordHash,
	))
	if err != nil {
		return domain.User{}, pgerrors.AsConflict("users", err)
	}
	return u, nil
}

func (m *pgUser) Get(ctx context.Context, userId string) (domain.User, error) {
	u, err := scanUser(m.pool.QueryRow(
		ctx, `select `+userColumns+` from "users" where "id" = $1`, userId,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, pgerrors.Missing{Table: "users", Identity: userId}
	} else if err != nil {
		return domain.User{}, xe.Wrap(err)
	}
	return u, nil
}

func (m *pgUser) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	email = domain.NormalizeEmail(email)
	u, err := scanUser(m.pool.QueryRow(
		ctx, `select `+userColumns+` from "users" where "email" = $1`, email,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, pgerrors.Missing{Table: "users", Identity: email}
	} else if err != nil {
		return domain.User{}, xe.Wrap(err)
	}
	return u, nil
}

func (m *pgUser) Update(ctx context.Context, userId string, patch domain.UserPatch) (domain.User, error) {
	u, err := scanUser(m.pool.QueryRow(
		ctx,
		`
		update "users"
		set
			"name" = coalesce($2, "name"),
			"avatar_url" = coalesce($3, "avatar_url")
		where "id" = $1
		returning `+userColumns,
		userId, patch.Name, patch.AvatarUrl,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, pgerrors.Missing{Table: "users", Identity: userId}
	} else if err != nil {
		return domain.User{}, xe.Wrap(err)
	}
	return u, nil
}

func (m *pgUser) ChangePassword(ctx context.Context, userId string, passwordHash string, now time.Time) error {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	ctag, err := tx.Exec(
		ctx,
		`update "users" set "password_hash" = $2 where "id" = $1`,
		userId, passwordHash,
	)
	if err != nil {
		return xe.Wrap(err)
	}
	if ctag.RowsAffected() == 0 {
		return pgerrors.Missing{Table: "users", Identity: userId}
	}

	if err := kpgtoken.RevokeAll(ctx, tx, userId, now); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return xe.Wrap(err)
	}
	return nil
}

func (m *pgUser) Delete(ctx context.Context, userId string) error {
	// tasks, goals and tokens are removed by "on delete cascade".
	ctag, err := m.pool.Exec(ctx, `delete from "users" where "id" = $1`, userId)
	if err != nil {
		return xe.Wrap(err)
	}
	if ctag.RowsAffected() == 0 {
		return pgerrors.Missing{Table: "users", Identity: userId}
	}
	return nil
}
