package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v4"
	kpool "github.com/opst/todofab/pkg/conn/db/postgres/pool"
	"github.com/opst/todofab/pkg/domain"
	domerr "github.com/opst/todofab/pkg/domain/errors"
	pgerrors "github.com/opst/todofab/pkg/domain/errors/dberrors/postgres"
	ktoken "github.com/opst/todofab/pkg/domain/token/db"
	xe "github.com/opst/todofab/pkg/errors"
)

type pgToken struct {
	pool kpool.Pool
}

func New(pool kpool.Pool) ktoken.TokenInterface {
	return &pgToken{pool: pool}
}

func (m *pgToken) Save(ctx context.Context, token domain.RefreshToken) error {
	if _, err := m.pool.Exec(
		ctx,
		`
		insert into "refresh_token" ("token", "user_id", "expires_at", "created_at")
		values ($1, $2, $3, $4)
		`,
		token.Token, token.UserId, token.ExpiresAt, token.CreatedAt,
	); err != nil {
		return pgerrors.AsConflict("refresh_token", err)
	}
	return nil
}

func get(ctx context.Context, conn kpool.Queryer, token string, lock bool) (domain.RefreshToken, error) {
	query := `
	select "token", "user_id"::text, "expires_at", "created_at", "revoked_at", "replaced_by_token"
	from "refresh_token"
	where "token" = $1
	`
	if lock {
		query += ` for update`
	}

	rt := domain.RefreshToken{}
	var revokedAt pgtype.Timestamptz
	var replacedBy pgtype.Text
	if err := conn.QueryRow(ctx, query, token).Scan(
		&rt.Token, &rt.UserId, &rt.ExpiresAt, &rt.CreatedAt, &revokedAt, &replacedBy,
	); errors.Is(err, pgx.ErrNoRows) {
		return domain.RefreshToken{}, pgerrors.Missing{Table: "refresh_token", Identity: "(token)"}
	} else if err != nil {
		return domain.RefreshToken{}, xe.Wrap(err)
	}

	if revokedAt.Status == pgtype.Present {
		t := revokedAt.Time
		rt.RevokedAt = &t
	}
	if replacedBy.Status == pgtype.Present {
		s := replacedBy.String
		rt.ReplacedByToken = &s
	}
	return rt, nil
}

func (m *pgToken) Rotate(ctx context.Context, old string, new domain.RefreshToken, now time.Time) error {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	current, err := get(ctx, tx, old, true)
	if err != nil {
		return err
	}
	if !current.IsActive(now) {
		return fmt.Errorf("%w: refresh token is revoked or expired", domerr.ErrInvalidState)
	}

	if _, err := tx.Exec(
		ctx,
		`
		update "refresh_token"
		set "revoked_at" = $2, "replaced_by_token" = $3
		where "token" = $1
		`,
		old, now, new.Token,
	); err != nil {
		return xe.Wrap(err)
	}

	if _, err := tx.Exec(
		ctx,
		`
		insert into "refresh_token" ("token", "user_id", "expires_at", "created_at")
		values ($1, $2, $3, $4)
		`,
		new.Token, new.UserId, new.ExpiresAt, new.CreatedAt,
	); err != nil {
		return pgerrors.AsConflict("refresh_token", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return xe.Wrap(err)
	}
	return nil
}

func (m *pgToken) Revoke(ctx context.Context, token string, now time.Time) error {
	if _, err := m.pool.Exec(
		ctx,
		`
		update "refresh_token" set "revoked_at" = $2
		where "token" = $1 and "revoked_at" is null
		`,
		token, now,
	); err != nil {
		return xe.Wrap(err)
	}
	return nil
}

// RevokeAll revokes all active tokens of the user.
//
// conn can be a transaction of other stores.
func RevokeAll(ctx context.Context, conn kpool.Queryer, userId string, now time.Time) error {
	if _, err := conn.Exec(
		ctx,
		`
		update "refresh_token" set "revoked_at" = $2
		where "user_id" = $1 and "revoked_at" is null
		`,
		userId, now,
	); err != nil {
		return xe.Wrap(err)
	}
	return nil
}

func (m *pgToken) Purge(ctx context.Context, expiredBefore time.Time) (int64, error) {
	ctag, err := m.pool.Exec(
		ctx, `delete from "refresh_token" where "expires_at" < $1`, expiredBefore,
	)
	if err != nil {
		return 0, xe.Wrap(err)
	}
	return ctag.RowsAffected(), nil
}
