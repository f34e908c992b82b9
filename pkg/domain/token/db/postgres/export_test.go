package postgres

import (
	"context"

	kpool "github.com/opst/todofab/pkg/conn/db/postgres/pool"
	"github.com/opst/todofab/pkg/domain"
)

// Lookup reads a stored refresh token as it is.
func Lookup(ctx context.Context, conn kpool.Queryer, token string) (domain.RefreshToken, error) {
	return get(ctx, conn, token, false)
}
