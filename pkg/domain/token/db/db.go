package db

import (
	"context"
	"time"

	"github.com/opst/todofab/pkg/domain"
)

type TokenInterface interface {
	// Save stores a newly issued refresh token.
	Save(ctx context.Context, token domain.RefreshToken) error

	// Rotate revokes the old token and stores the new one, atomically.
	//
	// The old token is marked as revoked at now and replaced by the new token.
	//
	// # Returns
	//
	// - error: wraps errors.ErrMissing if the old token is not stored,
	// or errors.ErrInvalidState if the old token is not active at now.
	Rotate(ctx context.Context, old string, new domain.RefreshToken, now time.Time) error

	// Revoke marks the token as revoked. Unknown or already revoked tokens are ignored.
	Revoke(ctx context.Context, token string, now time.Time) error

	// Purge removes tokens which have expired before the time.
	//
	// # Returns
	//
	// - int64: number of removed tokens.
	Purge(ctx context.Context, expiredBefore time.Time) (int64, error)
}
