package db

import (
	"context"
	"time"

	"github.com/opst/todofab/pkg/domain"
)

type UserInterface interface {
	// Register creates a new user.
	//
	// # Returns
	//
	// - domain.User: the registered user
	//
	// - error: wraps errors.ErrConflict when the email is taken.
	Register(ctx context.Context, spec domain.UserSpec) (domain.User, error)

	// Get returns the user with the id.
	//
	// If not found, the error wraps errors.ErrMissing.
	Get(ctx context.Context, userId string) (domain.User, error)

	// GetByEmail returns the user with the (normalized) email.
	//
	// If not found, the error wraps errors.ErrMissing.
	GetByEmail(ctx context.Context, email string) (domain.User, error)

	// Update changes the name and/or the avatar url of the user.
	Update(ctx context.Context, userId string, patch domain.UserPatch) (domain.User, error)

	// ChangePassword replaces the password hash of the user,
	// and revokes all refresh tokens of the user at the same time.
	ChangePassword(ctx context.Context, userId string, passwordHash string, now time.Time) error

	// Delete removes the user with tasks, goals and refresh tokens of the user.
	Delete(ctx context.Context, userId string) error
}
