// this package provide "mock" implementation of database for testing.
package mocks

import (
	"context"
	"errors"
	"time"

	"github.com/opst/todofab/pkg/domain"
	dbmock "github.com/opst/todofab/pkg/domain/internal/db/mock"
	kuser "github.com/opst/todofab/pkg/domain/user/db"
)

type UserInterface struct {
	Impl struct {
		Register       func(ctx context.Context, spec domain.UserSpec) (domain.User, error)
		Get            func(ctx context.Context, userId string) (domain.User, error)
		GetByEmail     func(ctx context.Context, email string) (domain.User, error)
		Update         func(ctx context.Context, userId string, patch domain.UserPatch) (domain.User, error)
		ChangePassword func(ctx context.Context, userId string, passwordHash string, now time.Time) error
		Delete         func(ctx context.Context, userId string) error
	}
	Calls struct {
		Register   dbmock.CallLog[domain.UserSpec]
		Get        dbmock.CallLog[string]
		GetByEmail dbmock.CallLog[string]
		Update     dbmock.CallLog[struct {
			UserId string
			Patch  domain.UserPatch
		}]
		ChangePassword dbmock.CallLog[struct {
			UserId       string
			PasswordHash string
			Now          time.Time
		}]
		Delete dbmock.CallLog[string]
	}
}

var _ kuser.UserInterface = &UserInterface{}

func NewUserInterface() *UserInterface {
	return &UserInterface{}
}

func (m *UserInterface) Register(ctx context.Context, spec domain.UserSpec) (domain.User, error) {
	m.Calls.Register = append(m.Calls.Register, spec)
	if m.Impl.Register != nil {
		return m.Impl.Register(ctx, spec)
	}
	panic(errors.New("it should not be called"))
}

func (m *UserInterface) Get(ctx context.Context, userId string) (domain.User, error) {
	m.Calls.Get = append(m.Calls.Get, userId)
	if m.Impl.Get != nil {
		return m.Impl.Get(ctx, userId)
	}
	panic(errors.New("it should not be called"))
}

func (m *UserInterface) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	m.Calls.GetByEmail = append(m.Calls.GetByEmail, email)
	if m.Impl.GetByEmail != nil {
		return m.Impl.GetByEmail(ctx, email)
	}
	panic(errors.New("it should not be called"))
}

func (m *UserInterface) Update(ctx context.Context, userId string, patch domain.UserPatch) (domain.User, error) {
	m.Calls.Update = append(m.Calls.Update, struct {
		UserId string
		Patch  domain.UserPatch
	}{UserId: userId, Patch: patch})
	if m.Impl.Update != nil {
		return m.Impl.Update(ctx, userId, patch)
	}
	panic(errors.New("it should not be called"))
}

func (m *UserInterface) ChangePassword(ctx context.Context, userId string, passwordHash string, now time.Time) error {
	m.Calls.ChangePassword = append(m.Calls.ChangePassword, struct {
		UserId       string
		PasswordHash string
		Now          time.Time
	}{UserId: userId, PasswordHash: passwordHash, Now: now})
	if m.Impl.ChangePassword != nil {
		return m.Impl.ChangePassword(ctx, userId, passwordHash, now)
	}
	panic(errors.New("it should not be called"))
}

func (m *UserInterface) Delete(ctx context.Context, userId string) error {
	m.Calls.Delete = append(m.Calls.Delete, userId)
	if m.Impl.Delete != nil {
		return m.Impl.Delete(ctx, userId)
	}
	panic(errors.New("it should not be called"))
}
