package mocks

import (
	"context"
	"errors"
	"time"

	"github.com/opst/todofab/pkg/domain"
	dbmock "github.com/opst/todofab/pkg/domain/internal/db/mock"
	ktoken "github.com/opst/todofab/pkg/domain/token/db"
)

type TokenInterface struct {
	Impl struct {
		Save   func(ctx context.Context, token domain.RefreshToken) error
		Rotate func(ctx context.Context, old string, new domain.RefreshToken, now time.Time) error
		Revoke func(ctx context.Context, token string, now time.Time) error
		Purge  func(ctx context.Context, expiredBefore time.Time) (int64, error)
	}
	Calls struct {
		Save   dbmock.CallLog[domain.RefreshToken]
		Rotate dbmock.CallLog[struct {
			Old string
			New domain.RefreshToken
			Now time.Time
		}]
		Revoke dbmock.CallLog[struct {
			Token string
			Now   time.Time
		}]
		Purge dbmock.CallLog[time.Time]
	}
}

var _ ktoken.TokenInterface = &TokenInterface{}

func NewTokenInterface() *TokenInterface {
	return &TokenInterface{}
}

func (m *TokenInterface) Save(ctx context.Context, token domain.RefreshToken) error {
	m.Calls.Save = append(m.Calls.Save, token)
	if m.Impl.Save != nil {
		return m.Impl.Save(ctx, token)
	}
	panic(errors.New("it should not be called"))
}

func (m *TokenInterface) Rotate(ctx context.Context, old string, new domain.RefreshToken, now time.Time) error {
	m.Calls.Rotate = append(m.Calls.Rotate, struct {
		Old string
		New domain.RefreshToken
		Now time.Time
	}{Old: old, New: new, Now: now})
	if m.Impl.Rotate != nil {
		return m.Impl.Rotate(ctx, old, new, now)
	}
	panic(errors.New("it should not be called"))
}

func (m *TokenInterface) Revoke(ctx context.Context, token string, now time.Time) error {
	m.Calls.Revoke = append(m.Calls.Revoke, struct {
		Token string
		Now   time.Time
	}{Token: token, Now: now})
	if m.Impl.Revoke != nil {
		return m.Impl.Revoke(ctx, token, now)
	}
	panic(errors.New("it should not be called"))
}

func (m *TokenInterface) Purge(ctx context.Context, expiredBefore time.Time) (int64, error) {
	m.Calls.Purge = append(m.Calls.Purge, expiredBefore)
	if m.Impl.Purge != nil {
		return m.Impl.Purge(ctx, expiredBefore)
	}
	panic(errors.New("it should not be called"))
}
