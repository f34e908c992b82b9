package mocks

import (
	"context"
	"errors"

	dbmock "github.com/opst/todofab/pkg/domain/internal/db/mock"
	kschema "github.com/opst/todofab/pkg/domain/schema/db"
)

type SchemaInterface struct {
	Impl struct {
		Upgrade func(ctx context.Context) error
		Version func(ctx context.Context) (int, error)
		Latest  func() (int, error)
		Context func(ctx context.Context) (context.Context, context.CancelFunc)
	}
	Calls struct {
		Upgrade dbmock.CallLog[struct{}]
		Version dbmock.CallLog[struct{}]
		Latest  dbmock.CallLog[struct{}]
		Context dbmock.CallLog[struct{}]
	}
}

var _ kschema.SchemaInterface = &SchemaInterface{}

func NewSchemaInterface() *SchemaInterface {
	return &SchemaInterface{}
}

func (m *SchemaInterface) Upgrade(ctx context.Context) error {
	m.Calls.Upgrade = append(m.Calls.Upgrade, struct{}{})
	if m.Impl.Upgrade != nil {
		return m.Impl.Upgrade(ctx)
	}
	panic(errors.New("it should not be called"))
}

func (m *SchemaInterface) Version(ctx context.Context) (int, error) {
	m.Calls.Version = append(m.Calls.Version, struct{}{})
	if m.Impl.Version != nil {
		return m.Impl.Version(ctx)
	}
	panic(errors.New("it should not be called"))
}

func (m *SchemaInterface) Latest() (int, error) {
	m.Calls.Latest = append(m.Calls.Latest, struct{}{})
	if m.Impl.Latest != nil {
		return m.Impl.Latest()
	}
	panic(errors.New("it should not be called"))
}

func (m *SchemaInterface) Context(ctx context.Context) (context.Context, context.CancelFunc) {
	m.Calls.Context = append(m.Calls.Context, struct{}{})
	if m.Impl.Context != nil {
		return m.Impl.Context(ctx)
	}
	panic(errors.New("it should not be called"))
}
