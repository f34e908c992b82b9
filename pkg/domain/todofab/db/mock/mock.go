package mocks

import (
	"context"

	kdb "github.com/opst/todofab/pkg/domain/todofab/db"
	goalmock "github.com/opst/todofab/pkg/domain/goal/db/mock"
	kgoal "github.com/opst/todofab/pkg/domain/goal/db"
	schemamock "github.com/opst/todofab/pkg/domain/schema/db/mock"
	kschema "github.com/opst/todofab/pkg/domain/schema/db"
	taskmock "github.com/opst/todofab/pkg/domain/task/db/mock"
	ktask "github.com/opst/todofab/pkg/domain/task/db"
	tokenmock "github.com/opst/todofab/pkg/domain/token/db/mock"
	ktoken "github.com/opst/todofab/pkg/domain/token/db"
	usermock "github.com/opst/todofab/pkg/domain/user/db/mock"
	kuser "github.com/opst/todofab/pkg/domain/user/db"
)

// TodoDatabase bundles mocks of each domain.
type TodoDatabase struct {
	Users   *usermock.UserInterface
	Tokens  *tokenmock.TokenInterface
	Tasks   *taskmock.TaskInterface
	Goals   *goalmock.GoalInterface
	Schemas *schemamock.SchemaInterface

	// error returned by Ping.
	PingErr error
	Closed  bool
}

var _ kdb.TodoDatabase = &TodoDatabase{}

func New() *TodoDatabase {
	return &TodoDatabase{
		Users:   usermock.NewUserInterface(),
		Tokens:  tokenmock.NewTokenInterface(),
		Tasks:   taskmock.NewTaskInterface(),
		Goals:   goalmock.NewGoalInterface(),
		Schemas: schemamock.NewSchemaInterface(),
	}
}

func (m *TodoDatabase) User() kuser.UserInterface {
	return m.Users
}

func (m *TodoDatabase) Token() ktoken.TokenInterface {
	return m.Tokens
}

func (m *TodoDatabase) Task() ktask.TaskInterface {
	return m.Tasks
}

func (m *TodoDatabase) Goal() kgoal.GoalInterface {
	return m.Goals
}

func (m *TodoDatabase) Schema() kschema.SchemaInterface {
	return m.Schemas
}

func (m *TodoDatabase) Ping(context.Context) error {
	return m.PingErr
}

func (m *TodoDatabase) Close() error {
	m.Closed = true
	return nil
}
