package db

import (
	"context"

	kgoal "github.com/opst/todofab/pkg/domain/goal/db"
	kschema "github.com/opst/todofab/pkg/domain/schema/db"
	ktask "github.com/opst/todofab/pkg/domain/task/db"
	ktoken "github.com/opst/todofab/pkg/domain/token/db"
	kuser "github.com/opst/todofab/pkg/domain/user/db"
)

type TodoDatabase interface {
	User() kuser.UserInterface
	Token() ktoken.TokenInterface
	Task() ktask.TaskInterface
	Goal() kgoal.GoalInterface
	Schema() kschema.SchemaInterface

	// Ping checks the database is reachable.
	Ping(ctx context.Context) error
	Close() error
}
