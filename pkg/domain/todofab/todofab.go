package todofab

import (
	"context"

	"github.com/opst/todofab/pkg/domain/goal"
	"github.com/opst/todofab/pkg/domain/schema"
	"github.com/opst/todofab/pkg/domain/task"
	dbInterface "github.com/opst/todofab/pkg/domain/todofab/db"
	"github.com/opst/todofab/pkg/domain/todofab/db/postgres"
	"github.com/opst/todofab/pkg/domain/token"
	"github.com/opst/todofab/pkg/domain/user"
)

// Todofab bundles domains of the application.
type Todofab interface {
	User() user.Interface
	Token() token.Interface
	Task() task.Interface
	Goal() goal.Interface
	Schema() schema.Interface

	// Ping checks that the backing database is reachable.
	Ping(ctx context.Context) error
	Close() error
}

type todofab struct {
	database dbInterface.TodoDatabase

	user   user.Interface
	token  token.Interface
	task   task.Interface
	goal   goal.Interface
	schema schema.Interface
}

// New connects to the database, and builds domains on it.
func New(ctx context.Context, dbUri string, options ...postgres.Option) (Todofab, error) {
	pg, err := postgres.New(ctx, dbUri, options...)
	if err != nil {
		return nil, err
	}
	return Attach(pg), nil
}

// Attach builds domains on the database.
func Attach(database dbInterface.TodoDatabase) Todofab {
	return &todofab{
		database: database,
		user:     user.New(database.User()),
		token:    token.New(database.Token()),
		task:     task.New(database.Task()),
		goal:     goal.New(database.Goal()),
		schema:   schema.New(database.Schema()),
	}
}

func (t *todofab) User() user.Interface {
	return t.user
}

func (t *todofab) Token() token.Interface {
	return t.token
}

func (t *todofab) Task() task.Interface {
	return t.task
}

func (t *todofab) Goal() goal.Interface {
	return t.goal
}

func (t *todofab) Schema() schema.Interface {
	return t.schema
}

func (t *todofab) Ping(ctx context.Context) error {
	return t.database.Ping(ctx)
}

func (t *todofab) Close() error {
	return t.database.Close()
}
