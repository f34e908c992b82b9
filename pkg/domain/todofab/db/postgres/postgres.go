package postgres

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/labstack/gommon/log"
	kpool "github.com/opst/todofab/pkg/conn/db/postgres/pool"
	kgoal "github.com/opst/todofab/pkg/domain/goal/db"
	kpggoal "github.com/opst/todofab/pkg/domain/goal/db/postgres"
	kschema "github.com/opst/todofab/pkg/domain/schema/db"
	kpgschema "github.com/opst/todofab/pkg/domain/schema/db/postgres"
	ktask "github.com/opst/todofab/pkg/domain/task/db"
	kpgtask "github.com/opst/todofab/pkg/domain/task/db/postgres"
	dbInterface "github.com/opst/todofab/pkg/domain/todofab/db"
	ktoken "github.com/opst/todofab/pkg/domain/token/db"
	kpgtoken "github.com/opst/todofab/pkg/domain/token/db/postgres"
	kuser "github.com/opst/todofab/pkg/domain/user/db"
	kpguser "github.com/opst/todofab/pkg/domain/user/db/postgres"
	xe "github.com/opst/todofab/pkg/errors"
)

type todoDBPostgres struct {
	pool   kpool.Pool
	user   kuser.UserInterface
	token  ktoken.TokenInterface
	task   ktask.TaskInterface
	goal   kgoal.GoalInterface
	schema kschema.SchemaInterface
}

type Config struct {
	SchemaRepository string

	// how long it keeps trying to connect. 0 means it tries only once.
	ConnectTimeout time.Duration

	Logger *log.Logger
}

type Option func(*Config) *Config

func WithSchemaRepository(repository string) Option {
	return func(c *Config) *Config {
		c.SchemaRepository = repository
		return c
	}
}

func WithConnectTimeout(d time.Duration) Option {
	return func(c *Config) *Config {
		c.ConnectTimeout = d
		return c
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(c *Config) *Config {
		c.Logger = logger
		return c
	}
}

// connect opens a pool, retrying with exponential backoff until the timeout.
func connect(ctx context.Context, url string, c Config) (*pgxpool.Pool, error) {
	var b backoff.BackOff = &backoff.StopBackOff{}
	if 0 < c.ConnectTimeout {
		exp := backoff.NewExponentialBackOff()
		exp.MaxElapsedTime = c.ConnectTimeout
		b = exp
	}

	return backoff.RetryNotifyWithData(
		func() (*pgxpool.Pool, error) {
			pool, err := pgxpool.Connect(ctx, url)
			if err != nil {
				return nil, err
			}
			if err := pool.Ping(ctx); err != nil {
				pool.Close()
				return nil, err
			}
			return pool, nil
		},
		backoff.WithContext(b, ctx),
		func(err error, next time.Duration) {
			if c.Logger != nil {
				c.Logger.Warnf("database is not ready (retry in %s): %v", next, err)
			}
		},
	)
}

func New(
	ctx context.Context,
	url string,
	options ...Option,
) (dbInterface.TodoDatabase, error) {
	c := Config{}
	for _, option := range options {
		c = *option(&c)
	}

	pool, err := connect(ctx, url, c)
	if err != nil {
		return nil, xe.Wrap(err)
	}

	return Wrap(kpool.Wrap(pool), c.SchemaRepository), nil
}

// Wrap builds the database on an opened pool.
func Wrap(p kpool.Pool, schemaRepository string) dbInterface.TodoDatabase {
	schema := kpgschema.Null()
	if schemaRepository != "" {
		schema = kpgschema.New(p, schemaRepository)
	}

	return &todoDBPostgres{
		pool:   p,
		user:   kpguser.New(p),
		token:  kpgtoken.New(p),
		task:   kpgtask.New(p),
		goal:   kpggoal.New(p),
		schema: schema,
	}
}

func (k *todoDBPostgres) User() kuser.UserInterface {
	return k.user
}

func (k *todoDBPostgres) Token() ktoken.TokenInterface {
	return k.token
}

func (k *todoDBPostgres) Task() ktask.TaskInterface {
	return k.task
}

func (k *todoDBPostgres) Goal() kgoal.GoalInterface {
	return k.goal
}

func (k *todoDBPostgres) Schema() kschema.SchemaInterface {
	return k.schema
}

func (k *todoDBPostgres) Ping(ctx context.Context) error {
	return k.pool.Ping(ctx)
}

func (k *todoDBPostgres) Close() error {
	k.pool.Close()
	return nil
}
