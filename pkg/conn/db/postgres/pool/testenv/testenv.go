package testenv

import (
	"context"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/jackc/pgx/v4/pgxpool"
	kpool "github.com/opst/todofab/pkg/conn/db/postgres/pool"
	kpgschema "github.com/opst/todofab/pkg/domain/schema/db/postgres"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

// PoolBroaker is a interface to get a pool.
type PoolBroaker interface {
	// GetPool returns a pool.
	//
	// Tables are cleaned up before returning and after t.
	GetPool(ctx context.Context, t *testing.T) kpool.Pool
}

type pg struct {
	pool *pgxpool.Pool
}

func (p *pg) GetPool(ctx context.Context, t *testing.T) kpool.Pool {
	t.Helper()
	t.Cleanup(func() {
		ClearTables(context.Background(), p.pool, t)
	})
	ClearTables(ctx, p.pool, t)
	return kpool.Wrap(p.pool)
}

// SchemaRepository returns the path to the schema repository of this module.
func SchemaRepository() string {
	_, here, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(here), "..", "..", "..", "..", "..", "..", "schema", "postgres")
}

func dockerAvailable() bool {
	return exec.Command("docker", "info").Run() == nil
}

// NewPoolBroaker starts a throwaway PostgreSQL in a container, and upgrades its schema to the latest.
//
// When docker is not available, the test is skipped.
// The container is terminated after t.
func NewPoolBroaker(ctx context.Context, t *testing.T) PoolBroaker {
	t.Helper()

	if !dockerAvailable() {
		t.Skip("docker is not available, skipping PostgreSQL tests")
	}

	container, err := postgres.Run(
		ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("todofab"),
		postgres.WithUsername("test-user"),
		postgres.WithPassword("test-pass"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Skipf("failed to start PostgreSQL container: %v", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	uri, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatal(err)
	}

	pool, err := pgxpool.Connect(ctx, uri)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(pool.Close)

	if err := kpgschema.New(kpool.Wrap(pool), SchemaRepository()).Upgrade(ctx); err != nil {
		t.Fatal(err)
	}

	return &pg{pool: pool}
}

func ClearTables(ctx context.Context, p *pgxpool.Pool, t *testing.T) {
	t.Helper()

	// by cascade, tokens, goals and tasks are deleted.
	if _, err := p.Exec(ctx, `truncate "users" cascade`); err != nil {
		t.Errorf("fail to clean-up tables.: %v", err)
	}
}
