package postgres_test

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/opst/todofab/pkg/conn/db/postgres/pool/testenv"
	kpgschema "github.com/opst/todofab/pkg/domain/schema/db/postgres"
	"github.com/opst/todofab/pkg/utils/try"
)

func writeVersion(t *testing.T, repo string, version string, sql string) {
	t.Helper()
	dir := filepath.Join(repo, version)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "000.sql"), []byte(sql), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestSchema(t *testing.T) {
	ctx := context.Background()
	broaker := testenv.NewPoolBroaker(ctx, t)

	t.Run("the schema repository of this module is applied", func(t *testing.T) {
		pool := broaker.GetPool(ctx, t)
		testee := kpgschema.New(pool, testenv.SchemaRepository())

		latest := try.To(testee.Latest()).OrFatal(t)
		if latest < 1 {
			t.Fatalf("unexpected latest version: %d", latest)
		}
		if v := try.To(testee.Version(ctx)).OrFatal(t); v != latest {
			t.Errorf("database is not the latest: %d < %d", v, latest)
		}

		// applying again changes nothing.
		if err := testee.Upgrade(ctx); err != nil {
			t.Fatal(err)
		}

		cctx, cancel := testee.Context(ctx)
		defer cancel()
		if err := cctx.Err(); err != nil {
			t.Errorf("context should not be cancelled: %v", context.Cause(cctx))
		}
	})

	t.Run("adding a new version cancels the context, and Upgrade applies it", func(t *testing.T) {
		pool := broaker.GetPool(ctx, t)
		repo := t.TempDir()
		base := try.To(kpgschema.New(pool, testenv.SchemaRepository()).Version(ctx)).OrFatal(t)

		next := base + 1
		testee := kpgschema.New(pool, repo)

		// empty repository: the database is newer than required.
		cctx, cancel := testee.Context(ctx)
		defer cancel()
		if err := cctx.Err(); err != nil {
			t.Fatalf("context should not be cancelled: %v", context.Cause(cctx))
		}

		writeVersion(t, repo, strconv.Itoa(next), `create table "schema_test_extra" ("id" int)`)

		select {
		case <-cctx.Done():
		case <-time.After(10 * time.Second):
			t.Fatal("context is not cancelled")
		}

		if err := testee.Upgrade(ctx); err != nil {
			t.Fatal(err)
		}
		if v := try.To(testee.Version(ctx)).OrFatal(t); v != next {
			t.Errorf("unexpected version: %d", v)
		}
		if _, err := pool.Exec(ctx, `drop table "schema_test_extra"`); err != nil {
			t.Errorf("new version is not applied: %v", err)
		}
	})
}
