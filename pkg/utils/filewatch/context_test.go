package filewatch_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	testctx "github.com/opst/todofab/internal/testutils/context"
	"github.com/opst/todofab/pkg/utils/filewatch"
)

func TestUntilModifyContext(t *testing.T) {
	type when struct {
		// watch directory or file
		watchDir bool
		modify   func(t *testing.T, file string)
	}

	for name, testcase := range map[string]when{
		"when a file is created in a watched directory, it cancels context": {
			watchDir: true,
			modify: func(t *testing.T, file string) {
				if err := os.WriteFile(file+".new", []byte{}, 0o644); err != nil {
					t.Fatal(err)
				}
			},
		},
		"when a watched file is written, it cancels context": {
			modify: func(t *testing.T, file string) {
				if err := os.WriteFile(file, []byte("port: 5555"), 0o644); err != nil {
					t.Fatal(err)
				}
			},
		},
		"when a watched file is deleted, it cancels context": {
			modify: func(t *testing.T, file string) {
				if err := os.Remove(file); err != nil {
					t.Fatal(err)
				}
			},
		},
		"when a file in the watched directory is renamed, it cancels context": {
			watchDir: true,
			modify: func(t *testing.T, file string) {
				if err := os.Rename(file, file+".renamed"); err != nil {
					t.Fatal(err)
				}
			},
		},
	} {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			file := filepath.Join(dir, "config.yaml")
			if err := os.WriteFile(file, []byte{}, 0o644); err != nil {
				t.Fatal(err)
			}

			target := file
			if testcase.watchDir {
				target = dir
			}

			basectx, cancelTest := testctx.WithTest(context.Background(), t)
			defer cancelTest()

			ctx, cancel, err := filewatch.UntilModifyContext(basectx, target)
			if err != nil {
				t.Fatal(err)
			}
			defer cancel()

			if err := ctx.Err(); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			testcase.modify(t, file)

			select {
			case <-ctx.Done():
			case <-time.After(10 * time.Second):
				t.Fatal("context is not cancelled")
			}
			if basectx.Err() != nil {
				t.Fatal("test deadline exceeded")
			}
			if cause := context.Cause(ctx); cause == nil || !strings.Contains(cause.Error(), "is updated") {
				t.Errorf("unexpected cause: %v", cause)
			}
		})
	}
}

func TestUntilModifyContext_EmptyPath(t *testing.T) {
	ctx, cancel, err := filewatch.UntilModifyContext(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	defer cancel()

	if err := ctx.Err(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestUntilModifyContext_MissingFile(t *testing.T) {
	_, _, err := filewatch.UntilModifyContext(
		context.Background(), filepath.Join(t.TempDir(), "missing.yaml"),
	)
	if err == nil {
		t.Error("expected error does not occur")
	}
}
