package loader

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-dxu/pkg/schema"
)

func TestLoader_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "def.yml")
	if err := os.WriteFile(path, []byte("name: test\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	doc, err := New(schema.LoaderOptions{}).Load(context.Background(), schema.SourceFromFile(path))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(doc.Raw()) != "name: test\n" {
		t.Fatalf("unexpected payload %q", doc.Raw())
	}
	if doc.Dir() != dir {
		t.Fatalf("expected dir %q, got %q", dir, doc.Dir())
	}
}

func TestLoader_FS(t *testing.T) {
	files := fstest.MapFS{
		"defs/a.yml": {Data: []byte("a: 1\n")},
		"empty.yml":  {Data: nil},
	}
	l := New(schema.NewLoaderOptions(schema.WithFileSystem(files)))

	doc, err := l.Load(context.Background(), schema.SourceFromFS("defs/a.yml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(doc.Raw()) != "a: 1\n" {
		t.Fatalf("unexpected payload %q", doc.Raw())
	}

	empty, err := l.Load(context.Background(), schema.SourceFromFS("empty.yml"))
	if err != nil {
		t.Fatalf("load empty: %v", err)
	}
	if string(empty.Raw()) != "null\n" {
		t.Fatalf("expected null document, got %q", empty.Raw())
	}
}

func TestLoader_MissingReportsNotExist(t *testing.T) {
	l := New(schema.NewLoaderOptions(schema.WithFileSystem(fstest.MapFS{})))

	_, err := l.Load(context.Background(), schema.SourceFromFS("missing.yml"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist, got %v", err)
	}

	_, err = l.Load(context.Background(), schema.SourceFromFile(filepath.Join(t.TempDir(), "missing.yml")))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist for file, got %v", err)
	}
}

func TestLoader_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	l := New(schema.NewLoaderOptions(schema.WithFileSystem(fstest.MapFS{"a.yml": {Data: []byte("a: 1")}})))
	if _, err := l.Load(ctx, schema.SourceFromFS("a.yml")); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestLoader_FSWithoutFileSystem(t *testing.T) {
	_, err := New(schema.LoaderOptions{}).Load(context.Background(), schema.SourceFromFS("a.yml"))
	if !errors.Is(err, ErrNoFileSystem) {
		t.Fatalf("expected ErrNoFileSystem, got %v", err)
	}
}

func TestLoader_FSRejectsInvalidPath(t *testing.T) {
	l := New(schema.NewLoaderOptions(schema.WithFileSystem(fstest.MapFS{})))
	if _, err := l.Load(context.Background(), schema.SourceFromFS("../escape.yml")); err == nil {
		t.Fatalf("expected error for path outside the fs root")
	}
}
