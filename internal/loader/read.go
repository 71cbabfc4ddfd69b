package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrNoFileSystem is returned for fs sources when the loader has no fs.FS.
var ErrNoFileSystem = errors.New("loader: no file system configured for fs source")

// readDisk reads a definition file from the local disk. Relative paths are
// made absolute so included documents resolve against a stable directory.
func readDisk(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if path == "" {
		return nil, errors.New("loader: definition path is empty")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("loader: resolve %s: %w", path, err)
	}
	return os.ReadFile(abs)
}

// readFS reads a definition file from an embedded or virtual file system.
func readFS(ctx context.Context, fsys fs.FS, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if fsys == nil {
		return nil, ErrNoFileSystem
	}
	if !fs.ValidPath(name) {
		return nil, fmt.Errorf("loader: invalid fs path %q", name)
	}
	return fs.ReadFile(fsys, name)
}
