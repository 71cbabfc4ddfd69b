package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/goliatone/go-dxu/pkg/schema"
)

// Loader implements schema.Loader for disk and fs.FS sources.
// Every call performs exactly one synchronous read; nothing is cached.
type Loader struct {
	fs fs.FS
}

var _ schema.Loader = (*Loader)(nil)

// New returns a Loader reading fs sources from options.FileSystem.
func New(options schema.LoaderOptions) *Loader {
	return &Loader{fs: options.FileSystem}
}

// Load reads src and wraps the bytes in a schema.Document.
func (l *Loader) Load(ctx context.Context, src schema.Source) (schema.Document, error) {
	if src == nil {
		return schema.Document{}, errors.New("loader: source is nil")
	}

	var (
		data []byte
		err  error
	)

	switch src.Kind() {
	case schema.SourceKindFile:
		data, err = readDisk(ctx, src.Location())
	case schema.SourceKindFS:
		data, err = readFS(ctx, l.fs, src.Location())
	default:
		err = fmt.Errorf("loader: unsupported source kind %q", src.Kind())
	}
	if err != nil {
		return schema.Document{}, err
	}
	if len(data) == 0 {
		// An empty file is a valid, null YAML document.
		data = []byte("null\n")
	}

	return schema.NewDocument(src, data)
}
