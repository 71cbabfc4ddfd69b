package schema

import (
	"path"
	"path/filepath"
)

// Source identifies where a definition document originated so loaders can
// operate on files or fs.FS entries without leaking implementation details.
type Source interface {
	Kind() SourceKind
	Location() string
}

// SourceKind enumerates the loader modalities.
type SourceKind string

const (
	SourceKindFile SourceKind = "file"
	SourceKindFS   SourceKind = "fs"
)

// fileSource identifies on-disk documents.
type fileSource struct {
	path string
}

func (s fileSource) Location() string {
	return s.path
}

func (s fileSource) Kind() SourceKind {
	return SourceKindFile
}

// SourceFromFile returns a Source pointing to a file path.
func SourceFromFile(path string) Source {
	return fileSource{path: filepath.Clean(path)}
}

// fsSource references a path within an fs.FS.
type fsSource struct {
	name string
}

func (s fsSource) Location() string {
	return s.name
}

func (s fsSource) Kind() SourceKind {
	return SourceKindFS
}

// SourceFromFS returns a Source identifying a resource inside an fs.FS. Names
// always use forward slashes, as required by io/fs.
func SourceFromFS(name string) Source {
	return fsSource{name: path.Clean(filepath.ToSlash(name))}
}

// Dir returns the directory that relative references found in the source are
// resolved against.
func Dir(src Source) string {
	if src == nil {
		return ""
	}
	if src.Kind() == SourceKindFS {
		return path.Dir(src.Location())
	}
	return filepath.Dir(src.Location())
}

// Relative returns a Source of the same kind as src for ref, interpreted
// relative to the directory of src. Absolute file references are kept as-is.
func Relative(src Source, ref string) Source {
	if src == nil {
		return nil
	}
	if src.Kind() == SourceKindFS {
		return SourceFromFS(path.Join(path.Dir(src.Location()), filepath.ToSlash(ref)))
	}
	if filepath.IsAbs(ref) {
		return SourceFromFile(ref)
	}
	return SourceFromFile(filepath.Join(filepath.Dir(src.Location()), ref))
}

// Key returns a canonical identifier for src, suitable for cycle detection.
func Key(src Source) string {
	if src == nil {
		return ""
	}
	if src.Kind() == SourceKindFile {
		if abs, err := filepath.Abs(src.Location()); err == nil {
			return string(SourceKindFile) + ":" + abs
		}
	}
	return string(src.Kind()) + ":" + src.Location()
}
