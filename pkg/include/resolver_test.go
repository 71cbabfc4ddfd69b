package include

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-dxu/internal/loader"
	"github.com/goliatone/go-dxu/pkg/schema"
	"github.com/goliatone/go-dxu/pkg/testsupport"
)

type countingLoader struct {
	inner schema.Loader
	calls map[string]int
}

func (c *countingLoader) Load(ctx context.Context, src schema.Source) (schema.Document, error) {
	c.calls[src.Location()]++
	return c.inner.Load(ctx, src)
}

func newFSLoader(files fstest.MapFS) *countingLoader {
	return &countingLoader{
		inner: loader.New(schema.NewLoaderOptions(schema.WithFileSystem(files))),
		calls: make(map[string]int),
	}
}

func resolveTree(t *testing.T, files fstest.MapFS, root string, options ...Option) any {
	t.Helper()
	node, err := NewResolver(newFSLoader(files), options...).Load(context.Background(), schema.SourceFromFS(root))
	if err != nil {
		t.Fatalf("resolve %s: %v", root, err)
	}
	tree, err := ToValue(node)
	if err != nil {
		t.Fatalf("to value: %v", err)
	}
	return tree
}

func TestResolver_NestedIncludesMatchInline(t *testing.T) {
	files := fstest.MapFS{
		"a.yml": {Data: []byte("name: top\nchild: !include b.yml\n")},
		"b.yml": {Data: []byte("kind: middle\nitems:\n  - 1\n  - !include c.yml\n")},
		"c.yml": {Data: []byte("leaf: true\nlabel: deepest\n")},
		"inline.yml": {Data: []byte(`name: top
child:
  kind: middle
  items:
    - 1
    - leaf: true
      label: deepest
`)},
	}

	got := resolveTree(t, files, "a.yml")
	want := resolveTree(t, files, "inline.yml")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("merged tree mismatch (-want +got):\n%s", diff)
	}
}

func TestResolver_RelativeToIncludingFile(t *testing.T) {
	files := fstest.MapFS{
		"root.yml":             {Data: []byte("tables:\n  - !include tables/qxp.yml\n")},
		"tables/qxp.yml":       {Data: []byte("name: QXP\ncolumns: !include ../columns/common.yml\n")},
		"columns/common.yml":   {Data: []byte("- name: OBJ_NME\n  datatype: str\n")},
		"tables/columns/x.yml": {Data: []byte("- wrong: true\n")},
	}

	got := resolveTree(t, files, "root.yml")
	want := map[string]any{
		"tables": []any{
			map[string]any{
				"name": "QXP",
				"columns": []any{
					map[string]any{"name": "OBJ_NME", "datatype": "str"},
				},
			},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("resolved tree mismatch (-want +got):\n%s", diff)
	}
}

func TestResolver_SiblingDirectoryOnDisk(t *testing.T) {
	dir := testsupport.WriteFiles(t, t.TempDir(), map[string]string{
		"defs/main.yml":      "primary: !include ../shared/primary.yml\n",
		"shared/primary.yml": "header: !include cards.yml\n",
		"shared/cards.yml":   "- name: ORIGIN\n",
	})

	node, err := NewResolver(loader.New(schema.LoaderOptions{})).Load(context.Background(), schema.SourceFromFile(filepath.Join(dir, "defs", "main.yml")))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	got, err := ToValue(node)
	if err != nil {
		t.Fatalf("to value: %v", err)
	}
	want := map[string]any{
		"primary": map[string]any{
			"header": []any{map[string]any{"name": "ORIGIN"}},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("resolved tree mismatch (-want +got):\n%s", diff)
	}
}

func TestResolver_ResolveInMemoryDocument(t *testing.T) {
	files := fstest.MapFS{
		"tables/cols.yml": {Data: []byte("- name: RA\n  datatype: double\n")},
	}
	doc := schema.MustNewDocument(schema.SourceFromFS("tables/main.yml"), []byte("columns: !include cols.yml\n"))

	counting := newFSLoader(files)
	node, err := NewResolver(counting).Resolve(context.Background(), doc)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	got, err := ToValue(node)
	if err != nil {
		t.Fatalf("to value: %v", err)
	}
	want := map[string]any{
		"columns": []any{map[string]any{"name": "RA", "datatype": "double"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("resolved tree mismatch (-want +got):\n%s", diff)
	}
	if counting.calls["tables/main.yml"] != 0 {
		t.Fatalf("root document should not be reloaded")
	}
}

func TestResolver_MissingInclude(t *testing.T) {
	files := fstest.MapFS{
		"root.yml":     {Data: []byte("a: !include sub/b.yml\n")},
		"sub/b.yml":    {Data: []byte("b: !include missing.yml\n")},
		"sub/ok.yml":   {Data: []byte("ok: true\n")},
		"unused/c.yml": {Data: []byte("c: 1\n")},
	}

	_, err := NewResolver(newFSLoader(files)).Load(context.Background(), schema.SourceFromFS("root.yml"))
	if !errors.Is(err, ErrResourceNotFound) {
		t.Fatalf("expected ErrResourceNotFound, got %v", err)
	}
	var notFound *ResourceNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected ResourceNotFoundError, got %T", err)
	}
	if notFound.Path != "sub/missing.yml" {
		t.Fatalf("unexpected path %q", notFound.Path)
	}
	if notFound.Referrer != "sub/b.yml" {
		t.Fatalf("unexpected referrer %q", notFound.Referrer)
	}
}

func TestResolver_MissingRoot(t *testing.T) {
	_, err := NewResolver(newFSLoader(fstest.MapFS{})).Load(context.Background(), schema.SourceFromFS("root.yml"))
	var notFound *ResourceNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected ResourceNotFoundError, got %v", err)
	}
	if notFound.Referrer != "" {
		t.Fatalf("expected empty referrer, got %q", notFound.Referrer)
	}
}

func TestResolver_CycleDetection(t *testing.T) {
	cases := map[string]fstest.MapFS{
		"self": {
			"a.yml": {Data: []byte("a: !include a.yml\n")},
		},
		"mutual": {
			"a.yml":     {Data: []byte("a: !include dir/b.yml\n")},
			"dir/b.yml": {Data: []byte("b: !include ../a.yml\n")},
		},
	}
	for name, files := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewResolver(newFSLoader(files)).Load(context.Background(), schema.SourceFromFS("a.yml"))
			if !errors.Is(err, ErrIncludeCycle) {
				t.Fatalf("expected ErrIncludeCycle, got %v", err)
			}
			var cycle *CycleError
			if !errors.As(err, &cycle) {
				t.Fatalf("expected CycleError, got %T", err)
			}
			if first, last := cycle.Chain[0], cycle.Chain[len(cycle.Chain)-1]; first != "a.yml" || last != "a.yml" {
				t.Fatalf("unexpected chain %v", cycle.Chain)
			}
		})
	}
}

func TestResolver_DepthLimit(t *testing.T) {
	files := fstest.MapFS{
		"a.yml": {Data: []byte("x: !include b.yml\n")},
		"b.yml": {Data: []byte("x: !include c.yml\n")},
		"c.yml": {Data: []byte("x: 1\n")},
	}

	_, err := NewResolver(newFSLoader(files), WithMaxDepth(2)).Load(context.Background(), schema.SourceFromFS("a.yml"))
	if !errors.Is(err, ErrIncludeDepth) {
		t.Fatalf("expected ErrIncludeDepth, got %v", err)
	}

	if _, err := NewResolver(newFSLoader(files), WithMaxDepth(3)).Load(context.Background(), schema.SourceFromFS("a.yml")); err != nil {
		t.Fatalf("expected depth 3 to succeed: %v", err)
	}
}

func TestResolver_NoCaching(t *testing.T) {
	files := fstest.MapFS{
		"root.yml":   {Data: []byte("a: !include shared.yml\nb: !include shared.yml\n")},
		"shared.yml": {Data: []byte("value: 1\n")},
	}
	counter := newFSLoader(files)

	if _, err := NewResolver(counter).Load(context.Background(), schema.SourceFromFS("root.yml")); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got := counter.calls["shared.yml"]; got != 2 {
		t.Fatalf("expected shared.yml to be read twice, got %d", got)
	}
}

func TestResolver_ParseError(t *testing.T) {
	files := fstest.MapFS{
		"root.yml": {Data: []byte("a: !include bad.yml\n")},
		"bad.yml":  {Data: []byte("a: [unclosed\n")},
	}
	_, err := NewResolver(newFSLoader(files)).Load(context.Background(), schema.SourceFromFS("root.yml"))
	if err == nil {
		t.Fatalf("expected parse error")
	}
	if errors.Is(err, ErrResourceNotFound) {
		t.Fatalf("parse error must not be reported as missing resource")
	}
}

func TestToValue_Scalars(t *testing.T) {
	files := fstest.MapFS{
		"root.yml": {Data: []byte(`
str: text
quoted: "1.0"
int: 42
float: 2.5
bool: true
null: ~
values:
  1: one
  GALAXY: ~
`)},
	}

	got := resolveTree(t, files, "root.yml")
	want := map[string]any{
		"str":    "text",
		"quoted": "1.0",
		"int":    float64(42),
		"float":  2.5,
		"bool":   true,
		"null":   nil,
		"values": map[string]any{"1": "one", "GALAXY": nil},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
}
