// Package include parses YAML definition documents and inlines every scalar
// tagged with the include directive, producing one merged node tree.
//
// Resolution happens in two phases: the document is parsed into a generic
// yaml.Node tree with no knowledge of the directive, then a recursive pass
// replaces directive nodes with the parsed contents of the referenced file.
// References are resolved relative to the directory of the file that holds
// the directive, not the root document.
package include

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-dxu/pkg/schema"
)

// Tag marks a scalar whose value is a path to inline.
const Tag = "!include"

// Resolver loads documents and resolves include directives. It keeps no state
// between calls, but a single call must not be shared across goroutines.
type Resolver struct {
	loader schema.Loader
	opts   Options
}

// NewResolver constructs a resolver reading through loader.
func NewResolver(loader schema.Loader, options ...Option) *Resolver {
	return &Resolver{loader: loader, opts: newOptions(options...)}
}

// Load reads the root document at src and resolves its includes.
func (r *Resolver) Load(ctx context.Context, src schema.Source) (*yaml.Node, error) {
	if r == nil || r.loader == nil {
		return nil, errors.New("include: loader is nil")
	}
	if src == nil {
		return nil, errors.New("include: source is nil")
	}
	doc, err := r.loader.Load(ctx, src)
	if err != nil {
		return nil, notFound(err, src, "")
	}
	return r.Resolve(ctx, doc)
}

// Resolve parses doc and resolves its includes.
func (r *Resolver) Resolve(ctx context.Context, doc schema.Document) (*yaml.Node, error) {
	if r == nil || r.loader == nil {
		return nil, errors.New("include: loader is nil")
	}
	if doc.Source() == nil {
		return nil, errors.New("include: source is nil")
	}
	session := &resolveSession{
		loader:  r.loader,
		opts:    r.opts,
		stack:   make([]string, 0, 4),
		inStack: make(map[string]struct{}),
	}
	return session.resolveDocument(ctx, doc)
}

type resolveSession struct {
	loader  schema.Loader
	opts    Options
	stack   []string
	inStack map[string]struct{}
}

func (s *resolveSession) push(key string) {
	s.stack = append(s.stack, key)
	s.inStack[key] = struct{}{}
}

func (s *resolveSession) pop(key string) {
	s.stack = s.stack[:len(s.stack)-1]
	delete(s.inStack, key)
}

func (s *resolveSession) resolveDocument(ctx context.Context, doc schema.Document) (*yaml.Node, error) {
	key := doc.Key()
	if _, ok := s.inStack[key]; ok {
		chain := append(append([]string(nil), s.stack...), key)
		return nil, &CycleError{Chain: trimKinds(chain)}
	}
	if len(s.stack) >= s.opts.MaxDepth {
		return nil, fmt.Errorf("%w (%d) at %s", ErrIncludeDepth, s.opts.MaxDepth, doc.Location())
	}

	s.opts.Logger.Debug().
		Str("location", doc.Location()).
		Int("depth", len(s.stack)).
		Msg("parsing document")

	node, err := parse(doc)
	if err != nil {
		return nil, err
	}

	s.push(key)
	defer s.pop(key)

	if err := s.walk(ctx, doc, node); err != nil {
		return nil, err
	}
	return node, nil
}

func (s *resolveSession) walk(ctx context.Context, doc schema.Document, node *yaml.Node) error {
	switch node.Kind {
	case yaml.DocumentNode, yaml.SequenceNode:
		for _, child := range node.Content {
			if err := s.walk(ctx, doc, child); err != nil {
				return err
			}
		}
	case yaml.MappingNode:
		for idx := 1; idx < len(node.Content); idx += 2 {
			if err := s.walk(ctx, doc, node.Content[idx]); err != nil {
				return err
			}
		}
	case yaml.ScalarNode:
		if node.Tag != Tag {
			return nil
		}
		return s.include(ctx, doc, node)
	}
	return nil
}

func (s *resolveSession) include(ctx context.Context, doc schema.Document, node *yaml.Node) error {
	ref := strings.TrimSpace(node.Value)
	if ref == "" {
		return fmt.Errorf("include: empty include path in %s line %d", doc.Location(), node.Line)
	}
	src := schema.Relative(doc.Source(), ref)

	child, err := s.loader.Load(ctx, src)
	if err != nil {
		return notFound(err, src, doc.Location())
	}
	resolved, err := s.resolveDocument(ctx, child)
	if err != nil {
		return err
	}
	*node = *resolved
	return nil
}

func parse(doc schema.Document) (*yaml.Node, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(doc.Raw(), &root); err != nil {
		return nil, fmt.Errorf("include: parse %s: %w", doc.Location(), err)
	}
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		return root.Content[0], nil
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
}

func notFound(err error, src schema.Source, referrer string) error {
	if errors.Is(err, fs.ErrNotExist) {
		return &ResourceNotFoundError{Path: src.Location(), Referrer: referrer, Err: err}
	}
	return fmt.Errorf("include: load %s: %w", src.Location(), err)
}

func trimKinds(keys []string) []string {
	out := make([]string, len(keys))
	for idx, key := range keys {
		if pos := strings.Index(key, ":"); pos >= 0 {
			key = key[pos+1:]
		}
		out[idx] = key
	}
	return out
}
