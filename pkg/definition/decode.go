package definition

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrNoExtensions reports a document without a primary extension.
var ErrNoExtensions = errors.New("definition: extensions must not be empty")

type rawDocument struct {
	Name        string         `yaml:"name"`
	Version     string         `yaml:"version"`
	Description string         `yaml:"description"`
	Creators    []Creator      `yaml:"creators"`
	Extensions  []rawExtension `yaml:"extensions"`
}

type rawExtension struct {
	Name        string           `yaml:"name"`
	Description string           `yaml:"description"`
	Responsible string           `yaml:"responsable"`
	Header      []HeaderCardSpec `yaml:"header"`
	Columns     []ColumnSpec     `yaml:"columns"`
}

// Decode builds a Document from a resolved node tree. The first extension
// becomes the primary header and the rest become tables.
func Decode(node *yaml.Node) (*Document, error) {
	if node == nil {
		return nil, errors.New("definition: node is nil")
	}
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("definition: line %d: document must be a mapping", node.Line)
	}

	var raw rawDocument
	if err := node.Decode(&raw); err != nil {
		return nil, fmt.Errorf("definition: decode: %w", err)
	}
	if len(raw.Extensions) == 0 {
		return nil, ErrNoExtensions
	}

	primary := raw.Extensions[0]
	doc := &Document{
		Name:        raw.Name,
		Version:     raw.Version,
		Description: raw.Description,
		Creators:    raw.Creators,
		Primary: PrimarySpec{
			Name:        primary.Name,
			Description: primary.Description,
			Header:      primary.Header,
		},
		Tables: make([]TableSpec, 0, len(raw.Extensions)-1),
	}
	for _, ext := range raw.Extensions[1:] {
		doc.Tables = append(doc.Tables, TableSpec{
			Name:        ext.Name,
			Description: ext.Description,
			Responsible: ext.Responsible,
			Columns:     ext.Columns,
		})
	}
	return doc, nil
}

// UnmarshalYAML decodes a mapping while keeping declaration order.
func (e *EnumValues) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	switch node.Kind {
	case yaml.MappingNode:
		out := make(EnumValues, 0, len(node.Content)/2)
		for idx := 0; idx+1 < len(node.Content); idx += 2 {
			key, value := node.Content[idx], node.Content[idx+1]
			if key.Kind != yaml.ScalarNode {
				return fmt.Errorf("definition: line %d: value literals must be scalars", key.Line)
			}
			entry := EnumValue{Literal: key.Value}
			if value.ShortTag() != "!!null" {
				if value.Kind != yaml.ScalarNode {
					return fmt.Errorf("definition: line %d: value descriptions must be scalars", value.Line)
				}
				entry.Description = value.Value
			}
			out = append(out, entry)
		}
		*e = out
	case yaml.SequenceNode:
		out := make(EnumValues, 0, len(node.Content))
		for _, item := range node.Content {
			if item.Kind != yaml.ScalarNode {
				return fmt.Errorf("definition: line %d: value literals must be scalars", item.Line)
			}
			out = append(out, EnumValue{Literal: item.Value})
		}
		*e = out
	default:
		return fmt.Errorf("definition: line %d: values must be a mapping", node.Line)
	}
	return nil
}
