package include

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ToValue converts a resolved node into a JSON-compatible tree made of
// map[string]any, []any, string, float64, bool and nil. Mapping keys are
// always rendered as their literal text.
func ToValue(node *yaml.Node) (any, error) {
	if node == nil {
		return nil, nil
	}
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}
		return ToValue(node.Content[0])
	case yaml.AliasNode:
		return ToValue(node.Alias)
	case yaml.SequenceNode:
		out := make([]any, 0, len(node.Content))
		for _, child := range node.Content {
			value, err := ToValue(child)
			if err != nil {
				return nil, err
			}
			out = append(out, value)
		}
		return out, nil
	case yaml.MappingNode:
		out := make(map[string]any, len(node.Content)/2)
		for idx := 0; idx+1 < len(node.Content); idx += 2 {
			key := node.Content[idx]
			if key.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("include: line %d: mapping keys must be scalars", key.Line)
			}
			value, err := ToValue(node.Content[idx+1])
			if err != nil {
				return nil, err
			}
			out[key.Value] = value
		}
		return out, nil
	case yaml.ScalarNode:
		return scalarValue(node)
	}
	return nil, fmt.Errorf("include: line %d: unsupported node kind %d", node.Line, node.Kind)
}

func scalarValue(node *yaml.Node) (any, error) {
	switch node.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return nil, err
		}
		return b, nil
	case "!!int", "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return nil, err
		}
		return f, nil
	case Tag:
		return nil, fmt.Errorf("include: line %d: unresolved include %q", node.Line, node.Value)
	default:
		return node.Value, nil
	}
}
