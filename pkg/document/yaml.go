package document

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// ParseYAML reads a YAML document into an Element tree.
//
// The document is a mapping with a single key naming the root element.
// Inside an element body, scalar values become attributes, mapping values
// become child elements, and sequence values become a child element whose
// children are the sequence items (each a single-key mapping).
// A scalar body becomes the element's text.
func ParseYAML(r io.Reader) (*Element, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse yaml: empty document")
		}
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}

	node := &doc
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}

	el, err := yamlElement(node)
	if err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}
	return el, nil
}

// yamlElement converts a single-key mapping into an element.
func yamlElement(n *yaml.Node) (*Element, error) {
	if n.Kind != yaml.MappingNode || len(n.Content) != 2 {
		return nil, fmt.Errorf("line %d: expected a mapping with exactly one element name", n.Line)
	}
	el := &Element{Name: n.Content[0].Value}
	if err := fillBody(el, n.Content[1]); err != nil {
		return nil, err
	}
	return el, nil
}

func fillBody(el *Element, body *yaml.Node) error {
	switch body.Kind {
	case yaml.ScalarNode:
		if body.Tag != "!!null" {
			el.Text = body.Value
		}
		return nil
	case yaml.SequenceNode:
		return appendItems(el, body)
	case yaml.MappingNode:
	default:
		return fmt.Errorf("line %d: unsupported node in element %q", body.Line, el.Name)
	}

	for i := 0; i+1 < len(body.Content); i += 2 {
		key, val := body.Content[i], body.Content[i+1]
		switch val.Kind {
		case yaml.ScalarNode:
			if val.Tag == "!!null" {
				el.Append(&Element{Name: key.Value})
				continue
			}
			el.SetAttr(key.Value, val.Value)
		case yaml.MappingNode:
			child := &Element{Name: key.Value}
			if err := fillBody(child, val); err != nil {
				return err
			}
			el.Append(child)
		case yaml.SequenceNode:
			group := &Element{Name: key.Value}
			if err := appendItems(group, val); err != nil {
				return err
			}
			el.Append(group)
		default:
			return fmt.Errorf("line %d: unsupported value for %q", val.Line, key.Value)
		}
	}
	return nil
}

func appendItems(el *Element, seq *yaml.Node) error {
	for _, item := range seq.Content {
		child, err := yamlElement(item)
		if err != nil {
			return err
		}
		el.Append(child)
	}
	return nil
}
