package document

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Attr is a single named attribute of an Element.
type Attr struct {
	Name  string
	Value string
}

// Element is a node of an attributed hierarchical document.
// Attributes and children keep their document order.
type Element struct {
	Name     string
	Attrs    []Attr
	Text     string
	Children []*Element

	parent *Element
}

// Attr returns the value of the named attribute.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// AttrOr returns the named attribute, or def when it is absent.
func (e *Element) AttrOr(name, def string) string {
	if v, ok := e.Attr(name); ok {
		return v
	}
	return def
}

// AttrMap returns the attributes as a map, suitable for mapstructure decoding.
func (e *Element) AttrMap() map[string]any {
	m := make(map[string]any, len(e.Attrs))
	for _, a := range e.Attrs {
		m[a.Name] = a.Value
	}
	return m
}

// Is reports whether the element has the given name, ignoring case.
func (e *Element) Is(name string) bool {
	return strings.EqualFold(e.Name, name)
}

// Parent returns the enclosing element, or nil for the root.
func (e *Element) Parent() *Element {
	return e.parent
}

// Path renders the element's ancestry as "root::child::leaf".
func (e *Element) Path() string {
	var parts []string
	for cur := e; cur != nil; cur = cur.parent {
		parts = append(parts, cur.Name)
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "::")
}

// Append adds child elements, taking ownership of them.
func (e *Element) Append(children ...*Element) *Element {
	for _, c := range children {
		c.parent = e
		e.Children = append(e.Children, c)
	}
	return e
}

// SetAttr sets or replaces an attribute.
func (e *Element) SetAttr(name, value string) *Element {
	for i := range e.Attrs {
		if e.Attrs[i].Name == name {
			e.Attrs[i].Value = value
			return e
		}
	}
	e.Attrs = append(e.Attrs, Attr{Name: name, Value: value})
	return e
}

// New creates a detached element with the given name and attribute pairs.
// Pairs are given as name, value, name, value...
func New(name string, pairs ...string) *Element {
	e := &Element{Name: name}
	for i := 0; i+1 < len(pairs); i += 2 {
		e.SetAttr(pairs[i], pairs[i+1])
	}
	return e
}

// ParseFile reads a document, choosing the reader from the file extension.
func ParseFile(path string) (*Element, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open document: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xml":
		return ParseXML(f)
	case ".yaml", ".yml":
		return ParseYAML(f)
	default:
		return nil, fmt.Errorf("unsupported document format %q", filepath.Ext(path))
	}
}
