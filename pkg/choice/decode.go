package choice

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/aretw0/metasim/pkg/document"
	"github.com/mitchellh/mapstructure"
)

// Element names of a choice-model document.
const (
	elemElasticity   = "elasticity"
	elemAlternative  = "alternative"
	elemAlternatives = "alternatives"
	elemUtility      = "utility"
	elemParam        = "param"
)

// Utility parameter types.
const (
	ParamIntercept  = "intercept"
	ParamMultiplier = "multiplier"
)

type nestAttrs struct {
	Name       string   `mapstructure:"name"`
	Elasticity *float64 `mapstructure:"elasticity"`
	Input      string   `mapstructure:"input"`
}

type paramAttrs struct {
	Name  string  `mapstructure:"name"`
	Type  string  `mapstructure:"type"`
	Value float64 `mapstructure:"value"`
}

func decodeAttrs(el *document.Element, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(el.AttrMap()); err != nil {
		return treeErrorf("%s: %v", el.Path(), err)
	}
	return nil
}

// Decode builds a tree from a choice-model document.
//
// The root element carries a name. Its children are either an elasticity
// (element text) or alternatives, each of which is recursively a nest with
// the same schema. An alternative without nested alternatives is a leaf; its
// utility is declared by a utility element holding intercept and multiplier
// params, read from the input bundle named by its input attribute (its own
// name by default).
func Decode(root *document.Element) (*Tree, error) {
	var attrs nestAttrs
	if err := decodeAttrs(root, &attrs); err != nil {
		return nil, err
	}
	if attrs.Name == "" {
		return nil, treeErrorf("%s: missing 'name' attribute", root.Path())
	}

	b := NewBuilder(attrs.Name)
	mu, children, err := splitNest(root, attrs)
	if err != nil {
		return nil, err
	}
	for _, c := range root.Children {
		if c.Is(elemUtility) {
			return nil, treeErrorf("%s: the root nest cannot declare a utility", c.Path())
		}
	}
	b.Elasticity(mu)
	for _, child := range children {
		if err := decodeChild(b, attrs.Name, child); err != nil {
			return nil, err
		}
	}
	return b.Build()
}

// splitNest separates a nest element's elasticity from its alternatives.
func splitNest(el *document.Element, attrs nestAttrs) (float64, []*document.Element, error) {
	mu := 1.0
	if attrs.Elasticity != nil {
		mu = *attrs.Elasticity
	}

	var alts []*document.Element
	for _, c := range el.Children {
		switch {
		case c.Is(elemElasticity):
			v, err := strconv.ParseFloat(strings.TrimSpace(c.Text), 64)
			if err != nil {
				return 0, nil, treeErrorf("%s: invalid elasticity %q", c.Path(), c.Text)
			}
			mu = v
		case c.Is(elemAlternative):
			alts = append(alts, c)
		case c.Is(elemAlternatives):
			for _, a := range c.Children {
				if !a.Is(elemAlternative) {
					return 0, nil, treeErrorf("unexpected element %s", a.Path())
				}
				alts = append(alts, a)
			}
		case c.Is(elemUtility):
			// Handled by the caller for leaves.
		default:
			return 0, nil, treeErrorf("unexpected element %s", c.Path())
		}
	}
	return mu, alts, nil
}

func decodeChild(b *Builder, parent string, el *document.Element) error {
	var attrs nestAttrs
	if err := decodeAttrs(el, &attrs); err != nil {
		return err
	}
	if attrs.Name == "" {
		return treeErrorf("%s: missing 'name' attribute", el.Path())
	}

	mu, children, err := splitNest(el, attrs)
	if err != nil {
		return err
	}

	var utilityEl *document.Element
	for _, c := range el.Children {
		if c.Is(elemUtility) {
			utilityEl = c
		}
	}

	if len(children) == 0 {
		if utilityEl == nil {
			return treeErrorf("%s %q: declares neither alternatives nor a utility", el.Path(), attrs.Name)
		}
		lin, err := decodeUtility(utilityEl)
		if err != nil {
			return err
		}
		b.Alternative(parent, attrs.Name, lin, attrs.Input)
		return nil
	}

	if utilityEl != nil {
		return treeErrorf("%s %q: a nest cannot declare a utility", el.Path(), attrs.Name)
	}
	b.Nest(parent, attrs.Name, mu)
	for _, child := range children {
		if err := decodeChild(b, attrs.Name, child); err != nil {
			return err
		}
	}
	return nil
}

func decodeUtility(el *document.Element) (Linear, error) {
	lin := Linear{Coefficients: make(map[string]float64)}
	for _, p := range el.Children {
		if !p.Is(elemParam) {
			return lin, treeErrorf("unexpected element %s", p.Path())
		}
		var attrs paramAttrs
		if err := decodeAttrs(p, &attrs); err != nil {
			return lin, err
		}
		if _, ok := p.Attr("value"); !ok {
			return lin, treeErrorf("%s: missing 'value' attribute", p.Path())
		}
		switch strings.ToLower(attrs.Type) {
		case ParamIntercept:
			lin.Intercept += attrs.Value
		case ParamMultiplier:
			if attrs.Name == "" {
				return lin, treeErrorf("%s: multiplier needs a 'name'", p.Path())
			}
			lin.Coefficients[attrs.Name] = attrs.Value
		default:
			return lin, treeErrorf("%s: unknown param type %q", p.Path(), attrs.Type)
		}
	}
	return lin, nil
}

// Catalog is a named set of choice-model trees.
type Catalog struct {
	trees map[string]*Tree
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{trees: make(map[string]*Tree)}
}

// Add registers a tree under its root name.
func (c *Catalog) Add(t *Tree) error {
	if _, dup := c.trees[t.Name()]; dup {
		return fmt.Errorf("choice model %q already defined", t.Name())
	}
	c.trees[t.Name()] = t
	return nil
}

// Get returns the named tree.
func (c *Catalog) Get(name string) (*Tree, bool) {
	t, ok := c.trees[name]
	return t, ok
}

// Names returns the registered names, sorted.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.trees))
	for n := range c.trees {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// DecodeAll decodes a document holding one choice model, or a container
// element whose children are each a choice model.
func DecodeAll(root *document.Element) ([]*Tree, error) {
	if _, ok := root.Attr("name"); ok {
		t, err := Decode(root)
		if err != nil {
			return nil, err
		}
		return []*Tree{t}, nil
	}
	var trees []*Tree
	for _, c := range root.Children {
		t, err := Decode(c)
		if err != nil {
			return nil, err
		}
		trees = append(trees, t)
	}
	if len(trees) == 0 {
		return nil, treeErrorf("%s: no choice models found", root.Path())
	}
	return trees, nil
}
