package choice

import (
	"errors"
	"math"
)

// noParent marks the root of the arena.
const noParent = -1

// node is one nest or alternative, addressed by its index in Tree.nodes.
type node struct {
	name       string
	elasticity float64
	parent     int
	children   []int

	// Alternatives only.
	utility UtilityFunction
	bundle  string
}

func (n *node) isAlternative() bool {
	return n.utility != nil
}

// Tree is an immutable nested-logit definition.
// The root is always node 0. Trees are safe for concurrent use.
type Tree struct {
	nodes []node
	index map[string]int
}

// Name returns the name of the root nest.
func (t *Tree) Name() string {
	return t.nodes[0].name
}

// Elasticity returns the root elasticity.
func (t *Tree) Elasticity() float64 {
	return t.nodes[0].elasticity
}

// Len returns the number of nests and alternatives, root included.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Children returns the names of the root's immediate children in order.
func (t *Tree) Children() []string {
	return t.childNames(0)
}

// Alternatives returns the leaf names in depth-first order.
func (t *Tree) Alternatives() []string {
	var out []string
	t.walk(0, func(i int) {
		if t.nodes[i].isAlternative() {
			out = append(out, t.nodes[i].name)
		}
	})
	return out
}

// Parent returns the name of a node's parent; the root has none.
func (t *Tree) Parent(name string) (string, bool) {
	i, ok := t.index[name]
	if !ok || t.nodes[i].parent == noParent {
		return "", false
	}
	return t.nodes[t.nodes[i].parent].name, true
}

// IsAlternative reports whether name is a leaf of the tree.
func (t *Tree) IsAlternative(name string) bool {
	i, ok := t.index[name]
	return ok && t.nodes[i].isAlternative()
}

func (t *Tree) childNames(i int) []string {
	out := make([]string, len(t.nodes[i].children))
	for k, c := range t.nodes[i].children {
		out[k] = t.nodes[c].name
	}
	return out
}

func (t *Tree) walk(i int, fn func(int)) {
	fn(i)
	for _, c := range t.nodes[i].children {
		t.walk(c, fn)
	}
}

// Restrict returns a tree that keeps only the named top-level children and
// their subtrees, in the original order. Unknown names are ignored.
func (t *Tree) Restrict(names []string) (*Tree, error) {
	keep := make(map[string]bool, len(names))
	for _, n := range names {
		keep[n] = true
	}

	out := &Tree{index: make(map[string]int)}
	out.nodes = append(out.nodes, node{
		name:       t.nodes[0].name,
		elasticity: t.nodes[0].elasticity,
		parent:     noParent,
	})
	out.index[t.nodes[0].name] = 0

	for _, c := range t.nodes[0].children {
		if keep[t.nodes[c].name] {
			out.copySubtree(t, c, 0)
		}
	}
	if len(out.nodes[0].children) == 0 {
		return nil, treeErrorf("nest %q: no children left after restriction", t.Name())
	}
	return out, nil
}

func (t *Tree) copySubtree(src *Tree, i, parent int) {
	n := src.nodes[i]
	idx := len(t.nodes)
	t.nodes = append(t.nodes, node{
		name:       n.name,
		elasticity: n.elasticity,
		parent:     parent,
		utility:    n.utility,
		bundle:     n.bundle,
	})
	t.index[n.name] = idx
	t.nodes[parent].children = append(t.nodes[parent].children, idx)
	for _, c := range n.children {
		t.copySubtree(src, c, idx)
	}
}

// Builder assembles a Tree top-down. Nests and alternatives are attached to a
// parent by name; the first error is kept and reported by Build.
type Builder struct {
	tree *Tree
	errs []error
}

// NewBuilder starts a tree whose root nest is called root, with elasticity 1.
func NewBuilder(root string) *Builder {
	b := &Builder{tree: &Tree{index: make(map[string]int)}}
	if root == "" {
		b.errs = append(b.errs, treeErrorf("root nest has no name"))
	}
	b.tree.nodes = append(b.tree.nodes, node{name: root, elasticity: 1, parent: noParent})
	b.tree.index[root] = 0
	return b
}

// Elasticity sets the root elasticity.
func (b *Builder) Elasticity(mu float64) *Builder {
	b.tree.nodes[0].elasticity = mu
	return b
}

// Nest adds an inner nest under parent.
func (b *Builder) Nest(parent, name string, elasticity float64) *Builder {
	b.add(parent, node{name: name, elasticity: elasticity})
	return b
}

// Alternative adds a leaf under parent. Its utility reads the attribute bundle
// named bundle from the input; an empty bundle defaults to the alternative's name.
func (b *Builder) Alternative(parent, name string, utility UtilityFunction, bundle string) *Builder {
	if utility == nil {
		b.errs = append(b.errs, treeErrorf("alternative %q has no utility function", name))
		return b
	}
	if bundle == "" {
		bundle = name
	}
	b.add(parent, node{name: name, elasticity: 1, utility: utility, bundle: bundle})
	return b
}

func (b *Builder) add(parent string, n node) {
	t := b.tree
	if n.name == "" {
		b.errs = append(b.errs, treeErrorf("nest under %q has no name", parent))
		return
	}
	if _, dup := t.index[n.name]; dup {
		b.errs = append(b.errs, treeErrorf("duplicate nest name %q", n.name))
		return
	}
	p, ok := t.index[parent]
	if !ok {
		b.errs = append(b.errs, treeErrorf("unknown parent nest %q for %q", parent, n.name))
		return
	}
	if t.nodes[p].isAlternative() {
		b.errs = append(b.errs, treeErrorf("alternative %q cannot have children", parent))
		return
	}
	n.parent = p
	idx := len(t.nodes)
	t.nodes = append(t.nodes, n)
	t.index[n.name] = idx
	t.nodes[p].children = append(t.nodes[p].children, idx)
}

// Build validates and returns the tree. The builder must not be reused.
func (b *Builder) Build() (*Tree, error) {
	errs := b.errs
	for i := range b.tree.nodes {
		n := &b.tree.nodes[i]
		if !(n.elasticity > 0) || math.IsInf(n.elasticity, 0) {
			errs = append(errs, treeErrorf("nest %q: elasticity must be a positive finite number, got %v", n.name, n.elasticity))
		}
		if !n.isAlternative() && len(n.children) == 0 {
			errs = append(errs, treeErrorf("nest %q has no alternatives", n.name))
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return b.tree, nil
}
