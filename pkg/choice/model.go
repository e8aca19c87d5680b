package choice

// Model is a working copy of a Tree that remembers its most recent Evaluation.
//
// A Model is not safe for concurrent use. Share the Tree and give every
// goroutine its own Model (NewModel or Clone), or call Tree.Evaluate directly,
// which keeps no state at all.
type Model struct {
	tree *Tree
	last *Evaluation
}

// NewModel wraps a tree with an empty cache.
func NewModel(tree *Tree) *Model {
	return &Model{tree: tree}
}

// Tree returns the underlying definition.
func (m *Model) Tree() *Tree {
	return m.tree
}

// EvaluateProbabilities evaluates the tree against input and returns the
// distribution over the root's children. The evaluation replaces the cache.
func (m *Model) EvaluateProbabilities(input Input) (*Distribution, error) {
	ev, err := m.tree.Evaluate(input)
	if err != nil {
		return nil, err
	}
	m.last = ev
	return ev.Distribution(), nil
}

// MakeRandomChoice evaluates the tree and draws one of the root's children.
// The same input and the same random sequence always give the same choice.
func (m *Model) MakeRandomChoice(input Input, rng RandomSource) (string, error) {
	if _, err := m.EvaluateProbabilities(input); err != nil {
		return "", err
	}
	return m.last.Choose(rng), nil
}

// ExpectedMaximumUtility returns the root logsum from the last evaluation.
func (m *Model) ExpectedMaximumUtility() (float64, error) {
	if m.last == nil {
		return 0, ErrNotEvaluated
	}
	return m.last.ExpectedMaximumUtility(), nil
}

// Last returns the cached evaluation, or nil.
func (m *Model) Last() *Evaluation {
	return m.last
}

// Clear drops the cached evaluation. The tree is untouched.
func (m *Model) Clear() {
	m.last = nil
}

// Clone returns an independent working copy. The definition and utility
// functions are shared; later evaluations on either copy do not affect the other.
func (m *Model) Clone() *Model {
	return &Model{tree: m.tree, last: m.last}
}
