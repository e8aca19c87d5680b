package choice

import (
	"errors"
	"fmt"
	"math"
)

// Evaluation holds the result of evaluating a Tree against one Input:
// the expected utility of every node and the conditional choice
// probabilities at every nest. It is immutable.
type Evaluation struct {
	tree    *Tree
	utility []float64
	probs   [][]float64
}

// Evaluate computes expected utilities and probabilities for the whole tree.
//
// An alternative's expected utility is its utility function's value. A nest
// with elasticity μ has expected utility (1/μ)·ln Σ exp(μ·EU_child), and
// chooses child i with probability exp(μ·EU_i) / Σ exp(μ·EU_j).
func (t *Tree) Evaluate(input Input) (*Evaluation, error) {
	ev := &Evaluation{
		tree:    t,
		utility: make([]float64, len(t.nodes)),
		probs:   make([][]float64, len(t.nodes)),
	}
	if err := t.evaluateNode(0, input, ev); err != nil {
		return nil, err
	}
	return ev, nil
}

func (t *Tree) evaluateNode(i int, input Input, ev *Evaluation) error {
	n := &t.nodes[i]

	if n.isAlternative() {
		attrs, ok := input[n.bundle]
		if !ok {
			return &InputError{Alternative: n.name, Bundle: n.bundle}
		}
		u, err := n.utility.Evaluate(attrs)
		if err != nil {
			var inErr *InputError
			if errors.As(err, &inErr) {
				return &InputError{Alternative: n.name, Bundle: n.bundle, Attribute: inErr.Attribute}
			}
			return fmt.Errorf("alternative %q: %w", n.name, err)
		}
		if math.IsNaN(u) || math.IsInf(u, 0) {
			return fmt.Errorf("alternative %q: utility %v: %w", n.name, u, ErrInvalidUtility)
		}
		ev.utility[i] = u
		return nil
	}

	for _, c := range n.children {
		if err := t.evaluateNode(c, input, ev); err != nil {
			return err
		}
	}

	mu := n.elasticity
	maxU := math.Inf(-1)
	for _, c := range n.children {
		maxU = math.Max(maxU, ev.utility[c])
	}

	// Shifting by the largest utility keeps exp() in range and makes a
	// single-child nest reproduce that child's utility exactly.
	weights := make([]float64, len(n.children))
	var sum float64
	for k, c := range n.children {
		w := math.Exp(mu * (ev.utility[c] - maxU))
		weights[k] = w
		sum += w
	}
	for k := range weights {
		weights[k] /= sum
	}

	ev.utility[i] = maxU + math.Log(sum)/mu
	ev.probs[i] = weights
	return nil
}

// Tree returns the evaluated tree.
func (e *Evaluation) Tree() *Tree {
	return e.tree
}

// Distribution returns the choice probabilities over the root's children.
func (e *Evaluation) Distribution() *Distribution {
	return e.conditional(0)
}

// Conditional returns the choice probabilities among the children of the
// named nest, conditional on that nest having been chosen.
func (e *Evaluation) Conditional(nest string) (*Distribution, bool) {
	i, ok := e.tree.index[nest]
	if !ok || e.tree.nodes[i].isAlternative() {
		return nil, false
	}
	return e.conditional(i), true
}

func (e *Evaluation) conditional(i int) *Distribution {
	probs := make([]float64, len(e.probs[i]))
	copy(probs, e.probs[i])
	return newDistribution(e.tree.childNames(i), probs)
}

// ExpectedMaximumUtility returns the logsum of the root nest.
func (e *Evaluation) ExpectedMaximumUtility() float64 {
	return e.utility[0]
}

// Utility returns the expected utility of any nest or alternative.
func (e *Evaluation) Utility(name string) (float64, bool) {
	i, ok := e.tree.index[name]
	if !ok {
		return 0, false
	}
	return e.utility[i], true
}

// AlternativeProbabilities returns the unconditional probability of every
// leaf, the product of the conditional probabilities along its path.
func (e *Evaluation) AlternativeProbabilities() *Distribution {
	var keys []string
	var probs []float64
	var descend func(i int, p float64)
	descend = func(i int, p float64) {
		n := &e.tree.nodes[i]
		if n.isAlternative() {
			keys = append(keys, n.name)
			probs = append(probs, p)
			return
		}
		for k, c := range n.children {
			descend(c, p*e.probs[i][k])
		}
	}
	descend(0, 1)
	return newDistribution(keys, probs)
}

// Choose draws one of the root's children with a single uniform draw.
func (e *Evaluation) Choose(rng RandomSource) string {
	return e.Distribution().Sample(rng.Float64())
}

// SampleAlternative descends from the root to a leaf, drawing once per level.
func (e *Evaluation) SampleAlternative(rng RandomSource) string {
	i := 0
	for !e.tree.nodes[i].isAlternative() {
		i = e.tree.nodes[i].children[e.sampleChild(i, rng.Float64())]
	}
	return e.tree.nodes[i].name
}

func (e *Evaluation) sampleChild(i int, u float64) int {
	var cum float64
	probs := e.probs[i]
	for k, p := range probs {
		cum += p
		if cum > u {
			return k
		}
	}
	return len(probs) - 1
}
