package registry

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/aretw0/metasim/pkg/choice"
	"github.com/aretw0/metasim/pkg/domain"
)

// UniformRandom picks each eligible transition with equal probability.
type UniformRandom struct{}

// Choose draws once from rng.
func (UniformRandom) Choose(eligible []*domain.Transition, _ choice.Input, rng choice.RandomSource) (*domain.Transition, error) {
	if len(eligible) == 0 {
		return nil, domain.ErrNoEligibleTransition
	}
	i := int(rng.Float64() * float64(len(eligible)))
	if i >= len(eligible) {
		i = len(eligible) - 1
	}
	return eligible[i], nil
}

// Logit chooses with a nested-logit tree whose top-level children are named
// after transitions. Children with no eligible transition are dropped before
// evaluating; eligible transitions the tree does not model cannot be chosen,
// and are reported once through Logger.
type Logit struct {
	Tree   *choice.Tree
	Logger *slog.Logger

	unmodeled sync.Once
}

// Choose evaluates a fresh copy of the tree, so a single Logit can serve
// concurrent callers.
func (m *Logit) Choose(eligible []*domain.Transition, input choice.Input, rng choice.RandomSource) (*domain.Transition, error) {
	byName := make(map[string]*domain.Transition, len(eligible))
	names := make([]string, 0, len(eligible))
	for _, t := range eligible {
		byName[t.Name] = t
		names = append(names, t.Name)
	}

	m.warnUnmodeled(names)

	tree, err := m.Tree.Restrict(names)
	if err != nil {
		return nil, fmt.Errorf("choice model %q models none of %v: %w", m.Tree.Name(), names, domain.ErrNoEligibleTransition)
	}

	ev, err := tree.Evaluate(input)
	if err != nil {
		return nil, fmt.Errorf("choice model %q: %w", m.Tree.Name(), err)
	}
	return byName[ev.Choose(rng)], nil
}

func (m *Logit) warnUnmodeled(names []string) {
	if m.Logger == nil {
		return
	}
	modeled := make(map[string]bool)
	for _, c := range m.Tree.Children() {
		modeled[c] = true
	}
	var missing []string
	for _, n := range names {
		if !modeled[n] {
			missing = append(missing, n)
		}
	}
	if len(missing) == 0 {
		return
	}
	m.unmodeled.Do(func() {
		m.Logger.Warn("eligible transitions are not modeled by the choice model and will never be chosen",
			"model", m.Tree.Name(), "transitions", missing)
	})
}
