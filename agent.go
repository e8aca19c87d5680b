package metasim

import (
	"context"

	"github.com/aretw0/metasim/internal/runtime"
	"github.com/aretw0/metasim/pkg/choice"
	"github.com/aretw0/metasim/pkg/domain"
)

// Agent pairs one agent's cursor with a decider.
// It is not safe for concurrent use; create one Agent per simulated entity.
type Agent struct {
	Cursor  *domain.Cursor
	decider *runtime.Decider
}

// State returns the agent's current state.
func (a *Agent) State() *domain.State {
	return a.Cursor.Current()
}

// Decide resolves the named action of the current state and moves the agent.
func (a *Agent) Decide(ctx context.Context, action string, input choice.Input, rng choice.RandomSource) (*domain.Transition, error) {
	return a.decider.Decide(ctx, a.Cursor, action, input, rng)
}

// Step resolves the first action bound to the current state.
// It reports false when the state has no action.
func (a *Agent) Step(ctx context.Context, input choice.Input, rng choice.RandomSource) (*domain.Transition, bool, error) {
	actions := a.State().Actions()
	if len(actions) == 0 {
		return nil, false, nil
	}
	t, err := a.Decide(ctx, actions[0].Name, input, rng)
	if err != nil {
		return nil, true, err
	}
	return t, true, nil
}
