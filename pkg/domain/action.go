package domain

import (
	"fmt"

	"github.com/aretw0/metasim/pkg/choice"
)

// ChoiceModel selects one transition among the eligible ones.
// Implementations must be safe for concurrent use: a single default model is
// shared by every agent whose graph binds it.
type ChoiceModel interface {
	Choose(eligible []*Transition, input choice.Input, rng choice.RandomSource) (*Transition, error)
}

// Action is a decision point bound to a state. It is read-only once created.
type Action struct {
	Name string

	state      *State
	restricted []*Transition
	model      ChoiceModel
	modelName  string
}

// NewAction creates an action of state whose default model was resolved
// under modelName. When restricted is non-empty it is the only set of
// transitions the action may take.
func NewAction(name string, state *State, model ChoiceModel, modelName string, restricted ...*Transition) *Action {
	return &Action{
		Name:       name,
		state:      state,
		restricted: append([]*Transition(nil), restricted...),
		model:      model,
		modelName:  modelName,
	}
}

// State returns the state the action is bound to.
func (a *Action) State() *State {
	return a.state
}

// Restricted returns the restriction list, or nil.
func (a *Action) Restricted() []*Transition {
	if len(a.restricted) == 0 {
		return nil
	}
	return append([]*Transition(nil), a.restricted...)
}

// Model returns the default choice model.
func (a *Action) Model() ChoiceModel {
	return a.model
}

// ModelName returns the name the default model was resolved under.
func (a *Action) ModelName() string {
	return a.modelName
}

// Eligible returns the transitions this action may choose among: the
// restriction list if present, else every transition leaving its state.
func (a *Action) Eligible() []*Transition {
	if len(a.restricted) > 0 {
		return a.Restricted()
	}
	return a.state.Transitions()
}

// Choose resolves the next transition. The override model, when non-nil,
// replaces the default for this call only. The agent's state is not changed.
func (a *Action) Choose(input choice.Input, rng choice.RandomSource, override ChoiceModel) (*Transition, error) {
	eligible := a.Eligible()
	if len(eligible) == 0 {
		return nil, fmt.Errorf("action %q in state %q: %w", a.Name, a.state.Name, ErrNoEligibleTransition)
	}

	model := a.model
	if override != nil {
		model = override
	}
	if model == nil {
		return nil, fmt.Errorf("action %q: no choice model bound", a.Name)
	}

	t, err := model.Choose(eligible, input, rng)
	if err != nil {
		return nil, fmt.Errorf("action %q: %w", a.Name, err)
	}
	return t, nil
}
