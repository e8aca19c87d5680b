package dsl

// StateBuilder provides a fluent API for configuring a state.
type StateBuilder struct {
	name    string
	initial bool
	builder *Builder
}

// Initial marks the state as the agent's starting point.
func (s *StateBuilder) Initial() *StateBuilder {
	s.initial = true
	return s
}

// Action binds a new action to the state.
func (s *StateBuilder) Action(name string) *ActionBuilder {
	a := &ActionBuilder{name: name, state: s}
	s.builder.actions = append(s.builder.actions, a)
	return a
}

// TransitionBuilder provides a fluent API for configuring a transition.
type TransitionBuilder struct {
	class      string
	from, to   string
	contingent bool
}

// Contingent flags the transition as contingent.
func (t *TransitionBuilder) Contingent() *TransitionBuilder {
	t.contingent = true
	return t
}

// ActionBuilder provides a fluent API for configuring an action.
type ActionBuilder struct {
	name     string
	state    *StateBuilder
	restrict []string
	model    string
}

// Restrict limits the action to the named transitions.
func (a *ActionBuilder) Restrict(transitions ...string) *ActionBuilder {
	a.restrict = append(a.restrict, transitions...)
	return a
}

// Model names the action's default choice model.
func (a *ActionBuilder) Model(name string) *ActionBuilder {
	a.model = name
	return a
}
