package domain

// State is a node of a behavior graph.
type State struct {
	Name    string
	Initial bool

	actions     []*Action
	transitions []*Transition
}

// Actions returns the actions bound to this state in declaration order.
func (s *State) Actions() []*Action {
	out := make([]*Action, len(s.actions))
	copy(out, s.actions)
	return out
}

// Action returns the bound action with the given name.
func (s *State) Action(name string) (*Action, bool) {
	for _, a := range s.actions {
		if a.Name == name {
			return a, true
		}
	}
	return nil, false
}

// Transitions returns the outgoing transitions in declaration order.
func (s *State) Transitions() []*Transition {
	out := make([]*Transition, len(s.transitions))
	copy(out, s.transitions)
	return out
}

// IsTerminal reports whether the state has no outgoing transitions.
func (s *State) IsTerminal() bool {
	return len(s.transitions) == 0
}
