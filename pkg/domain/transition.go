package domain

// Transition moves an agent from one state to another.
type Transition struct {
	// Name is the configured class of the transition and its lookup key.
	Name string
	// Kind is Name with the document's transition class prefix applied.
	Kind string

	From *State
	To   *State

	// Contingent transitions fire only when an external condition supplies
	// them. The graph records the flag; schedulers decide what it means.
	Contingent bool
}

func (t *Transition) String() string {
	return t.Name + "(" + t.From.Name + "->" + t.To.Name + ")"
}
