package domain

// Description is a serializable view of a graph, used for rendering and export.
type Description struct {
	Class        string           `json:"class" yaml:"class"`
	InitialState string           `json:"initial_state,omitempty" yaml:"initial_state,omitempty"`
	States       []StateInfo      `json:"states" yaml:"states"`
	Transitions  []TransitionInfo `json:"transitions" yaml:"transitions"`
}

// StateInfo describes one state.
type StateInfo struct {
	Name    string       `json:"name" yaml:"name"`
	Initial bool         `json:"initial,omitempty" yaml:"initial,omitempty"`
	Actions []ActionInfo `json:"actions,omitempty" yaml:"actions,omitempty"`
}

// ActionInfo describes one action.
type ActionInfo struct {
	Name        string   `json:"name" yaml:"name"`
	Model       string   `json:"model" yaml:"model"`
	Transitions []string `json:"transitions,omitempty" yaml:"transitions,omitempty"`
}

// TransitionInfo describes one transition.
type TransitionInfo struct {
	Name       string `json:"name" yaml:"name"`
	From       string `json:"from" yaml:"from"`
	To         string `json:"to" yaml:"to"`
	Contingent bool   `json:"contingent,omitempty" yaml:"contingent,omitempty"`
}

// Describe captures the graph's structure.
func (g *Graph) Describe() Description {
	d := Description{Class: g.Class}
	if g.initial != nil {
		d.InitialState = g.initial.Name
	}

	for _, s := range g.states {
		info := StateInfo{Name: s.Name, Initial: s.Initial}
		for _, a := range s.actions {
			ai := ActionInfo{Name: a.Name, Model: a.modelName}
			for _, t := range a.restricted {
				ai.Transitions = append(ai.Transitions, t.Name)
			}
			info.Actions = append(info.Actions, ai)
		}
		d.States = append(d.States, info)
	}

	for _, t := range g.transitions {
		d.Transitions = append(d.Transitions, TransitionInfo{
			Name:       t.Name,
			From:       t.From.Name,
			To:         t.To.Name,
			Contingent: t.Contingent,
		})
	}
	return d
}
