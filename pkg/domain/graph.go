package domain

import "fmt"

// WarningKind classifies a non-fatal configuration problem.
type WarningKind string

const (
	WarnDuplicateDeclaration WarningKind = "duplicate_declaration"
	WarnUnresolvedModel      WarningKind = "unresolved_choice_model"
	WarnDuplicateInitial     WarningKind = "duplicate_initial_state"
)

// Warning is a problem the builder recovered from.
type Warning struct {
	Kind    WarningKind `json:"kind"`
	Class   string      `json:"class"`
	Element string      `json:"element"`
	Name    string      `json:"name"`
	Message string      `json:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Kind, w.Message)
}

// Graph is the behavior template of one agent class.
//
// The Add methods are for builders; once Seal is called the graph rejects
// changes and may be shared across goroutines without locking.
type Graph struct {
	Class string

	initial     *State
	states      []*State
	transitions []*Transition
	actions     []*Action
	byState     map[string]*State
	byTrans     map[string]*Transition
	byAction    map[string]*Action
	warnings    []Warning
	sealed      bool
}

// NewGraph creates an empty graph for the given agent class.
func NewGraph(class string) *Graph {
	return &Graph{
		Class:    class,
		byState:  make(map[string]*State),
		byTrans:  make(map[string]*Transition),
		byAction: make(map[string]*Action),
	}
}

// AddState declares a state. The first state marked initial wins.
func (g *Graph) AddState(name string, initial bool) (*State, error) {
	if g.sealed {
		return nil, ErrGraphSealed
	}
	if _, dup := g.byState[name]; dup {
		return nil, fmt.Errorf("state %q already declared", name)
	}
	s := &State{Name: name}
	if initial && g.initial == nil {
		s.Initial = true
		g.initial = s
	}
	g.states = append(g.states, s)
	g.byState[name] = s
	return s, nil
}

// AddTransition declares a transition and attaches it to its source state.
func (g *Graph) AddTransition(t *Transition) error {
	if g.sealed {
		return ErrGraphSealed
	}
	if _, dup := g.byTrans[t.Name]; dup {
		return fmt.Errorf("transition %q already declared", t.Name)
	}
	if t.From == nil || t.To == nil || g.byState[t.From.Name] != t.From || g.byState[t.To.Name] != t.To {
		return fmt.Errorf("transition %q references states outside the graph", t.Name)
	}
	g.transitions = append(g.transitions, t)
	g.byTrans[t.Name] = t
	t.From.transitions = append(t.From.transitions, t)
	return nil
}

// AddAction declares an action and binds it to its state.
func (g *Graph) AddAction(a *Action) error {
	if g.sealed {
		return ErrGraphSealed
	}
	if _, dup := g.byAction[a.Name]; dup {
		return fmt.Errorf("action %q already declared", a.Name)
	}
	if a.state == nil || g.byState[a.state.Name] != a.state {
		return fmt.Errorf("action %q is bound to a state outside the graph", a.Name)
	}
	for _, t := range a.restricted {
		if g.byTrans[t.Name] != t {
			return fmt.Errorf("action %q restricts to transition %q outside the graph", a.Name, t.Name)
		}
		if t.From != a.state {
			return fmt.Errorf("action %q restricts to transition %q leaving state %q", a.Name, t.Name, t.From.Name)
		}
	}
	g.actions = append(g.actions, a)
	g.byAction[a.Name] = a
	a.state.actions = append(a.state.actions, a)
	return nil
}

// Warn records a non-fatal problem.
func (g *Graph) Warn(w Warning) {
	if !g.sealed {
		g.warnings = append(g.warnings, w)
	}
}

// Seal freezes the graph.
func (g *Graph) Seal() {
	g.sealed = true
}

// Sealed reports whether the graph has been frozen.
func (g *Graph) Sealed() bool {
	return g.sealed
}

// InitialState returns the initial state, or nil if none was declared.
func (g *Graph) InitialState() *State {
	return g.initial
}

// State looks up a state by name.
func (g *Graph) State(name string) (*State, bool) {
	s, ok := g.byState[name]
	return s, ok
}

// Transition looks up a transition by name.
func (g *Graph) Transition(name string) (*Transition, bool) {
	t, ok := g.byTrans[name]
	return t, ok
}

// Action looks up an action by name.
func (g *Graph) Action(name string) (*Action, bool) {
	a, ok := g.byAction[name]
	return a, ok
}

// States returns all states in declaration order.
func (g *Graph) States() []*State {
	return append([]*State(nil), g.states...)
}

// Transitions returns all transitions in declaration order.
func (g *Graph) Transitions() []*Transition {
	return append([]*Transition(nil), g.transitions...)
}

// Actions returns all actions in declaration order.
func (g *Graph) Actions() []*Action {
	return append([]*Action(nil), g.actions...)
}

// ActionMap returns the actions keyed by name.
func (g *Graph) ActionMap() map[string]*Action {
	m := make(map[string]*Action, len(g.byAction))
	for k, v := range g.byAction {
		m[k] = v
	}
	return m
}

// Warnings returns the problems recovered from while building.
func (g *Graph) Warnings() []Warning {
	return append([]Warning(nil), g.warnings...)
}
