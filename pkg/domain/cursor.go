package domain

import "fmt"

// Cursor is one agent's position in a shared graph.
// It is owned by the agent and is not safe for concurrent use.
type Cursor struct {
	graph   *Graph
	current *State
	history []string
}

// NewCursor places a new agent at the graph's initial state.
func NewCursor(g *Graph) (*Cursor, error) {
	if g.initial == nil {
		return nil, fmt.Errorf("class %s: %w", g.Class, ErrNoInitialState)
	}
	return &Cursor{graph: g, current: g.initial, history: []string{g.initial.Name}}, nil
}

// Graph returns the graph the cursor walks.
func (c *Cursor) Graph() *Graph {
	return c.graph
}

// Current returns the agent's current state.
func (c *Cursor) Current() *State {
	return c.current
}

// History returns the names of the states visited, oldest first.
func (c *Cursor) History() []string {
	return append([]string(nil), c.history...)
}

// Advance moves the agent along t, which must leave the current state.
func (c *Cursor) Advance(t *Transition) error {
	if t.From != c.current {
		return fmt.Errorf("transition %q leaves %q, agent is in %q: %w", t.Name, t.From.Name, c.current.Name, ErrIllegalTransition)
	}
	c.current = t.To
	c.history = append(c.history, t.To.Name)
	return nil
}
