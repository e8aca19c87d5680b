package validator

import (
	"fmt"
	"strings"

	"github.com/aretw0/metasim/pkg/domain"
)

// ValidateGraph crawls the graph from its initial state and reports states
// that can never be reached, states an agent could enter but never leave by
// decision, and actions with nothing to choose from.
func ValidateGraph(g *domain.Graph) error {
	start := g.InitialState()
	if start == nil {
		return fmt.Errorf("class %s: no initial state declared", g.Class)
	}

	// Crawler
	visited := make(map[string]bool)
	queue := []*domain.State{start}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if visited[current.Name] {
			continue
		}
		visited[current.Name] = true

		for _, t := range current.Transitions() {
			if !visited[t.To.Name] {
				queue = append(queue, t.To)
			}
		}
	}

	var errors []string

	for _, s := range g.States() {
		if !visited[s.Name] {
			errors = append(errors, fmt.Sprintf("Unreachable state: '%s'", s.Name))
		}
		if len(s.Actions()) == 0 && hasDecidable(s) {
			errors = append(errors, fmt.Sprintf("State '%s' has outgoing transitions but no action to take them", s.Name))
		}
	}

	for _, a := range g.Actions() {
		if len(a.Eligible()) == 0 {
			errors = append(errors, fmt.Sprintf("Action '%s' in state '%s' has no eligible transition", a.Name, a.State().Name))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("class %s: found %d errors:\n- %s", g.Class, len(errors), strings.Join(errors, "\n- "))
	}

	return nil
}

// hasDecidable reports whether s has a transition that only an action can take.
func hasDecidable(s *domain.State) bool {
	for _, t := range s.Transitions() {
		if !t.Contingent {
			return true
		}
	}
	return false
}
