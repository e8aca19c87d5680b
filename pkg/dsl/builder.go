package dsl

import (
	"strings"

	"github.com/aretw0/metasim/internal/runtime"
	"github.com/aretw0/metasim/pkg/document"
	"github.com/aretw0/metasim/pkg/domain"
	"github.com/aretw0/metasim/pkg/registry"
)

// Builder manages the graph construction.
type Builder struct {
	class       string
	states      []*StateBuilder
	transitions []*TransitionBuilder
	actions     []*ActionBuilder

	transitionPrefix string
	modelPrefix      string
}

// New creates a new graph builder for an agent class.
func New(class string) *Builder {
	return &Builder{class: class}
}

// State declares a state.
// If the state already exists, it returns the existing builder.
func (b *Builder) State(name string) *StateBuilder {
	for _, s := range b.states {
		if s.name == name {
			return s
		}
	}
	s := &StateBuilder{name: name, builder: b}
	b.states = append(b.states, s)
	return s
}

// Transition declares a transition between two states.
func (b *Builder) Transition(class, from, to string) *TransitionBuilder {
	t := &TransitionBuilder{class: class, from: from, to: to}
	b.transitions = append(b.transitions, t)
	return t
}

// TransitionPrefix sets the transitionClassPrefix of the transitions section.
func (b *Builder) TransitionPrefix(prefix string) *Builder {
	b.transitionPrefix = prefix
	return b
}

// ModelPrefix sets the choiceModelClassPrefix of the actions section.
func (b *Builder) ModelPrefix(prefix string) *Builder {
	b.modelPrefix = prefix
	return b
}

// Document renders the declarations as a finiteStateMachine document.
// Sections are emitted states first, then transitions, then actions.
func (b *Builder) Document() *document.Element {
	root := document.New("finiteStateMachine", "class", b.class)

	states := document.New("states")
	for _, s := range b.states {
		el := document.New("state", "name", s.name)
		if s.initial {
			el.SetAttr("type", "initialState")
		}
		states.Append(el)
	}

	transitions := document.New("transitions")
	if b.transitionPrefix != "" {
		transitions.SetAttr("transitionClassPrefix", b.transitionPrefix)
	}
	for _, t := range b.transitions {
		el := document.New("transition", "class", t.class, "fromState", t.from, "toState", t.to)
		if t.contingent {
			el.SetAttr("isContingent", "true")
		}
		transitions.Append(el)
	}

	actions := document.New("actions")
	if b.modelPrefix != "" {
		actions.SetAttr("choiceModelClassPrefix", b.modelPrefix)
	}
	for _, a := range b.actions {
		el := document.New("action", "name", a.name, "state", a.state.name)
		if len(a.restrict) > 0 {
			el.SetAttr("restrictToTransitions", strings.Join(a.restrict, ","))
		}
		if a.model != "" {
			el.SetAttr("defaultChoiceModel", a.model)
		}
		actions.Append(el)
	}

	return root.Append(states, transitions, actions)
}

// Build compiles the declarations into a sealed graph, binding default
// choice models through r (nil means only the random fallback).
func (b *Builder) Build(r *registry.Registry) (*domain.Graph, error) {
	return runtime.BuildGraph(b.Document(), runtime.WithRegistry(r))
}
