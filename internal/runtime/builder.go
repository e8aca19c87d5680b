package runtime

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/aretw0/metasim/pkg/document"
	"github.com/aretw0/metasim/pkg/domain"
	"github.com/aretw0/metasim/pkg/registry"
	"github.com/mitchellh/mapstructure"
)

// Document vocabulary.
const (
	elemMachines    = "finiteStateMachines"
	elemMachine     = "finiteStateMachine"
	elemStates      = "states"
	elemState       = "state"
	elemTransitions = "transitions"
	elemTransition  = "transition"
	elemActions     = "actions"
	elemAction      = "action"

	initialStateType = "initialstate"
)

type machineAttrs struct {
	Class string `mapstructure:"class"`
}

type stateAttrs struct {
	Name string `mapstructure:"name"`
	Type string `mapstructure:"type"`
}

type transitionAttrs struct {
	Class        string `mapstructure:"class"`
	FromState    string `mapstructure:"fromState"`
	ToState      string `mapstructure:"toState"`
	IsContingent bool   `mapstructure:"isContingent"`
}

type actionAttrs struct {
	Name                  string `mapstructure:"name"`
	State                 string `mapstructure:"state"`
	RestrictToTransitions string `mapstructure:"restrictToTransitions"`
	DefaultChoiceModel    string `mapstructure:"defaultChoiceModel"`
}

type sectionAttrs struct {
	TransitionClassPrefix  string `mapstructure:"transitionClassPrefix"`
	ChoiceModelClassPrefix string `mapstructure:"choiceModelClassPrefix"`
}

// BuildGraphs builds every graph in a finiteStateMachines document, keyed by
// class. A single finiteStateMachine root is accepted as well.
func BuildGraphs(root *document.Element, opts ...Option) (map[string]*domain.Graph, error) {
	machines := []*document.Element{root}
	if !root.Is(elemMachine) {
		if !root.Is(elemMachines) {
			return nil, &domain.ConfigError{Element: root.Path(), Reason: "unexpected root element"}
		}
		machines = root.Children
	}

	graphs := make(map[string]*domain.Graph, len(machines))
	for _, el := range machines {
		if !el.Is(elemMachine) {
			return nil, &domain.ConfigError{Element: el.Path(), Reason: "unexpected element"}
		}
		g, err := BuildGraph(el, opts...)
		if err != nil {
			return nil, err
		}
		if _, dup := graphs[g.Class]; dup {
			return nil, &domain.ConfigError{Class: g.Class, Element: el.Path(), Reason: "class governed by more than one finite state machine"}
		}
		graphs[g.Class] = g
	}
	return graphs, nil
}

// BuildGraph assembles and seals the graph described by a finiteStateMachine element.
func BuildGraph(el *document.Element, opts ...Option) (*domain.Graph, error) {
	o := newOptions(opts)

	var attrs machineAttrs
	if err := decodeAttrs(el, "", &attrs); err != nil {
		return nil, err
	}
	if attrs.Class == "" {
		return nil, &domain.ConfigError{Element: el.Path(), Reason: "finite state machine element does not have a 'class' attribute"}
	}
	class, err := o.resolver(attrs.Class)
	if err != nil {
		return nil, &domain.ConfigError{Class: attrs.Class, Element: el.Path(), Reason: err.Error()}
	}

	b := &graphBuilder{
		graph:    domain.NewGraph(class),
		registry: o.registry,
		logger:   o.logger.With("class", class),
	}

	for _, section := range el.Children {
		switch strings.ToLower(section.Name) {
		case strings.ToLower(elemStates):
			err = b.states(section)
		case strings.ToLower(elemTransitions):
			err = b.transitions(section)
		case strings.ToLower(elemActions):
			err = b.actions(section)
		default:
			err = b.configErr(section, "unexpected element")
		}
		if err != nil {
			return nil, err
		}
	}

	b.graph.Seal()
	b.logger.Debug("behavior graph built",
		"states", len(b.graph.States()),
		"transitions", len(b.graph.Transitions()),
		"actions", len(b.graph.Actions()),
		"warnings", len(b.graph.Warnings()),
	)
	return b.graph, nil
}

type graphBuilder struct {
	graph    *domain.Graph
	registry *registry.Registry
	logger   *slog.Logger
}

func (b *graphBuilder) configErr(el *document.Element, format string, args ...any) error {
	return &domain.ConfigError{Class: b.graph.Class, Element: el.Path(), Reason: fmt.Sprintf(format, args...)}
}

func (b *graphBuilder) warn(kind domain.WarningKind, el *document.Element, name, msg string) {
	b.graph.Warn(domain.Warning{
		Kind:    kind,
		Class:   b.graph.Class,
		Element: el.Path(),
		Name:    name,
		Message: msg,
	})
	b.logger.Warn(msg, "kind", string(kind), "element", el.Path(), "name", name)
}

func (b *graphBuilder) entries(section *document.Element, want string) ([]*document.Element, error) {
	for _, c := range section.Children {
		if !c.Is(want) {
			return nil, b.configErr(c, "unexpected element")
		}
	}
	return section.Children, nil
}

func (b *graphBuilder) states(section *document.Element) error {
	entries, err := b.entries(section, elemState)
	if err != nil {
		return err
	}
	for _, el := range entries {
		var attrs stateAttrs
		if err := decodeAttrs(el, b.graph.Class, &attrs); err != nil {
			return err
		}
		if attrs.Name == "" {
			return b.configErr(el, "state is missing the 'name' attribute")
		}
		if _, dup := b.graph.State(attrs.Name); dup {
			b.warn(domain.WarnDuplicateDeclaration, el, attrs.Name, fmt.Sprintf(
				"State named %s is declared more than once for finite state machine of class %s. Only the first declaration will be used.",
				attrs.Name, b.graph.Class))
			continue
		}

		initial := strings.ToLower(attrs.Type) == initialStateType
		if initial && b.graph.InitialState() != nil {
			b.warn(domain.WarnDuplicateInitial, el, attrs.Name, fmt.Sprintf(
				"State %s is marked as initial but %s already is for finite state machine of class %s. Only the first marking will be used.",
				attrs.Name, b.graph.InitialState().Name, b.graph.Class))
			initial = false
		}
		if _, err := b.graph.AddState(attrs.Name, initial); err != nil {
			return b.configErr(el, "%v", err)
		}
	}
	return nil
}

func (b *graphBuilder) transitions(section *document.Element) error {
	var sect sectionAttrs
	if err := decodeAttrs(section, b.graph.Class, &sect); err != nil {
		return err
	}
	entries, err := b.entries(section, elemTransition)
	if err != nil {
		return err
	}

	for _, el := range entries {
		var attrs transitionAttrs
		if err := decodeAttrs(el, b.graph.Class, &attrs); err != nil {
			return err
		}
		if attrs.Class == "" {
			return b.configErr(el, "transition is missing the 'class' attribute")
		}
		if _, dup := b.graph.Transition(attrs.Class); dup {
			b.warn(domain.WarnDuplicateDeclaration, el, attrs.Class, fmt.Sprintf(
				"Transition of class %s is declared more than once for finite state machine of class %s. Only the first declaration will be used.",
				attrs.Class, b.graph.Class))
			continue
		}

		from, err := b.endpoint(el, attrs.Class, "fromState", attrs.FromState)
		if err != nil {
			return err
		}
		to, err := b.endpoint(el, attrs.Class, "toState", attrs.ToState)
		if err != nil {
			return err
		}

		t := &domain.Transition{
			Name:       attrs.Class,
			Kind:       sect.TransitionClassPrefix + attrs.Class,
			From:       from,
			To:         to,
			Contingent: attrs.IsContingent,
		}
		if err := b.graph.AddTransition(t); err != nil {
			return b.configErr(el, "%v", err)
		}
	}
	return nil
}

func (b *graphBuilder) endpoint(el *document.Element, class, attr, name string) (*domain.State, error) {
	if name == "" {
		return nil, b.configErr(el, "transition %s is missing the '%s' attribute", class, attr)
	}
	s, ok := b.graph.State(name)
	if !ok {
		return nil, b.configErr(el, "transition %s specifies an unknown %s: %s", class, attr, name)
	}
	return s, nil
}

func (b *graphBuilder) actions(section *document.Element) error {
	var sect sectionAttrs
	if err := decodeAttrs(section, b.graph.Class, &sect); err != nil {
		return err
	}
	entries, err := b.entries(section, elemAction)
	if err != nil {
		return err
	}

	for _, el := range entries {
		var attrs actionAttrs
		if err := decodeAttrs(el, b.graph.Class, &attrs); err != nil {
			return err
		}
		if attrs.Name == "" {
			return b.configErr(el, "action is missing the 'name' attribute")
		}
		if _, dup := b.graph.Action(attrs.Name); dup {
			b.warn(domain.WarnDuplicateDeclaration, el, attrs.Name, fmt.Sprintf(
				"Action named %s is declared more than once for finite state machine of class %s. Only the first declaration will be used.",
				attrs.Name, b.graph.Class))
			continue
		}
		if attrs.State == "" {
			return b.configErr(el, "action %s is missing the 'state' attribute", attrs.Name)
		}
		state, ok := b.graph.State(attrs.State)
		if !ok {
			return b.configErr(el, "action %s specifies an unknown state: %s", attrs.Name, attrs.State)
		}

		restricted, err := b.restriction(el, attrs, state)
		if err != nil {
			return err
		}

		model, modelName := b.resolveModel(el, attrs, sect.ChoiceModelClassPrefix)
		a := domain.NewAction(attrs.Name, state, model, modelName, restricted...)
		if err := b.graph.AddAction(a); err != nil {
			return b.configErr(el, "%v", err)
		}
	}
	return nil
}

// restriction resolves restrictToTransitions against transitions declared so far.
// Every entry must leave the action's state.
func (b *graphBuilder) restriction(el *document.Element, attrs actionAttrs, state *domain.State) ([]*domain.Transition, error) {
	if strings.TrimSpace(attrs.RestrictToTransitions) == "" {
		return nil, nil
	}
	var out []*domain.Transition
	for _, name := range strings.Split(attrs.RestrictToTransitions, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		t, ok := b.graph.Transition(name)
		if !ok {
			return nil, b.configErr(el, "action %s restricts to an unknown transition: %s", attrs.Name, name)
		}
		if t.From != state {
			return nil, b.configErr(el, "action %s restricts to transition %s leaving state %s", attrs.Name, name, t.From.Name)
		}
		out = append(out, t)
	}
	return out, nil
}

// resolveModel finds the default choice model, falling back to uniform random.
// The fallback never goes through the registry, so no registration can replace it.
func (b *graphBuilder) resolveModel(el *document.Element, attrs actionAttrs, prefix string) (domain.ChoiceModel, string) {
	name := strings.TrimSpace(attrs.DefaultChoiceModel)
	if name != "" {
		candidates := []string{prefix + name}
		if prefix != "" {
			candidates = append(candidates, name)
		}
		for _, c := range candidates {
			if m, ok := b.registry.Resolve(c); ok {
				return m, c
			}
		}
		b.warn(domain.WarnUnresolvedModel, el, attrs.Name, fmt.Sprintf(
			"Choice model %s for action %s is not registered for finite state machine of class %s. Falling back to %s.",
			prefix+name, attrs.Name, b.graph.Class, registry.Random))
	}
	return registry.UniformRandom{}, registry.Random
}

func decodeAttrs(el *document.Element, class string, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(el.AttrMap()); err != nil {
		return &domain.ConfigError{Class: class, Element: el.Path(), Reason: err.Error()}
	}
	return nil
}
