package domain

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/metasim/pkg/choice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lastModel always picks the last eligible transition.
type lastModel struct{ seen []*Transition }

func (m *lastModel) Choose(eligible []*Transition, _ choice.Input, _ choice.RandomSource) (*Transition, error) {
	m.seen = eligible
	return eligible[len(eligible)-1], nil
}

type failingModel struct{}

func (failingModel) Choose([]*Transition, choice.Input, choice.RandomSource) (*Transition, error) {
	return nil, errors.New("no luck")
}

func buildGraph(t *testing.T) (*Graph, *lastModel) {
	t.Helper()
	g := NewGraph("Traveler")
	home, err := g.AddState("Home", true)
	require.NoError(t, err)
	road, err := g.AddState("Road", false)
	require.NoError(t, err)
	work, err := g.AddState("Work", false)
	require.NoError(t, err)

	model := &lastModel{}
	require.NoError(t, g.AddAction(NewAction("leave", home, model, "last")))

	// Declared after the action on purpose.
	require.NoError(t, g.AddTransition(&Transition{Name: "Depart", Kind: "Depart", From: home, To: road}))
	require.NoError(t, g.AddTransition(&Transition{Name: "Arrive", Kind: "Arrive", From: road, To: work, Contingent: true}))
	require.NoError(t, g.AddTransition(&Transition{Name: "Stay", Kind: "Stay", From: home, To: home}))

	return g, model
}

func TestGraph_Lookups(t *testing.T) {
	g, _ := buildGraph(t)

	assert.Equal(t, "Home", g.InitialState().Name)
	s, ok := g.State("Road")
	require.True(t, ok)
	assert.False(t, s.Initial)
	assert.False(t, s.IsTerminal())

	work, _ := g.State("Work")
	assert.True(t, work.IsTerminal())

	tr, ok := g.Transition("Arrive")
	require.True(t, ok)
	assert.True(t, tr.Contingent)
	assert.Equal(t, "Arrive(Road->Work)", tr.String())

	_, ok = g.Action("missing")
	assert.False(t, ok)
	assert.Len(t, g.ActionMap(), 1)
	assert.Len(t, g.States(), 3)
	assert.Len(t, g.Transitions(), 3)
	assert.Len(t, g.Actions(), 1)
}

func TestGraph_AddRejections(t *testing.T) {
	g, _ := buildGraph(t)
	home, _ := g.State("Home")

	_, err := g.AddState("Home", false)
	assert.Error(t, err)

	second, err := g.AddState("Office", true)
	require.NoError(t, err)
	assert.False(t, second.Initial, "first initial state wins")
	assert.Equal(t, "Home", g.InitialState().Name)

	assert.Error(t, g.AddTransition(&Transition{Name: "Depart", From: home, To: home}))
	assert.Error(t, g.AddTransition(&Transition{Name: "Ghost", From: home, To: &State{Name: "Nowhere"}}))
	assert.Error(t, g.AddAction(NewAction("leave", home, nil, "")))
	assert.Error(t, g.AddAction(NewAction("float", &State{Name: "Home"}, nil, "")))

	arrive, _ := g.Transition("Arrive")
	assert.ErrorContains(t, g.AddAction(NewAction("jump", home, nil, "", arrive)),
		`restricts to transition "Arrive" leaving state "Road"`)
	stray := &Transition{Name: "Stray", From: home, To: home}
	assert.ErrorContains(t, g.AddAction(NewAction("stray", home, nil, "", stray)), "outside the graph")

	g.Seal()
	assert.True(t, g.Sealed())
	_, err = g.AddState("Late", false)
	assert.ErrorIs(t, err, ErrGraphSealed)
	assert.ErrorIs(t, g.AddTransition(&Transition{Name: "Late", From: home, To: home}), ErrGraphSealed)
	assert.ErrorIs(t, g.AddAction(NewAction("late", home, nil, "")), ErrGraphSealed)

	g.Warn(Warning{Kind: WarnDuplicateDeclaration})
	assert.Empty(t, g.Warnings(), "sealed graphs take no new warnings")
}

func TestAction_EligibleIncludesLaterTransitions(t *testing.T) {
	g, model := buildGraph(t)
	leave, _ := g.Action("leave")

	names := func(ts []*Transition) []string {
		var out []string
		for _, t := range ts {
			out = append(out, t.Name)
		}
		return out
	}
	assert.Equal(t, []string{"Depart", "Stay"}, names(leave.Eligible()))

	got, err := leave.Choose(choice.Input{}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Stay", got.Name)
	assert.Len(t, model.seen, 2)

	stay, _ := g.Transition("Stay")
	home, _ := g.State("Home")
	stayOnly := NewAction("linger", home, model, "last", stay)
	assert.Equal(t, []string{"Stay"}, names(stayOnly.Eligible()))

	restricted := stayOnly.Restricted()
	restricted[0] = nil
	assert.Same(t, stay, stayOnly.Restricted()[0], "callers get a copy of the restriction list")
	assert.Same(t, home, stayOnly.State())
	assert.Same(t, model, stayOnly.Model())
	assert.Equal(t, "last", stayOnly.ModelName())
	assert.Nil(t, leave.Restricted())
}

func TestAction_ChooseErrors(t *testing.T) {
	g, _ := buildGraph(t)
	work, _ := g.State("Work")

	idle := NewAction("idle", work, &lastModel{}, "last")
	_, err := idle.Choose(nil, nil, nil)
	assert.ErrorIs(t, err, ErrNoEligibleTransition)

	leave, _ := g.Action("leave")
	_, err = leave.Choose(nil, nil, failingModel{})
	assert.ErrorContains(t, err, "no luck")

	home, _ := g.State("Home")
	bare := NewAction("bare", home, nil, "")
	_, err = bare.Choose(nil, nil, nil)
	assert.ErrorContains(t, err, "no choice model")
}

func TestCursor(t *testing.T) {
	g, _ := buildGraph(t)
	c, err := NewCursor(g)
	require.NoError(t, err)
	assert.Same(t, g, c.Graph())
	assert.Equal(t, "Home", c.Current().Name)

	arrive, _ := g.Transition("Arrive")
	assert.ErrorIs(t, c.Advance(arrive), ErrIllegalTransition)

	depart, _ := g.Transition("Depart")
	require.NoError(t, c.Advance(depart))
	require.NoError(t, c.Advance(arrive))
	assert.Equal(t, "Work", c.Current().Name)
	assert.Equal(t, []string{"Home", "Road", "Work"}, c.History())

	_, err = NewCursor(NewGraph("Empty"))
	assert.ErrorIs(t, err, ErrNoInitialState)
}

func TestDescribe(t *testing.T) {
	g, _ := buildGraph(t)
	d := g.Describe()

	assert.Equal(t, "Traveler", d.Class)
	assert.Equal(t, "Home", d.InitialState)
	require.Len(t, d.States, 3)
	assert.True(t, d.States[0].Initial)
	require.Len(t, d.States[0].Actions, 1)
	assert.Equal(t, ActionInfo{Name: "leave", Model: "last"}, d.States[0].Actions[0])
	assert.Equal(t, TransitionInfo{Name: "Arrive", From: "Road", To: "Work", Contingent: true}, d.Transitions[1])
}

func TestConfigError(t *testing.T) {
	err := error(&ConfigError{Class: "Traveler", Element: "transitions::transition", Reason: "missing 'class' attribute"})
	assert.True(t, errors.Is(err, ErrConfiguration))
	assert.Equal(t, "finite state machine for class Traveler: transitions::transition: missing 'class' attribute", err.Error())

	bare := &ConfigError{Element: "finiteStateMachine", Reason: "missing 'class' attribute"}
	assert.Equal(t, "finite state machine: finiteStateMachine: missing 'class' attribute", bare.Error())
}

func TestHooksMerge(t *testing.T) {
	var calls []string
	a := Hooks{OnDecision: func(context.Context, *DecisionEvent) { calls = append(calls, "a") }}
	b := Hooks{OnDecision: func(context.Context, *DecisionEvent) { calls = append(calls, "b") }}

	a.Merge(b).OnDecision(context.Background(), &DecisionEvent{})
	assert.Equal(t, []string{"a", "b"}, calls)

	assert.Nil(t, Hooks{}.Merge(Hooks{}).OnDecision)
	assert.NotNil(t, Hooks{}.Merge(b).OnDecision)
	assert.NotNil(t, a.Merge(Hooks{}).OnDecision)
}
