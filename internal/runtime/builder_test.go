package runtime

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/metasim/internal/testutils"
	"github.com/aretw0/metasim/pkg/choice"
	"github.com/aretw0/metasim/pkg/document"
	"github.com/aretw0/metasim/pkg/domain"
	"github.com/aretw0/metasim/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) *document.Element {
	t.Helper()
	el, err := document.ParseXML(strings.NewReader(src))
	require.NoError(t, err)
	return el
}

func morningRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	tree, err := choice.NewBuilder("morning").
		Alternative("morning", "Commute", choice.Constant(1), "").
		Alternative("morning", "Errand", choice.Constant(0), "").
		Build()
	require.NoError(t, err)
	r := registry.NewRegistry()
	require.NoError(t, r.RegisterTree(tree))
	return r
}

func names[T any](items []T, name func(T) string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, name(it))
	}
	return out
}

func transitionNames(ts []*domain.Transition) []string {
	return names(ts, func(t *domain.Transition) string { return t.Name })
}

func TestBuildGraph_Fixtures(t *testing.T) {
	for _, file := range []string{"traveler.xml", "traveler.yaml"} {
		t.Run(file, func(t *testing.T) {
			root, err := document.ParseFile(filepath.Join("testdata", file))
			require.NoError(t, err)

			g, err := BuildGraph(root, WithRegistry(morningRegistry(t)))
			require.NoError(t, err)

			assert.True(t, g.Sealed())
			assert.Equal(t, "Traveler", g.Class)
			require.NotNil(t, g.InitialState())
			assert.Equal(t, "Home", g.InitialState().Name)
			assert.Len(t, g.States(), 4)
			assert.Len(t, g.Transitions(), 5)
			assert.Len(t, g.Actions(), 3)
			assert.Empty(t, g.Warnings())

			accident, ok := g.Transition("Accident")
			require.True(t, ok)
			assert.True(t, accident.Contingent)
			commute, _ := g.Transition("Commute")
			assert.False(t, commute.Contingent)

			start, ok := g.Action("StartDay")
			require.True(t, ok)
			assert.Equal(t, "morning", start.ModelName())
			assert.IsType(t, &registry.Logit{}, start.Model())
			assert.Equal(t, []string{"Commute", "Errand"}, transitionNames(start.Eligible()))

			end, _ := g.Action("EndShift")
			assert.Equal(t, []string{"ReturnFromWork"}, transitionNames(end.Eligible()))

			home, _ := g.Action("GoHome")
			assert.Equal(t, registry.Random, home.ModelName())
			assert.IsType(t, registry.UniformRandom{}, home.Model())
		})
	}
}

func TestBuildGraph_Prefixes(t *testing.T) {
	r := morningRegistry(t)
	r.Register("models.morning", func() domain.ChoiceModel { return registry.UniformRandom{} })

	root, err := document.ParseFile(filepath.Join("testdata", "traveler.xml"))
	require.NoError(t, err)
	g, err := BuildGraph(root, WithRegistry(r))
	require.NoError(t, err)

	commute, _ := g.Transition("Commute")
	assert.Equal(t, "traveler.Commute", commute.Kind)

	start, _ := g.Action("StartDay")
	assert.Equal(t, "models.morning", start.ModelName())
	assert.IsType(t, registry.UniformRandom{}, start.Model())
}

func TestBuildGraph_UnknownFromState(t *testing.T) {
	root := parse(t, `
<finiteStateMachine class="Traveler">
  <states><state name="Home" type="initialState"/></states>
  <transitions><transition class="Depart" fromState="Nowhere" toState="Home"/></transitions>
</finiteStateMachine>`)

	_, err := BuildGraph(root)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
	assert.Contains(t, err.Error(), "Depart")
	assert.Contains(t, err.Error(), "Nowhere")
	assert.Contains(t, err.Error(), "Traveler")

	var cfg *domain.ConfigError
	require.True(t, errors.As(err, &cfg))
	assert.Equal(t, "Traveler", cfg.Class)
	assert.Equal(t, "finiteStateMachine::transitions::transition", cfg.Element)
}

func TestBuildGraph_DuplicateTransition(t *testing.T) {
	logger, buf := testutils.CaptureLogger()

	root := parse(t, `
<finiteStateMachine class="Traveler">
  <states>
    <state name="Home" type="initialState"/>
    <state name="Work"/>
    <state name="Shop"/>
  </states>
  <transitions>
    <transition class="Go" fromState="Home" toState="Work"/>
    <transition class="Go" fromState="Home" toState="Shop"/>
  </transitions>
  <actions>
    <action name="Leave" state="Home" restrictToTransitions="Go"/>
  </actions>
</finiteStateMachine>`)

	g, err := BuildGraph(root, WithLogger(logger))
	require.NoError(t, err)

	require.Len(t, g.Transitions(), 1)
	tr, _ := g.Transition("Go")
	assert.Equal(t, "Work", tr.To.Name)

	leave, _ := g.Action("Leave")
	require.Len(t, leave.Eligible(), 1)
	assert.Same(t, tr, leave.Eligible()[0])

	require.Len(t, g.Warnings(), 1)
	w := g.Warnings()[0]
	assert.Equal(t, domain.WarnDuplicateDeclaration, w.Kind)
	assert.Equal(t, "Go", w.Name)
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "Only the first declaration will be used")
}

func TestBuildGraph_LateTransitionsAreEligible(t *testing.T) {
	root := parse(t, `
<finiteStateMachine class="Traveler">
  <states>
    <state name="Home" type="initialState"/>
    <state name="Work"/>
  </states>
  <actions>
    <action name="Leave" state="Home"/>
  </actions>
  <transitions>
    <transition class="Commute" fromState="Home" toState="Work"/>
    <transition class="Stroll" fromState="Home" toState="Work"/>
  </transitions>
</finiteStateMachine>`)

	g, err := BuildGraph(root)
	require.NoError(t, err)
	leave, _ := g.Action("Leave")
	assert.Equal(t, []string{"Commute", "Stroll"}, transitionNames(leave.Eligible()))
}

func TestBuildGraph_Warnings(t *testing.T) {
	root := parse(t, `
<finiteStateMachine class="Traveler">
  <states>
    <state name="Home" type="initialState"/>
    <state name="Work" type="INITIALSTATE"/>
    <state name="Home"/>
  </states>
  <transitions>
    <transition class="Commute" fromState="Home" toState="Work"/>
  </transitions>
  <actions>
    <action name="Leave" state="Home" defaultChoiceModel="missing"/>
    <action name="Leave" state="Work"/>
  </actions>
</finiteStateMachine>`)

	g, err := BuildGraph(root)
	require.NoError(t, err)

	assert.Equal(t, "Home", g.InitialState().Name)
	work, _ := g.State("Work")
	assert.False(t, work.Initial)

	kinds := names(g.Warnings(), func(w domain.Warning) string { return string(w.Kind) })
	assert.Equal(t, []string{
		string(domain.WarnDuplicateInitial),
		string(domain.WarnDuplicateDeclaration),
		string(domain.WarnUnresolvedModel),
		string(domain.WarnDuplicateDeclaration),
	}, kinds)

	leave, _ := g.Action("Leave")
	assert.Equal(t, "Home", leave.State().Name)
	assert.Equal(t, registry.Random, leave.ModelName())
}

func TestBuildGraph_ConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "missing class",
			src:  `<finiteStateMachine><states/></finiteStateMachine>`,
			want: "'class'",
		},
		{
			name: "unknown section",
			src:  `<finiteStateMachine class="T"><behaviours/></finiteStateMachine>`,
			want: "finiteStateMachine::behaviours: unexpected element",
		},
		{
			name: "unknown entry",
			src:  `<finiteStateMachine class="T"><states><node name="A"/></states></finiteStateMachine>`,
			want: "states::node: unexpected element",
		},
		{
			name: "state without name",
			src:  `<finiteStateMachine class="T"><states><state/></states></finiteStateMachine>`,
			want: "'name'",
		},
		{
			name: "transition without class",
			src: `<finiteStateMachine class="T"><states><state name="A"/></states>
				<transitions><transition fromState="A" toState="A"/></transitions></finiteStateMachine>`,
			want: "'class'",
		},
		{
			name: "transition without toState",
			src: `<finiteStateMachine class="T"><states><state name="A"/></states>
				<transitions><transition class="Loop" fromState="A"/></transitions></finiteStateMachine>`,
			want: "transition Loop is missing the 'toState' attribute",
		},
		{
			name: "unknown toState",
			src: `<finiteStateMachine class="T"><states><state name="A"/></states>
				<transitions><transition class="Loop" fromState="A" toState="B"/></transitions></finiteStateMachine>`,
			want: "unknown toState: B",
		},
		{
			name: "transitions before states",
			src: `<finiteStateMachine class="T">
				<transitions><transition class="Loop" fromState="A" toState="A"/></transitions>
				<states><state name="A"/></states></finiteStateMachine>`,
			want: "unknown fromState: A",
		},
		{
			name: "invalid contingency flag",
			src: `<finiteStateMachine class="T"><states><state name="A"/></states>
				<transitions><transition class="Loop" fromState="A" toState="A" isContingent="sometimes"/></transitions></finiteStateMachine>`,
			want: "isContingent",
		},
		{
			name: "action without state",
			src:  `<finiteStateMachine class="T"><actions><action name="Go"/></actions></finiteStateMachine>`,
			want: "action Go is missing the 'state' attribute",
		},
		{
			name: "action with unknown state",
			src:  `<finiteStateMachine class="T"><actions><action name="Go" state="A"/></actions></finiteStateMachine>`,
			want: "unknown state: A",
		},
		{
			name: "unresolved restriction",
			src: `<finiteStateMachine class="T"><states><state name="A"/></states>
				<transitions><transition class="Loop" fromState="A" toState="A"/></transitions>
				<actions><action name="Go" state="A" restrictToTransitions="Loop, Jump"/></actions></finiteStateMachine>`,
			want: "unknown transition: Jump",
		},
		{
			name: "restriction leaving another state",
			src: `<finiteStateMachine class="T"><states><state name="A"/><state name="B"/><state name="C"/></states>
				<transitions><transition class="AtoB" fromState="A" toState="B"/><transition class="BtoC" fromState="B" toState="C"/></transitions>
				<actions><action name="go" state="A" restrictToTransitions="BtoC"/></actions></finiteStateMachine>`,
			want: "action go restricts to transition BtoC leaving state B",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildGraph(parse(t, tt.src))
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrConfiguration)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestBuildGraph_FallbackIsAlwaysUniform(t *testing.T) {
	r := registry.NewRegistry()
	r.Register(registry.Random, func() domain.ChoiceModel { return &registry.Logit{} })

	src := `<finiteStateMachine class="T"><states><state name="A" type="initialState"/><state name="B"/></states>
		<transitions><transition class="AtoB" fromState="A" toState="B"/></transitions>
		<actions><action name="plain" state="A"/><action name="lost" state="A" defaultChoiceModel="missing"/></actions></finiteStateMachine>`
	g, err := BuildGraph(parse(t, src), WithRegistry(r))
	require.NoError(t, err)

	for _, name := range []string{"plain", "lost"} {
		a, ok := g.Action(name)
		require.True(t, ok)
		assert.IsType(t, registry.UniformRandom{}, a.Model(), name)
		assert.Equal(t, registry.Random, a.ModelName(), name)
	}
}

func TestBuildGraph_ClassResolver(t *testing.T) {
	src := `<finiteStateMachine class="traveler"><states><state name="A" type="initialState"/></states></finiteStateMachine>`

	g, err := BuildGraph(parse(t, src), WithClassResolver(func(name string) (string, error) {
		return "agents." + strings.ToUpper(name[:1]) + name[1:], nil
	}))
	require.NoError(t, err)
	assert.Equal(t, "agents.Traveler", g.Class)

	_, err = BuildGraph(parse(t, src), WithClassResolver(func(name string) (string, error) {
		return "", errors.New("unknown agent class")
	}))
	assert.ErrorIs(t, err, domain.ErrConfiguration)
	assert.Contains(t, err.Error(), "unknown agent class")
}

func TestBuildGraphs(t *testing.T) {
	root, err := document.ParseFile(filepath.Join("testdata", "fleet.xml"))
	require.NoError(t, err)

	graphs, err := BuildGraphs(root)
	require.NoError(t, err)
	require.Len(t, graphs, 2)
	assert.Equal(t, "Depot", graphs["Courier"].InitialState().Name)
	assert.Equal(t, "Home", graphs["Traveler"].InitialState().Name)

	single, err := document.ParseFile(filepath.Join("testdata", "traveler.xml"))
	require.NoError(t, err)
	graphs, err = BuildGraphs(single)
	require.NoError(t, err)
	assert.Contains(t, graphs, "Traveler")

	dup := parse(t, `<finiteStateMachines>
		<finiteStateMachine class="A"/>
		<finiteStateMachine class="A"/>
	</finiteStateMachines>`)
	_, err = BuildGraphs(dup)
	assert.ErrorIs(t, err, domain.ErrConfiguration)

	_, err = BuildGraphs(parse(t, `<behaviour/>`))
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}
