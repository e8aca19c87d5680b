package metasim_test

import (
	"context"
	"math/rand"
	"path/filepath"
	"sync"
	"testing"

	"github.com/aretw0/metasim"
	"github.com/aretw0/metasim/internal/testutils"
	"github.com/aretw0/metasim/pkg/domain"
	"github.com/aretw0/metasim/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	modelsPath = filepath.Join("examples", "commute", "models.xml")
	graphPath  = filepath.Join("examples", "commute", "traveler.xml")
	inputPath  = filepath.Join("examples", "commute", "input.yaml")
)

func TestLoad(t *testing.T) {
	lib, err := metasim.Load([]string{modelsPath}, []string{graphPath})
	require.NoError(t, err)

	assert.Equal(t, []string{"evening", "morning"}, lib.Catalog.Names())
	assert.Equal(t, []string{"evening", "morning", registry.Random}, lib.Registry.Names())
	assert.Equal(t, []string{"Traveler"}, lib.Classes())

	g, ok := lib.Graph("Traveler")
	require.True(t, ok)
	assert.Empty(t, g.Warnings())

	start, _ := g.Action("StartDay")
	assert.Equal(t, "morning", start.ModelName())
	rec, _ := g.Action("Recover")
	assert.Equal(t, registry.Random, rec.ModelName())

	_, ok = lib.Graph("Courier")
	assert.False(t, ok)
}

func TestLoad_GraphsBeforeModels(t *testing.T) {
	lib := metasim.New()
	require.NoError(t, lib.LoadGraphs(graphPath))

	g, _ := lib.Graph("Traveler")
	start, _ := g.Action("StartDay")
	assert.Equal(t, registry.Random, start.ModelName())

	kinds := make(map[domain.WarningKind]int)
	for _, w := range g.Warnings() {
		kinds[w.Kind]++
	}
	assert.Equal(t, 2, kinds[domain.WarnUnresolvedModel])

	assert.ErrorIs(t, lib.LoadGraphs(graphPath), domain.ErrConfiguration)
}

func TestLoad_Errors(t *testing.T) {
	_, err := metasim.Load([]string{"missing.xml"}, nil)
	assert.Error(t, err)

	_, err = metasim.Load([]string{modelsPath, modelsPath}, nil)
	assert.Error(t, err)

	_, err = metasim.Load(nil, []string{modelsPath})
	assert.ErrorIs(t, err, domain.ErrConfiguration)

	reserved := testutils.WriteFile(t, "random.xml", `<multinomialLogit name="random">
  <alternative name="AtoB"><utility><param type="intercept" value="0"/></utility></alternative>
</multinomialLogit>`)
	_, err = metasim.Load([]string{reserved}, nil)
	assert.ErrorIs(t, err, registry.ErrReservedName)
}

func TestLoadInput(t *testing.T) {
	input, err := metasim.LoadInput(inputPath)
	require.NoError(t, err)
	assert.Equal(t, 20.0, input["Commute"]["time"])
	assert.Contains(t, input, "Accident")

	_, err = metasim.LoadInput("missing.yaml")
	assert.Error(t, err)
}

func TestAgent_Walk(t *testing.T) {
	var events []*domain.DecisionEvent
	lib, err := metasim.Load([]string{modelsPath}, []string{graphPath},
		metasim.WithHooks(domain.Hooks{OnDecision: func(_ context.Context, e *domain.DecisionEvent) {
			events = append(events, e)
		}}),
	)
	require.NoError(t, err)
	input, err := metasim.LoadInput(inputPath)
	require.NoError(t, err)

	walk := func(seed int64) []string {
		agent, err := lib.NewAgent("Traveler")
		require.NoError(t, err)
		rng := rand.New(rand.NewSource(seed))
		for i := 0; i < 20; i++ {
			_, ok, err := agent.Step(context.Background(), input, rng)
			require.NoError(t, err)
			require.True(t, ok)
		}
		return agent.Cursor.History()
	}

	first := walk(11)
	assert.Len(t, first, 21)
	assert.Equal(t, "Home", first[0])
	assert.Equal(t, first, walk(11))
	assert.Len(t, events, 40)

	_, err = lib.NewAgent("Courier")
	assert.Error(t, err)
}

func TestAgents_ShareGraph(t *testing.T) {
	lib, err := metasim.Load([]string{modelsPath}, []string{graphPath})
	require.NoError(t, err)
	input, err := metasim.LoadInput(inputPath)
	require.NoError(t, err)

	const agents = 16
	histories := make([][]string, agents)
	var wg sync.WaitGroup
	for i := 0; i < agents; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			agent, err := lib.NewAgent("Traveler")
			if !assert.NoError(t, err) {
				return
			}
			rng := rand.New(rand.NewSource(int64(i % 4)))
			for s := 0; s < 30; s++ {
				if _, _, err := agent.Step(context.Background(), input, rng); !assert.NoError(t, err) {
					return
				}
			}
			histories[i] = agent.Cursor.History()
		}(i)
	}
	wg.Wait()

	// Agents seeded alike walk alike, whatever the interleaving.
	for i := 4; i < agents; i++ {
		assert.Equal(t, histories[i%4], histories[i])
	}
}
