/*
Package metasim models agent behavior as finite state machines whose
transitions are picked by discrete-choice models.

# Concept

Each agent class is governed by a behavior graph: states, the transitions
between them, and actions bound to states. When an agent resolves an action,
the action collects its eligible transitions and asks a choice model to pick
one. Choice models are nested-logit trees (each top-level alternative named
after a transition) or the uniform random fallback.

Graphs are built once from XML or YAML documents and then shared read-only by
any number of agents. Each agent owns a cursor into its class's graph.

# Usage

	lib, err := metasim.Load(
		[]string{"examples/commute/models.xml"},
		[]string{"examples/commute/traveler.xml"},
	)
	if err != nil {
		log.Fatal(err)
	}

	agent, err := lib.NewAgent("Traveler")
	if err != nil {
		log.Fatal(err)
	}

	input, _ := metasim.LoadInput("examples/commute/input.yaml")
	rng := rand.New(rand.NewSource(7))
	t, err := agent.Decide(context.Background(), "StartDay", input, rng)

# Choice models

The pkg/choice package evaluates nested-logit trees on its own and can be used
without any behavior graph:

	tree, _ := choice.Decode(root)
	ev, err := tree.Evaluate(input)
	fmt.Println(ev.Distribution(), ev.ExpectedMaximumUtility())
*/
package metasim
