package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"strings"

	"github.com/aretw0/metasim"
	"github.com/aretw0/metasim/internal/presentation/graph"
	"github.com/aretw0/metasim/internal/presentation/tui"
	"github.com/aretw0/metasim/pkg/choice"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// WalkOptions contains the configuration for the walk command.
type WalkOptions struct {
	Class string
	Steps int
	Seed  int64
	Input choice.Input
	Out   io.Writer

	// Mermaid appends the graph as a Mermaid flowchart with the walk overlaid.
	Mermaid bool
}

// Walk drives one agent of opts.Class through the library's graph, resolving
// the first action of each state, and returns the visited states.
// It stops early when the agent reaches a state without actions.
func Walk(ctx context.Context, lib *metasim.Library, opts WalkOptions) ([]string, error) {
	agent, err := lib.NewAgent(opts.Class)
	if err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(opts.Seed))
	style := tui.NewStyler(opts.Out)

	printSystemMessage(opts.Out, "Agent of class '%s' starts at '%s'.", opts.Class, agent.State().Name)
	for step := 1; step <= opts.Steps; step++ {
		from := agent.State()
		t, ok, err := agent.Step(ctx, opts.Input, rng)
		if err != nil {
			return agent.Cursor.History(), fmt.Errorf("step %d: %w", step, err)
		}
		if !ok {
			printSystemMessage(opts.Out, "State '%s' has no action. Stopping.", from.Name)
			break
		}

		marker := ""
		if t.Contingent {
			marker = style.Faint(" (contingent)")
		}
		fmt.Fprintf(opts.Out, "%4d  %s --%s/%s--> %s%s\n", step,
			style.State(from.Name), style.Faint(from.Actions()[0].Name), style.Transition(t.Name, t.Contingent), style.State(t.To.Name), marker)
	}

	history := agent.Cursor.History()
	if opts.Mermaid {
		overlay := &graph.GraphOverlay{VisitedStates: history, CurrentState: agent.State().Name}
		fmt.Fprintln(opts.Out)
		fmt.Fprint(opts.Out, graph.GenerateMermaid(agent.Cursor.Graph().Describe(), overlay))
	}
	return history, nil
}

// ChooseOptions contains the configuration for the choose command.
type ChooseOptions struct {
	Input    choice.Input
	Seed     int64
	Draws    int
	JSON     bool
	Markdown bool
	Out      io.Writer
}

// ChoiceReport is the evaluation of one choice model.
type ChoiceReport struct {
	Model                  string               `json:"model"`
	ExpectedMaximumUtility float64              `json:"expected_maximum_utility"`
	Distribution           *choice.Distribution `json:"distribution"`
	Alternatives           *choice.Distribution `json:"alternatives"`
	Draws                  map[string]int       `json:"draws,omitempty"`
}

// Choose evaluates every tree against opts.Input and samples opts.Draws
// leaf alternatives from each.
func Choose(trees []*choice.Tree, opts ChooseOptions) ([]ChoiceReport, error) {
	rng := rand.New(rand.NewSource(opts.Seed))

	reports := make([]ChoiceReport, 0, len(trees))
	for _, tree := range trees {
		ev, err := tree.Evaluate(opts.Input)
		if err != nil {
			return nil, fmt.Errorf("choice model %q: %w", tree.Name(), err)
		}
		r := ChoiceReport{
			Model:                  tree.Name(),
			ExpectedMaximumUtility: ev.ExpectedMaximumUtility(),
			Distribution:           ev.Distribution(),
			Alternatives:           ev.AlternativeProbabilities(),
		}
		if opts.Draws > 0 {
			r.Draws = make(map[string]int)
			for i := 0; i < opts.Draws; i++ {
				r.Draws[ev.SampleAlternative(rng)]++
			}
		}
		reports = append(reports, r)
	}

	if opts.JSON {
		enc := json.NewEncoder(opts.Out)
		enc.SetIndent("", "  ")
		return reports, enc.Encode(reports)
	}
	if opts.Markdown {
		var sb strings.Builder
		for _, r := range reports {
			writeMarkdownReport(&sb, r)
		}
		return reports, tui.WriteMarkdown(opts.Out, sb.String())
	}
	for _, r := range reports {
		writeReport(opts.Out, r)
	}
	return reports, nil
}

func writeReport(w io.Writer, r ChoiceReport) {
	fmt.Fprintf(w, "Choice model: %s\n", r.Model)
	fmt.Fprintf(w, "Expected maximum utility: %.6f\n", r.ExpectedMaximumUtility)
	fmt.Fprintln(w, "Top-level distribution:")
	for k, p := range r.Distribution.All() {
		fmt.Fprintf(w, "  %-20s %.6f\n", k, p)
	}
	fmt.Fprintln(w, "Alternatives:")
	for k, p := range r.Alternatives.All() {
		line := fmt.Sprintf("  %-20s %.6f", k, p)
		if r.Draws != nil {
			line += fmt.Sprintf("  drawn %d", r.Draws[k])
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w, strings.Repeat("-", 40))
}

func writeMarkdownReport(w io.Writer, r ChoiceReport) {
	fmt.Fprintf(w, "# %s\n\n", r.Model)
	fmt.Fprintf(w, "Expected maximum utility: **%.6f**\n\n", r.ExpectedMaximumUtility)
	fmt.Fprintln(w, "| Top-level | Probability |")
	fmt.Fprintln(w, "|---|---:|")
	for k, p := range r.Distribution.All() {
		fmt.Fprintf(w, "| %s | %.6f |\n", k, p)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "| Alternative | Probability | Drawn |")
	fmt.Fprintln(w, "|---|---:|---:|")
	for k, p := range r.Alternatives.All() {
		fmt.Fprintf(w, "| %s | %.6f | %d |\n", k, p, r.Draws[k])
	}
	fmt.Fprintln(w)
}

// WriteMetrics writes the gathered metric families in the Prometheus text format.
func WriteMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
