package main

import (
	"errors"
	"fmt"

	"github.com/aretw0/metasim"
	"github.com/aretw0/metasim/internal/cli"
	"github.com/aretw0/metasim/pkg/choice"
	"github.com/aretw0/metasim/pkg/domain"
	"github.com/aretw0/metasim/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var walkCmd = &cobra.Command{
	Use:   "walk [graph-doc...]",
	Short: "Walk one agent through its behavior graph",
	Long: `Loads the choice models and graph documents, places an agent of --class at
its initial state, and resolves the first action of each state for --steps steps.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		class, _ := cmd.Flags().GetString("class")
		steps, _ := cmd.Flags().GetInt("steps")
		inputPath, _ := cmd.Flags().GetString("input")
		models, _ := cmd.Flags().GetStringSlice("models")
		mermaid, _ := cmd.Flags().GetBool("mermaid")
		if cmd.Flags().Changed("metrics") {
			cfg.Metrics.Enabled, _ = cmd.Flags().GetBool("metrics")
		}
		if len(models) == 0 {
			models = cfg.ChoiceModels
		}
		graphs := args
		if len(graphs) == 0 {
			graphs = cfg.Graphs
		}
		if len(graphs) == 0 {
			return errors.New("no graph documents given")
		}

		opts := []metasim.Option{
			metasim.WithLogger(logger),
			metasim.WithHooks(cli.DebugHooks(logger)),
		}
		reg := prometheus.NewRegistry()
		if cfg.Metrics.Enabled {
			m, err := observability.NewMetrics(reg)
			if err != nil {
				return err
			}
			opts = append(opts, metasim.WithHooks(m.Hooks()))
		}

		lib, err := metasim.Load(models, graphs, opts...)
		if err != nil {
			return err
		}
		if class == "" {
			classes := lib.Classes()
			if len(classes) != 1 {
				return fmt.Errorf("documents govern %d classes %v; pick one with --class", len(classes), classes)
			}
			class = classes[0]
		}

		input := choice.Input{}
		if inputPath != "" {
			if input, err = metasim.LoadInput(inputPath); err != nil {
				return err
			}
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		out := cmd.OutOrStdout()
		_, err = cli.Walk(ctx, lib, cli.WalkOptions{
			Class:   class,
			Steps:   steps,
			Seed:    cfg.Seed,
			Input:   input,
			Out:     out,
			Mermaid: mermaid,
		})
		if err != nil {
			if sig := ctx.Signal(); sig != nil {
				logger.Info("walk interrupted", "signal", sig.String())
				return nil
			}
			if errors.Is(err, domain.ErrNoEligibleTransition) {
				return fmt.Errorf("agent is stuck: %w", err)
			}
			return err
		}

		if cfg.Metrics.Enabled {
			fmt.Fprintln(out)
			return cli.WriteMetrics(out, reg)
		}
		return nil
	},
}

func init() {
	walkCmd.Flags().String("class", "", "Agent class to walk (required when several are loaded)")
	walkCmd.Flags().StringSlice("models", nil, "Choice-model documents (default: config choice_models)")
	walkCmd.Flags().Int("steps", 10, "Maximum number of decisions")
	walkCmd.Flags().Int64("seed", 1, "Random seed (overrides the config file)")
	walkCmd.Flags().String("input", "", "YAML or JSON file mapping attribute bundles to attributes")
	walkCmd.Flags().Bool("metrics", false, "Print decision metrics after the walk")
	walkCmd.Flags().Bool("mermaid", false, "Print the graph as Mermaid with the visited states highlighted")
	rootCmd.AddCommand(walkCmd)
}
