package main

import (
	"errors"
	"fmt"

	"github.com/aretw0/metasim"
	"github.com/aretw0/metasim/internal/validator"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [graph-doc...]",
	Short: "Check behavior graphs for consistency",
	Long: `Builds every graph document (failing on configuration errors), then crawls
each graph from its initial state and reports unreachable states, states with
no action to leave them, and actions with nothing to choose from.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		models, _ := cmd.Flags().GetStringSlice("models")
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

		lib, err := metasim.Load(models, graphs, metasim.WithLogger(logger))
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}

		var errs []error
		for _, class := range lib.Classes() {
			g, _ := lib.Graph(class)
			for _, w := range g.Warnings() {
				fmt.Fprintf(cmd.OutOrStdout(), "warning: %s\n", w)
			}
			if err := validator.ValidateGraph(g); err != nil {
				errs = append(errs, err)
			}
		}
		if len(errs) > 0 {
			return fmt.Errorf("validation failed: %w", errors.Join(errs...))
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%d graph(s) valid! ✅\n", len(lib.Classes()))
		return nil
	},
}

func init() {
	validateCmd.Flags().StringSlice("models", nil, "Choice-model documents to bind (default: config choice_models)")
	rootCmd.AddCommand(validateCmd)
}
