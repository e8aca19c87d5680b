package main

import (
	"github.com/aretw0/metasim"
	"github.com/aretw0/metasim/internal/cli"
	"github.com/aretw0/metasim/pkg/choice"
	"github.com/spf13/cobra"
)

var chooseCmd = &cobra.Command{
	Use:   "choose <choice-doc>",
	Short: "Evaluate choice models against an input file",
	Long: `Decodes every choice model in the document, evaluates it against the
attribute bundles of --input, and prints the top-level distribution, the
expected maximum utility, the leaf probabilities and optional sampled draws.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		inputPath, _ := cmd.Flags().GetString("input")
		draws, _ := cmd.Flags().GetInt("draws")
		asJSON, _ := cmd.Flags().GetBool("json")
		asMarkdown, _ := cmd.Flags().GetBool("markdown")

		trees, err := metasim.LoadChoiceModels(args[0])
		if err != nil {
			return err
		}
		input := choice.Input{}
		if inputPath != "" {
			if input, err = metasim.LoadInput(inputPath); err != nil {
				return err
			}
		}

		logger.Debug("evaluating choice models", "count", len(trees), "seed", cfg.Seed, "draws", draws)
		_, err = cli.Choose(trees, cli.ChooseOptions{
			Input:    input,
			Seed:     cfg.Seed,
			Draws:    draws,
			JSON:     asJSON,
			Markdown: asMarkdown,
			Out:      cmd.OutOrStdout(),
		})
		return err
	},
}

func init() {
	chooseCmd.Flags().String("input", "", "YAML or JSON file mapping attribute bundles to attributes")
	chooseCmd.Flags().Int64("seed", 1, "Random seed for draws (overrides the config file)")
	chooseCmd.Flags().Int("draws", 0, "Number of leaf alternatives to sample")
	chooseCmd.Flags().Bool("json", false, "Print the report as JSON")
	chooseCmd.Flags().Bool("markdown", false, "Print the report as Markdown (rendered on terminals)")
	rootCmd.AddCommand(chooseCmd)
}
