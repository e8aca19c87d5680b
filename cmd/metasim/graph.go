package main

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/metasim"
	"github.com/aretw0/metasim/internal/presentation/graph"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <graph-doc>",
	Short: "Export a behavior graph",
	Long:  `Builds the graph document and outputs a Mermaid diagram (graph TD), or its description as JSON or YAML.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		class, _ := cmd.Flags().GetString("class")
		format, _ := cmd.Flags().GetString("format")

		lib := metasim.New(metasim.WithLogger(logger))
		if err := lib.LoadGraphs(args[0]); err != nil {
			return err
		}
		if class == "" {
			classes := lib.Classes()
			if len(classes) != 1 {
				return fmt.Errorf("document governs %d classes %v; pick one with --class", len(classes), classes)
			}
			class = classes[0]
		}
		g, ok := lib.Graph(class)
		if !ok {
			return fmt.Errorf("no behavior graph for class %q", class)
		}

		desc := g.Describe()
		out := cmd.OutOrStdout()
		switch format {
		case "mermaid":
			fmt.Fprint(out, graph.GenerateMermaid(desc, nil))
		case "json":
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(desc)
		case "yaml":
			enc := yaml.NewEncoder(out)
			defer enc.Close()
			return enc.Encode(desc)
		default:
			return fmt.Errorf("unknown format %q (want mermaid, json or yaml)", format)
		}
		return nil
	},
}

func init() {
	graphCmd.Flags().String("class", "", "Agent class to export (required when the document governs several)")
	graphCmd.Flags().String("format", "mermaid", "Output format: mermaid, json or yaml")
	rootCmd.AddCommand(graphCmd)
}
