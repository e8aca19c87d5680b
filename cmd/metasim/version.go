package main

import (
	"fmt"

	"github.com/aretw0/metasim"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of metasim",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "metasim version %s\n", metasim.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
