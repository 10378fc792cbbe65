package main

import (
	"fmt"

	"github.com/aretw0/ooor"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of ooor",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "ooor version %s\n", ooor.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
