package main

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/ooor/pkg/config"
	"github.com/aretw0/ooor/pkg/connstr"
	"github.com/spf13/cobra"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [descriptor|file.yml]",
	Short: "Print the canonical connection config",
	Long: `Resolves a descriptor, a YAML config file, or (without arguments) the
OOOR_* environment variables into the canonical config, printed as JSON.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resolver := newResolver(cmd, newLogger(cmd))

		src := config.FromMap(nil)
		if len(args) == 1 {
			src = config.FromString(args[0])
		}
		cfg := resolver.Resolve(src)

		if show, _ := cmd.Flags().GetBool("show-password"); !show {
			cfg = cfg.Masked()
		}
		return printJSON(cmd, cfg)
	},
}

var parseCmd = &cobra.Command{
	Use:   "parse <descriptor>",
	Short: "Show how a descriptor is parsed, without defaults or environment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r := connstr.Parse(args[0])
		return printJSON(cmd, map[string]any{
			"url":      r.URL(),
			"host":     r.Host,
			"port":     r.Port,
			"ssl":      r.SSL,
			"username": r.Username,
			"database": r.Database,
			"password": r.Password != "",
		})
	},
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func init() {
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(parseCmd)
	resolveCmd.Flags().Bool("show-password", false, "Print the password in clear text")
}
