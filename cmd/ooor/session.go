package main

import (
	"errors"
	"fmt"

	"github.com/aretw0/ooor/pkg/domain"
	"github.com/aretw0/ooor/pkg/ports"
	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Inspect persisted web sessions",
	Long:  `List, inspect, and remove the web sessions stored in the session cache (file or Redis).`,
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List stored session keys",
	RunE: func(cmd *cobra.Command, args []string) error {
		cache, _, err := newCache(cmd, newLogger(cmd))
		if err != nil {
			return err
		}
		lister, ok := cache.(ports.Lister)
		if !ok {
			return errors.New("this cache cannot list its keys")
		}

		keys, err := lister.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("listing sessions: %w", err)
		}
		if len(keys) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No sessions found.")
			return nil
		}
		for _, k := range keys {
			fmt.Fprintln(cmd.OutOrStdout(), "- "+k)
		}
		return nil
	},
}

var sessionGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print the web session stored under a key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cache, _, err := newCache(cmd, newLogger(cmd))
		if err != nil {
			return err
		}
		ws, err := cache.Read(cmd.Context(), args[0])
		if errors.Is(err, domain.ErrSessionNotFound) {
			return fmt.Errorf("no session stored under %q", args[0])
		}
		if err != nil {
			return err
		}
		return printJSON(cmd, ws)
	},
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm <key>...",
	Short: "Remove one or more web sessions",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cache, _, err := newCache(cmd, newLogger(cmd))
		if err != nil {
			return err
		}
		var errs []error
		for _, key := range args {
			if err := cache.Delete(cmd.Context(), key); err != nil {
				errs = append(errs, fmt.Errorf("removing %q: %w", key, err))
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed session '%s'\n", key)
		}
		return errors.Join(errs...)
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionLsCmd)
	sessionCmd.AddCommand(sessionGetCmd)
	sessionCmd.AddCommand(sessionRmCmd)
}
