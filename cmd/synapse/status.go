package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func NewStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show library status",
		RunE:  makeStatusRunner(a),
	}
}

func makeStatusRunner(a *app) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		sess, err := openFromFlags(cmd, a)
		if err != nil {
			return err
		}
		defer sess.Close()

		count, err := sess.store.Count(cmd.Context())
		if err != nil {
			return err
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{
				"root":      sess.workspace.Root,
				"count":     count,
				"dimension": sess.store.Dimension(),
				"provider":  sess.config.DefaultProvider,
			})
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Library:   %s\n", sess.workspace.Root)
		fmt.Fprintf(cmd.OutOrStdout(), "Items:     %d\n", count)
		fmt.Fprintf(cmd.OutOrStdout(), "Dimension: %d\n", sess.store.Dimension())
		if sess.config.DefaultProvider != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "Provider:  %s\n", sess.config.DefaultProvider)
		}
		return nil
	}
}
