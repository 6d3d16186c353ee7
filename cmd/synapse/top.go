package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func NewTopCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "top",
		Short: "Show the most connected content",
		Long:  `Rank content by how many strong connections it has across the library.`,
		RunE:  makeTopRunner(a),
	}

	cmd.Flags().IntP("number", "n", 10, "Maximum results")
	return cmd
}

func makeTopRunner(a *app) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		limit, _ := cmd.Flags().GetInt("number")

		sess, err := openFromFlags(cmd, a)
		if err != nil {
			return err
		}
		defer sess.Close()

		ranked, err := sess.graph().MostConnected(cmd.Context(), limit)
		if err != nil {
			return err
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			out := make([]map[string]any, 0, len(ranked))
			for _, r := range ranked {
				out = append(out, map[string]any{
					"id":        r.Record.ID,
					"type":      r.Record.Type,
					"title":     r.Record.Title,
					"neighbors": r.Neighbors,
				})
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		}

		for _, r := range ranked {
			fmt.Fprintf(cmd.OutOrStdout(), "%3d  %-10s %s (%s)\n", r.Neighbors, r.Record.Type, r.Record.Title, r.Record.ID)
		}
		return nil
	}
}
