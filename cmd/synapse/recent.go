package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func NewRecentCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List recently ingested content",
		RunE:  makeRecentRunner(a),
	}

	cmd.Flags().Duration("window", 24*time.Hour, "How far back to look")
	return cmd
}

func makeRecentRunner(a *app) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		window, _ := cmd.Flags().GetDuration("window")

		sess, err := openFromFlags(cmd, a)
		if err != nil {
			return err
		}
		defer sess.Close()

		recent, err := sess.store.GetRecent(cmd.Context(), window)
		if err != nil {
			return err
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			out := make([]map[string]any, 0, len(recent))
			for _, rec := range recent {
				out = append(out, map[string]any{
					"id":         rec.ID,
					"type":       rec.Type,
					"title":      rec.Title,
					"created_at": rec.CreatedAt,
				})
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		}

		if len(recent) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Nothing ingested in this window.")
			return nil
		}
		for _, rec := range recent {
			fmt.Fprintf(cmd.OutOrStdout(), "%-8s %-10s %s (%s)\n", formatAge(rec.CreatedAt), rec.Type, rec.Title, rec.ID)
		}
		return nil
	}
}
