package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func NewClustersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clusters",
		Short: "Show thematic clusters",
		Long:  `Group the library into clusters of mutually similar content.`,
		RunE:  makeClustersRunner(a),
	}

	cmd.Flags().Float64P("threshold", "t", 0.6, "Similarity threshold for cluster edges")
	return cmd
}

func makeClustersRunner(a *app) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		threshold, _ := cmd.Flags().GetFloat64("threshold")

		sess, err := openFromFlags(cmd, a)
		if err != nil {
			return err
		}
		defer sess.Close()

		clusters, err := sess.graph().Clusters(cmd.Context(), threshold)
		if err != nil {
			return err
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			out := make([][]map[string]any, 0, len(clusters))
			for _, cluster := range clusters {
				members := make([]map[string]any, 0, len(cluster))
				for _, rec := range cluster {
					members = append(members, map[string]any{
						"id":    rec.ID,
						"type":  rec.Type,
						"title": rec.Title,
					})
				}
				out = append(out, members)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		}

		if len(clusters) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No clusters found.")
			return nil
		}

		for i, cluster := range clusters {
			fmt.Fprintf(cmd.OutOrStdout(), "Cluster %d (%d items):\n", i+1, len(cluster))
			for _, rec := range cluster {
				fmt.Fprintf(cmd.OutOrStdout(), "  %-10s %s (%s)\n", rec.Type, rec.Title, rec.ID)
			}
		}
		return nil
	}
}
