package main

import (
	"encoding/json"
	"fmt"

	"github.com/lunarhue/synapse/internal"
	"github.com/spf13/cobra"
)

func NewSearchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the library",
		Long: `Semantic free-text search over everything ingested. Uses the approximate
index when one is built; --exact forces a full scan with exact scores.`,
		Args: cobra.ExactArgs(1),
		RunE: makeSearchRunner(a),
	}

	cmd.Flags().IntP("number", "n", 10, "Maximum results")
	cmd.Flags().Bool("exact", false, "Exact full-scan search")
	return cmd
}

func makeSearchRunner(a *app) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		query := args[0]
		limit, _ := cmd.Flags().GetInt("number")
		exact, _ := cmd.Flags().GetBool("exact")

		sess, err := openFromFlags(cmd, a)
		if err != nil {
			return err
		}
		defer sess.Close()

		embedding, err := sess.embedder().Embed(cmd.Context(), query)
		if err != nil {
			return fmt.Errorf("embed query: %w", err)
		}

		if !exact {
			if done, err := runIndexSearch(cmd, sess, embedding, limit); done {
				return err
			}
		}

		results, err := sess.store.FindSimilar(cmd.Context(), embedding, limit, internal.SimilarFilter{})
		if err != nil {
			return err
		}

		return printScored(cmd, results)
	}
}

// runIndexSearch tries the approximate index; (false, nil) means fall back
// to the exact scan.
func runIndexSearch(cmd *cobra.Command, sess *session, embedding []float32, limit int) (bool, error) {
	idx, err := sess.index()
	if err != nil {
		return false, nil
	}

	hits, err := idx.Search(cmd.Context(), embedding, limit)
	if err != nil || len(hits) == 0 {
		return false, nil
	}

	results := make([]internal.Scored, 0, len(hits))
	for _, hit := range hits {
		rec, err := sess.store.Get(cmd.Context(), hit.ID)
		if err != nil {
			return true, err
		}
		if rec == nil {
			continue
		}
		results = append(results, internal.Scored{Record: *rec, Score: float64(hit.Score)})
	}

	return true, printScored(cmd, results)
}

func printScored(cmd *cobra.Command, results []internal.Scored) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		out := make([]map[string]any, 0, len(results))
		for _, r := range results {
			out = append(out, map[string]any{
				"id":    r.Record.ID,
				"type":  r.Record.Type,
				"title": r.Record.Title,
				"score": r.Score,
			})
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	for _, r := range results {
		fmt.Fprintf(cmd.OutOrStdout(), "%.4f  %-10s %s (%s)\n", r.Score, r.Record.Type, r.Record.Title, r.Record.ID)
	}
	return nil
}
