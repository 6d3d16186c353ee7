package main

import (
	"fmt"

	"github.com/lunarhue/synapse/internal"
	"github.com/spf13/cobra"
)

func NewIndexCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Rebuild the search index",
		Long:  `Rebuild the approximate nearest-neighbor index from the vector store.`,
		RunE:  makeIndexRunner(a),
	}

	cmd.Flags().Int("trees", 10, "Number of trees (more trees, better recall)")
	return cmd
}

func makeIndexRunner(a *app) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		trees, _ := cmd.Flags().GetInt("trees")

		sess, err := openFromFlags(cmd, a)
		if err != nil {
			return err
		}
		defer sess.Close()

		idx, err := internal.NewAnnoyIndex(sess.workspace.IndexPath(), sess.store.Dimension())
		if err != nil {
			return err
		}

		items, err := sess.store.ListEmbeddings(cmd.Context())
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Nothing to index.")
			return nil
		}

		for _, item := range items {
			if err := idx.Add(cmd.Context(), item.ID, item.Embedding); err != nil {
				return fmt.Errorf("index %s: %w", item.ID, err)
			}
		}

		if err := idx.Build(cmd.Context(), trees); err != nil {
			return err
		}
		if err := idx.Save(cmd.Context()); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d items (%d trees)\n", len(items), trees)
		return nil
	}
}
