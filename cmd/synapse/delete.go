package main

import (
	"fmt"

	"github.com/lunarhue/synapse/internal"
	"github.com/spf13/cobra"
)

func NewDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a piece of content",
		Long:  `Remove content from the vector store and its note from the vault.`,
		Args:  cobra.ExactArgs(1),
		RunE:  makeDeleteRunner(a),
	}
}

func makeDeleteRunner(a *app) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		id := args[0]

		sess, err := openFromFlags(cmd, a)
		if err != nil {
			return err
		}
		defer sess.Close()

		history, err := sess.history()
		if err != nil {
			return err
		}

		pipeline := internal.NewPipeline(sess.store, nil, nil, nil, sess.vault(), history, sess.logger)
		deleted, err := pipeline.Remove(cmd.Context(), id)
		if err != nil {
			return err
		}

		if !deleted {
			fmt.Fprintf(cmd.OutOrStdout(), "No content with id %s\n", id)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", id)
		return nil
	}
}
