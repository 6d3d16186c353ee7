package main

import (
	"encoding/json"
	"fmt"

	"github.com/lunarhue/synapse/internal"
	"github.com/spf13/cobra"
)

func NewConnectionsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "connections <id>",
		Short: "Show connections for a piece of content",
		Long:  `Find past content semantically similar to the given content id.`,
		Args:  cobra.ExactArgs(1),
		RunE:  makeConnectionsRunner(a),
	}

	cmd.Flags().Bool("narrate", false, "Ask the LLM to describe each connection")
	cmd.Flags().String("provider", "", "LLM provider for narration")
	return cmd
}

func makeConnectionsRunner(a *app) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		id := args[0]

		sess, err := openFromFlags(cmd, a)
		if err != nil {
			return err
		}
		defer sess.Close()

		rec, err := sess.store.Get(cmd.Context(), id)
		if err != nil {
			return err
		}
		if rec == nil {
			return fmt.Errorf("no content with id %s", id)
		}

		narrate, _ := cmd.Flags().GetBool("narrate")

		var connections []internal.Connection
		if narrate {
			providerName, _ := cmd.Flags().GetString("provider")
			summarizer, err := sess.summarizer(cmd.Context(), providerName)
			if err != nil {
				return err
			}
			if summarizer == nil {
				return fmt.Errorf("no provider configured (run 'synapse provider add')")
			}

			finder := sess.finder(summarizer)
			connections, err = finder.FindWithDescriptions(cmd.Context(), rec.ID, rec.Summary, rec.Embedding)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "narration failed: %v\n", err)
			}
		} else {
			connections, err = sess.finder(nil).Find(cmd.Context(), rec.ID, rec.Embedding)
			if err != nil {
				return err
			}
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(connections)
		}

		if len(connections) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No connections found.")
			return nil
		}
		for _, line := range internal.FormatForDisplay(connections) {
			fmt.Fprintln(cmd.OutOrStdout(), line)
		}
		return nil
	}
}
