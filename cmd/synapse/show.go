package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func NewShowCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a piece of content",
		Args:  cobra.ExactArgs(1),
		RunE:  makeShowRunner(a),
	}

	cmd.Flags().Bool("note", false, "Print the full markdown note")
	return cmd
}

func makeShowRunner(a *app) func(*cobra.Command, []string) error {
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

		showNote, _ := cmd.Flags().GetBool("note")
		if showNote {
			body, err := sess.vault().Read(rec.Locator)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), body)
			return nil
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{
				"id":         rec.ID,
				"type":       rec.Type,
				"title":      rec.Title,
				"locator":    rec.Locator,
				"summary":    rec.Summary,
				"created_at": rec.CreatedAt,
			})
		}

		fmt.Fprintf(cmd.OutOrStdout(), "ID:      %s\n", rec.ID)
		fmt.Fprintf(cmd.OutOrStdout(), "Type:    %s\n", rec.Type)
		fmt.Fprintf(cmd.OutOrStdout(), "Title:   %s\n", rec.Title)
		fmt.Fprintf(cmd.OutOrStdout(), "Note:    %s\n", rec.Locator)
		fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", rec.CreatedAt.Format("2006-01-02 15:04"))
		if rec.Summary != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n", rec.Summary)
		}
		return nil
	}
}
