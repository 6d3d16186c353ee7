package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func NewLogCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show vault history",
		RunE:  makeLogRunner(a),
	}

	cmd.Flags().IntP("number", "n", 20, "Maximum revisions")
	return cmd
}

func makeLogRunner(a *app) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		limit, _ := cmd.Flags().GetInt("number")

		sess, err := openFromFlags(cmd, a)
		if err != nil {
			return err
		}
		defer sess.Close()

		history, err := sess.history()
		if err != nil {
			return err
		}

		revisions, err := history.Log(cmd.Context(), limit)
		if err != nil {
			return err
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(revisions)
		}

		for _, rev := range revisions {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s\n",
				rev.Hash[:7], rev.Timestamp.Format("2006-01-02 15:04"), rev.Message)
		}
		return nil
	}
}
