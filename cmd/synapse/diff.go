package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewDiffCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "diff <ref> <locator>",
		Short: "Diff a note against a past revision",
		Long:  `Show how a note changed between a vault revision and the current version.`,
		Args:  cobra.ExactArgs(2),
		RunE:  makeDiffRunner(a),
	}
}

func makeDiffRunner(a *app) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ref, locator := args[0], args[1]

		sess, err := openFromFlags(cmd, a)
		if err != nil {
			return err
		}
		defer sess.Close()

		history, err := sess.history()
		if err != nil {
			return err
		}

		diff, err := history.DiffNote(cmd.Context(), ref, locator)
		if err != nil {
			return err
		}

		if diff == "" {
			fmt.Fprintln(cmd.OutOrStdout(), "No changes.")
			return nil
		}
		fmt.Fprint(cmd.OutOrStdout(), diff)
		return nil
	}
}
