package main

import (
	"fmt"
	"time"

	"github.com/lunarhue/synapse/internal"
	"github.com/spf13/cobra"
)

func NewDigestCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Generate the daily digest",
		Long:  `Summarize everything ingested in the last day into a digest note.`,
		RunE:  makeDigestRunner(a),
	}

	cmd.Flags().String("provider", "", "LLM provider for the digest")
	return cmd
}

func makeDigestRunner(a *app) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		sess, err := openFromFlags(cmd, a)
		if err != nil {
			return err
		}
		defer sess.Close()

		providerName, _ := cmd.Flags().GetString("provider")
		summarizer, err := sess.summarizer(cmd.Context(), providerName)
		if err != nil {
			return err
		}

		history, err := sess.history()
		if err != nil {
			return err
		}

		svc := internal.NewDigestService(sess.store, summarizer, sess.vault(), history, sess.logger)
		locator, err := svc.Generate(cmd.Context(), time.Now())
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Digest written to %s\n", locator)
		return nil
	}
}
