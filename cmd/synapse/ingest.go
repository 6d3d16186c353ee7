package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lunarhue/synapse/internal"
	"github.com/spf13/cobra"
)

func NewIngestCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest <type> <title>",
		Short: "Ingest content into the library",
		Long: `Summarize a piece of content, embed it, link it to similar past content,
and write it into the vault. The body is read from --file or stdin.`,
		Args: cobra.ExactArgs(2),
		RunE: makeIngestRunner(a),
	}

	cmd.Flags().StringP("file", "f", "", "Read the body from a file instead of stdin")
	cmd.Flags().String("source", "", "Source URL or reference")
	cmd.Flags().String("provider", "", "LLM provider for summarization")
	return cmd
}

func makeIngestRunner(a *app) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		contentType, err := internal.ParseContentType(args[0])
		if err != nil {
			return err
		}
		title := args[1]

		body, err := readBody(cmd)
		if err != nil {
			return err
		}

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

		var narrator internal.Narrator
		if summarizer != nil {
			narrator = summarizer
		}

		history, err := sess.history()
		if err != nil {
			return err
		}

		pipeline := internal.NewPipeline(
			sess.store,
			sess.embedder(),
			summarizer,
			sess.finder(narrator),
			sess.vault(),
			history,
			sess.logger,
		)

		source, _ := cmd.Flags().GetString("source")
		result, err := pipeline.Ingest(cmd.Context(), internal.IngestRequest{
			Type:   contentType,
			Title:  title,
			Body:   body,
			Source: source,
		})
		if err != nil {
			return err
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Ingested %s (%s)\n", result.Title, result.ID)
		fmt.Fprintf(cmd.OutOrStdout(), "Note: %s\n", result.Locator)
		for _, line := range internal.FormatForDisplay(result.Connections) {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", line)
		}
		return nil
	}
}

func readBody(cmd *cobra.Command) (string, error) {
	file, _ := cmd.Flags().GetString("file")
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read body file: %w", err)
		}
		return string(data), nil
	}

	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", fmt.Errorf("empty body: pass --file or pipe content on stdin")
	}
	return string(data), nil
}
