package main

import (
	"github.com/spf13/cobra"
)

func NewRootCmd(version string, a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "synapse",
		Short:         "Semantic connection engine for personal knowledge",
		Long:          `Ingest content, embed it, and surface the connections between everything you read and hear.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	addPersistentFlags(rootCmd)

	if a != nil {
		addSubcommands(rootCmd, a)
	}

	return rootCmd
}

func addPersistentFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("vault", "", "Library root (default: $SYNAPSE_VAULT or nearest .synapse)")
	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	cmd.PersistentFlags().Bool("debug", false, "Verbose logging")
}

func addSubcommands(root *cobra.Command, a *app) {
	root.AddCommand(
		NewInitCmd(a),
		NewIngestCmd(a),
		NewConnectionsCmd(a),
		NewSearchCmd(a),
		NewClustersCmd(a),
		NewTopCmd(a),
		NewRecentCmd(a),
		NewDigestCmd(a),
		NewShowCmd(a),
		NewDeleteCmd(a),
		NewStatusCmd(a),
		NewIndexCmd(a),
		NewWatchCmd(a),
		NewLogCmd(a),
		NewDiffCmd(a),
		NewProviderCmd(a),
	)
}

// openFromFlags opens the library addressed by the persistent flags.
func openFromFlags(cmd *cobra.Command, a *app) (*session, error) {
	vaultFlag, _ := cmd.Flags().GetString("vault")
	debug, _ := cmd.Flags().GetBool("debug")
	return a.open(vaultFlag, debug)
}
