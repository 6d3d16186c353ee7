package main

import (
	"fmt"

	"github.com/lunarhue/synapse/internal"
	"github.com/spf13/cobra"
)

func NewInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a library",
		Long:  `Create the vault folder structure, vector store, config, and git history.`,
		RunE:  makeInitRunner(a),
	}
}

func makeInitRunner(a *app) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		vaultFlag, _ := cmd.Flags().GetString("vault")
		ws := internal.ResolveWorkspace(vaultFlag)

		if ws.Exists() {
			return fmt.Errorf("already initialized: %s", ws.SynapseDir())
		}

		vault := internal.NewVault(ws.Root)
		if err := vault.EnsureStructure(); err != nil {
			return err
		}

		cfg := internal.DefaultConfig()
		if err := internal.SaveConfig(ws.ConfigPath(), cfg); err != nil {
			return err
		}

		store, err := internal.NewSQLiteStore(ws.DBPath(), cfg.Embeddings.Dimension)
		if err != nil {
			return err
		}
		if err := store.Close(); err != nil {
			return err
		}

		if err := internal.InitVaultHistory(ws.GitDir(), ws.Root); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Initialized library at %s\n", ws.Root)
		return nil
	}
}
