package main

import (
	"fmt"
	"sort"

	"github.com/lunarhue/synapse/internal"
	"github.com/spf13/cobra"
)

func NewProviderCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "provider",
		Short: "Manage LLM providers",
	}

	cmd.AddCommand(
		newProviderAddCmd(a),
		newProviderListCmd(a),
		newProviderRemoveCmd(a),
		newProviderDefaultCmd(a),
	)
	return cmd
}

func newProviderAddCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add or update a provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			apiKey, _ := cmd.Flags().GetString("api-key")
			baseURL, _ := cmd.Flags().GetString("base-url")
			model, _ := cmd.Flags().GetString("model")

			return updateConfig(cmd, a, func(cfg *internal.Config) error {
				cfg.Providers[name] = internal.ProviderConfig{
					APIKey:  apiKey,
					BaseURL: baseURL,
					Model:   model,
				}
				if cfg.DefaultProvider == "" {
					cfg.DefaultProvider = name
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Provider %s configured\n", name)
				return nil
			})
		},
	}

	cmd.Flags().String("api-key", "", "API key")
	cmd.Flags().String("base-url", "", "Custom base URL")
	cmd.Flags().String("model", "", "Model name")
	return cmd
}

func newProviderListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured providers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := openFromFlags(cmd, a)
			if err != nil {
				return err
			}
			defer sess.Close()

			names := make([]string, 0, len(sess.config.Providers))
			for name := range sess.config.Providers {
				names = append(names, name)
			}
			sort.Strings(names)

			for _, name := range names {
				marker := " "
				if name == sess.config.DefaultProvider {
					marker = "*"
				}
				pc := sess.config.Providers[name]
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n", marker, name, pc.Model)
			}
			return nil
		},
	}
}

func newProviderRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			return updateConfig(cmd, a, func(cfg *internal.Config) error {
				if _, ok := cfg.Providers[name]; !ok {
					return fmt.Errorf("unknown provider: %s", name)
				}
				delete(cfg.Providers, name)
				if cfg.DefaultProvider == name {
					cfg.DefaultProvider = ""
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Provider %s removed\n", name)
				return nil
			})
		},
	}
}

func newProviderDefaultCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "default <name>",
		Short: "Set the default provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			return updateConfig(cmd, a, func(cfg *internal.Config) error {
				if _, ok := cfg.Providers[name]; !ok {
					return fmt.Errorf("unknown provider: %s", name)
				}
				cfg.DefaultProvider = name
				fmt.Fprintf(cmd.OutOrStdout(), "Default provider set to %s\n", name)
				return nil
			})
		},
	}
}

func updateConfig(cmd *cobra.Command, a *app, mutate func(*internal.Config) error) error {
	sess, err := openFromFlags(cmd, a)
	if err != nil {
		return err
	}
	defer sess.Close()

	if err := mutate(sess.config); err != nil {
		return err
	}
	return internal.SaveConfig(sess.workspace.ConfigPath(), sess.config)
}
