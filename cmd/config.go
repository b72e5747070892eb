package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/rogersnm/todos/internal/config"
	"github.com/rogersnm/todos/internal/markdown"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, markdown.RenderField("Data", dataDir))
		fmt.Fprintln(out, markdown.RenderField("Backend", cfg.BackendName()))
		fmt.Fprintln(out, markdown.RenderField("Key", cfg.DocumentKey()))
		switch cfg.BackendName() {
		case config.BackendSQLite:
			fmt.Fprintln(out, markdown.RenderField("Database", cfg.SQLitePath(dataDir)))
		case config.BackendHTTP:
			fmt.Fprintln(out, markdown.RenderField("URL", cfg.HTTP.URL))
			if k := cfg.HTTP.APIKey; k != "" {
				fmt.Fprintln(out, markdown.RenderField("API key", k[:min(8, len(k))]+"..."))
			}
		}
		if cfg.DefaultFilter != "" {
			fmt.Fprintln(out, markdown.RenderField("Default filter", cfg.DefaultFilter))
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value (backend, key, default_filter, http.url, http.api_key, sqlite.path)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Set(args[0], args[1]); err != nil {
			return err
		}
		if err := config.Save(dataDir, cfg); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", args[0], args[1])
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), filepath.Join(dataDir, config.FileName))
		return nil
	},
}

var configDumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print the raw config as YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return yaml.NewEncoder(cmd.OutOrStdout()).Encode(cfg)
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configDumpCmd)
	rootCmd.AddCommand(configCmd)
}
