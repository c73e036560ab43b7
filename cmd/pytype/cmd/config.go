package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kbridge/pytype/internal/config"
)

var configPath string

var configCmd = &cobra.Command{
	Use: "config",
	Short: "Inspect or edit the project configuration",
	Long: `Read or patch a single key of the pytypeconfig.json document without a
full re-marshal of the file (include/exclude globs, venvPath, per-rule
severities, executionEnvironments[], ...).`,
}

var configGetCmd = &cobra.Command{
	Use: "get <key>",
	Short: "Print the value of a single config key",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		value, ok := cfg.Get(args[0])
		if !ok {
			return fmt.Errorf("key %q not found", args[0])
		}
		fmt.Println(value)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use: "set <key> <value>",
	Short: "Patch a single config key and save",
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := resolvedConfigPath()
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := cfg.Set(args[0], args[1]); err != nil {
			return fmt.Errorf("set %s: %w", args[0], err)
		}
		return cfg.Save(path)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
}

func resolvedConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return filepath.Join(".", config.DefaultName)
}

func loadConfig() (*config.Config, error) {
	path := resolvedConfigPath()
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return cfg, nil
}
