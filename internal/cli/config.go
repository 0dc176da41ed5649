package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage lintcage configuration",
	Long: `Manage lintcage configuration settings.

Commands:
  list    List all configuration settings
  get     Get a configuration value
  path    Show configuration file path
  init    Create default configuration file

Examples:
  lintcage config list
  lintcage config get registry.prefix
  lintcage config init`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configuration settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		settings := viper.AllSettings()
		printSettingsFlat("", settings)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]
		if !viper.IsSet(key) {
			return fmt.Errorf("key not found: %s", key)
		}
		value := viper.Get(key)
		// Handle nested maps by printing them in a readable format
		if m, ok := value.(map[string]interface{}); ok {
			printSettingsFlat(key, m)
		} else {
			fmt.Println(value)
		}
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show configuration file path",
	Run: func(cmd *cobra.Command, args []string) {
		if cfgFile := viper.ConfigFileUsed(); cfgFile != "" {
			fmt.Println(cfgFile)
		} else {
			fmt.Println(getConfigPath())
		}
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := getConfigPath()
		configDir := filepath.Dir(configPath)

		if err := os.MkdirAll(configDir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}

		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("config file already exists at %s", configPath)
		}

		content, err := renderDefaultConfig()
		if err != nil {
			return err
		}

		if err := os.WriteFile(configPath, content, 0644); err != nil {
			return fmt.Errorf("failed to write config file: %w", err)
		}

		fmt.Printf("Created config file at %s\n", configPath)
		return nil
	},
}

// renderDefaultConfig marshals the default settings to YAML under a short
// header. Keys match the viper/mapstructure names exactly.
func renderDefaultConfig() ([]byte, error) {
	settings := map[string]interface{}{
		"root": "",
		"registry": map[string]interface{}{
			"prefix":         "docker.io/",
			"pull_on_demand": false,
			"images":         map[string]string{},
		},
		"container": map[string]interface{}{
			"user":         "auto",
			"memory_limit": "2g",
		},
		"git": map[string]interface{}{
			"executable":   "git",
			"version_file": "VERSION",
		},
	}

	body, err := yaml.Marshal(settings)
	if err != nil {
		return nil, fmt.Errorf("failed to render default config: %w", err)
	}

	header := "# Lintcage configuration\n# Every key can also be set via LINTCAGE_* environment variables,\n# e.g. LINTCAGE_REGISTRY_PREFIX overrides registry.prefix.\n\n"
	return append([]byte(header), body...), nil
}

// printSettingsFlat prints settings in dot notation
func printSettingsFlat(prefix string, settings map[string]interface{}) {
	// Collect keys and sort them for consistent output
	keys := make([]string, 0, len(settings))
	for key := range settings {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := settings[key]
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		if nested, ok := value.(map[string]interface{}); ok {
			printSettingsFlat(fullKey, nested)
		} else {
			fmt.Printf("%s: %v\n", fullKey, value)
		}
	}
}

// getConfigPath returns the default config file path
func getConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "lintcage", "config.yaml")
}
