package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/kmorwood/lintcage/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "lintcage [task]",
	Short: "Run lint and format tools in locked-down containers",
	Long: `Lintcage runs a fixed set of linting and formatting tools against a source
tree, each inside an isolated container: read-only rootfs, all capabilities
dropped, no network, non-root user. Lint tasks mount the workspace read-only;
format tasks mount it read-write. Network stays disabled for every task.

Run without arguments to list the available tasks.

Examples:
  lintcage                  # List all tasks
  lintcage lint             # Run every lint task
  lintcage lint-markdown    # Run a single task
  lintcage all              # Lint and format everything
  lintcage pull             # Pre-pull every tool image`,
	Args:         cobra.MaximumNArgs(1),
	RunE:         runTask,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/lintcage/config.yaml)")
	rootCmd.PersistentFlags().StringP("root", "r", "", "workspace root to check (default: current directory)")

	// Run flags
	rootCmd.Flags().Bool("pull-on-demand", false, "pull missing tool images during invocation")

	// Bind flags to viper for config integration
	viper.BindPFlag("root", rootCmd.PersistentFlags().Lookup("root"))
	viper.BindPFlag("registry.pull_on_demand", rootCmd.Flags().Lookup("pull-on-demand"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Warning: could not find home directory:", err)
			return
		}

		// Search for config in standard locations
		viper.AddConfigPath(home + "/.config/lintcage")
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	// Environment variables
	viper.SetEnvPrefix("LINTCAGE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file (ignore if not found)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintln(os.Stderr, "Warning: error reading config file:", err)
		}
	}

	// Load into config struct
	cfg = config.LoadConfig()
}
