package config

import (
	"os"

	"github.com/spf13/viper"
)

// Config represents the full configuration structure. It is constructed once
// at startup and passed into every component; nothing reads viper afterwards.
type Config struct {
	Root      string          `mapstructure:"root"`
	Registry  RegistryConfig  `mapstructure:"registry"`
	Container ContainerConfig `mapstructure:"container"`
	Git       GitConfig       `mapstructure:"git"`
}

// RegistryConfig configures where tool images come from
type RegistryConfig struct {
	Prefix       string            `mapstructure:"prefix"`         // prepended to every image reference
	PullOnDemand bool              `mapstructure:"pull_on_demand"` // allow Invoke to pull missing images
	Images       map[string]string `mapstructure:"images"`         // per-tool full image reference overrides
}

// ContainerConfig configures container runtime settings
type ContainerConfig struct {
	User        string `mapstructure:"user"`         // auto, or uid:gid
	MemoryLimit string `mapstructure:"memory_limit"` // e.g., "2g"
}

// GitConfig configures the release workflow
type GitConfig struct {
	Executable  string `mapstructure:"executable"`
	VersionFile string `mapstructure:"version_file"`
}

// LoadConfig loads configuration from viper with defaults
func LoadConfig() *Config {
	setDefaults()

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		// Return defaults on error
		cfg = defaultConfig()
	}

	// Root defaults to the current directory, resolved at load time so every
	// component sees the same absolute path.
	if cfg.Root == "" {
		if cwd, err := os.Getwd(); err == nil {
			cfg.Root = cwd
		}
	}
	if expanded, err := ExpandPath(cfg.Root); err == nil {
		cfg.Root = expanded
	}

	return cfg
}

func setDefaults() {
	viper.SetDefault("root", "")

	viper.SetDefault("registry.prefix", "docker.io/")
	viper.SetDefault("registry.pull_on_demand", false)
	viper.SetDefault("registry.images", map[string]string{})

	viper.SetDefault("container.user", UserAuto)
	viper.SetDefault("container.memory_limit", "2g")

	viper.SetDefault("git.executable", "git")
	viper.SetDefault("git.version_file", "VERSION")
}

func defaultConfig() *Config {
	return &Config{
		Registry: RegistryConfig{
			Prefix:       "docker.io/",
			PullOnDemand: false,
			Images:       map[string]string{},
		},
		Container: ContainerConfig{
			User:        UserAuto,
			MemoryLimit: "2g",
		},
		Git: GitConfig{
			Executable:  "git",
			VersionFile: "VERSION",
		},
	}
}
