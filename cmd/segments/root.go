package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/drakos74/free-segments/infra/config"
)

const configKey = "segments"

// version is set at build time via -ldflags.
var version = "dev"

// Config is the configuration of the service, loaded from infra/config/segments.yaml.
type Config struct {
	Server struct {
		Name  string `yaml:"name" json:"name"`
		Port  int    `yaml:"port" json:"port"`
		Debug bool   `yaml:"debug" json:"debug"`
	} `yaml:"server" json:"server"`
	Artifacts struct {
		Scaler string `yaml:"scaler" json:"scaler"`
		Model  string `yaml:"model" json:"model"`
	} `yaml:"artifacts" json:"artifacts"`
	Preview int `yaml:"preview" json:"preview"`
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "segments",
		Short: "Assign customers to segments with a pre-trained clustering model",
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
		},
	}
	root.PersistentFlags().String("config", config.Path, "directory of the config files")
	root.PersistentFlags().String("scaler", "", "path of the fitted scaler (overrides config)")
	root.PersistentFlags().String("model", "", "path of the cluster model (overrides config)")
	root.PersistentFlags().Bool("debug", false, "enable debug logging")

	root.AddCommand(newServeCmd())
	root.AddCommand(newScoreCmd())
	root.Version = version
	return root
}

// loadConfig reads the config file and applies the flags that were set explicitly.
func loadConfig(cmd *cobra.Command) Config {
	var cfg Config
	dir, _ := cmd.Flags().GetString("config")
	config.MustLoad(dir, configKey, &cfg)

	flags := cmd.Flags()
	if flags.Changed("scaler") {
		cfg.Artifacts.Scaler, _ = flags.GetString("scaler")
	}
	if flags.Changed("model") {
		cfg.Artifacts.Model, _ = flags.GetString("model")
	}
	if flags.Changed("debug") {
		cfg.Server.Debug, _ = flags.GetBool("debug")
	}
	if flags.Lookup("port") != nil && flags.Changed("port") {
		cfg.Server.Port, _ = flags.GetInt("port")
	}
	if cfg.Server.Name == "" {
		cfg.Server.Name = configKey
	}
	return cfg
}
