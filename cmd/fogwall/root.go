package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/phanxgames/fogwall"
	"github.com/phanxgames/fogwall/internal/config"
	"github.com/phanxgames/fogwall/internal/observability"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "fogwall",
	Short:         "fogwall renders poster images as drifting particle fields.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		bindFlags(cmd.Root())
		if err := initializeConfig(); err != nil {
			return err
		}
		loaded, err := config.Load(viper.GetViper())
		if err != nil {
			observability.InitializeLogger(config.LoggerConfig{Level: "info", Format: "console", ServiceName: "fogwall"})
			return err
		}
		cfg = loaded
		observability.InitializeLogger(cfg.Logger)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		observability.Sync()
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		observability.GetLogger().Error("Command failed", zap.Error(err))
		observability.Sync()
		os.Exit(1)
	}
}

func init() {
	setupFlags(rootCmd)
	rootCmd.AddCommand(newViewCmd(), newSampleCmd(), newSimulateCmd(), newCatalogCmd())
}

// setupFlags registers the persistent flags.
func setupFlags(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVarP(&cfgFile, "config", "c", "", "config file (default ./fogwall.yaml or ~/.config/fogwall/fogwall.yaml)")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.Int("width", 1280, "canvas width")
	pf.Int("height", 800, "canvas height")
	pf.Uint64("seed", 1, "particle layout seed")
}

// bindFlags registers config defaults and binds the persistent flags to
// their viper keys.
func bindFlags(cmd *cobra.Command) {
	config.SetDefaults(viper.GetViper())
	pf := cmd.PersistentFlags()
	_ = viper.BindPFlag("logger.level", pf.Lookup("log-level"))
	_ = viper.BindPFlag("window.width", pf.Lookup("width"))
	_ = viper.BindPFlag("window.height", pf.Lookup("height"))
	_ = viper.BindPFlag("gallery.seed", pf.Lookup("seed"))
}

// initializeConfig reads the config file and FOGWALL_* environment variables.
func initializeConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.config/fogwall")
		viper.SetConfigName("fogwall")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix(config.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return nil
}

// newLoader builds the image loader described by the loader config section.
func newLoader(c *config.Config) *fogwall.SourceLoader {
	return &fogwall.SourceLoader{
		Client:   &http.Client{Timeout: c.Loader.HTTPTimeout},
		MaxBytes: c.Loader.MaxImageBytes,
	}
}
