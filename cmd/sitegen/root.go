package main

import (
	"fmt"
	"strings"

	sitegen "github.com/goliatone/go-sitegen"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile   string
	sourceDir string
	appConfig sitegen.Config
)

var rootCmd = &cobra.Command{
	Use:   "sitegen",
	Short: "Static site engine for Markdown content trees",
	Long: `sitegen loads Markdown posts, pages, and listing data from a source
tree, enforces the front-matter contract, and builds a deployable HTML site
with feeds, sitemap, robots, and an incremental-build manifest.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return initializeConfig()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default <source>/sitegen.yaml)")
	rootCmd.PersistentFlags().StringVarP(&sourceDir, "source", "s", ".", "site source directory")
}

func initializeConfig() error {
	defaults := sitegen.DefaultConfig()

	v := viper.New()
	v.SetDefault("output", defaults.Generator.OutputDir)
	v.SetDefault("base_url", "")
	v.SetDefault("addr", defaults.Server.Addr)
	v.SetDefault("workers", defaults.Generator.Workers)
	v.SetDefault("incremental", defaults.Generator.Incremental)
	v.SetDefault("logging.provider", defaults.Logging.Provider)
	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("storage.driver", "")
	v.SetDefault("storage.dsn", "")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(sourceDir)
		v.SetConfigName("sitegen")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("SITEGEN")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if cfgFile != "" {
				return fmt.Errorf("read config file %s: %w", cfgFile, err)
			}
			return fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := defaults
	cfg.SourceDir = sourceDir
	cfg.Generator.OutputDir = v.GetString("output")
	cfg.Generator.BaseURL = v.GetString("base_url")
	cfg.Generator.Workers = v.GetInt("workers")
	cfg.Generator.Incremental = v.GetBool("incremental")
	cfg.Server.Addr = v.GetString("addr")
	cfg.Logging.Provider = v.GetString("logging.provider")
	cfg.Logging.Level = v.GetString("logging.level")
	cfg.Storage.Driver = v.GetString("storage.driver")
	cfg.Storage.DSN = v.GetString("storage.dsn")

	appConfig = cfg
	return nil
}

func newModule(mutate func(*sitegen.Config)) (*sitegen.Module, error) {
	cfg := appConfig
	if mutate != nil {
		mutate(&cfg)
	}
	return sitegen.New(cfg)
}

func cliLogger(module *sitegen.Module) interfaces.Logger {
	return module.Logger().GetLogger("sitegen.cli")
}
