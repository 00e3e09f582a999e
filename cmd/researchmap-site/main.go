// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the researchmap-site CLI. It fetches
// a researchmap profile, persists it, and renders the Markdown pages of the
// static site; serve previews the result locally.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/researchmap-site/internal/logging"
	"github.com/pdiddy/researchmap-site/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// siteConfig is loaded once in PersistentPreRunE.
	siteConfig types.SiteConfig
	logger     = zap.NewNop()
)

// rootCmd is the base command for the researchmap-site CLI.
var rootCmd = &cobra.Command{
	Use:   "researchmap-site",
	Short: "Build the personal research site from researchmap",
	Long: `researchmap-site keeps a personal research website in sync with the
researcher's researchmap profile. fetch uses the authenticated API and writes
the curated content set; fetch-public uses the public API and writes the
auto-generated content set. Both persist the raw document first, so render
can rebuild the pages offline. serve previews the site with live reload.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		siteConfig = cfg

		level := cfg.Log.Level
		if cmd.Flags().Changed("log-level") {
			level, _ = cmd.Flags().GetString("log-level")
		}
		l, err := logging.New(level, cfg.Log.File)
		if err != nil {
			return err
		}
		logger = l
		if used := viper.ConfigFileUsed(); used != "" {
			logger.Debug("using config file", zap.String("path", used))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./researchmap-site.yaml or ~/.config/researchmap-site/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("researchmap-site")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "researchmap-site"))
		}
	}

	viper.SetEnvPrefix("RESEARCHMAP_SITE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults(viper.GetViper(), types.DefaultSiteConfig())

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			fmt.Fprintln(os.Stderr, "Reading config file:", err)
		}
	}
}

// setDefaults registers the scalar keys so environment variables can
// override them without a config file.
func setDefaults(v *viper.Viper, cfg types.SiteConfig) {
	v.SetDefault("data_dir", cfg.DataDir)
	v.SetDefault("api.base_url", cfg.API.BaseURL)
	v.SetDefault("api.timeout", cfg.API.Timeout)
	v.SetDefault("api.user_agent", cfg.API.UserAgent)
	v.SetDefault("api.max_retries", cfg.API.MaxRetries)
	for name, out := range map[string]types.OutputConfig{
		"authenticated": cfg.Authenticated,
		"public":        cfg.Public,
	} {
		v.SetDefault(name+".content_dir", out.ContentDir)
		v.SetDefault(name+".language", string(out.Language))
		v.SetDefault(name+".empty_section", string(out.EmptySection))
		v.SetDefault(name+".auto_content", out.AutoContent)
		v.SetDefault(name+".timestamp", string(out.Timestamp))
		v.SetDefault(name+".metadata_source_key", out.MetadataSourceKey)
	}
	v.SetDefault("author.email", cfg.Author.Email)
	v.SetDefault("preview.root", cfg.Preview.Root)
	v.SetDefault("preview.port", cfg.Preview.Port)
	v.SetDefault("preview.open_browser", cfg.Preview.OpenBrowser)
	v.SetDefault("snapshot.enabled", cfg.Snapshot.Enabled)
	v.SetDefault("snapshot.path", cfg.Snapshot.Path)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.file", cfg.Log.File)
}

// loadConfig overlays viper settings on the defaults. The permalink is
// always the compiled-in one.
func loadConfig() (types.SiteConfig, error) {
	cfg := types.DefaultSiteConfig()
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}
	cfg.Permalink = types.Permalink
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
