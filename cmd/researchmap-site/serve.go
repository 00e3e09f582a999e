// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pdiddy/researchmap-site/internal/preview"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Preview the site locally with live reload",
	Long: `Serve publishes the site directory on localhost, opens a browser tab,
and reloads open pages whenever index.html, the CSS and JS assets, or a
generated Markdown page changes. Ctrl-C stops the server.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Int("port", 0, "port to listen on (default from config, 8000)")
	serveCmd.Flags().String("root", "", "directory to serve (default from config, .)")
	serveCmd.Flags().Bool("no-browser", false, "do not open a browser tab")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := siteConfig.Preview
	if port, _ := cmd.Flags().GetInt("port"); port > 0 {
		cfg.Port = port
	}
	if root, _ := cmd.Flags().GetString("root"); root != "" {
		cfg.Root = root
	}
	if noBrowser, _ := cmd.Flags().GetBool("no-browser"); noBrowser {
		cfg.OpenBrowser = false
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return preview.New(cfg, os.Stdout, logger).Run(ctx)
}
