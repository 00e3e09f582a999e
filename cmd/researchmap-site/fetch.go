// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/researchmap-site/internal/auth"
	"github.com/pdiddy/researchmap-site/internal/pipeline"
	"github.com/pdiddy/researchmap-site/internal/researchmap"
	"github.com/pdiddy/researchmap-site/pkg/types"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch the profile with API credentials and write the curated pages",
	Long: `Fetch signs a JWT assertion with the researchmap API key and secret,
exchanges it for an access token, downloads the researcher document, and
writes research_data.json, metadata.yml, and the Japanese content pages.
Sections without records get a placeholder page.

Credentials come from .secrets/researchmap-api-key and
.secrets/researchmap-api-secret, then .env, then the RESEARCHMAP_API_KEY and
RESEARCHMAP_API_SECRET environment variables.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFetch(cmd, types.VariantAuthenticated)
	},
}

func init() {
	addFetchFlags(fetchCmd)
	rootCmd.AddCommand(fetchCmd)
}

func addFetchFlags(cmd *cobra.Command) {
	cmd.Flags().Int("max-retries", -1, "retries on HTTP 429 (default from config, 0 = single attempt)")
	cmd.Flags().Bool("snapshot", false, "record the run in the snapshot ledger")
}

func runFetch(cmd *cobra.Command, variant types.Variant) error {
	cfg := siteConfig
	if retries, _ := cmd.Flags().GetInt("max-retries"); retries >= 0 {
		cfg.API.MaxRetries = retries
	}
	if snap, _ := cmd.Flags().GetBool("snapshot"); snap {
		cfg.Snapshot.Enabled = true
	}

	res, err := pipeline.Run(cmd.Context(), pipeline.Options{
		Config:      cfg,
		Variant:     variant,
		Source:      researchmap.NewClient(cfg.API, logger),
		Credentials: auth.DefaultSources(),
		Out:         os.Stdout,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("%s fetch failed: %w", variant, err)
	}
	printSummary(cmd, res)
	return nil
}

func printSummary(cmd *cobra.Command, res *pipeline.Result) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d wrote, %d unchanged, %d removed in %s",
		res.Variant, len(res.Pages.Wrote), len(res.Pages.Unchanged), len(res.Pages.Removed), res.ContentDir)
	if res.LastUpdated != "" {
		fmt.Fprintf(cmd.OutOrStdout(), " (last_updated %s)", res.LastUpdated)
	}
	if res.RunID != "" {
		fmt.Fprintf(cmd.OutOrStdout(), " [run %s]", res.RunID)
	}
	fmt.Fprintln(cmd.OutOrStdout())
}
