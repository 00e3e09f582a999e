// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/researchmap-site/pkg/types"
)

var fetchPublicCmd = &cobra.Command{
	Use:   "fetch-public",
	Short: "Fetch the public profile and write the auto-generated pages",
	Long: `Fetch-public downloads the researcher document anonymously, stamps it
with a UTC last_updated, and writes research_data.json, metadata.yml, and the
English content pages. Pages for sections without records are removed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFetch(cmd, types.VariantPublic)
	},
}

func init() {
	addFetchFlags(fetchPublicCmd)
	rootCmd.AddCommand(fetchPublicCmd)
}
