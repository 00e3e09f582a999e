// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/researchmap-site/internal/pipeline"
	"github.com/pdiddy/researchmap-site/pkg/types"
)

const variantAll = "all"

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Re-render content pages from the persisted research_data.json",
	Long: `Render rebuilds the Markdown pages of one or both content sets from the
last persisted researcher document. It never touches the network, so it is
the way to pick up label or translation changes without a fetch.`,
	Args: cobra.NoArgs,
	RunE: runRender,
}

func init() {
	renderCmd.Flags().String("variant", variantAll, "content set: authenticated, public, or all")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("variant")
	variants, err := parseVariants(name)
	if err != nil {
		return err
	}

	for _, v := range variants {
		res, err := pipeline.Render(cmd.Context(), pipeline.Options{
			Config:  siteConfig,
			Variant: v,
			Out:     os.Stdout,
			Logger:  logger,
		})
		if err != nil {
			return fmt.Errorf("rendering %s: %w", v, err)
		}
		printSummary(cmd, res)
	}
	return nil
}

func parseVariants(name string) ([]types.Variant, error) {
	switch name {
	case variantAll, "":
		return []types.Variant{types.VariantAuthenticated, types.VariantPublic}, nil
	case string(types.VariantAuthenticated), string(types.VariantPublic):
		return []types.Variant{types.Variant(name)}, nil
	}
	return nil, fmt.Errorf("unknown variant %q (want authenticated, public, or all)", name)
}
