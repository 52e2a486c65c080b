package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/sells-group/picker-cli/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the restaurant catalog",
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the catalog as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		candidates, err := newConfiguredLoader().Load(cmd.Context())
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(candidates)
	},
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check every catalog entry has a name and category",
	RunE: func(cmd *cobra.Command, args []string) error {
		candidates, err := newConfiguredLoader().Load(cmd.Context())
		if err != nil {
			return err
		}
		if err := catalog.Validate(candidates); err != nil {
			return err
		}
		fmt.Printf("ok: %d candidates\n", len(candidates))
		return nil
	},
}

var catalogSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print candidate counts per category",
	RunE: func(cmd *cobra.Command, args []string) error {
		candidates, err := newConfiguredLoader().Load(cmd.Context())
		if err != nil {
			return err
		}

		counts := catalog.CountByCategory(candidates)
		categories := make([]string, 0, len(counts))
		for c := range counts {
			categories = append(categories, c)
		}
		sort.Strings(categories)

		for _, c := range categories {
			fmt.Printf("%-20s %d\n", c, counts[c])
		}
		fmt.Printf("%-20s %d\n", "total", len(candidates))
		return nil
	},
}

func newConfiguredLoader() *catalog.Loader {
	var opts []catalog.Option
	if cfg.Catalog.Path != "" {
		opts = append(opts, catalog.WithPath(cfg.Catalog.Path))
	}
	if cfg.Catalog.URL != "" {
		opts = append(opts, catalog.WithURL(cfg.Catalog.URL))
	}
	return catalog.NewLoader(opts...)
}

func init() {
	catalogCmd.AddCommand(catalogListCmd, catalogValidateCmd, catalogSummaryCmd)
	rootCmd.AddCommand(catalogCmd)
}
