package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/picker-cli/internal/model"
	"github.com/sells-group/picker-cli/internal/picker"
)

var (
	pickCategories []string
	pickLat        float64
	pickLng        float64
)

var pickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Pick one restaurant at random and enrich it",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initPicker(ctx, "pick")
		if err != nil {
			return err
		}

		req := picker.Request{Categories: pickCategories}
		if cmd.Flags().Changed("lat") && cmd.Flags().Changed("lng") {
			req.Coordinate = &model.Coordinate{Lat: pickLat, Lng: pickLng}
		}

		outcome, err := env.Picker.Pick(ctx, req)
		if err != nil {
			return eris.Wrap(err, "pick")
		}

		zap.L().Info("pick complete",
			zap.String("name", outcome.Selection.Name),
			zap.Int("errors", len(outcome.Errors)),
		)

		// Print outcome JSON to stdout
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(outcome)
	},
}

func init() {
	pickCmd.Flags().StringSliceVar(&pickCategories, "category", nil, "restrict to these categories (repeatable; default all)")
	pickCmd.Flags().Float64Var(&pickLat, "lat", 0, "origin latitude (overrides configured location)")
	pickCmd.Flags().Float64Var(&pickLng, "lng", 0, "origin longitude (overrides configured location)")
	rootCmd.AddCommand(pickCmd)
}
