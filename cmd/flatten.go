package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	appconfig "github.com/ezavesky/metadata-flatten-extractor-sub000/config"
	"github.com/ezavesky/metadata-flatten-extractor-sub000/internal/fetch"
	"github.com/ezavesky/metadata-flatten-extractor-sub000/internal/pipeline"
)

func newFlattenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flatten <asset_id>",
		Short: "Run the flatten pipeline for one asset",
		Long: "Load the asset's raw extractor results, normalize them into timed tags, " +
			"and write the flat, compact, and manifest artifacts to the output directory.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			assetID := args[0]

			resultsDir, _ := cmd.Flags().GetString("results")
			outDir, _ := cmd.Flags().GetString("out")
			configPath, _ := cmd.Flags().GetString("config")
			gap, _ := cmd.Flags().GetFloat64("gap")
			useService, _ := cmd.Flags().GetBool("service")

			cfg := appconfig.Default()
			if configPath != "" {
				var err error
				if cfg, err = appconfig.Load(configPath); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("gap") {
				cfg.CoalesceGapSec = gap
			}

			var source fetch.Source
			if useService {
				baseURL := os.Getenv("RESULT_SERVICE_URL")
				if baseURL == "" {
					return fmt.Errorf("--service requires RESULT_SERVICE_URL")
				}
				source = fetch.NewServiceSource(baseURL)
			} else {
				source = fetch.NewDirSource(resultsDir)
			}

			raw, err := source.Load(cmd.Context(), assetID)
			if err != nil {
				return err
			}

			driver := pipeline.NewDriver(pipeline.Options{
				CoalesceGapSec:  cfg.CoalesceGapSec,
				Workers:         cfg.Workers,
				DisabledParsers: cfg.DisabledParsers,
				FlatName:        cfg.Export.FlatName,
				CompactName:     cfg.Export.CompactName,
				ManifestName:    cfg.Export.ManifestName,
			})
			manifest, state, err := driver.Run(cmd.Context(), assetID, raw, outDir)
			if err != nil {
				return fmt.Errorf("run %s: %w", state, err)
			}

			cmd.Printf("run %s: %d tags from %d parsers (%d skipped, %d failed)\n",
				state, manifest.TagCount, len(manifest.ParsersRun),
				len(manifest.ParsersSkipped), len(manifest.ParsersFailed))
			return nil
		},
	}

	cmd.Flags().String("results", "results", "Directory holding <asset_id>/<result_key>.json payloads")
	cmd.Flags().String("out", "exports", "Output directory for export artifacts")
	cmd.Flags().String("config", "", "Optional YAML config file")
	cmd.Flags().Float64("gap", 0, "Compact-export coalescing gap in seconds")
	cmd.Flags().Bool("service", false, "Fetch raw results from the result service instead of local disk")

	return cmd
}
