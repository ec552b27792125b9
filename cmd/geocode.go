package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zestai/zrp/internal/output"
	"github.com/zestai/zrp/internal/pipeline"
	"github.com/zestai/zrp/internal/records"
)

var geocodeCmd = &cobra.Command{
	Use:   "geocode",
	Short: "Resolve Census geographies for a records file",
	Long:  "Normalizes and geocodes every record against the state lookup tables and writes one geography row per record, without scoring.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		input, _ := cmd.Flags().GetString("input")
		outPath, _ := cmd.Flags().GetString("output")

		recs, err := records.ReadFile(ctx, input)
		if err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		p, closePipeline, err := pipeline.FromConfig(ctx, cfg, pipeline.CommandGeocode, st)
		if err != nil {
			return err
		}
		defer closePipeline()

		res, err := p.Geocode(ctx, input, recs)
		if err != nil {
			return err
		}

		if err := output.WriteGeographiesFile(outPath, res.Geographies); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "geocode %s: %d records, %d matched -> %s\n",
			res.RunID, len(res.Geographies), matched(res.Readout.MatchLevels), outPath)
		return nil
	},
}

// matched counts the match levels precise enough to place a record in a
// tract.
func matched(levels map[string]int) int {
	return levels["house_number"] + levels["parity"] + levels["override"]
}

func init() {
	geocodeCmd.Flags().String("input", "", "records file (.csv, .txt, .tsv or .xlsx)")
	geocodeCmd.Flags().String("output", "geographies.csv", "geography CSV path")
	_ = geocodeCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(geocodeCmd)
}
