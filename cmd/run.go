package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zestai/zrp/internal/db"
	"github.com/zestai/zrp/internal/output"
	"github.com/zestai/zrp/internal/pipeline"
	"github.com/zestai/zrp/internal/records"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Produce proxies for a records file",
	Long:  "Normalizes and geocodes every record, merges ACS attributes, scores each record with the highest-priority model it qualifies for, and writes one proxy row per record.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		input, _ := cmd.Flags().GetString("input")
		outPath, _ := cmd.Flags().GetString("output")
		if outPath == "" {
			outPath = cfg.Output.Path
		}

		recs, err := records.ReadFile(ctx, input)
		if err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		p, closePipeline, err := pipeline.FromConfig(ctx, cfg, pipeline.CommandRun, st)
		if err != nil {
			return err
		}
		defer closePipeline()

		res, err := p.Run(ctx, input, recs)
		if err != nil {
			return err
		}

		if err := output.WriteProxiesFile(outPath, res.Proxies); err != nil {
			return err
		}

		if cfg.Output.PostgresURL != "" {
			pool, err := db.Connect(ctx, cfg.Output.PostgresURL)
			if err != nil {
				return eris.Wrap(err, "run: connect output database")
			}
			defer pool.Close()

			if _, err := output.CopyToPostgres(ctx, pool, cfg.Output.PostgresTable, res.Proxies); err != nil {
				return err
			}
		}

		zap.L().Info("proxies written",
			zap.String("run_id", res.RunID),
			zap.String("output", outPath),
			zap.Int("records", len(res.Proxies)),
		)
		fmt.Fprintf(os.Stderr, "run %s: %d records -> %s\n", res.RunID, len(res.Proxies), outPath)
		return nil
	},
}

func init() {
	runCmd.Flags().String("input", "", "records file (.csv, .txt, .tsv or .xlsx)")
	runCmd.Flags().String("output", "", "proxy CSV path (defaults to output.path)")
	_ = runCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(runCmd)
}
