package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zestai/zrp/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "zrp",
	Short: "Race and ethnicity proxies from names and addresses",
	Long:  "Geocodes person records to Census geographies, joins ACS attributes at the finest available granularity, and routes each record to the best available proxy model.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
