package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/greenledger/esg-compass/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "esg-compass",
	Short: "ESG compliance scoring and predictive alerting",
	Long:  "Scores SMB sustainability questionnaires, analyzes compliance risk against regulatory calendars, and generates predictive alerts with LLM-enhanced guidance.",
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
