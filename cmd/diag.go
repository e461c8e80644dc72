package cmd

import (
	"context"
	"fmt"
	"log"

	"WonFM/config"
	"WonFM/core/diag"
	"WonFM/core/voice"
	"WonFM/db"
	"WonFM/storage"

	"github.com/spf13/cobra"
)

var diagCmd = &cobra.Command{
	Use:   "diag",
	Short: "Run the deployment diagnostics suite",
	Long:  `Run every configuration and connectivity check against the configured services and print a pass/fail report.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()

		// Connection failures are reported by the checks themselves.
		if err := db.ConnectDB(cfg); err != nil {
			log.Printf("Database connection failed: %v", err)
		}
		if err := db.ConnectRedis(cfg); err != nil {
			log.Printf("Redis connection failed: %v", err)
		}
		if err := storage.InitMinio(cfg); err != nil {
			log.Printf("MinIO initialization failed: %v", err)
		}

		prober := voice.NewClient(cfg.ElevenLabsAPIKey, cfg.VoiceID, cfg.ElevenLabsBaseURL)
		suite := diag.NewSuite(diag.DefaultChecks(cfg, prober))

		report, err := suite.Run(context.Background())
		if err != nil {
			log.Fatalf("Diagnostics run failed: %v", err)
		}

		for _, result := range report.Results {
			fmt.Printf("[%-7s] %-32s %s\n", result.Status, result.Name, result.Message)
		}
		fmt.Printf("\n%d passed, %d failed, %d warnings (%.0f%%)\n",
			report.Passed, report.Failed, report.Warnings, report.Percent)
	},
}

func init() {
	rootCmd.AddCommand(diagCmd)
}
