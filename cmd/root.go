package cmd

import (
	"fmt"
	"log"
	"os"

	"WonFM/server"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "wonfm_server",
	Short: "WON FM turns short text prompts into musical audio.",
	Run: func(cmd *cobra.Command, args []string) {
		log.Println("Starting WON FM server...")
		// server.Start handles its own port and logging for startup.
		server.Start()
	},
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
