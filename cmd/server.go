package cmd

import (
	"WonFM/server"

	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the WON FM HTTP server",
	Long:  `Start the HTTP server that serves the generation, auth, diagnostics and checkout APIs.`,
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
