package cmd

import (
	"ClipFM/server"

	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the ClipFM HTTP server",
	Long:  `Start the HTTP server that accepts video URLs and uploads, converts them to audio tracks, and serves the per-user track library.`,
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
