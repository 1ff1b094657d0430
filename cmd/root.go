package cmd

import (
	"fmt"
	"log"
	"os"

	"ClipFM/server"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "clipfm",
	Short: "ClipFM turns short-form videos into an audio library.",
	Run: func(cmd *cobra.Command, args []string) {
		log.Println("Starting ClipFM server...")
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
