package cmd

import (
	"context"
	"fmt"
	"log"

	"ClipFM/config"
	"ClipFM/storage"

	"github.com/spf13/cobra"
)

var (
	minioPrefix string
	minioStats  bool
	minioDelete bool
)

var minioCmd = &cobra.Command{
	Use:   "minio",
	Short: "Inspect the media bucket",
	Long:  `List uploaded audio and frame objects, show bucket statistics, or delete a prefix.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()
		if err := cfg.Validate(); err != nil {
			log.Fatalf("Invalid configuration: %v", err)
		}
		fmt.Printf("MinIO: %s, bucket: %s\n", cfg.MinioEndpoint, cfg.MinioBucket)

		store, err := storage.NewMinioStorage(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to MinIO: %v", err)
		}

		ctx := context.Background()
		switch {
		case minioDelete:
			if minioPrefix == "" {
				log.Fatal("Delete requires a prefix (-p)")
			}
			if err := store.DeletePrefix(ctx, minioPrefix); err != nil {
				log.Fatalf("Failed to delete prefix: %v", err)
			}
		case minioStats:
			if err := store.PrintBucketStats(ctx); err != nil {
				log.Fatalf("Failed to read bucket stats: %v", err)
			}
		default:
			if err := store.ListObjects(ctx, minioPrefix); err != nil {
				log.Fatalf("Failed to list objects: %v", err)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(minioCmd)

	minioCmd.Flags().StringVarP(&minioPrefix, "prefix", "p", "", "filter objects by prefix")
	minioCmd.Flags().BoolVarP(&minioStats, "stats", "s", false, "show bucket statistics")
	minioCmd.Flags().BoolVarP(&minioDelete, "delete", "d", false, "delete all objects under the prefix")

	minioCmd.Example = `  # List all objects
  clipfm minio

  # List only extracted audio
  clipfm minio -p "audio/"

  # Show bucket statistics
  clipfm minio -s

  # Delete stale frames
  clipfm minio -d -p "frames/"`
}
