package cmd

import (
	"context"
	"fmt"
	"log"

	"WonFM/config"
	"WonFM/storage"

	"github.com/minio/minio-go/v7"
	"github.com/spf13/cobra"
)

var (
	minioPrefix string
	minioStats  bool
)

var minioCmd = &cobra.Command{
	Use:   "minio",
	Short: "Inspect the audio bucket",
	Long:  `List generated audio objects in the MinIO bucket, or print bucket statistics.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()
		fmt.Printf("MinIO: %s, bucket: %s\n", cfg.MinioEndpoint, cfg.MinioBucket)

		if err := storage.InitMinio(cfg); err != nil {
			log.Fatalf("Failed to connect to MinIO: %v", err)
		}

		client := storage.GetMinioClient()
		ctx := context.Background()

		var (
			count     int
			totalSize int64
		)
		for object := range client.ListObjects(ctx, cfg.MinioBucket, minio.ListObjectsOptions{
			Prefix:    minioPrefix,
			Recursive: true,
		}) {
			if object.Err != nil {
				log.Fatalf("Failed to list objects: %v", object.Err)
			}
			count++
			totalSize += object.Size
			if !minioStats {
				fmt.Printf("%-60s %10d  %s\n", object.Key, object.Size, object.LastModified.Format("2006-01-02 15:04:05"))
			}
		}

		if minioStats {
			fmt.Printf("Objects: %d\n", count)
			fmt.Printf("Total size: %.2f MB\n", float64(totalSize)/(1024*1024))
		}
	},
}

func init() {
	minioCmd.Flags().StringVarP(&minioPrefix, "prefix", "p", "", "object prefix to filter on")
	minioCmd.Flags().BoolVarP(&minioStats, "stats", "s", false, "print bucket statistics instead of listing")
	rootCmd.AddCommand(minioCmd)
}
