package cmd

import (
	"context"
	"fmt"
	"log"

	"sonicstream/config"
	"sonicstream/storage"

	"github.com/spf13/cobra"
)

var (
	minioPrefix string
	minioStats  bool
	minioDelete bool
)

var minioCmd = &cobra.Command{
	Use:   "minio",
	Short: "MinIO bucket management",
	Long:  `List bucket contents, show storage statistics, or delete everything under a prefix.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()
		fmt.Printf("MinIO config: %s, bucket: %s\n", cfg.MinioEndpoint, cfg.MinioBucket)

		if err := storage.InitMinio(cfg); err != nil {
			log.Fatalf("Failed to connect to MinIO: %v", err)
		}
		store := storage.GetStore()
		ctx := context.Background()

		if minioDelete {
			if minioPrefix == "" {
				log.Fatal("Delete requires a --prefix")
			}
			removed := 0
			for obj := range store.ListObjects(ctx, minioPrefix, true) {
				if obj.Err != nil {
					log.Fatalf("Failed to list objects: %v", obj.Err)
				}
				if err := store.Remove(ctx, obj.Key); err != nil {
					log.Fatalf("Failed to remove %s: %v", obj.Key, err)
				}
				removed++
			}
			fmt.Printf("Removed %d objects under %q\n", removed, minioPrefix)
			return
		}

		if minioStats {
			var count int
			var size int64
			for obj := range store.ListObjects(ctx, minioPrefix, true) {
				if obj.Err != nil {
					log.Fatalf("Failed to list objects: %v", obj.Err)
				}
				count++
				size += obj.Size
			}
			fmt.Printf("Objects: %d, total size: %.2f MB\n", count, float64(size)/(1024*1024))
			return
		}

		for obj := range store.ListObjects(ctx, minioPrefix, true) {
			if obj.Err != nil {
				log.Fatalf("Failed to list objects: %v", obj.Err)
			}
			fmt.Printf("%10d  %s\n", obj.Size, obj.Key)
		}
	},
}

func init() {
	minioCmd.Flags().StringVarP(&minioPrefix, "prefix", "p", "", "object prefix to operate on")
	minioCmd.Flags().BoolVarP(&minioStats, "stats", "s", false, "show storage statistics")
	minioCmd.Flags().BoolVarP(&minioDelete, "delete", "d", false, "delete all objects under the prefix")
	rootCmd.AddCommand(minioCmd)
}
