package storage

import (
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
)

// ListObjects prints the objects under prefix, one per line. Used by the
// minio maintenance command.
func (s *MinioStorage) ListObjects(ctx context.Context, prefix string) error {
	count := 0
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return fmt.Errorf("failed to list objects in bucket %s: %w", s.bucket, obj.Err)
		}
		fmt.Printf("%-60s %10d bytes  %s\n", obj.Key, obj.Size, obj.LastModified.Format("2006-01-02 15:04:05"))
		count++
	}
	fmt.Printf("Total: %d objects\n", count)
	return nil
}

// PrintBucketStats prints per-prefix object counts and total size.
func (s *MinioStorage) PrintBucketStats(ctx context.Context) error {
	counts := make(map[string]int)
	sizes := make(map[string]int64)
	var totalSize int64
	total := 0

	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Recursive: true}) {
		if obj.Err != nil {
			return fmt.Errorf("failed to list objects in bucket %s: %w", s.bucket, obj.Err)
		}
		prefix := "(root)"
		for i := 0; i < len(obj.Key); i++ {
			if obj.Key[i] == '/' {
				prefix = obj.Key[:i]
				break
			}
		}
		counts[prefix]++
		sizes[prefix] += obj.Size
		totalSize += obj.Size
		total++
	}

	fmt.Printf("Bucket: %s\n", s.bucket)
	for prefix, n := range counts {
		fmt.Printf("  %-12s %6d objects  %12d bytes\n", prefix, n, sizes[prefix])
	}
	fmt.Printf("  %-12s %6d objects  %12d bytes\n", "total", total, totalSize)
	return nil
}

// DeletePrefix removes every object under prefix. Used to clear out stale
// uploads from the maintenance command.
func (s *MinioStorage) DeletePrefix(ctx context.Context, prefix string) error {
	deleted := 0
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return fmt.Errorf("failed to list objects in bucket %s: %w", s.bucket, obj.Err)
		}
		if err := s.client.RemoveObject(ctx, s.bucket, obj.Key, minio.RemoveObjectOptions{}); err != nil {
			return fmt.Errorf("failed to remove %s: %w", obj.Key, err)
		}
		deleted++
	}
	fmt.Printf("Deleted %d objects under %q\n", deleted, prefix)
	return nil
}
