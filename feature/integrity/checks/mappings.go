package checks

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"asset-core/core/mapper"
	"asset-core/core/resource"
	"asset-core/core/storage"

	"github.com/minio/minio-go/v7"
)

// MappingReport lists disagreements between the identity map and the bucket.
type MappingReport struct {
	// Total is the number of mapped paths checked.
	Total int `json:"total"`
	// Missing lists mapped paths with no object.
	Missing []string `json:"missing"`
	// Unmapped lists objects no identity points at.
	Unmapped []string `json:"unmapped"`
}

// MappingOptions scopes CheckMappings.
type MappingOptions struct {
	// Prefix is prepended to mapped paths to form object keys.
	Prefix string
	// Exclude lists key prefixes never reported as unmapped.
	Exclude []string
}

// CheckMappings verifies every mapped path has an object and every object under the
// prefix is mapped.
func CheckMappings(ctx context.Context, client storage.Client, bucket string, entries []mapper.Entry, opts MappingOptions) (*MappingReport, error) {
	if err := requireBucket(ctx, client, bucket); err != nil {
		return nil, err
	}

	report := &MappingReport{Total: len(entries), Missing: []string{}, Unmapped: []string{}}
	mapped := make(map[string]bool, len(entries))

	for _, e := range entries {
		key := resource.ObjectName(opts.Prefix, e.Path)
		mapped[key] = true

		_, err := client.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
		if storage.IsNotFound(err) {
			report.Missing = append(report.Missing, e.Path)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", key, err)
		}
	}

	list := minio.ListObjectsOptions{Prefix: opts.Prefix, Recursive: true}
	for obj := range client.ListObjects(ctx, bucket, list) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", obj.Err)
		}
		if strings.HasSuffix(obj.Key, "/") || mapped[obj.Key] || excluded(obj.Key, opts.Exclude) {
			continue
		}
		report.Unmapped = append(report.Unmapped, obj.Key)
	}
	sort.Strings(report.Unmapped)

	return report, nil
}

func excluded(key string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(key, p) {
			return true
		}
	}
	return false
}
