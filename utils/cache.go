package utils

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"
)

// GenerateCacheKey builds a deterministic "<resource>:<sha256>" key from query parameters.
// Keys are sorted so the same query always lands on the same entry.
func GenerateCacheKey(resourceType string, filters map[string]string) string {
	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	query := fmt.Sprintf("resource=%s", resourceType)
	for _, k := range keys {
		query += fmt.Sprintf("&%s=%s", k, filters[k])
	}

	sum := sha256.Sum256([]byte(query))
	return fmt.Sprintf("%s:%s", resourceType, hex.EncodeToString(sum[:]))
}

// InvalidateCache deletes every cached key for the given resource type
func InvalidateCache(ctx context.Context, rdb *redis.Client, resourceType string) error {
	// SCAN instead of KEYS so a large keyspace does not block Redis
	iter := rdb.Scan(ctx, 0, fmt.Sprintf("%s:*", resourceType), 100).Iterator()
	for iter.Next(ctx) {
		if err := rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete key %s: %w", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("error during SCAN iteration: %w", err)
	}
	return nil
}
