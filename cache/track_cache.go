package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"WonFM/db"
	"WonFM/model"

	"github.com/go-redis/redis/v8"
)

// recentTracksTTL bounds staleness if an invalidation is ever missed.
const recentTracksTTL = 10 * time.Minute

// GetRecentTracksKey builds the Redis key for a recent-tracks listing of n items.
func GetRecentTracksKey(n int) string {
	return fmt.Sprintf("tracks:recent:%d", n)
}

// GetRecentTracks returns the cached recent-tracks listing, or redis.Nil
// wrapped in the returned error when there is no cached value.
func GetRecentTracks(ctx context.Context, n int) ([]*model.Track, error) {
	if db.RedisClient == nil {
		return nil, fmt.Errorf("Redis client not initialized")
	}

	raw, err := db.RedisClient.Get(ctx, GetRecentTracksKey(n)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get recent tracks from cache: %w", err)
	}

	var tracks []*model.Track
	if err := json.Unmarshal([]byte(raw), &tracks); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached tracks: %w", err)
	}
	return tracks, nil
}

// SetRecentTracks stores a recent-tracks listing with a short TTL.
func SetRecentTracks(ctx context.Context, n int, tracks []*model.Track) error {
	if db.RedisClient == nil {
		return fmt.Errorf("Redis client not initialized")
	}

	raw, err := json.Marshal(tracks)
	if err != nil {
		return fmt.Errorf("failed to marshal tracks for cache: %w", err)
	}

	if err := db.RedisClient.Set(ctx, GetRecentTracksKey(n), raw, recentTracksTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache recent tracks: %w", err)
	}
	return nil
}

// InvalidateRecentTracks drops every cached recent-tracks listing. Called
// after each successful insert so fresh listings include the new row.
func InvalidateRecentTracks(ctx context.Context) error {
	if db.RedisClient == nil {
		return fmt.Errorf("Redis client not initialized")
	}

	iter := db.RedisClient.Scan(ctx, 0, "tracks:recent:*", 100).Iterator()
	for iter.Next(ctx) {
		if err := db.RedisClient.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete cached listing %s: %w", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan recent-tracks keys: %w", err)
	}
	return nil
}
