package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ClipFM/config"
	"ClipFM/model"

	"github.com/go-redis/redis/v8"
)

// RedisClient is the global Redis client.
var RedisClient *redis.Client

// trackCacheTTL bounds staleness of a cached track list; appends invalidate
// the key anyway, so the TTL only matters for out-of-band writes.
const trackCacheTTL = time.Hour

// ConnectRedis initializes the Redis connection.
func ConnectRedis(cfg *config.Config) error {
	RedisClient = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := RedisClient.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return nil
}

// CloseRedis closes the Redis connection.
func CloseRedis() error {
	if RedisClient != nil {
		return RedisClient.Close()
	}
	return nil
}

// TestRedis verifies the connection with a set/get/del round trip.
func TestRedis() error {
	if RedisClient == nil {
		return fmt.Errorf("Redis client not initialized")
	}

	ctx := context.Background()

	err := RedisClient.Set(ctx, "test_key", "Redis connection successful!", 5*time.Minute).Err()
	if err != nil {
		return fmt.Errorf("failed to set Redis key: %w", err)
	}

	val, err := RedisClient.Get(ctx, "test_key").Result()
	if err != nil {
		return fmt.Errorf("failed to get Redis key: %w", err)
	}

	if val != "Redis connection successful!" {
		return fmt.Errorf("unexpected value from Redis: got %s", val)
	}

	_, err = RedisClient.Del(ctx, "test_key").Result()
	if err != nil {
		return fmt.Errorf("failed to delete Redis key: %w", err)
	}

	return nil
}

// TrackListKey builds the cache key for a user's track list.
func TrackListKey(userID int64) string {
	return fmt.Sprintf("tracks:%d", userID)
}

// GetCachedTracks returns the cached track list for a user, or (nil, false)
// on a miss. Cache errors are treated as misses; the database is the source
// of truth.
func GetCachedTracks(ctx context.Context, userID int64) ([]*model.Track, bool) {
	if RedisClient == nil {
		return nil, false
	}

	raw, err := RedisClient.Get(ctx, TrackListKey(userID)).Result()
	if err != nil {
		return nil, false
	}

	var tracks []*model.Track
	if err := json.Unmarshal([]byte(raw), &tracks); err != nil {
		return nil, false
	}
	return tracks, true
}

// CacheTracks stores a user's track list.
func CacheTracks(ctx context.Context, userID int64, tracks []*model.Track) error {
	if RedisClient == nil {
		return fmt.Errorf("Redis client not initialized")
	}

	raw, err := json.Marshal(tracks)
	if err != nil {
		return fmt.Errorf("failed to marshal track list: %w", err)
	}

	if err := RedisClient.Set(ctx, TrackListKey(userID), raw, trackCacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache track list: %w", err)
	}
	return nil
}

// InvalidateTracks drops the cached track list after an append.
func InvalidateTracks(ctx context.Context, userID int64) error {
	if RedisClient == nil {
		return fmt.Errorf("Redis client not initialized")
	}
	if err := RedisClient.Del(ctx, TrackListKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate track list cache: %w", err)
	}
	return nil
}
