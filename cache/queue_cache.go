package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// QueueItem is one entry of a user's listening queue. The queue is the
// server-side twin of the player UI queue: ephemeral, per-user, ordered.
type QueueItem struct {
	SongID     int64  `json:"songId"`
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	CoverImage string `json:"coverImage,omitempty"`
	Duration   int    `json:"duration,omitempty"` // seconds
	Position   int    `json:"position"`
	AddedAt    int64  `json:"addedAt,omitempty"`
}

// queueTTL bounds how long an idle queue survives.
const queueTTL = 24 * time.Hour

// GetQueueKey builds the Redis key for a user's listening queue.
func GetQueueKey(userID int64) string {
	return fmt.Sprintf("queue:%d", userID)
}

// AddToQueue appends a song to the end of the user's listening queue.
func AddToQueue(ctx context.Context, userID int64, item QueueItem) error {
	if RedisClient == nil {
		return fmt.Errorf("Redis client not initialized")
	}

	queueKey := GetQueueKey(userID)

	items, err := GetQueue(ctx, userID)
	if err != nil && err != redis.Nil {
		return fmt.Errorf("failed to get current queue: %w", err)
	}

	if len(items) == 0 {
		item.Position = 0
	} else {
		maxPos := 0
		for _, existing := range items {
			if existing.Position > maxPos {
				maxPos = existing.Position
			}
		}
		item.Position = maxPos + 1
	}
	item.AddedAt = time.Now().Unix()

	itemJSON, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to marshal queue item: %w", err)
	}

	// Sorted set scored by position keeps the queue ordered.
	err = RedisClient.ZAdd(ctx, queueKey, &redis.Z{
		Score:  float64(item.Position),
		Member: itemJSON,
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to add song to queue: %w", err)
	}

	if err := RedisClient.Expire(ctx, queueKey, queueTTL).Err(); err != nil {
		return fmt.Errorf("failed to set queue expiration: %w", err)
	}

	return nil
}

// GetQueue returns the user's listening queue in play order.
func GetQueue(ctx context.Context, userID int64) ([]QueueItem, error) {
	if RedisClient == nil {
		return nil, fmt.Errorf("Redis client not initialized")
	}

	queueKey := GetQueueKey(userID)

	result, err := RedisClient.ZRangeByScore(ctx, queueKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: "+inf",
	}).Result()
	if err != nil {
		if err == redis.Nil {
			return []QueueItem{}, nil
		}
		return nil, fmt.Errorf("failed to get queue: %w", err)
	}

	var queue []QueueItem
	for _, itemJSON := range result {
		var item QueueItem
		if err := json.Unmarshal([]byte(itemJSON), &item); err != nil {
			return nil, fmt.Errorf("failed to unmarshal queue item: %w", err)
		}
		queue = append(queue, item)
	}

	return queue, nil
}

// RemoveFromQueue removes a song from the user's listening queue.
// Removing a song that is not queued is a no-op.
func RemoveFromQueue(ctx context.Context, userID int64, songID int64) error {
	if RedisClient == nil {
		return fmt.Errorf("Redis client not initialized")
	}

	queueKey := GetQueueKey(userID)

	items, err := GetQueue(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get queue: %w", err)
	}

	for i, item := range items {
		if item.SongID != songID {
			continue
		}

		itemJSON, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("failed to marshal queue item: %w", err)
		}

		if err := RedisClient.ZRem(ctx, queueKey, itemJSON).Err(); err != nil {
			return fmt.Errorf("failed to remove song from queue: %w", err)
		}

		// Close the position gap left by the removed entry.
		if i < len(items)-1 {
			if err := reorderQueue(ctx, userID); err != nil {
				return fmt.Errorf("failed to reorder queue: %w", err)
			}
		}

		return nil
	}

	return nil
}

// ClearQueue empties the user's listening queue.
func ClearQueue(ctx context.Context, userID int64) error {
	if RedisClient == nil {
		return fmt.Errorf("Redis client not initialized")
	}

	queueKey := GetQueueKey(userID)
	if err := RedisClient.Del(ctx, queueKey).Err(); err != nil {
		return fmt.Errorf("failed to clear queue: %w", err)
	}

	return nil
}

// UpdateQueueOrder rewrites the queue in the given song order. Songs
// not present in the current queue are skipped.
func UpdateQueueOrder(ctx context.Context, userID int64, songIDs []int64) error {
	if RedisClient == nil {
		return fmt.Errorf("Redis client not initialized")
	}

	items, err := GetQueue(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get queue: %w", err)
	}

	itemMap := make(map[int64]QueueItem, len(items))
	for _, item := range items {
		itemMap[item.SongID] = item
	}

	if err := ClearQueue(ctx, userID); err != nil {
		return fmt.Errorf("failed to clear queue before reordering: %w", err)
	}

	queueKey := GetQueueKey(userID)
	for i, songID := range songIDs {
		item, exists := itemMap[songID]
		if !exists {
			continue
		}
		item.Position = i

		itemJSON, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("failed to marshal queue item: %w", err)
		}

		err = RedisClient.ZAdd(ctx, queueKey, &redis.Z{
			Score:  float64(i),
			Member: itemJSON,
		}).Err()
		if err != nil {
			return fmt.Errorf("failed to add song to reordered queue: %w", err)
		}
	}

	if err := RedisClient.Expire(ctx, queueKey, queueTTL).Err(); err != nil {
		return fmt.Errorf("failed to set queue expiration: %w", err)
	}

	return nil
}

// reorderQueue rewrites positions as a dense 0..n-1 sequence.
func reorderQueue(ctx context.Context, userID int64) error {
	items, err := GetQueue(ctx, userID)
	if err != nil {
		return err
	}

	queueKey := GetQueueKey(userID)
	if err := RedisClient.Del(ctx, queueKey).Err(); err != nil {
		return err
	}

	for i, item := range items {
		item.Position = i
		itemJSON, err := json.Marshal(item)
		if err != nil {
			return err
		}

		err = RedisClient.ZAdd(ctx, queueKey, &redis.Z{
			Score:  float64(i),
			Member: itemJSON,
		}).Err()
		if err != nil {
			return err
		}
	}

	return nil
}
