package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const leaderboardTTL = 30 * time.Second

// ScoreCache keeps leaderboard responses in Redis for a short TTL. Entries
// are invalidated when a score lands for the game, so the cache only ever
// serves slightly stale rankings between submissions.
type ScoreCache struct {
	client *redis.Client
}

func NewScoreCache(client *redis.Client) *ScoreCache {
	return &ScoreCache{client: client}
}

func (c *ScoreCache) gameKey(gameID string, limit int) string {
	return fmt.Sprintf("leaderboard:game:%s:%d", gameID, limit)
}

func (c *ScoreCache) templateKey(slug string, limit int) string {
	return fmt.Sprintf("leaderboard:template:%s:%d", slug, limit)
}

func (c *ScoreCache) get(ctx context.Context, key string, out any) bool {
	if c == nil || c.client == nil {
		return false
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("Failed to read leaderboard cache %s: %v", key, err)
		}
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		log.Printf("Failed to decode leaderboard cache %s: %v", key, err)
		return false
	}
	return true
}

func (c *ScoreCache) set(ctx context.Context, key string, value any) {
	if c == nil || c.client == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		log.Printf("Failed to encode leaderboard cache %s: %v", key, err)
		return
	}
	if err := c.client.Set(ctx, key, data, leaderboardTTL).Err(); err != nil {
		log.Printf("Failed to write leaderboard cache %s: %v", key, err)
	}
}

func (c *ScoreCache) GetGameLeaderboard(ctx context.Context, gameID string, limit int, out *[]LeaderboardEntry) bool {
	return c.get(ctx, c.gameKey(gameID, limit), out)
}

func (c *ScoreCache) SetGameLeaderboard(ctx context.Context, gameID string, limit int, entries []LeaderboardEntry) {
	c.set(ctx, c.gameKey(gameID, limit), entries)
}

func (c *ScoreCache) GetTemplateLeaderboard(ctx context.Context, slug string, limit int, out *[]TemplateLeaderboardEntry) bool {
	return c.get(ctx, c.templateKey(slug, limit), out)
}

func (c *ScoreCache) SetTemplateLeaderboard(ctx context.Context, slug string, limit int, entries []TemplateLeaderboardEntry) {
	c.set(ctx, c.templateKey(slug, limit), entries)
}

// Invalidate drops every cached leaderboard touched by a new score for the
// game. Cache failures are logged, never surfaced.
func (c *ScoreCache) Invalidate(ctx context.Context, gameID, templateSlug string) {
	if c == nil || c.client == nil {
		return
	}
	patterns := []string{
		fmt.Sprintf("leaderboard:game:%s:*", gameID),
		fmt.Sprintf("leaderboard:template:%s:*", templateSlug),
	}
	for _, pattern := range patterns {
		// SCAN keeps invalidation incremental; KEYS would block Redis on the
		// whole keyspace.
		iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
		var keys []string
		for iter.Next(ctx) {
			keys = append(keys, iter.Val())
		}
		if err := iter.Err(); err != nil {
			log.Printf("Failed to scan leaderboard cache %s: %v", pattern, err)
			continue
		}
		if len(keys) == 0 {
			continue
		}
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			log.Printf("Failed to invalidate leaderboard cache %s: %v", pattern, err)
		}
	}
}
