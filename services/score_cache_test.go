package services

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestCache(t *testing.T) *ScoreCache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewScoreCache(client)
}

func TestScoreCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	cache := newTestCache(t)

	entries := []LeaderboardEntry{
		{UserID: "u1", Username: "alice", HighestScore: 80, TotalPlays: 2},
		{UserID: "u2", Username: "bob", HighestScore: 60, TotalPlays: 1},
	}
	cache.SetGameLeaderboard(ctx, "g1", 10, entries)

	var got []LeaderboardEntry
	if !cache.GetGameLeaderboard(ctx, "g1", 10, &got) {
		t.Fatal("expected cache hit")
	}
	if len(got) != 2 || got[0].UserID != "u1" || got[0].HighestScore != 80 {
		t.Fatalf("cached entries mangled: %+v", got)
	}

	// A different limit is a different cache entry.
	if cache.GetGameLeaderboard(ctx, "g1", 5, &got) {
		t.Fatal("expected miss for different limit")
	}
}

func TestScoreCacheInvalidate(t *testing.T) {
	ctx := context.Background()
	cache := newTestCache(t)

	cache.SetGameLeaderboard(ctx, "g1", 10, []LeaderboardEntry{{UserID: "u1"}})
	cache.SetGameLeaderboard(ctx, "g1", 25, []LeaderboardEntry{{UserID: "u1"}})
	cache.SetGameLeaderboard(ctx, "g2", 10, []LeaderboardEntry{{UserID: "u2"}})
	cache.SetTemplateLeaderboard(ctx, "group-sort", 10, []TemplateLeaderboardEntry{{UserID: "u1"}})

	cache.Invalidate(ctx, "g1", "group-sort")

	var game []LeaderboardEntry
	if cache.GetGameLeaderboard(ctx, "g1", 10, &game) || cache.GetGameLeaderboard(ctx, "g1", 25, &game) {
		t.Fatal("g1 leaderboards should be invalidated")
	}
	if !cache.GetGameLeaderboard(ctx, "g2", 10, &game) {
		t.Fatal("g2 leaderboard should survive")
	}
	var template []TemplateLeaderboardEntry
	if cache.GetTemplateLeaderboard(ctx, "group-sort", 10, &template) {
		t.Fatal("template leaderboard should be invalidated")
	}
}

func TestScoreCacheNilClientIsNoOp(t *testing.T) {
	ctx := context.Background()
	cache := NewScoreCache(nil)

	cache.SetGameLeaderboard(ctx, "g1", 10, []LeaderboardEntry{{UserID: "u1"}})
	var got []LeaderboardEntry
	if cache.GetGameLeaderboard(ctx, "g1", 10, &got) {
		t.Fatal("nil client must always miss")
	}
	cache.Invalidate(ctx, "g1", "group-sort")
}
