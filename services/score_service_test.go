package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"playbox/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("database handle: %v", err)
	}
	// A single connection keeps every query on the same in-memory database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	err = db.AutoMigrate(
		&models.User{},
		&models.GameTemplate{},
		&models.Game{},
		&models.GameScore{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, id, username string) {
	t.Helper()
	user := models.User{ID: id, Username: username, PasswordHash: "x", Role: models.RoleUser}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
}

func seedTemplate(t *testing.T, db *gorm.DB, id, slug string) {
	t.Helper()
	template := models.GameTemplate{ID: id, Slug: slug, Name: slug}
	if err := db.Create(&template).Error; err != nil {
		t.Fatalf("seed template %s: %v", slug, err)
	}
}

const validGroupSortContent = `{
	"score_per_item": 10,
	"time_limit": 60,
	"categories": [
		{"category_name": "A", "items": [{"item_text": "i1"}]},
		{"category_name": "B", "items": [{"item_text": "i2"}]}
	]
}`

func seedGame(t *testing.T, db *gorm.DB, id, name, creatorID, templateID string, published bool) {
	t.Helper()
	game := models.Game{
		ID:          id,
		Name:        name,
		IsPublished: published,
		CreatorID:   creatorID,
		TemplateID:  templateID,
		Content:     json.RawMessage(validGroupSortContent),
	}
	if err := db.Create(&game).Error; err != nil {
		t.Fatalf("seed game %s: %v", name, err)
	}
}

func TestLeaderboardRanksByHighestScore(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := NewScoreService(db, NewScoreCache(nil))

	seedUser(t, db, "u1", "alice")
	seedUser(t, db, "u2", "bob")
	seedTemplate(t, db, "t1", "group-sort")
	seedGame(t, db, "g1", "Animals", "u1", "t1", true)

	for _, record := range []struct {
		userID string
		score  int
	}{
		{"u1", 50},
		{"u1", 80},
		{"u2", 60},
	} {
		_, err := svc.Submit(ctx, record.userID, &SubmitScoreRequest{GameID: "g1", Score: record.score})
		if err != nil {
			t.Fatalf("submit %+v: %v", record, err)
		}
	}

	entries, err := svc.Leaderboard(ctx, "g1", 10)
	if err != nil {
		t.Fatalf("leaderboard failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 rows, got %+v", entries)
	}
	if entries[0].UserID != "u1" || entries[0].HighestScore != 80 || entries[0].TotalPlays != 2 {
		t.Fatalf("top row wrong: %+v", entries[0])
	}
	if entries[1].UserID != "u2" || entries[1].HighestScore != 60 || entries[1].TotalPlays != 1 {
		t.Fatalf("second row wrong: %+v", entries[1])
	}
	if entries[0].Username != "alice" || entries[1].Username != "bob" {
		t.Fatalf("usernames not resolved: %+v", entries)
	}
}

func TestSubmitGating(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := NewScoreService(db, NewScoreCache(nil))

	seedUser(t, db, "u1", "alice")
	seedTemplate(t, db, "t1", "group-sort")
	seedGame(t, db, "g1", "Draft", "u1", "t1", false)

	var appErr *AppError

	_, err := svc.Submit(ctx, "u1", &SubmitScoreRequest{GameID: "g1", Score: 10})
	if !errors.As(err, &appErr) || appErr.Kind != KindForbidden {
		t.Fatalf("unpublished game should be Forbidden, got %v", err)
	}

	_, err = svc.Submit(ctx, "u1", &SubmitScoreRequest{GameID: "missing", Score: 10})
	if !errors.As(err, &appErr) || appErr.Kind != KindNotFound {
		t.Fatalf("missing game should be NotFound, got %v", err)
	}
}

func TestHighestScoreZeroSentinel(t *testing.T) {
	db := newTestDB(t)
	svc := NewScoreService(db, NewScoreCache(nil))

	score, err := svc.Highest("u1", "g1")
	if err != nil {
		t.Fatalf("highest failed: %v", err)
	}
	if score.Score != 0 || score.UserID != "u1" || score.GameID != "g1" {
		t.Fatalf("expected zero sentinel, got %+v", score)
	}
}

func TestTemplateLeaderboardSumsAcrossGames(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := NewScoreService(db, NewScoreCache(nil))

	seedUser(t, db, "u1", "alice")
	seedTemplate(t, db, "t1", "group-sort")
	seedGame(t, db, "g1", "Animals", "u1", "t1", true)
	seedGame(t, db, "g2", "Plants", "u1", "t1", true)

	for _, record := range []struct {
		gameID string
		score  int
	}{
		{"g1", 30},
		{"g2", 40},
	} {
		if _, err := svc.Submit(ctx, "u1", &SubmitScoreRequest{GameID: record.gameID, Score: record.score}); err != nil {
			t.Fatalf("submit %+v: %v", record, err)
		}
	}

	entries, err := svc.TemplateLeaderboard(ctx, "group-sort", 10)
	if err != nil {
		t.Fatalf("template leaderboard failed: %v", err)
	}
	if len(entries) != 1 || entries[0].TotalScore != 70 || entries[0].TotalPlays != 2 {
		t.Fatalf("cross-game totals wrong: %+v", entries)
	}

	empty, err := svc.TemplateLeaderboard(ctx, "no-such-template", 10)
	if err != nil {
		t.Fatalf("unknown template should not fail: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("unknown template should yield an empty board, got %+v", empty)
	}
}
