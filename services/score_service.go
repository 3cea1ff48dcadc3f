package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"playbox/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const defaultScoreLimit = 10

// ScoreService records play outcomes and derives scoring history and
// leaderboards. Score records are append-only and commutative across
// concurrent writers; no coordination is needed.
type ScoreService struct {
	db    *gorm.DB
	cache *ScoreCache
}

func NewScoreService(db *gorm.DB, cache *ScoreCache) *ScoreService {
	return &ScoreService{db: db, cache: cache}
}

type SubmitScoreRequest struct {
	GameID    string          `json:"game_id" binding:"required,uuid"`
	Score     int             `json:"score" binding:"min=0"`
	TimeSpent *int            `json:"time_spent" binding:"omitempty,min=0"`
	GameData  json.RawMessage `json:"game_data"`
}

type LeaderboardEntry struct {
	UserID       string `json:"user_id"`
	Username     string `json:"username"`
	HighestScore int    `json:"highest_score"`
	TotalPlays   int    `json:"total_plays"`
}

type UserGameScore struct {
	GameID       string    `json:"game_id"`
	GameName     string    `json:"game_name"`
	HighestScore int       `json:"highest_score"`
	TotalPlays   int       `json:"total_plays"`
	LastPlayed   time.Time `json:"last_played"`
}

type TemplateLeaderboardEntry struct {
	UserID     string `json:"user_id"`
	Username   string `json:"username"`
	TotalScore int    `json:"total_score"`
	TotalPlays int    `json:"total_plays"`
}

// Submit appends an immutable score record. Missing game is NotFound;
// an unpublished one is Forbidden.
func (s *ScoreService) Submit(ctx context.Context, userID string, req *SubmitScoreRequest) (*models.GameScore, error) {
	var game models.Game
	if err := s.db.Preload("Template").First(&game, "id = ?", req.GameID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Game not found")
		}
		return nil, err
	}
	if !game.IsPublished {
		return nil, forbidden("Cannot submit score for unpublished game")
	}

	score := models.GameScore{
		ID:        uuid.NewString(),
		UserID:    userID,
		GameID:    req.GameID,
		Score:     req.Score,
		TimeSpent: req.TimeSpent,
		GameData:  req.GameData,
	}
	if err := s.db.Create(&score).Error; err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, game.ID, game.Template.Slug)
	return &score, nil
}

// Highest returns the user's best record for the game, or a zero-value
// sentinel when they have none.
func (s *ScoreService) Highest(userID, gameID string) (*models.GameScore, error) {
	var score models.GameScore
	err := s.db.
		Where("user_id = ? AND game_id = ?", userID, gameID).
		Order("score DESC").
		First(&score).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.GameScore{UserID: userID, GameID: gameID, Score: 0}, nil
	}
	if err != nil {
		return nil, err
	}
	return &score, nil
}

// History returns the user's most recent records for the game, newest first.
func (s *ScoreService) History(userID, gameID string, limit int) ([]models.GameScore, error) {
	if limit <= 0 {
		limit = defaultScoreLimit
	}
	var history []models.GameScore
	err := s.db.
		Where("user_id = ? AND game_id = ?", userID, gameID).
		Order("created_at DESC").
		Limit(limit).
		Find(&history).Error
	return history, err
}

// Leaderboard ranks users for one game by their highest score. A missing
// username never fails the whole board; the row gets a placeholder.
func (s *ScoreService) Leaderboard(ctx context.Context, gameID string, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = defaultScoreLimit
	}

	var entries []LeaderboardEntry
	if s.cache.GetGameLeaderboard(ctx, gameID, limit, &entries) {
		return entries, nil
	}

	var rows []struct {
		UserID       string
		HighestScore int
		TotalPlays   int
	}
	err := s.db.Model(&models.GameScore{}).
		Select("user_id, MAX(score) AS highest_score, COUNT(*) AS total_plays").
		Where("game_id = ?", gameID).
		Group("user_id").
		Order("highest_score DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	entries = make([]LeaderboardEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, LeaderboardEntry{
			UserID:       row.UserID,
			Username:     s.usernameFor(row.UserID),
			HighestScore: row.HighestScore,
			TotalPlays:   row.TotalPlays,
		})
	}

	s.cache.SetGameLeaderboard(ctx, gameID, limit, entries)
	return entries, nil
}

// UserAllScores returns one row per game the user has played, most recently
// played first.
func (s *ScoreService) UserAllScores(userID string) ([]UserGameScore, error) {
	var rows []struct {
		GameID       string
		HighestScore int
		TotalPlays   int
		LastPlayed   time.Time
	}
	err := s.db.Model(&models.GameScore{}).
		Select("game_id, MAX(score) AS highest_score, COUNT(*) AS total_plays, MAX(created_at) AS last_played").
		Where("user_id = ?", userID).
		Group("game_id").
		Order("last_played DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make([]UserGameScore, 0, len(rows))
	for _, row := range rows {
		gameName := "Unknown"
		var game models.Game
		if err := s.db.Select("name").First(&game, "id = ?", row.GameID).Error; err == nil {
			gameName = game.Name
		}
		result = append(result, UserGameScore{
			GameID:       row.GameID,
			GameName:     gameName,
			HighestScore: row.HighestScore,
			TotalPlays:   row.TotalPlays,
			LastPlayed:   row.LastPlayed,
		})
	}
	return result, nil
}

// TemplateLeaderboard sums scores across every game of one template per user
// for cross-game ranking within a game type. An unknown template yields an
// empty board.
func (s *ScoreService) TemplateLeaderboard(ctx context.Context, slug string, limit int) ([]TemplateLeaderboardEntry, error) {
	if limit <= 0 {
		limit = defaultScoreLimit
	}

	var entries []TemplateLeaderboardEntry
	if s.cache.GetTemplateLeaderboard(ctx, slug, limit, &entries) {
		return entries, nil
	}

	var template models.GameTemplate
	if err := s.db.Where("slug = ?", slug).First(&template).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []TemplateLeaderboardEntry{}, nil
		}
		return nil, err
	}

	var rows []struct {
		UserID     string
		TotalScore int
		TotalPlays int
	}
	err := s.db.Model(&models.GameScore{}).
		Select("game_scores.user_id, SUM(game_scores.score) AS total_score, COUNT(*) AS total_plays").
		Joins("JOIN games ON games.id = game_scores.game_id").
		Where("games.template_id = ?", template.ID).
		Group("game_scores.user_id").
		Order("total_score DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	entries = make([]TemplateLeaderboardEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, TemplateLeaderboardEntry{
			UserID:     row.UserID,
			Username:   s.usernameFor(row.UserID),
			TotalScore: row.TotalScore,
			TotalPlays: row.TotalPlays,
		})
	}

	s.cache.SetTemplateLeaderboard(ctx, slug, limit, entries)
	return entries, nil
}

func (s *ScoreService) usernameFor(userID string) string {
	var user models.User
	if err := s.db.Select("username").First(&user, "id = ?", userID).Error; err != nil {
		return "Unknown"
	}
	return user.Username
}
