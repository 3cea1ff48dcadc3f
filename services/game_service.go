package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"playbox/assets"
	"playbox/games"
	"playbox/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GameService is the content lifecycle manager plus the play/check gateways.
// It is generic over game types: the template slug picked from the route
// selects the engine variant that understands the content document.
type GameService struct {
	db     *gorm.DB
	assets assets.Store
	seed   func() int64
}

func NewGameService(db *gorm.DB, store assets.Store) *GameService {
	return &GameService{
		db:     db,
		assets: store,
		seed:   func() int64 { return time.Now().UnixNano() },
	}
}

// NewGameServiceWithSeed fixes the randomization seed for deterministic
// derivations in tests.
func NewGameServiceWithSeed(db *gorm.DB, store assets.Store, seed func() int64) *GameService {
	s := NewGameService(db, store)
	s.seed = seed
	return s
}

type CreateGameRequest struct {
	Name                 string          `json:"name" binding:"required,max=128"`
	Description          string          `json:"description" binding:"max=2000"`
	ThumbnailImage       string          `json:"thumbnail_image"`
	IsPublishImmediately FlexBool        `json:"is_publish_immediately"`
	Content              json.RawMessage `json:"content" binding:"required"`
}

// UpdateGameRequest distinguishes absent fields (nil pointer, keep stored
// value) from explicitly-set ones, including explicit empties.
type UpdateGameRequest struct {
	Name           *string         `json:"name" binding:"omitempty,max=128"`
	Description    *string         `json:"description" binding:"omitempty,max=2000"`
	ThumbnailImage *string         `json:"thumbnail_image"`
	IsPublish      *FlexBool       `json:"is_publish"`
	Content        json.RawMessage `json:"content"`
}

type GameDetail struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Thumbnail   string          `json:"thumbnail"`
	IsPublished bool            `json:"is_published"`
	Content     json.RawMessage `json:"content"`
}

// PlayView is the ephemeral player-facing view of one game; GameData is the
// derived, answer-redacted payload and is never persisted.
type PlayView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail"`
	IsPublished bool   `json:"is_published"`
	GameData    any    `json:"game_data"`
}

// Create persists a new authored game and returns only its identifier;
// callers re-fetch if they need the stored shape.
func (s *GameService) Create(slug string, req *CreateGameRequest, creatorID string) (string, error) {
	gameType, template, err := s.resolveType(slug)
	if err != nil {
		return "", err
	}

	var existing models.Game
	err = s.db.Where("name = ?", req.Name).First(&existing).Error
	if err == nil {
		return "", conflict("Game with this name already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	content, err := gameType.NormalizeContent(req.Content)
	if err != nil {
		return "", invalidInput(err.Error())
	}

	gameID := uuid.NewString()
	namespace := assetNamespace(slug, gameID)

	thumbnail := ""
	if req.ThumbnailImage != "" {
		thumbnail = assets.MaterializeOrLog(s.assets, namespace, req.ThumbnailImage)
	}

	content, err = gameType.ProcessAssets(content, s.materializer(), namespace)
	if err != nil {
		return "", invalidInput(err.Error())
	}

	game := models.Game{
		ID:          gameID,
		Name:        req.Name,
		Description: req.Description,
		Thumbnail:   thumbnail,
		IsPublished: req.IsPublishImmediately.Bool(),
		CreatorID:   creatorID,
		TemplateID:  template.ID,
		Content:     content,
	}
	if err := s.db.Create(&game).Error; err != nil {
		return "", err
	}
	return gameID, nil
}

// GetDetail returns the full authoritative document, answer-bearing fields
// included. Authors only: creator or super-admin, regardless of publish state.
func (s *GameService) GetDetail(slug, gameID, requesterID, requesterRole string) (*GameDetail, error) {
	game, err := s.findGame(slug, gameID)
	if err != nil {
		return nil, err
	}
	if !canManage(game.CreatorID, requesterID, requesterRole) {
		return nil, forbidden("You are not authorized to access this game")
	}
	return &GameDetail{
		ID:          game.ID,
		Name:        game.Name,
		Description: game.Description,
		Thumbnail:   game.Thumbnail,
		IsPublished: game.IsPublished,
		Content:     game.Content,
	}, nil
}

// Update applies a partial patch. Fields present in the patch overwrite the
// stored value (explicit empties included); absent fields keep theirs. A
// patch with zero effective changes succeeds as a no-op.
func (s *GameService) Update(slug, gameID string, req *UpdateGameRequest, requesterID, requesterRole string) error {
	gameType, _, err := s.resolveType(slug)
	if err != nil {
		return err
	}
	game, err := s.findGame(slug, gameID)
	if err != nil {
		return err
	}
	if !canManage(game.CreatorID, requesterID, requesterRole) {
		return forbidden("You are not authorized to edit this game")
	}

	updates, err := buildGameUpdates(gameType, game, req, s.materializer())
	if err != nil {
		return err
	}
	if len(updates) == 0 {
		return nil
	}
	return s.db.Model(&models.Game{}).Where("id = ?", game.ID).Updates(updates).Error
}

// buildGameUpdates computes the column updates for a patch. Kept separate
// from the transaction so the merge semantics are testable without a store.
func buildGameUpdates(gameType games.Type, game *models.Game, req *UpdateGameRequest, materialize games.MaterializeFunc) (map[string]any, error) {
	updates := make(map[string]any)
	namespace := assetNamespace(gameType.Slug(), game.ID)

	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.ThumbnailImage != nil {
		if *req.ThumbnailImage == "" {
			updates["thumbnail"] = ""
		} else if stored := materialize(namespace, *req.ThumbnailImage); stored != "" {
			updates["thumbnail"] = stored
		}
		// A failed materialization leaves the stored thumbnail unchanged.
	}
	if req.IsPublish != nil {
		updates["is_published"] = req.IsPublish.Bool()
	}
	if req.Content != nil {
		merged, err := mergeContentPatch(game.Content, req.Content)
		if err != nil {
			return nil, invalidInput(err.Error())
		}
		content, err := gameType.NormalizeContent(merged)
		if err != nil {
			return nil, invalidInput(err.Error())
		}
		content, err = gameType.ProcessAssets(content, materialize, namespace)
		if err != nil {
			return nil, invalidInput(err.Error())
		}
		updates["content"] = content
	}
	return updates, nil
}

// mergeContentPatch overlays the patch's top-level keys onto the stored
// document. Tunables the patch omits keep their stored values; only keys
// present in the patch overwrite, so a categories-only patch never resets
// score_per_item or time_limit to defaults.
func mergeContentPatch(stored, patch json.RawMessage) (json.RawMessage, error) {
	base := map[string]json.RawMessage{}
	if len(stored) > 0 {
		if err := json.Unmarshal(stored, &base); err != nil {
			return nil, fmt.Errorf("stored content is not an object: %w", err)
		}
		if base == nil {
			base = map[string]json.RawMessage{}
		}
	}
	overlay := map[string]json.RawMessage{}
	if err := json.Unmarshal(patch, &overlay); err != nil {
		return nil, fmt.Errorf("content patch is not an object: %w", err)
	}
	for key, value := range overlay {
		base[key] = value
	}
	return json.Marshal(base)
}

// Delete removes the record atomically, then cleans up the game's asset
// namespace best-effort; an asset failure never undoes the deletion.
func (s *GameService) Delete(slug, gameID, requesterID, requesterRole string) error {
	game, err := s.findGame(slug, gameID)
	if err != nil {
		return err
	}
	if !canManage(game.CreatorID, requesterID, requesterRole) {
		return forbidden("You are not authorized to delete this game")
	}

	if err := s.db.Delete(&models.Game{}, "id = ?", game.ID).Error; err != nil {
		return err
	}
	namespace := assetNamespace(slug, game.ID)
	if err := s.assets.RemoveNamespace(namespace); err != nil {
		log.Printf("Failed to remove assets for %s: %v", namespace, err)
	}
	return nil
}

// GetPlay derives the randomized, answer-redacted play payload. Public
// retrieval of an unpublished game is NotFound, never Forbidden, so strangers
// learn nothing; private retrieval is owner-only.
func (s *GameService) GetPlay(slug, gameID string, public bool, requesterID string) (*PlayView, error) {
	gameType, _, err := s.resolveType(slug)
	if err != nil {
		return nil, err
	}
	game, err := s.findGame(slug, gameID)
	if err != nil {
		return nil, err
	}
	if public && !game.IsPublished {
		return nil, notFound("Game not found")
	}
	if !public && game.CreatorID != requesterID {
		return nil, forbidden("You are not authorized to access this game")
	}

	rng := rand.New(rand.NewSource(s.seed()))
	payload, err := gameType.DerivePlay(game.Content, rng)
	if err != nil {
		return nil, err
	}
	return &PlayView{
		ID:          game.ID,
		Name:        game.Name,
		Description: game.Description,
		Thumbnail:   game.Thumbnail,
		IsPublished: game.IsPublished,
		GameData:    payload,
	}, nil
}

// CheckAnswers scores a submission against the authoritative document. Only
// published games are checkable.
func (s *GameService) CheckAnswers(slug, gameID string, submission json.RawMessage) (*games.Result, error) {
	gameType, _, err := s.resolveType(slug)
	if err != nil {
		return nil, err
	}
	game, err := s.findGame(slug, gameID)
	if err != nil {
		return nil, err
	}
	if !game.IsPublished {
		return nil, notFound("Game not found")
	}

	result, err := gameType.CheckAnswers(game.Content, submission)
	if err != nil {
		return nil, invalidInput(err.Error())
	}
	return result, nil
}

func (s *GameService) resolveType(slug string) (games.Type, *models.GameTemplate, error) {
	gameType, ok := games.Lookup(slug)
	if !ok {
		return nil, nil, notFound("Game template not found")
	}
	var template models.GameTemplate
	if err := s.db.Where("slug = ?", slug).First(&template).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, notFound("Game template not found")
		}
		return nil, nil, err
	}
	return gameType, &template, nil
}

// findGame scopes the lookup to the route's template so one type's endpoints
// never resolve another type's games.
func (s *GameService) findGame(slug, gameID string) (*models.Game, error) {
	var game models.Game
	err := s.db.
		Joins("JOIN game_templates ON game_templates.id = games.template_id").
		Where("games.id = ? AND game_templates.slug = ?", gameID, slug).
		First(&game).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Game not found")
		}
		return nil, err
	}
	return &game, nil
}

func (s *GameService) materializer() games.MaterializeFunc {
	return func(namespace, ref string) string {
		if !assets.IsInline(ref) {
			return ref
		}
		return assets.MaterializeOrLog(s.assets, namespace, ref)
	}
}

func canManage(creatorID, requesterID, requesterRole string) bool {
	return requesterRole == models.RoleSuperAdmin || creatorID == requesterID
}

func assetNamespace(slug, gameID string) string {
	return fmt.Sprintf("game/%s/%s", slug, gameID)
}
