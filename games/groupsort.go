package games

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
)

const (
	groupSortMinCategories = 2
	groupSortMaxCategories = 10
	groupSortMinItems      = 1
	groupSortMaxItems      = 20

	defaultScorePerItem = 10
	minScorePerItem     = 1
	maxScorePerItem     = 1000

	defaultTimeLimit = 60
	minTimeLimit     = 30
	maxTimeLimit     = 600
)

// GroupSortContent is the authoritative document for a group-sort game. Item
// category membership is implicit in the nesting; the derived identifiers
// cat-<i> and item-<i>-<j> are recomputed from authored order on every
// derivation and never persisted.
type GroupSortContent struct {
	ScorePerItem         int                 `json:"score_per_item"`
	TimeLimit            int                 `json:"time_limit"`
	IsCategoryRandomized FlexBool            `json:"is_category_randomized"`
	IsItemRandomized     FlexBool            `json:"is_item_randomized"`
	Categories           []GroupSortCategory `json:"categories"`
}

type GroupSortCategory struct {
	CategoryName string          `json:"category_name"`
	Items        []GroupSortItem `json:"items"`
}

type GroupSortItem struct {
	ItemText  string `json:"item_text"`
	ItemImage string `json:"item_image,omitempty"`
	ItemHint  string `json:"item_hint,omitempty"`
}

// GroupSortPlay is the player-facing payload. It carries the current grouping
// (that is the puzzle) but nothing that separates it from the authoritative
// one.
type GroupSortPlay struct {
	Categories   []GroupSortPlayCategory `json:"categories"`
	TimeLimit    int                     `json:"timeLimit"`
	ScorePerItem int                     `json:"scorePerItem"`
}

type GroupSortPlayCategory struct {
	ID    string              `json:"id"`
	Name  string              `json:"name"`
	Items []GroupSortPlayItem `json:"items"`
}

type GroupSortPlayItem struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Image string `json:"image,omitempty"`
	Hint  string `json:"hint,omitempty"`
}

// GroupSortSubmission is one guess per attempted item, keyed by derived
// identifiers.
type GroupSortSubmission struct {
	Answers []GroupSortAnswer `json:"answers"`
}

type GroupSortAnswer struct {
	ItemID     string `json:"item_id"`
	CategoryID string `json:"category_id"`
}

type GroupSort struct{}

func (GroupSort) Slug() string { return "group-sort" }
func (GroupSort) Name() string { return "Group Sort" }

func (GroupSort) NormalizeContent(raw json.RawMessage) (json.RawMessage, error) {
	var content GroupSortContent
	if err := json.Unmarshal(raw, &content); err != nil {
		return nil, fmt.Errorf("invalid group-sort content: %w", err)
	}

	if content.ScorePerItem == 0 {
		content.ScorePerItem = defaultScorePerItem
	}
	if content.TimeLimit == 0 {
		content.TimeLimit = defaultTimeLimit
	}

	if content.ScorePerItem < minScorePerItem || content.ScorePerItem > maxScorePerItem {
		return nil, fmt.Errorf("score_per_item must be between %d and %d", minScorePerItem, maxScorePerItem)
	}
	if content.TimeLimit < minTimeLimit || content.TimeLimit > maxTimeLimit {
		return nil, fmt.Errorf("time_limit must be between %d and %d seconds", minTimeLimit, maxTimeLimit)
	}
	if len(content.Categories) < groupSortMinCategories || len(content.Categories) > groupSortMaxCategories {
		return nil, fmt.Errorf("categories must contain between %d and %d entries", groupSortMinCategories, groupSortMaxCategories)
	}
	for i, category := range content.Categories {
		if strings.TrimSpace(category.CategoryName) == "" {
			return nil, fmt.Errorf("category %d is missing a name", i)
		}
		if len(category.Items) < groupSortMinItems || len(category.Items) > groupSortMaxItems {
			return nil, fmt.Errorf("category %q must contain between %d and %d items", category.CategoryName, groupSortMinItems, groupSortMaxItems)
		}
		for j, item := range category.Items {
			if strings.TrimSpace(item.ItemText) == "" {
				return nil, fmt.Errorf("item %d in category %q is missing text", j, category.CategoryName)
			}
		}
	}

	return json.Marshal(content)
}

func (GroupSort) ProcessAssets(raw json.RawMessage, materialize MaterializeFunc, namespace string) (json.RawMessage, error) {
	var content GroupSortContent
	if err := json.Unmarshal(raw, &content); err != nil {
		return nil, fmt.Errorf("invalid group-sort content: %w", err)
	}
	for i := range content.Categories {
		for j := range content.Categories[i].Items {
			if img := content.Categories[i].Items[j].ItemImage; img != "" {
				content.Categories[i].Items[j].ItemImage = materialize(namespace, img)
			}
		}
	}
	return json.Marshal(content)
}

func (GroupSort) DerivePlay(raw json.RawMessage, rng *rand.Rand) (any, error) {
	var content GroupSortContent
	if err := json.Unmarshal(raw, &content); err != nil {
		return nil, fmt.Errorf("invalid group-sort content: %w", err)
	}

	// Identifiers are bound to authored order before any shuffle.
	categories := make([]GroupSortPlayCategory, len(content.Categories))
	for i, category := range content.Categories {
		items := make([]GroupSortPlayItem, len(category.Items))
		for j, item := range category.Items {
			items[j] = GroupSortPlayItem{
				ID:    fmt.Sprintf("item-%d-%d", i, j),
				Text:  item.ItemText,
				Image: item.ItemImage,
				Hint:  item.ItemHint,
			}
		}
		categories[i] = GroupSortPlayCategory{
			ID:    fmt.Sprintf("cat-%d", i),
			Name:  category.CategoryName,
			Items: items,
		}
	}

	if content.IsCategoryRandomized.Bool() {
		rng.Shuffle(len(categories), func(a, b int) {
			categories[a], categories[b] = categories[b], categories[a]
		})
	}
	if content.IsItemRandomized.Bool() {
		for i := range categories {
			items := categories[i].Items
			rng.Shuffle(len(items), func(a, b int) {
				items[a], items[b] = items[b], items[a]
			})
		}
	}

	return &GroupSortPlay{
		Categories:   categories,
		TimeLimit:    content.TimeLimit,
		ScorePerItem: content.ScorePerItem,
	}, nil
}

func (GroupSort) CheckAnswers(raw json.RawMessage, submission json.RawMessage) (*Result, error) {
	var content GroupSortContent
	if err := json.Unmarshal(raw, &content); err != nil {
		return nil, fmt.Errorf("invalid group-sort content: %w", err)
	}
	var sub GroupSortSubmission
	if err := json.Unmarshal(submission, &sub); err != nil {
		return nil, fmt.Errorf("invalid answer submission: %w", err)
	}

	// Authoritative item -> category index map, same derivation as the play
	// payload identifiers. The client's pairing is only a claim.
	totalItems := 0
	categoryByItem := make(map[string]int)
	for catIndex, category := range content.Categories {
		totalItems += len(category.Items)
		for itemIndex := range category.Items {
			categoryByItem[fmt.Sprintf("item-%d-%d", catIndex, itemIndex)] = catIndex
		}
	}

	correct := 0
	seen := make(map[string]bool)
	for _, answer := range sub.Answers {
		authoritative, ok := categoryByItem[answer.ItemID]
		if !ok || seen[answer.ItemID] {
			// Stale or foreign identifiers, and repeated guesses for an
			// item, count toward neither correct nor total.
			continue
		}
		seen[answer.ItemID] = true
		claimed, err := parseIndexedID(answer.CategoryID, "cat-")
		if err != nil {
			continue
		}
		if claimed == authoritative {
			correct++
		}
	}

	return scoreResult(correct, totalItems, content.ScorePerItem), nil
}

func parseIndexedID(id, prefix string) (int, error) {
	rest, ok := strings.CutPrefix(id, prefix)
	if !ok {
		return 0, fmt.Errorf("malformed identifier %q", id)
	}
	return strconv.Atoi(rest)
}
