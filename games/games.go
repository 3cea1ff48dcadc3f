package games

import (
	"encoding/json"
	"math"
	"math/rand"
	"sort"
)

// MaterializeFunc resolves one image reference into stored-asset form. Inline
// base64 payloads are persisted and replaced with their stored reference;
// anything else passes through unchanged. Failures are handled by the
// implementation (best effort) so the returned string is always usable.
type MaterializeFunc func(namespace, ref string) string

// Type is implemented once per game template. Each variant owns its document
// schema, its play-payload derivation and its answer checking; the scoring
// arithmetic is shared across variants.
type Type interface {
	// Slug is the template identifier this variant is registered under.
	Slug() string
	// Name is the human-readable template name, used when seeding templates.
	Name() string
	// NormalizeContent validates a content document against the variant's
	// schema, applies defaults for omitted tunables and returns the
	// canonical document.
	NormalizeContent(raw json.RawMessage) (json.RawMessage, error)
	// ProcessAssets materializes inline image payloads inside the document
	// into stored references using the provided resolver.
	ProcessAssets(raw json.RawMessage, materialize MaterializeFunc, namespace string) (json.RawMessage, error)
	// DerivePlay builds the player-facing payload: synthetic identifiers
	// assigned by authored order, answer-bearing fields stripped, sequences
	// shuffled where the document asks for it. rng is the only source of
	// randomness so derivations are reproducible under a fixed seed.
	DerivePlay(raw json.RawMessage, rng *rand.Rand) (any, error)
	// CheckAnswers scores a submitted answer set against the authoritative
	// document. Identifiers that do not resolve are ignored; the total is
	// always the document's full item count.
	CheckAnswers(raw json.RawMessage, submission json.RawMessage) (*Result, error)
}

// Result is the outcome of checking one answer submission.
type Result struct {
	CorrectCount int     `json:"correct_count"`
	TotalCount   int     `json:"total_count"`
	Score        int     `json:"score"`
	MaxScore     int     `json:"max_score"`
	Percentage   float64 `json:"percentage"`
}

func scoreResult(correct, total, perItem int) *Result {
	percentage := 0.0
	if total > 0 {
		percentage = float64(correct) / float64(total) * 100
	}
	return &Result{
		CorrectCount: correct,
		TotalCount:   total,
		Score:        correct * perItem,
		MaxScore:     total * perItem,
		Percentage:   round2(percentage),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

var registry = map[string]Type{}

func register(t Type) {
	registry[t.Slug()] = t
}

// Lookup returns the engine variant registered under slug.
func Lookup(slug string) (Type, bool) {
	t, ok := registry[slug]
	return t, ok
}

// All returns every registered variant, ordered by slug.
func All() []Type {
	slugs := make([]string, 0, len(registry))
	for slug := range registry {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	types := make([]Type, 0, len(slugs))
	for _, slug := range slugs {
		types = append(types, registry[slug])
	}
	return types
}

func init() {
	register(GroupSort{})
	register(FindTheMatch{})
	register(Quiz{})
}
