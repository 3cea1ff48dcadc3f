package games

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
)

const (
	matchingMinItems    = 1
	matchingMaxItems    = 50
	defaultInitialLives = 3
)

// FindTheMatchContent holds question/answer pairs. A pair's index is the only
// link between the two columns; derived identifiers q-<i> and ans-<i> are
// recomputed from authored order on every derivation.
type FindTheMatchContent struct {
	ScorePerItem int                `json:"score_per_item"`
	InitialLives int                `json:"initial_lives"`
	Items        []FindTheMatchPair `json:"items"`
}

type FindTheMatchPair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// FindTheMatchPlay keeps questions in authored order and always shuffles the
// answer column; aligned columns would give the pairing away.
type FindTheMatchPlay struct {
	Questions    []FindTheMatchPlayEntry `json:"questions"`
	Answers      []FindTheMatchPlayEntry `json:"answers"`
	InitialLives int                     `json:"initialLives"`
	ScorePerItem int                     `json:"scorePerItem"`
}

type FindTheMatchPlayEntry struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type FindTheMatchSubmission struct {
	Answers []FindTheMatchAnswer `json:"answers"`
}

type FindTheMatchAnswer struct {
	QuestionID string `json:"question_id"`
	AnswerID   string `json:"answer_id"`
}

type FindTheMatch struct{}

func (FindTheMatch) Slug() string { return "find-the-match" }
func (FindTheMatch) Name() string { return "Find the Match" }

func (FindTheMatch) NormalizeContent(raw json.RawMessage) (json.RawMessage, error) {
	var content FindTheMatchContent
	if err := json.Unmarshal(raw, &content); err != nil {
		return nil, fmt.Errorf("invalid find-the-match content: %w", err)
	}

	if content.ScorePerItem == 0 {
		content.ScorePerItem = defaultScorePerItem
	}
	if content.InitialLives == 0 {
		content.InitialLives = defaultInitialLives
	}

	if content.ScorePerItem < minScorePerItem || content.ScorePerItem > maxScorePerItem {
		return nil, fmt.Errorf("score_per_item must be between %d and %d", minScorePerItem, maxScorePerItem)
	}
	if content.InitialLives < 1 {
		return nil, fmt.Errorf("initial_lives must be at least 1")
	}
	if len(content.Items) < matchingMinItems || len(content.Items) > matchingMaxItems {
		return nil, fmt.Errorf("items must contain between %d and %d pairs", matchingMinItems, matchingMaxItems)
	}
	for i, pair := range content.Items {
		if strings.TrimSpace(pair.Question) == "" {
			return nil, fmt.Errorf("pair %d is missing a question", i)
		}
		if strings.TrimSpace(pair.Answer) == "" {
			return nil, fmt.Errorf("pair %d is missing an answer", i)
		}
	}

	return json.Marshal(content)
}

func (FindTheMatch) ProcessAssets(raw json.RawMessage, _ MaterializeFunc, _ string) (json.RawMessage, error) {
	// Pairs are text-only; nothing to materialize.
	return raw, nil
}

func (FindTheMatch) DerivePlay(raw json.RawMessage, rng *rand.Rand) (any, error) {
	var content FindTheMatchContent
	if err := json.Unmarshal(raw, &content); err != nil {
		return nil, fmt.Errorf("invalid find-the-match content: %w", err)
	}

	questions := make([]FindTheMatchPlayEntry, len(content.Items))
	answers := make([]FindTheMatchPlayEntry, len(content.Items))
	for i, pair := range content.Items {
		questions[i] = FindTheMatchPlayEntry{ID: fmt.Sprintf("q-%d", i), Text: pair.Question}
		answers[i] = FindTheMatchPlayEntry{ID: fmt.Sprintf("ans-%d", i), Text: pair.Answer}
	}
	rng.Shuffle(len(answers), func(a, b int) {
		answers[a], answers[b] = answers[b], answers[a]
	})

	return &FindTheMatchPlay{
		Questions:    questions,
		Answers:      answers,
		InitialLives: content.InitialLives,
		ScorePerItem: content.ScorePerItem,
	}, nil
}

func (FindTheMatch) CheckAnswers(raw json.RawMessage, submission json.RawMessage) (*Result, error) {
	var content FindTheMatchContent
	if err := json.Unmarshal(raw, &content); err != nil {
		return nil, fmt.Errorf("invalid find-the-match content: %w", err)
	}
	var sub FindTheMatchSubmission
	if err := json.Unmarshal(submission, &sub); err != nil {
		return nil, fmt.Errorf("invalid answer submission: %w", err)
	}

	total := len(content.Items)
	correct := 0
	seen := make(map[int]bool)
	for _, answer := range sub.Answers {
		questionIndex, err := parseIndexedID(answer.QuestionID, "q-")
		if err != nil || questionIndex < 0 || questionIndex >= total || seen[questionIndex] {
			continue
		}
		seen[questionIndex] = true
		answerIndex, err := parseIndexedID(answer.AnswerID, "ans-")
		if err != nil {
			continue
		}
		if answerIndex == questionIndex {
			correct++
		}
	}

	return scoreResult(correct, total, content.ScorePerItem), nil
}
