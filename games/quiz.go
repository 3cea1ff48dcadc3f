package games

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
)

const (
	quizMinQuestions = 1
	quizMaxQuestions = 50
	quizMinOptions   = 2
	quizMaxOptions   = 6
)

// QuizContent is the authoritative multiple-choice document. Each question has
// exactly one correct option; that flag never leaves the server.
type QuizContent struct {
	ScorePerQuestion     int            `json:"score_per_question"`
	TimeLimit            int            `json:"time_limit"`
	IsQuestionRandomized FlexBool       `json:"is_question_randomized"`
	IsOptionRandomized   FlexBool       `json:"is_option_randomized"`
	Questions            []QuizQuestion `json:"questions"`
}

type QuizQuestion struct {
	QuestionText string       `json:"question_text"`
	Options      []QuizOption `json:"options"`
}

type QuizOption struct {
	OptionText string `json:"option_text"`
	IsCorrect  bool   `json:"is_correct"`
}

type QuizPlay struct {
	Questions        []QuizPlayQuestion `json:"questions"`
	TimeLimit        int                `json:"timeLimit"`
	ScorePerQuestion int                `json:"scorePerQuestion"`
}

type QuizPlayQuestion struct {
	ID      string           `json:"id"`
	Text    string           `json:"text"`
	Options []QuizPlayOption `json:"options"`
}

// QuizPlayOption deliberately has no correctness field.
type QuizPlayOption struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type QuizSubmission struct {
	Answers []QuizAnswer `json:"answers"`
}

type QuizAnswer struct {
	QuestionID string `json:"question_id"`
	OptionID   string `json:"option_id"`
}

type Quiz struct{}

func (Quiz) Slug() string { return "quiz" }
func (Quiz) Name() string { return "Quiz" }

func (Quiz) NormalizeContent(raw json.RawMessage) (json.RawMessage, error) {
	var content QuizContent
	if err := json.Unmarshal(raw, &content); err != nil {
		return nil, fmt.Errorf("invalid quiz content: %w", err)
	}

	if content.ScorePerQuestion == 0 {
		content.ScorePerQuestion = defaultScorePerItem
	}
	if content.TimeLimit == 0 {
		content.TimeLimit = defaultTimeLimit
	}

	if content.ScorePerQuestion < minScorePerItem || content.ScorePerQuestion > maxScorePerItem {
		return nil, fmt.Errorf("score_per_question must be between %d and %d", minScorePerItem, maxScorePerItem)
	}
	if content.TimeLimit < minTimeLimit || content.TimeLimit > maxTimeLimit {
		return nil, fmt.Errorf("time_limit must be between %d and %d seconds", minTimeLimit, maxTimeLimit)
	}
	if len(content.Questions) < quizMinQuestions || len(content.Questions) > quizMaxQuestions {
		return nil, fmt.Errorf("questions must contain between %d and %d entries", quizMinQuestions, quizMaxQuestions)
	}
	for i, question := range content.Questions {
		if strings.TrimSpace(question.QuestionText) == "" {
			return nil, fmt.Errorf("question %d is missing text", i)
		}
		if len(question.Options) < quizMinOptions || len(question.Options) > quizMaxOptions {
			return nil, fmt.Errorf("question %d must have between %d and %d options", i, quizMinOptions, quizMaxOptions)
		}
		correctCount := 0
		for j, option := range question.Options {
			if strings.TrimSpace(option.OptionText) == "" {
				return nil, fmt.Errorf("option %d of question %d is missing text", j, i)
			}
			if option.IsCorrect {
				correctCount++
			}
		}
		if correctCount != 1 {
			return nil, fmt.Errorf("question %d must have exactly one correct option", i)
		}
	}

	return json.Marshal(content)
}

func (Quiz) ProcessAssets(raw json.RawMessage, _ MaterializeFunc, _ string) (json.RawMessage, error) {
	return raw, nil
}

func (Quiz) DerivePlay(raw json.RawMessage, rng *rand.Rand) (any, error) {
	var content QuizContent
	if err := json.Unmarshal(raw, &content); err != nil {
		return nil, fmt.Errorf("invalid quiz content: %w", err)
	}

	questions := make([]QuizPlayQuestion, len(content.Questions))
	for i, question := range content.Questions {
		options := make([]QuizPlayOption, len(question.Options))
		for j, option := range question.Options {
			options[j] = QuizPlayOption{
				ID:   fmt.Sprintf("opt-%d-%d", i, j),
				Text: option.OptionText,
			}
		}
		questions[i] = QuizPlayQuestion{
			ID:      fmt.Sprintf("q-%d", i),
			Text:    question.QuestionText,
			Options: options,
		}
	}

	if content.IsQuestionRandomized.Bool() {
		rng.Shuffle(len(questions), func(a, b int) {
			questions[a], questions[b] = questions[b], questions[a]
		})
	}
	if content.IsOptionRandomized.Bool() {
		for i := range questions {
			options := questions[i].Options
			rng.Shuffle(len(options), func(a, b int) {
				options[a], options[b] = options[b], options[a]
			})
		}
	}

	return &QuizPlay{
		Questions:        questions,
		TimeLimit:        content.TimeLimit,
		ScorePerQuestion: content.ScorePerQuestion,
	}, nil
}

func (Quiz) CheckAnswers(raw json.RawMessage, submission json.RawMessage) (*Result, error) {
	var content QuizContent
	if err := json.Unmarshal(raw, &content); err != nil {
		return nil, fmt.Errorf("invalid quiz content: %w", err)
	}
	var sub QuizSubmission
	if err := json.Unmarshal(submission, &sub); err != nil {
		return nil, fmt.Errorf("invalid answer submission: %w", err)
	}

	correctOption := make(map[int]int, len(content.Questions))
	for i, question := range content.Questions {
		for j, option := range question.Options {
			if option.IsCorrect {
				correctOption[i] = j
			}
		}
	}

	total := len(content.Questions)
	correct := 0
	seen := make(map[int]bool)
	for _, answer := range sub.Answers {
		questionIndex, err := parseIndexedID(answer.QuestionID, "q-")
		if err != nil || seen[questionIndex] {
			continue
		}
		want, ok := correctOption[questionIndex]
		if !ok {
			continue
		}
		seen[questionIndex] = true
		// Option identifiers embed their question index; an option belonging
		// to a different question can never be correct.
		rest, found := strings.CutPrefix(answer.OptionID, "opt-")
		if !found {
			continue
		}
		parts := strings.SplitN(rest, "-", 2)
		if len(parts) != 2 {
			continue
		}
		ownerIndex, err1 := strconv.Atoi(parts[0])
		optionIndex, err2 := strconv.Atoi(parts[1])
		if err1 != nil || err2 != nil || ownerIndex != questionIndex {
			continue
		}
		if optionIndex == want {
			correct++
		}
	}

	return scoreResult(correct, total, content.ScorePerQuestion), nil
}
