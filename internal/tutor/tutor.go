// Package tutor asks an LLM to explain a wrong quiz answer without giving
// the correct one away.
package tutor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/st-academy/academy/internal/curriculum"
	"github.com/st-academy/academy/internal/llm"
	"github.com/st-academy/academy/internal/markdown"
)

// Purpose labels tutor calls in the LLM event log.
const Purpose = "tutor"

// ErrCorrectAnswer is returned when Explain is asked about a correct choice.
var ErrCorrectAnswer = errors.New("choice is already correct")

// Config holds generation settings.
type Config struct {
	MaxTokens   int
	Temperature float64
	// ContextChars caps how much lesson text is sent as context.
	ContextChars int
}

// DefaultConfig returns sensible defaults for explanations.
func DefaultConfig() Config {
	return Config{
		MaxTokens:    400,
		Temperature:  0.4,
		ContextChars: 1200,
	}
}

// Input is one wrong answer to explain.
type Input struct {
	Lesson   curriculum.Lesson
	Question curriculum.QuizQuestion
	ChoiceID string
}

// Explanation is the tutor's reply.
type Explanation struct {
	QuestionID  string
	Explanation string
	Hint        string
}

// Service generates explanations. It is safe for concurrent use.
type Service struct {
	provider llm.Provider
	cfg      Config
}

// NewService creates a tutor over provider.
func NewService(provider llm.Provider, cfg Config) *Service {
	return &Service{provider: provider, cfg: cfg}
}

type explanationOutput struct {
	Explanation string `json:"explanation"`
	Hint        string `json:"hint"`
}

// Explain asks the provider why Input.ChoiceID is wrong.
func (s *Service) Explain(ctx context.Context, in Input) (*Explanation, error) {
	chosen, ok := in.Question.Choice(in.ChoiceID)
	if !ok {
		return nil, fmt.Errorf("question %q has no choice %q", in.Question.ID, in.ChoiceID)
	}
	if in.Question.IsCorrect(in.ChoiceID) {
		return nil, ErrCorrectAnswer
	}

	req := llm.Request{
		Purpose: Purpose,
		System:  systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(in, chosen, s.cfg.ContextChars)},
		},
		Schema:      ExplanationSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("tutor explanation: %w", err)
	}

	var out explanationOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse tutor response: %w", err)
	}

	return &Explanation{
		QuestionID:  in.Question.ID,
		Explanation: strings.TrimSpace(out.Explanation),
		Hint:        strings.TrimSpace(out.Hint),
	}, nil
}

// lessonContext flattens the lesson body to plain text, truncated to limit
// runes.
func lessonContext(l curriculum.Lesson, limit int) string {
	var parts []string
	for _, b := range markdown.Render(l.Content.Markdown) {
		if t := b.PlainText(); t != "" {
			parts = append(parts, t)
		}
	}
	text := strings.Join(parts, "\n")
	if r := []rune(text); limit > 0 && len(r) > limit {
		text = string(r[:limit]) + "..."
	}
	return text
}
