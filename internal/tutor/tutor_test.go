package tutor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/st-academy/academy/internal/curriculum"
	"github.com/st-academy/academy/internal/llm"
)

func testInput() Input {
	q := curriculum.QuizQuestion{
		ID:              "q1",
		Prompt:          "What pays transaction fees?",
		CorrectChoiceID: "a",
		Choices: []curriculum.Choice{
			{ID: "a", Label: "The fee payer account"},
			{ID: "b", Label: "The validator"},
		},
	}
	return Input{
		Lesson: curriculum.Lesson{
			ID:      "m1",
			Title:   "Transactions",
			Content: curriculum.Content{Markdown: "# Transactions\n\nEvery transaction has a **fee payer**.\n\n```\nsolana transfer\n```"},
			Quiz:    []curriculum.QuizQuestion{q},
		},
		Question: q,
		ChoiceID: "b",
	}
}

func TestExplain(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockReply{
		Content: `{"explanation":"  Validators earn fees, they do not pay them. ","hint":"Who signs first?"}`,
	})
	svc := NewService(mock, DefaultConfig())

	got, err := svc.Explain(context.Background(), testInput())
	if err != nil {
		t.Fatalf("Explain: %v", err)
	}
	if got.QuestionID != "q1" {
		t.Errorf("QuestionID = %q", got.QuestionID)
	}
	if got.Explanation != "Validators earn fees, they do not pay them." {
		t.Errorf("Explanation = %q", got.Explanation)
	}
	if got.Hint != "Who signs first?" {
		t.Errorf("Hint = %q", got.Hint)
	}

	reqs := mock.Requests()
	if len(reqs) != 1 {
		t.Fatalf("calls = %d, want 1", len(reqs))
	}
	req := reqs[0]
	if req.Schema != ExplanationSchema {
		t.Error("request did not use ExplanationSchema")
	}
	if req.Purpose != Purpose {
		t.Errorf("Purpose = %q, want %q", req.Purpose, Purpose)
	}
	msg := req.Messages[0].Content
	for _, want := range []string{"Lesson: Transactions", "fee payer", "What pays transaction fees?", "The learner chose: The validator"} {
		if !strings.Contains(msg, want) {
			t.Errorf("prompt missing %q:\n%s", want, msg)
		}
	}
	if strings.Contains(msg, "**") {
		t.Error("prompt should carry plain lesson text, not markdown")
	}
}

func TestExplainRejectsCorrectChoice(t *testing.T) {
	in := testInput()
	in.ChoiceID = "a"
	mock := llm.NewMockProvider()
	_, err := NewService(mock, DefaultConfig()).Explain(context.Background(), in)
	if !errors.Is(err, ErrCorrectAnswer) {
		t.Fatalf("err = %v, want ErrCorrectAnswer", err)
	}
	if len(mock.Requests()) != 0 {
		t.Error("provider should not be called")
	}
}

func TestExplainUnknownChoice(t *testing.T) {
	in := testInput()
	in.ChoiceID = "zz"
	if _, err := NewService(llm.NewMockProvider(), DefaultConfig()).Explain(context.Background(), in); err == nil {
		t.Fatal("expected error")
	}
}

func TestExplainProviderError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockReply{Err: &llm.Error{Kind: llm.KindUnavailable}})
	_, err := NewService(mock, DefaultConfig()).Explain(context.Background(), testInput())
	if !errors.Is(err, llm.ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
}

func TestExplainBadJSON(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockReply{Content: `not json`})
	_, err := NewService(mock, DefaultConfig()).Explain(context.Background(), testInput())
	if !errors.Is(err, llm.ErrInvalidOutput) {
		t.Fatalf("err = %v, want ErrInvalidOutput", err)
	}
}

func TestLessonContextTruncates(t *testing.T) {
	l := curriculum.Lesson{Content: curriculum.Content{Markdown: strings.Repeat("word ", 100)}}
	got := lessonContext(l, 20)
	if len([]rune(got)) != 23 || !strings.HasSuffix(got, "...") {
		t.Errorf("lessonContext = %q", got)
	}
}
