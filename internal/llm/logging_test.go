package llm

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/st-academy/academy/internal/store"
)

type eventSink struct {
	events []store.LLMRequestEventData
	err    error
}

func (s *eventSink) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	s.events = append(s.events, data)
	return s.err
}

func TestLoggingRecordsSuccess(t *testing.T) {
	sink := &eventSink{}
	mock := NewMockProvider(MockReply{
		Content: `{"explanation":"x","hint":"y"}`,
		Usage:   Usage{InputTokens: 12, OutputTokens: 7},
	})
	p := WithLogging(mock, sink, nil)

	_, err := p.Generate(context.Background(), Request{
		Purpose:  "tutor",
		System:   "be brief",
		Messages: []Message{{Role: RoleUser, Content: "why?"}},
		Schema:   testSchema(),
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if len(sink.events) != 1 {
		t.Fatalf("events = %d, want 1", len(sink.events))
	}
	e := sink.events[0]
	if e.Provider != "mock" || e.Model != "mock" || e.Purpose != "tutor" || !e.Success {
		t.Errorf("event = %+v", e)
	}
	if e.InputTokens != 12 || e.OutputTokens != 7 {
		t.Errorf("tokens = %d/%d, want 12/7", e.InputTokens, e.OutputTokens)
	}
	for _, want := range []string{"[system]", "be brief", "[user]", "why?", "[schema: test-explanation]"} {
		if !strings.Contains(e.RequestBody, want) {
			t.Errorf("request body missing %q:\n%s", want, e.RequestBody)
		}
	}
	if e.ResponseBody != `{"explanation":"x","hint":"y"}` {
		t.Errorf("response body = %q", e.ResponseBody)
	}
}

func TestLoggingRecordsFailure(t *testing.T) {
	sink := &eventSink{}
	p := WithLogging(NewMockProvider(MockReply{Err: errDown}), sink, nil)

	if _, err := p.Generate(context.Background(), Request{}); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v", err)
	}
	e := sink.events[0]
	if e.Success || !strings.Contains(e.ErrorMessage, "down") {
		t.Errorf("event = %+v", e)
	}
	if e.Purpose != "unspecified" {
		t.Errorf("purpose = %q, want unspecified", e.Purpose)
	}
}

func TestLoggingSinkFailureIsIgnored(t *testing.T) {
	sink := &eventSink{err: errors.New("disk full")}
	p := WithLogging(NewMockProvider(MockReply{Content: `{}`}), sink, nil)
	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("Generate: %v", err)
	}
}

func TestLoggingNilSink(t *testing.T) {
	p := WithLogging(NewMockProvider(MockReply{Content: `{}`}), nil, nil)
	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("Generate: %v", err)
	}
}

type blockingProvider struct{}

func (blockingProvider) Generate(ctx context.Context, _ Request) (*Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}
func (blockingProvider) Name() string  { return "blocking" }
func (blockingProvider) Model() string { return "blocking-1" }

func TestTimeout(t *testing.T) {
	p := WithTimeout(blockingProvider{}, 10*time.Millisecond)
	_, err := p.Generate(context.Background(), Request{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want DeadlineExceeded", err)
	}
	if p.Model() != "blocking-1" {
		t.Errorf("Model = %q", p.Model())
	}
	if WithTimeout(blockingProvider{}, 0) != (blockingProvider{}) {
		t.Error("zero timeout should return the provider unchanged")
	}
}
