// Package llm is a small provider-neutral client used by the tutor. Each
// provider turns a Request into one structured JSON reply; decorators add
// timeouts, retries and an event log.
package llm

import (
	"context"
	"encoding/json"
)

// Provider generates one reply per Request.
type Provider interface {
	// Generate sends req and returns the reply. When req.Schema is set the
	// reply Content has been validated against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// Name is the provider label used in logs: anthropic, openai, ...
	Name() string

	// Model is the resolved model id requests are sent to.
	Model() string
}

// Request is a single-turn prompt.
type Request struct {
	// Purpose labels the call in the event log, e.g. "tutor".
	Purpose string

	System   string
	Messages []Message

	// Schema, when set, asks the provider for JSON matching it.
	Schema *Schema

	MaxTokens   int
	Temperature float64
}

// Message is one conversation turn.
type Message struct {
	Role    Role
	Content string
}

// Role is the author of a Message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Finish says why generation stopped.
type Finish string

const (
	FinishStop   Finish = "stop"
	FinishLength Finish = "length"
)

// Response is a provider reply.
type Response struct {
	Content json.RawMessage
	Usage   Usage
	Model   string
	Finish  Finish
}

// Usage counts tokens for one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Total returns input plus output tokens.
func (u Usage) Total() int { return u.InputTokens + u.OutputTokens }

// reply checks provider output against req and builds the Response.
// A reply cut off by the token limit cannot hold complete JSON, so it is
// reported as truncated when a schema was requested.
func reply(provider string, req Request, content json.RawMessage, fin Finish, usage Usage, model string) (*Response, error) {
	if req.Schema != nil {
		if fin == FinishLength {
			return nil, &Error{Kind: KindTruncated, Provider: provider, Content: content}
		}
		if err := req.Schema.Validate(content); err != nil {
			return nil, &Error{Kind: KindInvalidOutput, Provider: provider, Content: content, Err: err}
		}
	}
	return &Response{Content: content, Usage: usage, Model: model, Finish: fin}, nil
}
