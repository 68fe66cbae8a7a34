package llm

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
)

// MockReply is one scripted MockProvider result.
type MockReply struct {
	Content string
	Usage   Usage
	Err     error
}

// MockProvider replays scripted replies in order and records requests.
// Replies are validated against the request schema like a real provider.
type MockProvider struct {
	mu       sync.Mutex
	replies  []MockReply
	requests []Request
}

// NewMockProvider returns a provider that replays replies.
func NewMockProvider(replies ...MockReply) *MockProvider {
	return &MockProvider{replies: replies}
}

func (m *MockProvider) Name() string  { return "mock" }
func (m *MockProvider) Model() string { return "mock" }

// Generate pops the next reply. An empty script fails as unavailable.
func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	if len(m.replies) == 0 {
		m.mu.Unlock()
		return nil, &Error{Kind: KindUnavailable, Provider: "mock", Err: errors.New("no scripted reply")}
	}
	r := m.replies[0]
	m.replies = m.replies[1:]
	m.mu.Unlock()

	if r.Err != nil {
		return nil, r.Err
	}
	return reply(m.Name(), req, json.RawMessage(r.Content), FinishStop, r.Usage, "mock")
}

// Script appends replies.
func (m *MockProvider) Script(replies ...MockReply) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replies = append(m.replies, replies...)
}

// Requests returns a copy of every request received.
func (m *MockProvider) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Request(nil), m.requests...)
}
