package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/st-academy/academy/internal/store"
)

// EventLogger persists LLM request events. Implemented by store.EventRepo.
type EventLogger interface {
	AppendLLMRequest(ctx context.Context, data store.LLMRequestEventData) error
}

type loggingProvider struct {
	Provider
	events EventLogger
	logger *zap.Logger
}

// WithLogging records every call as an llm_request_events row and a debug
// log line. Either sink may be nil; a failing sink never fails the call.
func WithLogging(p Provider, events EventLogger, logger *zap.Logger) Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &loggingProvider{Provider: p, events: events, logger: logger}
}

func (l *loggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.Provider.Generate(ctx, req)

	data := store.LLMRequestEventData{
		Provider:    l.Name(),
		Model:       l.Model(),
		Purpose:     req.Purpose,
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: transcript(req),
	}
	if data.Purpose == "" {
		data.Purpose = "unspecified"
	}
	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		if resp.Model != "" {
			data.Model = resp.Model
		}
		data.ResponseBody = string(resp.Content)
	}
	if err != nil {
		data.ErrorMessage = err.Error()
	}

	l.logger.Debug("llm request",
		zap.String("provider", data.Provider),
		zap.String("purpose", data.Purpose),
		zap.String("model", data.Model),
		zap.Int("input_tokens", data.InputTokens),
		zap.Int("output_tokens", data.OutputTokens),
		zap.Int64("latency_ms", data.LatencyMs),
		zap.Error(err),
	)

	if l.events != nil {
		if logErr := l.events.AppendLLMRequest(ctx, data); logErr != nil {
			l.logger.Warn("record llm request event", zap.Error(logErr))
		}
	}
	return resp, err
}

// transcript renders a request for the event log.
func transcript(req Request) string {
	var b strings.Builder
	if req.System != "" {
		fmt.Fprintf(&b, "[system]\n%s\n\n", req.System)
	}
	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", m.Role, m.Content)
	}
	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			fmt.Fprintf(&b, "[schema: %s]\n%s\n", req.Schema.Name, def)
		}
	}
	return b.String()
}
