package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const openRouterBaseURL = "https://openrouter.ai/api/v1"

// OpenAIProvider calls the Chat Completions API. OpenRouter and other
// compatible endpoints use it with a different base URL and name.
type OpenAIProvider struct {
	client *openai.Client
	model  string
	name   string
}

// NewOpenAI creates an OpenAI provider. cfg.BaseURL optionally points it
// at a compatible endpoint.
func NewOpenAI(cfg Config) (*OpenAIProvider, error) {
	return newOpenAICompatible("openai", cfg)
}

// NewOpenRouter creates a provider for OpenRouter's OpenAI-compatible API.
func NewOpenRouter(cfg Config) (*OpenAIProvider, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = openRouterBaseURL
	}
	return newOpenAICompatible("openrouter", cfg)
}

func newOpenAICompatible(name string, cfg Config) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s API key is required", name)
	}
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	return &OpenAIProvider{
		client: openai.NewClientWithConfig(oc),
		model:  cfg.ResolvedModel(),
		name:   name,
	}, nil
}

func (p *OpenAIProvider) Name() string  { return p.name }
func (p *OpenAIProvider) Model() string { return p.model }

func (p *OpenAIProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	chat := openai.ChatCompletionRequest{
		Model:               p.model,
		MaxCompletionTokens: req.MaxTokens,
		Temperature:         float32(req.Temperature),
	}
	if req.System != "" {
		chat.Messages = append(chat.Messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	for _, m := range req.Messages {
		role := openai.ChatMessageRoleUser
		if m.Role == RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		chat.Messages = append(chat.Messages, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}

	if req.Schema != nil {
		def, err := json.Marshal(req.Schema.Definition)
		if err != nil {
			return nil, fmt.Errorf("marshal schema %s: %w", req.Schema.Name, err)
		}
		chat.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:        req.Schema.Name,
				Description: req.Schema.Description,
				Schema:      json.RawMessage(def),
				Strict:      true,
			},
		}
	}

	resp, err := p.client.CreateChatCompletion(ctx, chat)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return nil, statusError(p.name, apiErr.HTTPStatusCode, 0, err)
		}
		var reqErr *openai.RequestError
		if errors.As(err, &reqErr) {
			return nil, statusError(p.name, reqErr.HTTPStatusCode, 0, err)
		}
		return nil, &Error{Kind: KindUnavailable, Provider: p.name, Err: err}
	}
	if len(resp.Choices) == 0 {
		return nil, &Error{Kind: KindInvalidOutput, Provider: p.name, Err: errors.New("reply has no choices")}
	}

	choice := resp.Choices[0]
	fin := FinishStop
	if choice.FinishReason == openai.FinishReasonLength {
		fin = FinishLength
	}
	usage := Usage{InputTokens: resp.Usage.PromptTokens, OutputTokens: resp.Usage.CompletionTokens}
	return reply(p.name, req, json.RawMessage(choice.Message.Content), fin, usage, resp.Model)
}
