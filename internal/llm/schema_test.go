package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func testSchema() *Schema {
	return &Schema{
		Name: "test-explanation",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"explanation": map[string]any{"type": "string"},
				"hint":        map[string]any{"type": "string"},
				"confidence":  map[string]any{"type": "string", "enum": []any{"low", "high"}},
			},
			"required":             []any{"explanation", "hint"},
			"additionalProperties": false,
		},
	}
}

func TestSchemaValidate(t *testing.T) {
	s := testSchema()
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"explanation":"a","hint":"b"}`, false},
		{"valid with optional", `{"explanation":"a","hint":"b","confidence":"low"}`, false},
		{"missing required", `{"explanation":"a"}`, true},
		{"wrong type", `{"explanation":1,"hint":"b"}`, true},
		{"bad enum", `{"explanation":"a","hint":"b","confidence":"maybe"}`, true},
		{"extra field", `{"explanation":"a","hint":"b","answer":"c"}`, true},
		{"malformed", `{"explanation":`, true},
		{"empty", ``, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.Validate(json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate(%s) err = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
		})
	}
}

func TestSchemaCompileErrorIsSticky(t *testing.T) {
	s := &Schema{Name: "broken", Definition: map[string]any{"type": 12}}
	first := s.Validate(json.RawMessage(`{}`))
	if first == nil {
		t.Fatal("expected compile error")
	}
	if second := s.Validate(json.RawMessage(`{}`)); second == nil || second.Error() != first.Error() {
		t.Errorf("second = %v, want %v", second, first)
	}
}

func TestReplyWrapsInvalidOutput(t *testing.T) {
	_, err := reply("mock", Request{Schema: testSchema()}, json.RawMessage(`{}`), FinishStop, Usage{}, "m")
	var e *Error
	if !errors.As(err, &e) || e.Kind != KindInvalidOutput || string(e.Content) != `{}` {
		t.Fatalf("err = %#v", err)
	}
	if !errors.Is(err, ErrInvalidOutput) {
		t.Error("errors.Is(ErrInvalidOutput) = false")
	}
}

func TestReplyWithoutSchemaPassesText(t *testing.T) {
	resp, err := reply("mock", Request{}, json.RawMessage(`plain words`), FinishLength, Usage{InputTokens: 1}, "m")
	if err != nil {
		t.Fatalf("reply: %v", err)
	}
	if string(resp.Content) != "plain words" || resp.Finish != FinishLength {
		t.Errorf("resp = %+v", resp)
	}
}
