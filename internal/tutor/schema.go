package tutor

import "github.com/st-academy/academy/internal/llm"

// ExplanationSchema defines the JSON schema for a mistake explanation.
var ExplanationSchema = &llm.Schema{
	Name:        "mistake-explanation",
	Description: "Why a quiz answer is wrong, plus a hint that does not reveal the answer",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"explanation": map[string]any{
				"type":        "string",
				"description": "2-4 sentences on why the chosen answer is wrong",
			},
			"hint": map[string]any{
				"type":        "string",
				"description": "One sentence nudging toward the right idea",
			},
		},
		"required":             []any{"explanation", "hint"},
		"additionalProperties": false,
	},
}
