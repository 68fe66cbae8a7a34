package llm

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema is a JSON Schema the reply must satisfy. It compiles on first
// use; a Schema must not be copied after that.
type Schema struct {
	// Name is a kebab-case identifier sent to providers that need one.
	Name        string
	Description string
	Definition  map[string]any

	once     sync.Once
	compiled *jsonschema.Schema
	err      error
}

// Validate checks raw against the schema.
func (s *Schema) Validate(raw json.RawMessage) error {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	compiled, err := s.compile()
	if err != nil {
		return err
	}
	if err := compiled.Validate(doc); err != nil {
		return fmt.Errorf("schema %s: %w", s.Name, err)
	}
	return nil
}

func (s *Schema) compile() (*jsonschema.Schema, error) {
	s.once.Do(func() {
		// The compiler wants decoded JSON values, not Go maps with typed
		// slices, so round-trip the definition.
		data, err := json.Marshal(s.Definition)
		if err != nil {
			s.err = fmt.Errorf("marshal schema %s: %w", s.Name, err)
			return
		}
		var doc any
		if err := json.Unmarshal(data, &doc); err != nil {
			s.err = fmt.Errorf("decode schema %s: %w", s.Name, err)
			return
		}

		url := "mem://schemas/" + s.Name + ".json"
		c := jsonschema.NewCompiler()
		if err := c.AddResource(url, doc); err != nil {
			s.err = fmt.Errorf("add schema %s: %w", s.Name, err)
			return
		}
		s.compiled, s.err = c.Compile(url)
	})
	return s.compiled, s.err
}
