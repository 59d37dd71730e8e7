package llm

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema is a named JSON Schema that model output must satisfy.
type Schema struct {
	// Name is a kebab-case identifier sent to providers that need one.
	Name        string
	Description string
	Definition  map[string]any

	compiled *jsonschema.Schema
}

// NewSchema compiles def once so every response can be validated cheaply.
func NewSchema(name, description string, def map[string]any) (*Schema, error) {
	// The compiler wants decoded JSON values, not Go maps with typed slices.
	raw, err := json.Marshal(def)
	if err != nil {
		return nil, fmt.Errorf("marshal schema %q: %w", name, err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode schema %q: %w", name, err)
	}

	c := jsonschema.NewCompiler()
	url := "mem://" + name + ".json"
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add schema %q: %w", name, err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema %q: %w", name, err)
	}
	return &Schema{Name: name, Description: description, Definition: def, compiled: compiled}, nil
}

// MustSchema is NewSchema for package-level schemas.
func MustSchema(name, description string, def map[string]any) *Schema {
	s, err := NewSchema(name, description, def)
	if err != nil {
		panic(err)
	}
	return s
}

// Validate checks raw against the schema. It returns *ErrInvalidResponse
// on failure.
func (s *Schema) Validate(raw json.RawMessage) error {
	if s == nil || s.compiled == nil {
		return nil
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return &ErrInvalidResponse{Content: raw, Err: fmt.Errorf("not JSON: %w", err)}
	}
	if err := s.compiled.Validate(doc); err != nil {
		return &ErrInvalidResponse{Content: raw, Err: err}
	}
	return nil
}
