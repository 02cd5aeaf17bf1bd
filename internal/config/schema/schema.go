// Package schema validates rearrange configuration files against a JSON
// Schema subset.
//
// Supported keywords: type, properties, additionalProperties (boolean or
// schema), required, items, enum, minimum, maximum, format ("regex"),
// $ref into $defs.
package schema

import (
	"embed"
	"encoding/json"
	"fmt"
	"sync"
)

//go:embed rearrange.schema.json
var schemaFS embed.FS

// Schema represents a JSON Schema definition for configuration validation.
type Schema struct {
	// ID is the schema identifier ($id).
	ID string `json:"$id,omitempty"`

	// Title is a descriptive title.
	Title string `json:"title,omitempty"`

	// Description provides documentation.
	Description string `json:"description,omitempty"`

	// Type is the JSON type (string, number, integer, boolean, array, object, null).
	Type SchemaType `json:"type,omitempty"`

	// Properties defines object properties (for type: object).
	Properties map[string]*Schema `json:"properties,omitempty"`

	// AdditionalProperties controls properties not named in Properties.
	AdditionalProperties *Additional `json:"additionalProperties,omitempty"`

	// Required lists required property names.
	Required []string `json:"required,omitempty"`

	// Items defines the schema for array elements.
	Items *Schema `json:"items,omitempty"`

	// Enum lists allowed values.
	Enum []any `json:"enum,omitempty"`

	Minimum *float64 `json:"minimum,omitempty"`
	Maximum *float64 `json:"maximum,omitempty"`

	// Format is a semantic format hint. Only "regex" is checked.
	Format string `json:"format,omitempty"`

	// Ref references another schema ($ref).
	Ref string `json:"$ref,omitempty"`

	// Defs contains schema definitions ($defs).
	Defs map[string]*Schema `json:"$defs,omitempty"`
}

// SchemaType represents JSON Schema type(s).
// Can be a single type or an array of types.
type SchemaType struct {
	Types []string
}

// UnmarshalJSON handles both single type and array of types.
func (t *SchemaType) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		t.Types = []string{single}
		return nil
	}

	var arr []string
	if err := json.Unmarshal(data, &arr); err != nil {
		return fmt.Errorf("type must be string or array of strings: %w", err)
	}
	t.Types = arr
	return nil
}

// Is checks if the schema type includes the given type.
func (t SchemaType) Is(typ string) bool {
	for _, st := range t.Types {
		if st == typ {
			return true
		}
	}
	return false
}

// IsEmpty returns true if no types are defined.
func (t SchemaType) IsEmpty() bool {
	return len(t.Types) == 0
}

// String returns the type as a string.
func (t SchemaType) String() string {
	if len(t.Types) == 1 {
		return t.Types[0]
	}
	return fmt.Sprintf("%v", t.Types)
}

// Additional is the value of additionalProperties: a boolean, or a schema
// every extra property must satisfy.
type Additional struct {
	Allowed bool
	Schema  *Schema
}

// UnmarshalJSON accepts a boolean or a schema object.
func (a *Additional) UnmarshalJSON(data []byte) error {
	var allowed bool
	if err := json.Unmarshal(data, &allowed); err == nil {
		a.Allowed = allowed
		return nil
	}

	a.Schema = &Schema{}
	if err := json.Unmarshal(data, a.Schema); err != nil {
		return fmt.Errorf("additionalProperties must be boolean or schema: %w", err)
	}
	a.Allowed = true
	return nil
}

// schemaCache caches the loaded schema.
var (
	schemaCache     *Schema
	schemaCacheOnce sync.Once
	schemaCacheErr  error
)

// LoadEmbedded loads the embedded rearrange configuration schema.
func LoadEmbedded() (*Schema, error) {
	schemaCacheOnce.Do(func() {
		data, err := schemaFS.ReadFile("rearrange.schema.json")
		if err != nil {
			schemaCacheErr = fmt.Errorf("failed to read embedded schema: %w", err)
			return
		}
		schemaCache, schemaCacheErr = Parse(data)
	})

	return schemaCache, schemaCacheErr
}

// Parse parses a JSON Schema from bytes.
func Parse(data []byte) (*Schema, error) {
	s := &Schema{}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}
	return s, nil
}

// GetProperty returns the schema for a nested property path.
// Path is dot-separated (e.g., "engine.strategy").
func (s *Schema) GetProperty(path string) *Schema {
	if s == nil || path == "" {
		return s
	}

	current := s
	for _, part := range splitPath(path) {
		prop, ok := current.Properties[part]
		if !ok {
			if current.AdditionalProperties == nil || current.AdditionalProperties.Schema == nil {
				return nil
			}
			prop = current.AdditionalProperties.Schema
		}
		current = prop
	}
	return current
}

// AllowsAdditionalProperties returns whether additional properties are allowed.
func (s *Schema) AllowsAdditionalProperties() bool {
	if s.AdditionalProperties == nil {
		return true
	}
	return s.AdditionalProperties.Allowed
}

func splitPath(path string) []string {
	var parts []string
	start := 0
	for i := 0; i <= len(path); i++ {
		if i == len(path) || path[i] == '.' {
			if i > start {
				parts = append(parts, path[start:i])
			}
			start = i + 1
		}
	}
	return parts
}
