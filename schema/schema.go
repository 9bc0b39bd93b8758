// Package schema declares the data shapes exchanged with the language model
// and validates values against them at runtime
//
// A Schema is both documentation (it is sent to the model as the response
// shape or as a tool's parameter shape) and a validator for the JSON the model
// produces. Typed Go structs are checked separately with Struct
package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"
)

// Type is a JSON value type
type Type string

const (
	TypeObject  Type = "object"
	TypeArray   Type = "array"
	TypeString  Type = "string"
	TypeNumber  Type = "number"
	TypeInteger Type = "integer"
	TypeBoolean Type = "boolean"
)

// Schema describes one JSON value
type Schema struct {
	Type        Type               `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
	MinItems    int                `json:"minItems,omitempty"`

	// NotBlank rejects strings made only of whitespace. Not sent to the model
	NotBlank bool `json:"-"`
}

// String returns a string schema
func String(description string) *Schema {
	return &Schema{Type: TypeString, Description: description}
}

// RequiredString returns a string schema that rejects blank values
func RequiredString(description string) *Schema {
	return &Schema{Type: TypeString, Description: description, NotBlank: true}
}

// Object returns an object schema; required names must be keys of props
func Object(props map[string]*Schema, required ...string) *Schema {
	return &Schema{Type: TypeObject, Properties: props, Required: required}
}

// ArrayOf returns an array schema
func ArrayOf(items *Schema, description string) *Schema {
	return &Schema{Type: TypeArray, Items: items, Description: description}
}

// PropertyNames returns the object's property names in a stable order,
// required properties first
func (s *Schema) PropertyNames() []string {
	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}
	sort.SliceStable(names, func(i, j int) bool {
		ri, rj := slices.Contains(s.Required, names[i]), slices.Contains(s.Required, names[j])
		if ri != rj {
			return ri
		}
		return names[i] < names[j]
	})
	return names
}

// Describe renders the schema as indented JSON for inclusion in a prompt
func (s *Schema) Describe() string {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return string(s.Type)
	}
	return string(b)
}

// Validate checks a value produced by encoding/json decoding into any
// Every problem found is reported, not only the first
func (s *Schema) Validate(v any) error {
	var issues []Issue
	s.validate("", v, &issues)
	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}

// ValidateJSON decodes data and validates it
func (s *Schema) ValidateJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return &ValidationError{Issues: []Issue{{Message: fmt.Sprintf("invalid JSON: %v", err)}}}
	}
	return s.Validate(v)
}

func (s *Schema) validate(path string, v any, issues *[]Issue) {
	add := func(format string, args ...any) {
		*issues = append(*issues, Issue{Path: path, Message: fmt.Sprintf(format, args...)})
	}

	if v == nil {
		add("expected %s, got null", s.Type)
		return
	}

	switch s.Type {
	case TypeObject:
		obj, ok := v.(map[string]any)
		if !ok {
			add("expected object, got %s", kindOf(v))
			return
		}
		for _, name := range s.Required {
			if val, present := obj[name]; !present || val == nil {
				*issues = append(*issues, Issue{Path: join(path, name), Message: "is required"})
			}
		}
		for _, name := range s.PropertyNames() {
			val, present := obj[name]
			if !present || val == nil {
				continue
			}
			s.Properties[name].validate(join(path, name), val, issues)
		}
	case TypeArray:
		arr, ok := v.([]any)
		if !ok {
			add("expected array, got %s", kindOf(v))
			return
		}
		if len(arr) < s.MinItems {
			add("must contain at least %d item(s), got %d", s.MinItems, len(arr))
		}
		if s.Items != nil {
			for i, item := range arr {
				s.Items.validate(fmt.Sprintf("%s[%d]", path, i), item, issues)
			}
		}
	case TypeString:
		str, ok := v.(string)
		if !ok {
			add("expected string, got %s", kindOf(v))
			return
		}
		if s.NotBlank && strings.TrimSpace(str) == "" {
			add("must not be empty")
		}
		if len(s.Enum) > 0 && !slices.Contains(s.Enum, str) {
			add("must be one of [%s], got %q", strings.Join(s.Enum, ", "), str)
		}
	case TypeNumber:
		if _, ok := v.(float64); !ok {
			add("expected number, got %s", kindOf(v))
		}
	case TypeInteger:
		f, ok := v.(float64)
		if !ok || f != math.Trunc(f) {
			add("expected integer, got %s", kindOf(v))
		}
	case TypeBoolean:
		if _, ok := v.(bool); !ok {
			add("expected boolean, got %s", kindOf(v))
		}
	default:
		add("unsupported schema type %q", s.Type)
	}
}

func join(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}

func kindOf(v any) string {
	switch v.(type) {
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%T", v)
	}
}
