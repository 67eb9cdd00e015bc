package llm

import (
	"encoding/json"
	"strings"
)

type Type string

const (
	TypeObject  Type = "OBJECT"
	TypeArray   Type = "ARRAY"
	TypeString  Type = "STRING"
	TypeNumber  Type = "NUMBER"
	TypeInteger Type = "INTEGER"
	TypeBoolean Type = "BOOLEAN"
)

// Schema declares the expected reply shape. Its JSON encoding is the Gemini
// responseSchema format; JSONSchema renders the same shape for providers that
// only take it as an instruction.
type Schema struct {
	Type             Type               `json:"type"`
	Description      string             `json:"description,omitempty"`
	Enum             []string           `json:"enum,omitempty"`
	Properties       map[string]*Schema `json:"properties,omitempty"`
	PropertyOrdering []string           `json:"propertyOrdering,omitempty"`
	Items            *Schema            `json:"items,omitempty"`
	Required         []string           `json:"required,omitempty"`
}

type Field struct {
	Name   string
	Schema *Schema
}

func Prop(name string, s *Schema) Field {
	return Field{Name: name, Schema: s}
}

func String() *Schema  { return &Schema{Type: TypeString} }
func Number() *Schema  { return &Schema{Type: TypeNumber} }
func Integer() *Schema { return &Schema{Type: TypeInteger} }
func Boolean() *Schema { return &Schema{Type: TypeBoolean} }

func Enum(values ...string) *Schema {
	return &Schema{Type: TypeString, Enum: values}
}

func ArrayOf(items *Schema) *Schema {
	return &Schema{Type: TypeArray, Items: items}
}

func Object(fields ...Field) *Schema {
	s := &Schema{
		Type:       TypeObject,
		Properties: make(map[string]*Schema, len(fields)),
	}
	for _, f := range fields {
		s.Properties[f.Name] = f.Schema
		s.PropertyOrdering = append(s.PropertyOrdering, f.Name)
	}
	return s
}

func (s *Schema) Require(names ...string) *Schema {
	s.Required = append(s.Required, names...)
	return s
}

func (s *Schema) Describe(d string) *Schema {
	s.Description = d
	return s
}

// JSONSchema converts to a plain JSON Schema document (lowercase types).
func (s *Schema) JSONSchema() map[string]any {
	out := map[string]any{"type": strings.ToLower(string(s.Type))}
	if s.Description != "" {
		out["description"] = s.Description
	}
	if len(s.Enum) > 0 {
		out["enum"] = s.Enum
	}
	if len(s.Properties) > 0 {
		props := make(map[string]any, len(s.Properties))
		for name, p := range s.Properties {
			props[name] = p.JSONSchema()
		}
		out["properties"] = props
	}
	if s.Items != nil {
		out["items"] = s.Items.JSONSchema()
	}
	if len(s.Required) > 0 {
		out["required"] = s.Required
	}
	return out
}

// Instruction is appended to the system prompt of providers without native
// schema support.
func (s *Schema) Instruction() string {
	doc, err := json.Marshal(s.JSONSchema())
	if err != nil {
		return "Output JSON only, no other text."
	}
	return "Output JSON only, no other text. The JSON must match this schema:\n" + string(doc)
}
