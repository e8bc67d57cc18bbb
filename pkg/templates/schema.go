package templates

import (
	"io"
	"sort"
)

// ItemSchema describes the fields of one element of an array field.
// Scalar items are published as a bare string holding their only field.
type ItemSchema struct {
	Translatable []string `json:"translatable"`
	Shared       []string `json:"shared"`
	Scalar       bool     `json:"scalar,omitempty"`
}

// Fields returns translatable fields followed by shared ones.
func (s ItemSchema) Fields() []string {
	out := make([]string, 0, len(s.Translatable)+len(s.Shared))
	out = append(out, s.Translatable...)
	return append(out, s.Shared...)
}

func (s ItemSchema) IsTranslatable(field string) bool {
	return contains(s.Translatable, field)
}

func (s ItemSchema) Has(field string) bool {
	return contains(s.Translatable, field) || contains(s.Shared, field)
}

// Schema is the field layout an editing form collects for a section type.
// Array-valued fields are listed in Shared and described by Arrays.
type Schema struct {
	Translatable []string              `json:"translatable"`
	Shared       []string              `json:"shared"`
	Arrays       map[string]ItemSchema `json:"arrays,omitempty"`
	Defaults     map[string]string     `json:"defaults,omitempty"`
}

// FieldNames returns the sorted union of translatable and shared fields.
func (s Schema) FieldNames() []string {
	out := make([]string, 0, len(s.Translatable)+len(s.Shared))
	out = append(out, s.Translatable...)
	out = append(out, s.Shared...)
	sort.Strings(out)
	return out
}

func (s Schema) IsTranslatable(field string) bool {
	return contains(s.Translatable, field)
}

func (s Schema) IsShared(field string) bool {
	return contains(s.Shared, field)
}

func (s Schema) IsArray(field string) bool {
	_, ok := s.Arrays[field]
	return ok && s.IsShared(field)
}

// Item returns the sub-schema of an array field.
func (s Schema) Item(field string) (ItemSchema, bool) {
	if !s.IsArray(field) {
		return ItemSchema{}, false
	}
	return s.Arrays[field], true
}

// Renderer writes the markup for one flattened section entry.
type Renderer func(w io.Writer, f Fields) error

// Template binds a section type to its schema and renderer.
type Template struct {
	Type     string
	Label    string
	Icon     string
	Schema   Schema
	Renderer Renderer
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
