package models

import (
	"sort"
	"strings"
)

const (
	LangDE = "de"
	LangEN = "en"
)

// Languages lists the content languages every translatable field carries.
var Languages = []string{LangDE, LangEN}

// IsLanguage reports whether lang is one of the supported content languages.
func IsLanguage(lang string) bool {
	for _, l := range Languages {
		if l == lang {
			return true
		}
	}
	return false
}

// Localized holds one value per content language.
type Localized map[string]string

// NewLocalized returns a Localized value with an empty entry for every language.
func NewLocalized() Localized {
	l := make(Localized, len(Languages))
	for _, lang := range Languages {
		l[lang] = ""
	}
	return l
}

func (l Localized) Get(lang string) string {
	if l == nil {
		return ""
	}
	return l[lang]
}

func (l Localized) Clone() Localized {
	if l == nil {
		return nil
	}
	out := make(Localized, len(l))
	for k, v := range l {
		out[k] = v
	}
	return out
}

// Item is one element of an array-valued section field.
type Item struct {
	Shared       map[string]string    `json:"shared,omitempty"`
	Translatable map[string]Localized `json:"translatable,omitempty"`
}

func (i Item) Clone() Item {
	out := Item{}
	if i.Shared != nil {
		out.Shared = make(map[string]string, len(i.Shared))
		for k, v := range i.Shared {
			out.Shared[k] = v
		}
	}
	if i.Translatable != nil {
		out.Translatable = make(map[string]Localized, len(i.Translatable))
		for k, v := range i.Translatable {
			out.Translatable[k] = v.Clone()
		}
	}
	return out
}

// Section is one content block of an item. Type is fixed at creation and
// selects the template that defines which fields the section carries.
type Section struct {
	ID           string               `json:"id"`
	Type         string               `json:"type"`
	Translatable map[string]Localized `json:"translatable"`
	Shared       map[string]string    `json:"shared"`
	Arrays       map[string][]Item    `json:"arrays,omitempty"`
}

// FieldNames returns the sorted names of all fields present on the section.
func (s Section) FieldNames() []string {
	names := make([]string, 0, len(s.Translatable)+len(s.Shared)+len(s.Arrays))
	for k := range s.Translatable {
		names = append(names, k)
	}
	for k := range s.Shared {
		names = append(names, k)
	}
	for k := range s.Arrays {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// NormalizedType is the lowercased type tag used in published documents.
func (s Section) NormalizedType() string {
	return strings.ToLower(strings.TrimSpace(s.Type))
}

func (s Section) Clone() Section {
	out := Section{ID: s.ID, Type: s.Type}
	if s.Translatable != nil {
		out.Translatable = make(map[string]Localized, len(s.Translatable))
		for k, v := range s.Translatable {
			out.Translatable[k] = v.Clone()
		}
	}
	if s.Shared != nil {
		out.Shared = make(map[string]string, len(s.Shared))
		for k, v := range s.Shared {
			out.Shared[k] = v
		}
	}
	if s.Arrays != nil {
		out.Arrays = make(map[string][]Item, len(s.Arrays))
		for k, items := range s.Arrays {
			cloned := make([]Item, len(items))
			for i := range items {
				cloned[i] = items[i].Clone()
			}
			out.Arrays[k] = cloned
		}
	}
	return out
}
