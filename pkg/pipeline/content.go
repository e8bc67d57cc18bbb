package pipeline

import (
	"portfolio-cms/pkg/models"
	"portfolio-cms/pkg/templates"
)

// ContentDocument is the per-language content-<lang>.json document.
type ContentDocument struct {
	Sections []map[string]any `json:"sections"`
}

// Builder turns authoring state into publishable documents.
type Builder struct {
	registry *templates.Registry
}

func NewBuilder(registry *templates.Registry) *Builder {
	return &Builder{registry: registry}
}

// BuildContentDocument flattens sections for one language. Shared values are
// written first and translatable values of the same name replace them. The
// lowercased type tag is always present.
func (b *Builder) BuildContentDocument(sections []models.Section, lang string) ContentDocument {
	doc := ContentDocument{Sections: make([]map[string]any, 0, len(sections))}
	for _, s := range sections {
		doc.Sections = append(doc.Sections, b.flattenSection(s, lang))
	}
	return doc
}

func (b *Builder) flattenSection(s models.Section, lang string) map[string]any {
	schema, _ := b.registry.Get(s.Type)

	entry := make(map[string]any, len(s.Shared)+len(s.Arrays)+len(s.Translatable)+1)
	for field, v := range s.Shared {
		entry[field] = v
	}
	for field, items := range s.Arrays {
		item, _ := schema.Item(field)
		entry[field] = flattenItems(items, item, lang)
	}
	for field, loc := range s.Translatable {
		entry[field] = loc.Get(lang)
	}
	entry["type"] = s.NormalizedType()
	return entry
}

func flattenItems(items []models.Item, schema templates.ItemSchema, lang string) []any {
	out := make([]any, 0, len(items))
	for _, item := range items {
		obj := make(map[string]any, len(item.Shared)+len(item.Translatable))
		for k, v := range item.Shared {
			obj[k] = v
		}
		for k, loc := range item.Translatable {
			obj[k] = loc.Get(lang)
		}
		if schema.Scalar {
			out = append(out, scalarValue(obj, schema))
			continue
		}
		out = append(out, obj)
	}
	return out
}

func scalarValue(obj map[string]any, schema templates.ItemSchema) string {
	for _, field := range schema.Fields() {
		if v, ok := obj[field].(string); ok {
			return v
		}
	}
	return ""
}
