package editor

import (
	"fmt"
	"strconv"
	"strings"

	"portfolio-cms/pkg/models"
	"portfolio-cms/pkg/templates"

	"github.com/goccy/go-json"
)

// DecodeItems parses a JSON array into items of the given shape. Elements
// may be objects or bare strings. A translatable field is read from a
// {"de","en"} object, from <field>DE and <field>EN keys, or from a plain
// string used for both languages. A bare string element fills the first
// field of the item.
func DecodeItems(value string, schema templates.ItemSchema) ([]models.Item, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return []models.Item{}, nil
	}
	var raw []any
	if err := json.Unmarshal([]byte(value), &raw); err != nil {
		return nil, fmt.Errorf("decode array: %w", err)
	}

	items := make([]models.Item, 0, len(raw))
	for i, elem := range raw {
		item := newItem(schema)
		switch e := elem.(type) {
		case string:
			fields := schema.Fields()
			if len(fields) == 0 {
				return nil, fmt.Errorf("decode array: element %d: item has no fields", i)
			}
			setItemValue(&item, schema, fields[0], e)
		case map[string]any:
			for _, field := range schema.Translatable {
				item.Translatable[field] = localizedFrom(e, field)
			}
			for _, field := range schema.Shared {
				item.Shared[field] = scalarString(e[field])
			}
		default:
			return nil, fmt.Errorf("decode array: element %d: unexpected %T", i, elem)
		}
		items = append(items, item)
	}
	return items, nil
}

func localizedFrom(m map[string]any, field string) models.Localized {
	loc := models.NewLocalized()
	switch v := m[field].(type) {
	case map[string]any:
		for _, lang := range models.Languages {
			loc[lang] = scalarString(v[lang])
		}
		return loc
	case string:
		for _, lang := range models.Languages {
			loc[lang] = v
		}
	}
	for _, lang := range models.Languages {
		if v, ok := m[field+strings.ToUpper(lang)]; ok {
			loc[lang] = scalarString(v)
		}
	}
	return loc
}

func scalarString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

func newItem(schema templates.ItemSchema) models.Item {
	item := models.Item{
		Shared:       make(map[string]string, len(schema.Shared)),
		Translatable: make(map[string]models.Localized, len(schema.Translatable)),
	}
	for _, field := range schema.Translatable {
		item.Translatable[field] = models.NewLocalized()
	}
	for _, field := range schema.Shared {
		item.Shared[field] = ""
	}
	return item
}

func setItemValue(item *models.Item, schema templates.ItemSchema, field, value string) {
	if schema.IsTranslatable(field) {
		loc := models.NewLocalized()
		for _, lang := range models.Languages {
			loc[lang] = value
		}
		item.Translatable[field] = loc
		return
	}
	item.Shared[field] = value
}

func (s *Session) arrayField(index int, field string) (*models.Section, templates.ItemSchema, error) {
	if err := s.checkIndex(index); err != nil {
		return nil, templates.ItemSchema{}, err
	}
	section := &s.sections[index]
	schema, ok := s.registry.Get(section.Type)
	if !ok {
		return nil, templates.ItemSchema{}, fmt.Errorf("%w: %q", ErrUnknownTemplate, section.Type)
	}
	item, ok := schema.Item(field)
	if !ok {
		return nil, templates.ItemSchema{}, fmt.Errorf("%w: %s.%s", ErrNotAnArrayField, section.Type, field)
	}
	if section.Arrays == nil {
		section.Arrays = make(map[string][]models.Item)
	}
	return section, item, nil
}

func checkItem(items []models.Item, item int) error {
	if item < 0 || item >= len(items) {
		return fmt.Errorf("%w: item %d of %d", ErrIndexOutOfRange, item, len(items))
	}
	return nil
}

// AddArrayItem appends an empty item to an array field and returns its index.
func (s *Session) AddArrayItem(index int, field string) (int, error) {
	section, schema, err := s.arrayField(index, field)
	if err != nil {
		return -1, err
	}
	section.Arrays[field] = append(section.Arrays[field], newItem(schema))
	return len(section.Arrays[field]) - 1, nil
}

func (s *Session) RemoveArrayItem(index int, field string, item int) error {
	section, _, err := s.arrayField(index, field)
	if err != nil {
		return err
	}
	items := section.Arrays[field]
	if err := checkItem(items, item); err != nil {
		return err
	}
	section.Arrays[field] = append(items[:item], items[item+1:]...)
	return nil
}

// MoveArrayItem swaps an item with its neighbour; false means the item was
// already at that boundary.
func (s *Session) MoveArrayItem(index int, field string, item int, dir Direction) (bool, error) {
	section, _, err := s.arrayField(index, field)
	if err != nil {
		return false, err
	}
	if dir != Up && dir != Down {
		return false, ErrInvalidDirection
	}
	items := section.Arrays[field]
	if err := checkItem(items, item); err != nil {
		return false, err
	}
	target := item + int(dir)
	if target < 0 || target >= len(items) {
		return false, nil
	}
	items[item], items[target] = items[target], items[item]
	return true, nil
}

// UpdateArrayItemField writes one field of one array item. lang follows the
// rules of UpdateField.
func (s *Session) UpdateArrayItemField(index int, field string, item int, sub, value, lang string) error {
	section, schema, err := s.arrayField(index, field)
	if err != nil {
		return err
	}
	items := section.Arrays[field]
	if err := checkItem(items, item); err != nil {
		return err
	}
	target := &items[item]

	if lang == LangShared {
		if !contains(schema.Shared, sub) {
			return fmt.Errorf("%w: %s.%s[].%s (shared)", ErrUnknownField, section.Type, field, sub)
		}
		if target.Shared == nil {
			target.Shared = make(map[string]string)
		}
		target.Shared[sub] = value
		return nil
	}
	if !models.IsLanguage(lang) {
		return fmt.Errorf("%w: %q", ErrUnknownLanguage, lang)
	}
	if !schema.IsTranslatable(sub) {
		return fmt.Errorf("%w: %s.%s[].%s (%s)", ErrUnknownField, section.Type, field, sub, lang)
	}
	if target.Translatable == nil {
		target.Translatable = make(map[string]models.Localized)
	}
	loc := target.Translatable[sub]
	if loc == nil {
		loc = models.NewLocalized()
	}
	loc[lang] = value
	target.Translatable[sub] = loc
	return nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
