package editor

import (
	"errors"
	"fmt"
	"strings"

	"portfolio-cms/pkg/models"
	"portfolio-cms/pkg/templates"

	"github.com/goliatone/go-slug"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LangShared addresses the shared bucket of a section in UpdateField.
const LangShared = "shared"

var (
	ErrUnknownTemplate  = errors.New("editor: unknown section template")
	ErrUnknownField     = errors.New("editor: unknown field")
	ErrUnknownLanguage  = errors.New("editor: unknown language")
	ErrIndexOutOfRange  = errors.New("editor: index out of range")
	ErrNotAnArrayField  = errors.New("editor: field is not an array")
	ErrInvalidDirection = errors.New("editor: direction must be up or down")
)

// Direction moves a section or array item towards the start (Up) or the
// end (Down) of its list.
type Direction int

const (
	Up   Direction = -1
	Down Direction = 1
)

func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "-1":
		return Up, nil
	case "down", "1":
		return Down, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

// Session is the authoring state of one item: metadata, the ordered
// sections and uploaded assets. A Session is not safe for concurrent use.
type Session struct {
	registry *templates.Registry
	logger   *zap.Logger
	newID    func() string

	meta      models.Metadata
	sections  []models.Section
	images    models.Images
	documents []models.Asset
	gallery   []models.Asset
}

func New(registry *templates.Registry, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		registry: registry,
		logger:   logger,
		newID:    uuid.NewString,
		meta:     emptyMetadata(),
	}
}

func emptyMetadata() models.Metadata {
	return models.Metadata{
		Type:        models.ItemTypeConcept,
		Title:       models.NewLocalized(),
		Description: models.NewLocalized(),
	}
}

// Restore replaces the session contents with a stored draft.
func (s *Session) Restore(d models.Draft) {
	s.meta = d.Metadata
	if s.meta.Title == nil {
		s.meta.Title = models.NewLocalized()
	}
	if s.meta.Description == nil {
		s.meta.Description = models.NewLocalized()
	}
	if s.meta.Type == "" {
		s.meta.Type = models.ItemTypeConcept
	}
	s.sections = make([]models.Section, len(d.Sections))
	for i := range d.Sections {
		s.sections[i] = d.Sections[i].Clone()
	}
	s.images = d.Images
	s.documents = append([]models.Asset(nil), d.Documents...)
	s.gallery = append([]models.Asset(nil), d.GalleryImages...)
}

// Snapshot returns a deep copy of the session as a draft envelope. The
// timestamp is left for the draft store to stamp.
func (s *Session) Snapshot() models.Draft {
	d := models.Draft{
		Metadata:      s.meta,
		Sections:      make([]models.Section, len(s.sections)),
		Images:        s.images,
		Documents:     append([]models.Asset(nil), s.documents...),
		GalleryImages: append([]models.Asset(nil), s.gallery...),
	}
	d.Metadata.Title = s.meta.Title.Clone()
	d.Metadata.Description = s.meta.Description.Clone()
	d.Metadata.Tags = append([]string(nil), s.meta.Tags...)
	for i := range s.sections {
		d.Sections[i] = s.sections[i].Clone()
	}
	return d
}

// Reset discards everything, leaving an empty session.
func (s *Session) Reset() {
	s.meta = emptyMetadata()
	s.sections = nil
	s.images = models.Images{}
	s.documents = nil
	s.gallery = nil
}

func (s *Session) Metadata() models.Metadata {
	return s.Snapshot().Metadata
}

// SetMetadata replaces the item metadata. The id is normalized to a slug.
func (s *Session) SetMetadata(meta models.Metadata) error {
	if meta.ID != "" {
		id, err := slug.Normalize(meta.ID)
		if err != nil {
			return fmt.Errorf("editor: normalize id %q: %w", meta.ID, err)
		}
		meta.ID = id
	}
	meta.Type = strings.ToLower(strings.TrimSpace(meta.Type))
	if meta.Type == "" {
		meta.Type = models.ItemTypeConcept
	}
	meta.Title = mergeLocalized(meta.Title)
	meta.Description = mergeLocalized(meta.Description)
	s.meta = meta
	return nil
}

func mergeLocalized(l models.Localized) models.Localized {
	out := models.NewLocalized()
	for k, v := range l {
		out[k] = v
	}
	return out
}

func (s *Session) SetImage(slot string, asset *models.Asset) error {
	switch slot {
	case "card":
		s.images.Card = asset
	case "bg":
		s.images.BG = asset
	default:
		return fmt.Errorf("editor: unknown image slot %q", slot)
	}
	return nil
}

func (s *Session) AddDocument(a models.Asset) {
	s.documents = append(s.documents, a)
}

func (s *Session) AddGalleryImage(a models.Asset) {
	s.gallery = append(s.gallery, a)
}

func (s *Session) Len() int {
	return len(s.sections)
}

// Section returns a copy of the section at index.
func (s *Session) Section(index int) (models.Section, error) {
	if err := s.checkIndex(index); err != nil {
		return models.Section{}, err
	}
	return s.sections[index].Clone(), nil
}

func (s *Session) Sections() []models.Section {
	return s.Snapshot().Sections
}

// AddSection appends a section of the given type seeded with an empty value
// for every field of its schema and returns its index.
func (s *Session) AddSection(typ string) (int, error) {
	schema, ok := s.registry.Get(typ)
	if !ok {
		return -1, fmt.Errorf("%w: %q", ErrUnknownTemplate, typ)
	}
	tmpl, _ := s.registry.Template(typ)

	section := models.Section{
		ID:           s.newID(),
		Type:         tmpl.Type,
		Translatable: make(map[string]models.Localized, len(schema.Translatable)),
		Shared:       make(map[string]string, len(schema.Shared)),
	}
	for _, field := range schema.Translatable {
		section.Translatable[field] = models.NewLocalized()
	}
	for _, field := range schema.Shared {
		if schema.IsArray(field) {
			if section.Arrays == nil {
				section.Arrays = make(map[string][]models.Item)
			}
			section.Arrays[field] = []models.Item{}
			continue
		}
		section.Shared[field] = schema.Defaults[field]
	}

	s.sections = append(s.sections, section)
	s.logger.Debug("section added", zap.String("type", section.Type), zap.String("id", section.ID))
	return len(s.sections) - 1, nil
}

// MoveSection swaps the section with its neighbour. It reports false and
// changes nothing when the section is already at that boundary.
func (s *Session) MoveSection(index int, dir Direction) (bool, error) {
	if err := s.checkIndex(index); err != nil {
		return false, err
	}
	target := index + int(dir)
	if dir != Up && dir != Down {
		return false, ErrInvalidDirection
	}
	if target < 0 || target >= len(s.sections) {
		return false, nil
	}
	s.sections[index], s.sections[target] = s.sections[target], s.sections[index]
	return true, nil
}

func (s *Session) RemoveSection(index int) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	s.sections = append(s.sections[:index], s.sections[index+1:]...)
	return nil
}

// DuplicateSection inserts a copy with a fresh id right after the original
// and returns the index of the copy.
func (s *Session) DuplicateSection(index int) (int, error) {
	if err := s.checkIndex(index); err != nil {
		return -1, err
	}
	dup := s.sections[index].Clone()
	dup.ID = s.newID()

	s.sections = append(s.sections, models.Section{})
	copy(s.sections[index+2:], s.sections[index+1:])
	s.sections[index+1] = dup
	return index + 1, nil
}

// UpdateField writes one field value. lang selects the language bucket of
// a translatable field, or LangShared for a shared one. A JSON string
// written to an array field replaces the whole array; undecodable input
// leaves the array empty.
func (s *Session) UpdateField(index int, field, value, lang string) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	section := &s.sections[index]
	schema, ok := s.registry.Get(section.Type)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTemplate, section.Type)
	}

	if lang == LangShared {
		if item, ok := schema.Item(field); ok {
			items, err := DecodeItems(value, item)
			if err != nil {
				s.logger.Warn("invalid array value, resetting field",
					zap.String("section", section.ID),
					zap.String("field", field),
					zap.Error(err),
				)
				items = []models.Item{}
			}
			if section.Arrays == nil {
				section.Arrays = make(map[string][]models.Item)
			}
			section.Arrays[field] = items
			return nil
		}
		if !schema.IsShared(field) {
			return fmt.Errorf("%w: %s.%s (shared)", ErrUnknownField, section.Type, field)
		}
		if section.Shared == nil {
			section.Shared = make(map[string]string)
		}
		section.Shared[field] = value
		return nil
	}

	if !models.IsLanguage(lang) {
		return fmt.Errorf("%w: %q", ErrUnknownLanguage, lang)
	}
	if !schema.IsTranslatable(field) {
		return fmt.Errorf("%w: %s.%s (%s)", ErrUnknownField, section.Type, field, lang)
	}
	if section.Translatable == nil {
		section.Translatable = make(map[string]models.Localized)
	}
	loc := section.Translatable[field]
	if loc == nil {
		loc = models.NewLocalized()
	}
	loc[lang] = value
	section.Translatable[field] = loc
	return nil
}

func (s *Session) checkIndex(index int) error {
	if index < 0 || index >= len(s.sections) {
		return fmt.Errorf("%w: section %d of %d", ErrIndexOutOfRange, index, len(s.sections))
	}
	return nil
}
