package pipeline

import (
	"errors"
	"fmt"

	"portfolio-cms/pkg/models"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-slug"
)

// ErrValidation wraps the field errors of a draft that cannot be published.
// The wrapped validation.Errors can be extracted with errors.As.
var ErrValidation = errors.New("pipeline: draft is not publishable")

var isSlug = validation.By(func(v interface{}) error {
	s, _ := v.(string)
	if s != "" && !slug.IsValid(s) {
		return errors.New("must be a slug (lowercase letters, digits and dashes)")
	}
	return nil
})

// ValidID reports whether id can name an item folder.
func ValidID(id string) bool {
	return id != "" && slug.IsValid(id)
}

// Validate checks that a draft carries everything publishing needs.
func Validate(d models.Draft) error {
	meta := d.Metadata
	errs := validation.Errors{
		"id":       validation.Validate(meta.ID, validation.Required.Error("item id is required"), isSlug),
		"type":     validation.Validate(meta.Type, validation.In(models.ItemTypeConcept, models.ItemTypeBlog)),
		"title.de": validation.Validate(meta.Title.Get(models.LangDE), validation.Required.Error("German title is required")),
		"title.en": validation.Validate(meta.Title.Get(models.LangEN), validation.Required.Error("English title is required")),
		"sections": validation.Validate(d.Sections, validation.Required.Error("add at least one section")),
	}.Filter()
	if errs != nil {
		return fmt.Errorf("%w: %w", ErrValidation, errs)
	}
	return nil
}
