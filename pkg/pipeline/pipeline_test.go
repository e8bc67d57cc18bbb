package pipeline

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"portfolio-cms/pkg/editor"
	"portfolio-cms/pkg/models"
	"portfolio-cms/pkg/templates"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quoteSection() models.Section {
	return models.Section{
		ID:   "q1",
		Type: "Quote",
		Translatable: map[string]models.Localized{
			"text":   {"de": "Hallo", "en": "Hello"},
			"author": {"de": "B", "en": "B"},
		},
		Shared: map[string]string{},
	}
}

func publishableDraft() models.Draft {
	return models.Draft{
		Metadata: models.Metadata{
			ID:          "dungeon",
			Type:        models.ItemTypeConcept,
			Title:       models.Localized{"de": "Verlies", "en": "Dungeon"},
			Description: models.Localized{"de": "Ein Spiel", "en": "A game"},
			Tags:        []string{"rpg", "2d"},
		},
		Sections:  []models.Section{quoteSection()},
		Images:    models.Images{Card: &models.Asset{Name: "card.png", MIME: "image/png", Data: "data:image/png;base64,iVBORw0KGgo="}},
		Documents: []models.Asset{{Name: "Design Doc.pdf", MIME: "application/pdf", Data: "data:application/pdf;base64,JVBERi0="}},
		Timestamp: time.Date(2024, 3, 9, 22, 15, 0, 0, time.UTC),
	}
}

func TestBuildContentDocumentQuote(t *testing.T) {
	b := NewBuilder(templates.Builtin())
	doc := b.BuildContentDocument([]models.Section{quoteSection()}, models.LangEN)

	out, err := MarshalDocument(doc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"sections":[{"type":"quote","text":"Hello","author":"B"}]}`, out)
	assert.True(t, strings.HasSuffix(out, "}\n"))
}

func TestTranslatableWinsOverShared(t *testing.T) {
	b := NewBuilder(templates.Builtin())
	section := models.Section{
		Type:         "text",
		Translatable: map[string]models.Localized{"title": {"de": "DE", "en": "EN"}},
		Shared:       map[string]string{"title": "shared", "extra": "x"},
	}
	doc := b.BuildContentDocument([]models.Section{section}, models.LangDE)
	assert.Equal(t, "DE", doc.Sections[0]["title"])
	assert.Equal(t, "x", doc.Sections[0]["extra"])
	assert.Equal(t, "text", doc.Sections[0]["type"])
}

func TestFlattenArrays(t *testing.T) {
	b := NewBuilder(templates.Builtin())
	sections := []models.Section{
		{
			Type:         "features",
			Translatable: map[string]models.Localized{"title": {"de": "Merkmale", "en": "Features"}},
			Arrays: map[string][]models.Item{"items": {{
				Shared:       map[string]string{"icon": "⚡"},
				Translatable: map[string]models.Localized{"text": {"de": "Schnell", "en": "Fast"}},
			}}},
		},
		{
			Type: "bulletpoints",
			Arrays: map[string][]models.Item{"items": {
				{Translatable: map[string]models.Localized{"text": {"de": "eins", "en": "one"}}},
			}},
		},
	}
	doc := b.BuildContentDocument(sections, models.LangEN)
	assert.Equal(t, []any{map[string]any{"icon": "⚡", "text": "Fast"}}, doc.Sections[0]["items"])
	assert.Equal(t, []any{"one"}, doc.Sections[1]["items"])
}

// Rendering the decoded published document matches rendering the document
// built in memory, for every built-in section type.
func TestContentDocumentRoundTripRendersIdentically(t *testing.T) {
	reg := templates.Builtin()
	s := editor.New(reg, nil)
	for _, typ := range reg.Types() {
		idx, err := s.AddSection(typ)
		require.NoError(t, err)
		schema, _ := reg.Get(typ)
		for _, field := range schema.Translatable {
			require.NoError(t, s.UpdateField(idx, field, field+" EN", models.LangEN))
		}
		for _, field := range schema.Shared {
			if item, ok := schema.Item(field); ok {
				i, err := s.AddArrayItem(idx, field)
				require.NoError(t, err)
				for _, sub := range item.Translatable {
					require.NoError(t, s.UpdateArrayItemField(idx, field, i, sub, sub+" EN", models.LangEN))
				}
				for _, sub := range item.Shared {
					require.NoError(t, s.UpdateArrayItemField(idx, field, i, sub, "https://example.com/"+sub, editor.LangShared))
				}
				continue
			}
			require.NoError(t, s.UpdateField(idx, field, "https://example.com/"+field, editor.LangShared))
		}
	}

	b := NewBuilder(reg)
	doc := b.BuildContentDocument(s.Sections(), models.LangEN)

	var direct bytes.Buffer
	require.NoError(t, reg.RenderAll(&direct, doc.Sections))

	raw, err := MarshalDocument(doc)
	require.NoError(t, err)
	var decoded ContentDocument
	require.NoError(t, json.Unmarshal([]byte(raw), &decoded))

	var published bytes.Buffer
	require.NoError(t, reg.RenderAll(&published, decoded.Sections))

	assert.Equal(t, direct.String(), published.String())
	assert.NotEmpty(t, direct.String())
}

func TestBuildMetadataDocument(t *testing.T) {
	doc := BuildMetadataDocument(publishableDraft())
	assert.Equal(t, MetadataDocument{
		ID:             "dungeon",
		Type:           "concept",
		TranslationKey: "concepts.dungeon",
		TitleDE:        "Verlies",
		TitleEN:        "Dungeon",
		DescriptionDE:  "Ein Spiel",
		DescriptionEN:  "A game",
		Image:          "concepts/dungeon/images/card.png",
		HeroImage:      "images/bg.jpg",
		Tags:           []string{"rpg", "2d"},
		Date:           "2024-03-09",
		Link:           "concepts/dungeon/index.html",
	}, doc)

	blog := publishableDraft()
	blog.Metadata.Type = models.ItemTypeBlog
	blog.Metadata.Author = "Ana"
	blog.Metadata.PublishDate = "2024-01-02"
	blog.Metadata.ReadTime = "5 min"
	doc = BuildMetadataDocument(blog)
	assert.Equal(t, "blog.dungeon", doc.TranslationKey)
	assert.Equal(t, "blog/dungeon/index.html", doc.Link)
	assert.Equal(t, "2024-01-02", doc.Date)
	assert.Equal(t, "Ana", doc.Author)
	assert.Nil(t, doc.Tags)
}

func TestAssetExt(t *testing.T) {
	assert.Equal(t, ".jpg", AssetExt(nil))
	assert.Equal(t, ".webp", AssetExt(&models.Asset{Name: "Hero.WEBP"}))
	assert.Equal(t, ".png", AssetExt(&models.Asset{Name: "hero", MIME: "image/png"}))
	assert.Equal(t, ".jpg", AssetExt(&models.Asset{Name: "hero"}))
}

func TestBuildArtifactsOrderAndStability(t *testing.T) {
	b := NewBuilder(templates.Builtin())
	first, err := b.BuildArtifacts(publishableDraft())
	require.NoError(t, err)

	var paths, kinds []string
	for _, a := range first {
		paths = append(paths, a.Path)
		kinds = append(kinds, a.Kind)
	}
	assert.Equal(t, []string{
		"concepts/dungeon/data.json",
		"concepts/dungeon/index.html",
		"concepts/dungeon/images/card.png",
		"concepts/dungeon/content-de.json",
		"concepts/dungeon/content-en.json",
		"concepts/dungeon/documents/Design_Doc.pdf",
	}, paths)
	assert.Equal(t, []string{KindMetadata, KindHTML, KindImage, KindContent, KindContent, KindDocument}, kinds)
	assert.True(t, first[2].Binary)
	assert.False(t, first[0].Binary)

	second, err := b.BuildArtifacts(publishableDraft())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestAssetFileName(t *testing.T) {
	assert.Equal(t, "Design_Doc.pdf", AssetFileName(models.Asset{Name: "Design Doc.pdf"}))
	assert.Equal(t, "spec.v2.pdf", AssetFileName(models.Asset{Name: "spec..v2.pdf"}))
	assert.Equal(t, "shot.png", AssetFileName(models.Asset{Name: "uploads/shot.png"}))
	assert.Equal(t, "file.png", AssetFileName(models.Asset{Name: "", MIME: "image/png"}))
}

func TestBuildArtifactsUniquePaths(t *testing.T) {
	png := func(name string) models.Asset {
		return models.Asset{Name: name, MIME: "image/png", Data: "data:image/png;base64,iVBORw0KGgo="}
	}
	d := publishableDraft()
	d.GalleryImages = []models.Asset{png("card.png"), png("shot.png"), png("Shot.png"), png("bg.jpg")}
	d.Documents = append(d.Documents, d.Documents[0])

	artifacts, err := NewBuilder(templates.Builtin()).BuildArtifacts(d)
	require.NoError(t, err)

	seen := map[string]string{}
	for _, a := range artifacts {
		key := strings.ToLower(a.Path)
		prev, dup := seen[key]
		assert.False(t, dup, "%s written as %s and %s", a.Path, prev, a.Kind)
		seen[key] = a.Kind
	}

	docs, gallery := PublishedNames(d)
	assert.Equal(t, []string{"Design_Doc.pdf", "Design_Doc-1.pdf"}, docs)
	assert.Equal(t, []string{"card-1.png", "shot.png", "Shot-1.png", "bg-1.jpg"}, gallery)
}

func TestBuildIndexHTML(t *testing.T) {
	html, err := BuildIndexHTML(publishableDraft())
	require.NoError(t, err)
	assert.Contains(t, html, "<title>Dungeon - Game Concepts</title>")
	assert.Contains(t, html, "concept-loader.js")
	assert.Contains(t, html, `id="conceptContentSections"`)
	assert.NotContains(t, html, "style-blog-post.css")

	blog := publishableDraft()
	blog.Metadata.Type = models.ItemTypeBlog
	html, err = BuildIndexHTML(blog)
	require.NoError(t, err)
	assert.Contains(t, html, "blog-loader.js")
	assert.Contains(t, html, `id="postContent"`)
	assert.Contains(t, html, "style-blog-post.css")
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(publishableDraft()))

	err := Validate(models.Draft{Metadata: models.Metadata{ID: "Not A Slug", Type: "poem"}})
	require.ErrorIs(t, err, ErrValidation)

	var fields validation.Errors
	require.True(t, errors.As(err, &fields))
	for _, key := range []string{"id", "type", "title.de", "title.en", "sections"} {
		assert.Contains(t, fields, key)
	}

	b := NewBuilder(templates.Builtin())
	_, err = b.BuildArtifacts(models.Draft{})
	assert.ErrorIs(t, err, ErrValidation)
}
