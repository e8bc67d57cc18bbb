package pipeline

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"portfolio-cms/pkg/models"

	"github.com/gabriel-vasile/mimetype"
)

const dateLayout = "2006-01-02"

// MetadataDocument is the data.json written for every published item.
type MetadataDocument struct {
	ID             string   `json:"id"`
	Type           string   `json:"type"`
	TranslationKey string   `json:"translationKey"`
	TitleDE        string   `json:"titleDE"`
	TitleEN        string   `json:"titleEN"`
	DescriptionDE  string   `json:"descriptionDE"`
	DescriptionEN  string   `json:"descriptionEN"`
	Image          string   `json:"image"`
	HeroImage      string   `json:"hero_image"`
	Tags           []string `json:"tags,omitempty"`
	Author         string   `json:"author,omitempty"`
	PublishDate    string   `json:"publishDate,omitempty"`
	ReadTime       string   `json:"readTime,omitempty"`
	Date           string   `json:"date"`
	Link           string   `json:"link"`
}

// BuildMetadataDocument derives data.json from the draft. Nothing in it
// depends on the wall clock, so publishing the same draft twice yields the
// same bytes.
func BuildMetadataDocument(d models.Draft) MetadataDocument {
	meta := d.Metadata
	base := meta.BasePath()
	doc := MetadataDocument{
		ID:             meta.ID,
		Type:           models.ItemTypeConcept,
		TranslationKey: meta.Folder() + "." + meta.ID,
		TitleDE:        meta.Title.Get(models.LangDE),
		TitleEN:        meta.Title.Get(models.LangEN),
		DescriptionDE:  meta.Description.Get(models.LangDE),
		DescriptionEN:  meta.Description.Get(models.LangEN),
		Image:          path.Join(base, "images", "card"+AssetExt(d.Images.Card)),
		HeroImage:      path.Join("images", "bg"+AssetExt(d.Images.BG)),
		Date:           itemDate(d),
		Link:           path.Join(base, "index.html"),
	}
	if meta.IsBlog() {
		doc.Type = models.ItemTypeBlog
		doc.Author = meta.Author
		doc.PublishDate = meta.PublishDate
		doc.ReadTime = meta.ReadTime
	} else {
		doc.Tags = meta.Tags
	}
	return doc
}

func itemDate(d models.Draft) string {
	if d.Metadata.Date != "" {
		return d.Metadata.Date
	}
	if d.Metadata.IsBlog() && d.Metadata.PublishDate != "" {
		return d.Metadata.PublishDate
	}
	if !d.Timestamp.IsZero() {
		return d.Timestamp.UTC().Format(dateLayout)
	}
	return ""
}

// AssetExt picks the file extension for an uploaded asset: the one of its
// original name, else the one registered for its MIME type, else .jpg.
func AssetExt(a *models.Asset) string {
	if a == nil {
		return ".jpg"
	}
	if ext := strings.ToLower(filepath.Ext(a.Name)); ext != "" {
		return ext
	}
	if m := mimetype.Lookup(a.MIME); m != nil && m.Extension() != "" {
		return m.Extension()
	}
	return ".jpg"
}

// AssetFileName is the file name an uploaded document or gallery image is
// published under. Runs of dots collapse to one; the contents API refuses
// paths containing "..".
func AssetFileName(a models.Asset) string {
	name := path.Base(filepath.ToSlash(a.Name))
	name = strings.ReplaceAll(name, " ", "_")
	for strings.Contains(name, "..") {
		name = strings.ReplaceAll(name, "..", ".")
	}
	if name == "." || name == "/" || name == "" {
		name = "file"
	}
	if filepath.Ext(name) == "" {
		name += AssetExt(&a)
	}
	return name
}

// reservedImageStems are the image names taken by the card and hero images.
var reservedImageStems = []string{"card", "bg"}

// PublishedNames returns the file names documents and gallery images are
// published under, in draft order. Names are unique per folder: a clash
// gets a -1, -2, ... suffix before the extension, and gallery images never
// take the card or bg name.
func PublishedNames(d models.Draft) (documents, gallery []string) {
	return uniqueFileNames(d.Documents, nil), uniqueFileNames(d.GalleryImages, reservedImageStems)
}

func uniqueFileNames(assets []models.Asset, reserved []string) []string {
	taken := make(map[string]bool, len(assets)+len(reserved))
	for _, stem := range reserved {
		taken[stem] = true
	}
	names := make([]string, len(assets))
	for i, a := range assets {
		name := AssetFileName(a)
		ext := path.Ext(name)
		stem := strings.TrimSuffix(name, ext)
		candidate := name
		for n := 1; taken[strings.ToLower(candidate)] || taken[strings.ToLower(strings.TrimSuffix(candidate, ext))]; n++ {
			candidate = fmt.Sprintf("%s-%d%s", stem, n, ext)
		}
		taken[strings.ToLower(candidate)] = true
		names[i] = candidate
	}
	return names
}
