package models

import (
	"path"
	"strings"
	"time"
)

const (
	ItemTypeConcept = "concept"
	ItemTypeBlog    = "blog"
)

// Metadata describes one published concept or blog entry.
type Metadata struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Title       Localized `json:"title"`
	Description Localized `json:"description"`
	Tags        []string  `json:"tags,omitempty"`
	Author      string    `json:"author,omitempty"`
	PublishDate string    `json:"publishDate,omitempty"`
	ReadTime    string    `json:"readTime,omitempty"`
	Date        string    `json:"date,omitempty"`
}

// IsBlog reports whether the entry is published under the blog folder.
// Anything that is not a blog entry is treated as a concept.
func (m Metadata) IsBlog() bool {
	return strings.EqualFold(strings.TrimSpace(m.Type), ItemTypeBlog)
}

// Folder is the top-level site folder the entry is published in.
func (m Metadata) Folder() string {
	if m.IsBlog() {
		return "blog"
	}
	return "concepts"
}

// BasePath is the folder holding the entry's artifact set, e.g. concepts/dungeon.
func (m Metadata) BasePath() string {
	return path.Join(m.Folder(), m.ID)
}

// Asset is an uploaded binary held inline as a data URI.
type Asset struct {
	Name string `json:"name"`
	MIME string `json:"mime"`
	Data string `json:"data"`
}

// Payload returns the base64 payload of the data URI, without its prefix.
func (a Asset) Payload() string {
	return StripDataURI(a.Data)
}

// StripDataURI drops a "data:<mime>;base64," prefix if one is present.
func StripDataURI(data string) string {
	if !strings.HasPrefix(data, "data:") {
		return data
	}
	if i := strings.Index(data, ","); i >= 0 {
		return data[i+1:]
	}
	return data
}

type Images struct {
	Card *Asset `json:"card,omitempty"`
	BG   *Asset `json:"bg,omitempty"`
}

// Draft is the persisted authoring state. It is replaced as a whole on
// every save.
type Draft struct {
	Metadata      Metadata  `json:"metadata"`
	Sections      []Section `json:"sections"`
	Images        Images    `json:"images"`
	Documents     []Asset   `json:"documents,omitempty"`
	GalleryImages []Asset   `json:"galleryImages,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

func (d Draft) IsEmpty() bool {
	return d.Metadata.ID == "" && len(d.Sections) == 0 &&
		d.Images.Card == nil && d.Images.BG == nil &&
		len(d.Documents) == 0 && len(d.GalleryImages) == 0
}
