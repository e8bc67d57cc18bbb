package pipeline

import (
	"bytes"
	"fmt"
	"path"

	"portfolio-cms/pkg/models"

	"github.com/goccy/go-json"
)

const (
	KindMetadata = "metadata"
	KindHTML     = "html"
	KindImage    = "image"
	KindContent  = "content"
	KindDocument = "document"
	KindGallery  = "gallery"
)

// Artifact is one file of a published item. Binary artifacts carry base64
// (optionally as a data URI); text artifacts carry the file text.
type Artifact struct {
	Path    string `json:"path"`
	Content string `json:"-"`
	Binary  bool   `json:"binary"`
	Kind    string `json:"kind"`
}

// BuildArtifacts validates the draft and returns its files in upload order:
// metadata, page shell, card and hero images, content documents, then
// documents and gallery images.
func (b *Builder) BuildArtifacts(d models.Draft) ([]Artifact, error) {
	if err := Validate(d); err != nil {
		return nil, err
	}
	base := d.Metadata.BasePath()

	metaJSON, err := MarshalDocument(BuildMetadataDocument(d))
	if err != nil {
		return nil, fmt.Errorf("pipeline: encode metadata: %w", err)
	}
	indexHTML, err := BuildIndexHTML(d)
	if err != nil {
		return nil, fmt.Errorf("pipeline: render index.html: %w", err)
	}

	out := []Artifact{
		{Path: path.Join(base, "data.json"), Content: metaJSON, Kind: KindMetadata},
		{Path: path.Join(base, "index.html"), Content: indexHTML, Kind: KindHTML},
	}
	out = append(out, imageArtifacts(d)...)
	for _, lang := range models.Languages {
		content, err := MarshalDocument(b.BuildContentDocument(d.Sections, lang))
		if err != nil {
			return nil, fmt.Errorf("pipeline: encode content-%s: %w", lang, err)
		}
		out = append(out, Artifact{Path: path.Join(base, "content-"+lang+".json"), Content: content, Kind: KindContent})
	}
	out = append(out, fileArtifacts(d)...)
	return out, nil
}

// AssetArtifacts returns the binary files of the draft: card and hero
// images, documents and gallery images. It does not validate the draft.
func AssetArtifacts(d models.Draft) []Artifact {
	return append(imageArtifacts(d), fileArtifacts(d)...)
}

func imageArtifacts(d models.Draft) []Artifact {
	base := d.Metadata.BasePath()
	var out []Artifact
	if a := d.Images.Card; a != nil {
		out = append(out, Artifact{Path: path.Join(base, "images", "card"+AssetExt(a)), Content: a.Data, Binary: true, Kind: KindImage})
	}
	if a := d.Images.BG; a != nil {
		out = append(out, Artifact{Path: path.Join(base, "images", "bg"+AssetExt(a)), Content: a.Data, Binary: true, Kind: KindImage})
	}
	return out
}

func fileArtifacts(d models.Draft) []Artifact {
	base := d.Metadata.BasePath()
	docs, gallery := PublishedNames(d)
	out := make([]Artifact, 0, len(docs)+len(gallery))
	for i, a := range d.Documents {
		out = append(out, Artifact{Path: path.Join(base, "documents", docs[i]), Content: a.Data, Binary: true, Kind: KindDocument})
	}
	for i, a := range d.GalleryImages {
		out = append(out, Artifact{Path: path.Join(base, "images", gallery[i]), Content: a.Data, Binary: true, Kind: KindGallery})
	}
	return out
}

// MarshalDocument encodes v as two-space indented JSON with a trailing
// newline. HTML characters are kept as written.
func MarshalDocument(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return buf.String(), nil
}
