package services

import (
	"context"
	"html/template"
	"io"

	"portfolio-cms/pkg/models"
	"portfolio-cms/pkg/pipeline"
	"portfolio-cms/pkg/remote"
)

// Preview shows an unpublished draft, either rendered in memory or built
// into the preview directory that is served statically.
type Preview struct {
	builder   *pipeline.Builder
	renderer  *PageRenderer
	publisher *Publisher
	store     *remote.Local
	url       string
}

// NewPreview builds into dir, which is served at url.
func NewPreview(builder *pipeline.Builder, renderer *PageRenderer, publisher *Publisher, dir, url string) *Preview {
	return &Preview{builder: builder, renderer: renderer, publisher: publisher, store: remote.NewLocal(dir), url: url}
}

// Render writes the page of the draft in one language. Hero images are
// inlined. When the draft has a usable id its uploaded files are copied to
// the preview directory and the page's relative references resolve there.
func (p *Preview) Render(ctx context.Context, w io.Writer, d models.Draft, lang string) error {
	if !models.IsLanguage(lang) {
		lang = models.LangDE
	}
	page := Page{
		Meta:     pipeline.BuildMetadataDocument(d),
		Lang:     lang,
		Sections: p.builder.BuildContentDocument(d.Sections, lang).Sections,
	}
	if d.Images.BG != nil {
		page.HeroImage = template.URL(d.Images.BG.Data)
	}
	if pipeline.ValidID(d.Metadata.ID) {
		if err := p.writeAssets(ctx, d); err != nil {
			return err
		}
		page.Base = p.url + d.Metadata.BasePath() + "/"
	}
	return p.renderer.Render(w, page)
}

func (p *Preview) writeAssets(ctx context.Context, d models.Draft) error {
	for _, a := range pipeline.AssetArtifacts(d) {
		if err := p.publisher.Upload(ctx, p.store, a.Path, a.Content, a.Binary); err != nil {
			return err
		}
	}
	return nil
}

// Build writes the artifact set of the draft into the preview directory.
// Files of an earlier build are replaced.
func (p *Preview) Build(ctx context.Context, d models.Draft) (Result, error) {
	var res Result
	artifacts, err := p.builder.BuildArtifacts(d)
	if err != nil {
		return res, err
	}
	for _, a := range artifacts {
		if err := p.publisher.Upload(ctx, p.store, a.Path, a.Content, a.Binary); err != nil {
			res.Failed = a.Path
			return res, err
		}
		res.Written = append(res.Written, a.Path)
	}
	return res, nil
}
