package services

import (
	"bytes"
	"html/template"
	"io"
	"strings"

	"portfolio-cms/pkg/models"
	"portfolio-cms/pkg/pipeline"
	"portfolio-cms/pkg/templates"

	"go.uber.org/zap"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="{{.Lang}}">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    {{- with .Base}}
    <base href="{{.}}">
    {{- end}}
    <link rel="stylesheet" href="{{.AssetBase}}assets/css/style-base.css?v=2">
    <link rel="stylesheet" href="{{.AssetBase}}assets/css/style-concepts.css?v=2">
</head>
<body>
    <section class="{{.Kind}}-detail">
        <div class="{{.Kind}}-hero">
            {{- if .HeroImage}}
            <img src="{{.HeroImage}}" alt="" class="{{.Kind}}-hero-image">
            {{- end}}
            <div class="{{.Kind}}-hero-overlay">
                <h1>{{.Title}}</h1>
                {{- with .Description}}
                <p class="{{$.Kind}}-subtitle">{{.}}</p>
                {{- end}}
                {{- with .Byline}}
                <p class="concept-subtitle">{{.}}</p>
                {{- end}}
            </div>
        </div>
        <div class="container {{.Kind}}-content">
            <div class="{{.Kind}}-main">
{{.Sections}}
            </div>
        </div>
    </section>
</body>
</html>
`))

// Page is a published item ready to render in one language.
type Page struct {
	Meta     pipeline.MetadataDocument
	Lang     string
	Sections []map[string]any
	// HeroImage overrides the hero_image reference, e.g. with a data URI.
	HeroImage template.URL
	// Base, when set, is the URL item-relative references resolve against.
	Base string
}

type pageView struct {
	Lang        string
	Kind        string
	Title       string
	Description string
	Byline      string
	HeroImage   any
	Base        string
	AssetBase   string
	Sections    template.HTML
}

// PageRenderer renders a full item page, sections through the registry.
type PageRenderer struct {
	registry  *templates.Registry
	logger    *zap.Logger
	assetBase string
}

func NewPageRenderer(registry *templates.Registry, assetBase string, logger *zap.Logger) *PageRenderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PageRenderer{registry: registry, logger: logger, assetBase: assetBase}
}

// Render writes the page. A section that fails to render is replaced by
// its fallback and logged; it never fails the page.
func (r *PageRenderer) Render(w io.Writer, p Page) error {
	var sections bytes.Buffer
	if err := r.registry.RenderAll(&sections, p.Sections); err != nil {
		r.logger.Warn("section render failed", zap.String("item", p.Meta.Link), zap.Error(err))
	}

	view := pageView{
		Lang:        p.Lang,
		Kind:        "concept",
		Title:       pick(p.Lang, p.Meta.TitleDE, p.Meta.TitleEN),
		Description: pick(p.Lang, p.Meta.DescriptionDE, p.Meta.DescriptionEN),
		Base:        p.Base,
		AssetBase:   r.assetBase,
		Sections:    template.HTML(sections.String()),
	}
	if p.Meta.Type == models.ItemTypeBlog {
		view.Kind = "blog"
		view.Byline = byline(p.Meta)
	}
	switch {
	case p.HeroImage != "":
		view.HeroImage = p.HeroImage
	case p.Meta.HeroImage != "":
		view.HeroImage = p.Meta.HeroImage
	}
	return pageTemplate.Execute(w, view)
}

func pick(lang, de, en string) string {
	if lang == models.LangEN {
		return en
	}
	return de
}

func byline(m pipeline.MetadataDocument) string {
	parts := make([]string, 0, 3)
	for _, s := range []string{m.Author, m.PublishDate, m.ReadTime} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " · ")
}
