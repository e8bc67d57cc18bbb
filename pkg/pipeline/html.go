package pipeline

import (
	"bytes"
	"html/template"

	"portfolio-cms/pkg/models"
)

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="de">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}} - {{if .Concept}}Game Concepts{{else}}Blog{{end}}</title>
    <link rel="stylesheet" href="../../assets/css/style-base.css?v=2">
    <link rel="stylesheet" href="../../assets/css/style-concepts.css?v=2">
{{- if not .Concept}}
    <link rel="stylesheet" href="../../assets/css/style-blog-post.css?v=2">
{{- end}}
</head>
<body>
    <nav id="navbarPlaceholder" class="navbar" style="min-height:77px; visibility:hidden;"></nav>

    <div class="back-button-container" style="opacity:0; transition: opacity 0.2s ease;">
        <a href="{{.BackLink}}" class="back-button" data-i18n="{{.BackKey}}">← Back to {{if .Concept}}Portfolio{{else}}Blog{{end}}</a>
    </div>

    <section class="{{.Kind}}-detail">
        <div class="{{.Kind}}-hero">
            <img src="{{.HeroImage}}" alt="{{if .Concept}}Concept{{else}}Blog{{end}} Hero Image" class="{{.Kind}}-hero-image" id="{{.Prefix}}HeroImage" loading="eager">
            <div class="{{.Kind}}-hero-overlay">
                <h1 id="{{.Prefix}}Title">{{.Title}}</h1>
                <p class="{{.Kind}}-subtitle" id="{{.Prefix}}Description">{{.Description}}</p>
{{- if not .Concept}}
                <p class="concept-subtitle" id="postMeta"></p>
{{- end}}
            </div>
        </div>

        <div class="container {{.Kind}}-content">
            <div class="{{.Kind}}-main">
                <div id="{{.Prefix}}Skeleton" class="skeleton-container">
                    <div class="skeleton skeleton-title"></div>
                    <div class="skeleton skeleton-subtitle"></div>
                    <div class="skeleton skeleton-text"></div>
                    <div class="skeleton skeleton-text"></div>
                    <div class="skeleton skeleton-text short"></div>
                </div>

                <div id="{{.ContentID}}" style="opacity: 0; transition: opacity 0.3s ease;"></div>
            </div>
        </div>
    </section>

    <footer class="footer">
        <div class="container">
            <p data-i18n="footer.copyright">&copy; 2025 Game Concept Portfolio. All rights reserved.</p>
        </div>
    </footer>

    <script src="../../assets/js/navbar-loader.js"></script>
    <script src="../../assets/js/i18n.js"></script>
    <script src="../../assets/js/script.js"></script>
{{- range .Scripts}}
    <script src="../../assets/js/{{.}}"></script>
{{- end}}
    <script src="../../assets/js/parallax.js"></script>
</body>
</html>
`))

type indexView struct {
	Concept     bool
	Kind        string
	Prefix      string
	Title       string
	Description string
	HeroImage   string
	BackLink    string
	BackKey     string
	ContentID   string
	Scripts     []string
}

// BuildIndexHTML renders the static page shell of an item. Concepts and
// blog posts differ in markup ids, stylesheets and loader scripts.
func BuildIndexHTML(d models.Draft) (string, error) {
	meta := d.Metadata
	view := indexView{
		Concept:     !meta.IsBlog(),
		Title:       meta.Title.Get(models.LangEN),
		Description: meta.Description.Get(models.LangEN),
		HeroImage:   "images/bg" + AssetExt(d.Images.BG),
	}
	if view.Concept {
		view.Kind, view.Prefix = "concept", "concept"
		view.BackLink, view.BackKey = "../../concepts.html", "concept.back"
		view.ContentID = "conceptContentSections"
		view.Scripts = []string{"portfolio.js", "concept-templates.js", "concept-loader.js"}
	} else {
		view.Kind, view.Prefix = "blog", "post"
		view.BackLink, view.BackKey = "../../blog.html", "blog.backToBlog"
		view.ContentID = "postContent"
		view.Scripts = []string{"blog.js", "concept-templates.js", "blog-loader.js"}
	}

	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, view); err != nil {
		return "", err
	}
	return buf.String(), nil
}
