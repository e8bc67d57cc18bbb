package templates

import (
	"html/template"
	"io"
	"regexp"
	"strings"
)

var (
	youTubeID = regexp.MustCompile(`(?:youtube\.com/(?:[^/]+/.+/|(?:v|e(?:mbed)?)/|.*[?&]v=)|youtu\.be/)([^"&?/\s]{11})`)
	vimeoID   = regexp.MustCompile(`vimeo\.com/(\d+)`)
)

const builtinMarkup = `
{{define "text"}}<section class="concept-section">
  <h2>{{.Title}}</h2>
  <p style="white-space: pre-line;">{{.Text}}</p>
</section>
{{end}}

{{define "gallery"}}<section class="concept-section">
  <h2>{{.Title}}</h2>
  <div class="concept-gallery">
    {{- range .Images}}
    <img src="{{.src}}" alt="{{.alt}}" class="gallery-image-clickable">
    {{- end}}
  </div>
</section>
{{end}}

{{define "documents"}}<section class="concept-section">
  <h2>{{.Title}}</h2>
  <div class="documents-list">
    {{- range .Documents}}
    <a href="{{.src}}" class="document-item" download target="_blank">
      <div class="document-info">
        <span class="document-name">{{.name}}</span>
        {{- with .size}}
        <span class="document-size">{{.}}</span>
        {{- end}}
      </div>
    </a>
    {{- end}}
  </div>
</section>
{{end}}

{{define "video"}}<section class="concept-section">
  <h2>{{.Title}}</h2>
  <div class="video-container">
    {{- if eq .Kind "embed"}}
    <iframe class="concept-video" src="{{.Src}}" frameborder="0" allow="autoplay; fullscreen; picture-in-picture" allowfullscreen></iframe>
    {{- else if eq .Kind "link"}}
    <a href="{{.Src}}" target="_blank" class="video-link">Watch Video</a>
    {{- else}}
    <video class="concept-video" controls>
      <source src="{{.Src}}" type="video/mp4">
    </video>
    {{- end}}
  </div>
  {{- with .Description}}
  <p class="video-description">{{.}}</p>
  {{- end}}
</section>
{{end}}

{{define "features"}}<section class="concept-section">
  <h2>{{.Title}}</h2>
  <div class="features-list">
    {{- range .Items}}
    <div class="feature-item">
      {{- with .icon}}
      <span class="feature-icon">{{.}}</span>
      {{- end}}
      <span class="feature-text">{{.text}}</span>
    </div>
    {{- end}}
  </div>
</section>
{{end}}

{{define "comparison"}}<section class="concept-section">
  <h2>{{.Title}}</h2>
  <div class="comparison-container">
    <table class="comparison-table">
      <thead>
        <tr>
          <th></th>
          {{- range .Columns}}
          <th>{{.}}</th>
          {{- end}}
        </tr>
      </thead>
      <tbody>
        {{- range .Rows}}
        <tr>
          <td class="comparison-label">{{.Label}}</td>
          {{- range .Values}}
          <td>{{.}}</td>
          {{- end}}
        </tr>
        {{- end}}
      </tbody>
    </table>
  </div>
</section>
{{end}}

{{define "stats"}}<section class="concept-section">
  <h2>{{.Title}}</h2>
  <div class="stats-grid">
    {{- range .Metrics}}
    <div class="stat-item">
      <div class="stat-value">{{.value}}</div>
      <div class="stat-label">{{.label}}</div>
    </div>
    {{- end}}
  </div>
</section>
{{end}}

{{define "timeline"}}<section class="concept-section">
  <h2>{{.Title}}</h2>
  <div class="timeline-container">
    {{- range .Events}}
    <div class="timeline-item">
      <div class="timeline-marker"></div>
      <div class="timeline-content">
        <div class="timeline-date">{{.date}}</div>
        <h3 class="timeline-title">{{.title}}</h3>
        {{- with .description}}
        <p class="timeline-description">{{.}}</p>
        {{- end}}
      </div>
    </div>
    {{- end}}
  </div>
</section>
{{end}}

{{define "quote"}}<section class="concept-section">
  <div class="quote-container">
    <blockquote class="concept-quote">
      <p class="quote-text">"{{.Text}}"</p>
      {{- with .Author}}
      <footer class="quote-author">— {{.}}</footer>
      {{- end}}
    </blockquote>
  </div>
</section>
{{end}}

{{define "code"}}<section class="concept-section">
  <h2>{{.Title}}</h2>
  <div class="code-container">
    <pre class="code-block"><code class="language-{{.Language}}">{{.Code}}</code></pre>
  </div>
</section>
{{end}}

{{define "embed"}}<section class="concept-section">
  <h2>{{.Title}}</h2>
  <div class="embed-container" style="height: {{.Height}};">
    <iframe class="concept-embed" src="{{.Src}}" frameborder="0" allowfullscreen></iframe>
  </div>
</section>
{{end}}

{{define "split"}}<section class="concept-section">
  <h2>{{.Title}}</h2>
  <div class="split-container {{if .ImageLeft}}image-left{{else}}image-right{{end}}">
    <div class="split-image">
      <img src="{{.Image}}" alt="{{.Title}}" class="split-image-clickable">
    </div>
    <div class="split-text">
      <p style="white-space: pre-line;">{{.Text}}</p>
    </div>
  </div>
</section>
{{end}}

{{define "accordion"}}<section class="concept-section">
  <h2>{{.Title}}</h2>
  <div class="accordion-container">
    {{- range $i, $item := .Items}}
    <div class="accordion-item">
      <button class="accordion-header" data-index="{{$i}}">
        <span>{{$item.question}}</span>
        <span class="accordion-icon">▼</span>
      </button>
      <div class="accordion-content">
        <p style="white-space: pre-line;">{{$item.answer}}</p>
      </div>
    </div>
    {{- end}}
  </div>
</section>
{{end}}

{{define "slider"}}<section class="concept-section">
  <h2>{{.Title}}</h2>
  <div class="slider-container">
    <div class="slider-image-container">
      <img src="{{.Before}}" alt="{{.BeforeLabel}}" class="slider-image slider-before">
      <div class="slider-overlay">
        <img src="{{.After}}" alt="{{.AfterLabel}}" class="slider-image slider-after">
      </div>
      <div class="slider-handle">
        <div class="slider-line"></div>
      </div>
    </div>
    <div class="slider-labels">
      <span class="slider-label-before">{{.BeforeLabel}}</span>
      <span class="slider-label-after">{{.AfterLabel}}</span>
    </div>
  </div>
</section>
{{end}}

{{define "example"}}<section class="concept-section">
  {{- with .Title}}
  <h2>{{.}}</h2>
  {{- end}}
  <div class="example-box">
    <p>{{.Content}}</p>
  </div>
</section>
{{end}}

{{define "mistakes"}}<section class="concept-section">
  {{- with .Title}}
  <h2>{{.}}</h2>
  {{- end}}
  <div class="mistakes-container">
    {{- range .Items}}
    <div class="mistake-item">
      <span class="mistake-icon">❌</span>
      <span class="mistake-text">{{.}}</span>
    </div>
    {{- end}}
  </div>
</section>
{{end}}

{{define "bulletpoints"}}<section class="concept-section">
  {{- with .Title}}
  <h2>{{.}}</h2>
  {{- end}}
  <ul class="bulletpoints">
    {{- range .Items}}
    <li>{{.}}</li>
    {{- end}}
  </ul>
</section>
{{end}}

{{define "list"}}<section class="concept-section">
  {{- with .Title}}
  <h2>{{.}}</h2>
  {{- end}}
  {{if .Ordered}}<ol class="styled-list">{{else}}<ul class="styled-list">{{end}}
    {{- range .Items}}
    {{- if .label}}
    <li><strong>{{.label}}:</strong> {{.text}}</li>
    {{- else if .text}}
    <li>{{.text}}</li>
    {{- end}}
    {{- end}}
  {{if .Ordered}}</ol>{{else}}</ul>{{end}}
</section>
{{end}}

{{define "markdown"}}<section class="concept-section">
  {{- with .Title}}
  <h2>{{.}}</h2>
  {{- end}}
  <div class="markdown-body">{{.Body}}</div>
</section>
{{end}}

{{define "fallback"}}<section class="concept-section section-fallback">
  {{- with .Title}}
  <h2>{{.}}</h2>
  {{- end}}
  {{- with .Text}}
  <p style="white-space: pre-line;">{{.}}</p>
  {{- end}}
  {{- if .Notice}}
  <p class="section-unsupported">Unsupported section type: {{.Type}}</p>
  {{- end}}
</section>
{{end}}
`

var builtinSet = template.Must(template.New("builtin").Parse(builtinMarkup))

type builtinDef struct {
	typ    string
	label  string
	icon   string
	schema Schema
	view   func(f Fields) (any, bool, error)
}

// Builtin returns a registry populated with the standard section templates.
func Builtin() *Registry {
	r := NewRegistry()
	for _, def := range builtinDefs() {
		if err := r.Register(Template{
			Type:     def.typ,
			Label:    def.label,
			Icon:     def.icon,
			Schema:   def.schema,
			Renderer: builtinRenderer(def.typ, def.view),
		}); err != nil {
			panic(err)
		}
	}
	return r
}

// builtinRenderer executes the named template. A view that reports false
// renders nothing, matching sections whose required fields are empty.
func builtinRenderer(name string, view func(Fields) (any, bool, error)) Renderer {
	return func(w io.Writer, f Fields) error {
		data, ok, err := view(f)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		return builtinSet.ExecuteTemplate(w, name, data)
	}
}

func renderFallback(w io.Writer, f Fields) error {
	text := f.String("text")
	if text == "" {
		text = f.String("content")
	}
	if text == "" {
		text = f.String("body")
	}
	title := f.String("title")
	return builtinSet.ExecuteTemplate(w, "fallback", map[string]any{
		"Type":   f.String("type"),
		"Title":  title,
		"Text":   text,
		"Notice": title == "" && text == "",
	})
}

type comparisonRow struct {
	Label  string
	Values []string
}

func builtinDefs() []builtinDef {
	return []builtinDef{
		{
			typ: "text", label: "Text", icon: "📝",
			schema: Schema{Translatable: []string{"title", "text"}},
			view: func(f Fields) (any, bool, error) {
				return map[string]any{"Title": f.String("title"), "Text": f.String("text")}, true, nil
			},
		},
		{
			typ: "gallery", label: "Gallery", icon: "🖼️",
			schema: Schema{
				Translatable: []string{"title"},
				Shared:       []string{"images"},
				Arrays:       map[string]ItemSchema{"images": {Translatable: []string{"alt"}, Shared: []string{"src"}}},
			},
			view: func(f Fields) (any, bool, error) {
				images := f.List("images")
				return map[string]any{"Title": f.String("title"), "Images": images}, len(images) > 0, nil
			},
		},
		{
			typ: "documents", label: "Documents", icon: "📄",
			schema: Schema{
				Translatable: []string{"title"},
				Shared:       []string{"documents"},
				Arrays:       map[string]ItemSchema{"documents": {Translatable: []string{"name"}, Shared: []string{"src", "size"}}},
			},
			view: func(f Fields) (any, bool, error) {
				docs := f.List("documents")
				return map[string]any{"Title": f.String("title"), "Documents": docs}, len(docs) > 0, nil
			},
		},
		{
			typ: "video", label: "Video", icon: "🎥",
			schema: Schema{Translatable: []string{"title", "description"}, Shared: []string{"src"}},
			view: func(f Fields) (any, bool, error) {
				src := strings.TrimSpace(f.String("src"))
				if src == "" {
					return nil, false, nil
				}
				kind, embed := VideoSource(src)
				return map[string]any{
					"Title":       f.String("title"),
					"Description": f.String("description"),
					"Kind":        kind,
					"Src":         template.URL(embed),
				}, true, nil
			},
		},
		{
			typ: "features", label: "Features", icon: "✨",
			schema: Schema{
				Translatable: []string{"title"},
				Shared:       []string{"items"},
				Arrays:       map[string]ItemSchema{"items": {Translatable: []string{"text"}, Shared: []string{"icon"}}},
			},
			view: func(f Fields) (any, bool, error) {
				items := f.List("items")
				return map[string]any{"Title": f.String("title"), "Items": items}, len(items) > 0, nil
			},
		},
		{
			typ: "comparison", label: "Comparison", icon: "⚖️",
			schema: Schema{
				Translatable: []string{"title"},
				Shared:       []string{"columns", "rows"},
				Arrays: map[string]ItemSchema{
					"columns": {Translatable: []string{"text"}, Scalar: true},
					"rows":    {Translatable: []string{"label"}, Shared: []string{"values"}},
				},
			},
			view: func(f Fields) (any, bool, error) {
				columns := f.Strings("columns")
				rawRows := f.List("rows")
				if len(columns) == 0 || len(rawRows) == 0 {
					return nil, false, nil
				}
				rows := make([]comparisonRow, 0, len(rawRows))
				for _, row := range rawRows {
					rows = append(rows, comparisonRow{Label: row.String("label"), Values: splitValues(row)})
				}
				return map[string]any{"Title": f.String("title"), "Columns": columns, "Rows": rows}, true, nil
			},
		},
		{
			typ: "stats", label: "Stats", icon: "📊",
			schema: Schema{
				Translatable: []string{"title"},
				Shared:       []string{"metrics"},
				Arrays:       map[string]ItemSchema{"metrics": {Translatable: []string{"label"}, Shared: []string{"value"}}},
			},
			view: func(f Fields) (any, bool, error) {
				metrics := f.List("metrics")
				return map[string]any{"Title": f.String("title"), "Metrics": metrics}, len(metrics) > 0, nil
			},
		},
		{
			typ: "timeline", label: "Timeline", icon: "🗓️",
			schema: Schema{
				Translatable: []string{"title"},
				Shared:       []string{"events"},
				Arrays:       map[string]ItemSchema{"events": {Translatable: []string{"title", "description"}, Shared: []string{"date"}}},
			},
			view: func(f Fields) (any, bool, error) {
				events := f.List("events")
				return map[string]any{"Title": f.String("title"), "Events": events}, len(events) > 0, nil
			},
		},
		{
			typ: "quote", label: "Quote", icon: "💬",
			schema: Schema{Translatable: []string{"text", "author"}},
			view: func(f Fields) (any, bool, error) {
				text := f.String("text")
				return map[string]any{"Text": text, "Author": f.String("author")}, text != "", nil
			},
		},
		{
			typ: "code", label: "Code", icon: "💻",
			schema: Schema{
				Translatable: []string{"title"},
				Shared:       []string{"language", "code"},
				Defaults:     map[string]string{"language": "javascript"},
			},
			view: func(f Fields) (any, bool, error) {
				code := strings.Join(f.codeLines(), "\n")
				language := f.String("language")
				if language == "" {
					language = "text"
				}
				return map[string]any{"Title": f.String("title"), "Language": language, "Code": code}, code != "", nil
			},
		},
		{
			typ: "embed", label: "Embed", icon: "🧩",
			schema: Schema{
				Translatable: []string{"title"},
				Shared:       []string{"src", "height"},
				Defaults:     map[string]string{"height": "600px"},
			},
			view: func(f Fields) (any, bool, error) {
				src := f.String("src")
				height := f.String("height")
				if height == "" {
					height = "600px"
				}
				return map[string]any{"Title": f.String("title"), "Src": src, "Height": height}, src != "", nil
			},
		},
		{
			typ: "split", label: "Split", icon: "🪟",
			schema: Schema{
				Translatable: []string{"title", "text"},
				Shared:       []string{"image", "imagePosition"},
				Defaults:     map[string]string{"imagePosition": "left"},
			},
			view: func(f Fields) (any, bool, error) {
				image, text := f.String("image"), f.String("text")
				return map[string]any{
					"Title":     f.String("title"),
					"Text":      text,
					"Image":     image,
					"ImageLeft": f.String("imagePosition") != "right",
				}, image != "" && text != "", nil
			},
		},
		{
			typ: "accordion", label: "Accordion", icon: "🪗",
			schema: Schema{
				Translatable: []string{"title"},
				Shared:       []string{"items"},
				Arrays:       map[string]ItemSchema{"items": {Translatable: []string{"question", "answer"}}},
			},
			view: func(f Fields) (any, bool, error) {
				items := f.List("items")
				return map[string]any{"Title": f.String("title"), "Items": items}, len(items) > 0, nil
			},
		},
		{
			typ: "slider", label: "Before/After", icon: "↔️",
			schema: Schema{
				Translatable: []string{"title", "beforeLabel", "afterLabel"},
				Shared:       []string{"before", "after"},
			},
			view: func(f Fields) (any, bool, error) {
				before, after := f.String("before"), f.String("after")
				return map[string]any{
					"Title":       f.String("title"),
					"Before":      before,
					"After":       after,
					"BeforeLabel": orDefault(f.String("beforeLabel"), "Before"),
					"AfterLabel":  orDefault(f.String("afterLabel"), "After"),
				}, before != "" && after != "", nil
			},
		},
		{
			typ: "example", label: "Example", icon: "💡",
			schema: Schema{Translatable: []string{"title", "content"}},
			view: func(f Fields) (any, bool, error) {
				content := f.String("content")
				return map[string]any{"Title": f.String("title"), "Content": template.HTML(content)}, content != "", nil
			},
		},
		{
			typ: "mistakes", label: "Mistakes", icon: "❌",
			schema: Schema{
				Translatable: []string{"title"},
				Shared:       []string{"items"},
				Arrays:       map[string]ItemSchema{"items": {Translatable: []string{"text"}, Scalar: true}},
			},
			view: func(f Fields) (any, bool, error) {
				raw := f.Strings("items")
				items := make([]template.HTML, 0, len(raw))
				for _, s := range raw {
					items = append(items, template.HTML(s))
				}
				return map[string]any{"Title": f.String("title"), "Items": items}, len(items) > 0, nil
			},
		},
		{
			typ: "bulletpoints", label: "Bulletpoints", icon: "•",
			schema: Schema{
				Translatable: []string{"title"},
				Shared:       []string{"items"},
				Arrays:       map[string]ItemSchema{"items": {Translatable: []string{"text"}, Scalar: true}},
			},
			view: func(f Fields) (any, bool, error) {
				items := f.Strings("items")
				return map[string]any{"Title": f.String("title"), "Items": items}, len(items) > 0, nil
			},
		},
		{
			typ: "list", label: "List", icon: "📋",
			schema: Schema{
				Translatable: []string{"title"},
				Shared:       []string{"ordered", "items"},
				Arrays:       map[string]ItemSchema{"items": {Translatable: []string{"label", "text"}}},
				Defaults:     map[string]string{"ordered": "false"},
			},
			view: func(f Fields) (any, bool, error) {
				items := f.List("items")
				return map[string]any{"Title": f.String("title"), "Ordered": f.Bool("ordered"), "Items": items}, len(items) > 0, nil
			},
		},
		{
			typ: "markdown", label: "Markdown", icon: "✍️",
			schema: Schema{Translatable: []string{"title", "body"}},
			view: func(f Fields) (any, bool, error) {
				source := f.String("body")
				if strings.TrimSpace(source) == "" {
					return nil, false, nil
				}
				body, err := Markdown(source)
				if err != nil {
					return nil, false, err
				}
				return map[string]any{"Title": f.String("title"), "Body": body}, true, nil
			},
		},
	}
}

// VideoSource classifies a video reference. YouTube and Vimeo URLs become
// player embed URLs, other http(s) URLs are linked and anything else is
// treated as a local file.
func VideoSource(src string) (kind, url string) {
	if !strings.HasPrefix(src, "http://") && !strings.HasPrefix(src, "https://") {
		return "local", src
	}
	switch {
	case strings.Contains(src, "youtube.com") || strings.Contains(src, "youtu.be"):
		if m := youTubeID.FindStringSubmatch(src); m != nil {
			return "embed", "https://www.youtube.com/embed/" + m[1]
		}
		return "link", src
	case strings.Contains(src, "vimeo.com"):
		if m := vimeoID.FindStringSubmatch(src); m != nil {
			return "embed", "https://player.vimeo.com/video/" + m[1]
		}
		return "link", src
	}
	return "link", src
}

// codeLines accepts code stored either as one string or a list of lines.
func (f Fields) codeLines() []string {
	if _, ok := f["code"].([]any); ok {
		return f.Strings("code")
	}
	if s := f.String("code"); s != "" {
		return []string{s}
	}
	return nil
}

// splitValues reads comparison cells stored as a "|" separated string or a
// JSON list.
func splitValues(row Fields) []string {
	if _, ok := row["values"].([]any); ok {
		return row.Strings("values")
	}
	raw := row.String("values")
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
