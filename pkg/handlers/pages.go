package handlers

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
)

const pagesMarkup = `
{{define "login.html"}}<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><title>CMS Login</title></head>
<body>
<main class="login">
  <h1>Portfolio CMS</h1>
  {{if .Enabled}}<a class="btn" href="/login/github">Sign in with GitHub</a>
  {{else}}<p>GitHub login is not configured.</p>{{end}}
</main>
</body>
</html>{{end}}

{{define "index.html"}}<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><title>Portfolio CMS</title></head>
<body>
<header>
  <h1>Portfolio CMS</h1>
  {{with .Login}}<span class="user">{{.}}</span> <a href="/logout">Logout</a>{{end}}
</header>
<main>
  <section>
    <h2>Draft</h2>
    {{with .Draft.Metadata.ID}}<p>Editing <code>{{.}}</code></p>{{else}}<p>No item started.</p>{{end}}
    <p>{{len .Draft.Sections}} sections{{if not .Draft.Timestamp.IsZero}}, saved {{.Draft.Timestamp.Format "2006-01-02 15:04:05"}}{{end}}</p>
    <p><a href="/api/preview?lang=de">Preview (de)</a> | <a href="/api/preview?lang=en">Preview (en)</a></p>
  </section>
  <section>
    <h2>Section types</h2>
    <ul>{{range .Types}}<li>{{.}}</li>{{end}}</ul>
  </section>
</main>
</body>
</html>{{end}}
`

// Pages holds the server rendered admin pages.
func Pages() *template.Template {
	return template.Must(template.New("pages").Parse(pagesMarkup))
}

// Home renders the admin landing page.
func (a *API) Home(c *gin.Context) {
	login, _ := c.Get(sessionLogin)
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Login": login,
		"Draft": a.workspace.Draft(),
		"Types": a.registry.Types(),
	})
}
