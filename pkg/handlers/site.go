package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"strings"

	"portfolio-cms/pkg/models"
	"portfolio-cms/pkg/remote"
	"portfolio-cms/pkg/services"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const languageCookie = "language"

// Site renders published items for visitors. It needs no session.
type Site struct {
	loader      *services.Loader
	defaultLang string
	logger      *zap.Logger
}

func NewSite(loader *services.Loader, defaultLang string, logger *zap.Logger) *Site {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !models.IsLanguage(defaultLang) {
		defaultLang = models.LangDE
	}
	return &Site{loader: loader, defaultLang: defaultLang, logger: logger}
}

func (s *Site) Register(r gin.IRouter) {
	r.GET("/site/*path", s.Serve)
}

// Serve answers /site/<folder>/<id>/ with the rendered page and any deeper
// path with the raw published file.
func (s *Site) Serve(c *gin.Context) {
	p := c.Param("path")
	ref, ok := services.ParseItemPath(p)
	if !ok {
		c.String(http.StatusNotFound, "Not found")
		return
	}
	// Relative asset links in the page need the trailing slash.
	if ref.File == "" && !strings.HasSuffix(p, "/") && !strings.HasSuffix(p, "/index.html") {
		target := "/site" + p + "/"
		if q := c.Request.URL.RawQuery; q != "" {
			target += "?" + q
		}
		c.Redirect(http.StatusMovedPermanently, target)
		return
	}

	ctx := c.Request.Context()
	if ref.File != "" {
		data, err := s.loader.File(ctx, ref)
		if errors.Is(err, remote.ErrNotFound) {
			c.String(http.StatusNotFound, "Not found")
			return
		}
		if err != nil {
			respondError(c, err)
			return
		}
		c.Data(http.StatusOK, mimetype.Detect(data).String(), data)
		return
	}

	var buf bytes.Buffer
	if err := s.loader.Render(ctx, &buf, ref, s.language(c)); err != nil {
		if errors.Is(err, services.ErrItemNotFound) {
			c.String(http.StatusNotFound, "Not found")
			return
		}
		s.logger.Error("render item", zap.String("item", ref.Base()), zap.Error(err))
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// language picks ?lang=, then the language cookie, then the default. An
// explicit ?lang= is remembered in the cookie.
func (s *Site) language(c *gin.Context) string {
	if lang := c.Query("lang"); models.IsLanguage(lang) {
		c.SetCookie(languageCookie, lang, 365*24*60*60, "/", "", false, false)
		return lang
	}
	if lang, err := c.Cookie(languageCookie); err == nil && models.IsLanguage(lang) {
		return lang
	}
	return s.defaultLang
}
