package handlers

import (
	"portfolio-cms/pkg/logging"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RouterOptions struct {
	API           *API
	Auth          *Auth
	Site          *Site
	SessionSecret []byte
	// PreviewDir is served under PreviewURL when set.
	PreviewDir string
	PreviewURL string
	Logger     *zap.Logger
}

func NewRouter(opts RouterOptions) *gin.Engine {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	r := gin.New()
	r.Use(gin.Recovery(), logging.Middleware(logger.Named("http")))

	// Session Setup
	store := cookie.NewStore(opts.SessionSecret)
	store.Options(sessions.Options{Path: "/", MaxAge: 7 * 24 * 60 * 60, HttpOnly: true})
	r.Use(sessions.Sessions("cms_session", store))

	r.SetHTMLTemplate(Pages())
	if opts.PreviewDir != "" {
		r.Static(opts.PreviewURL, opts.PreviewDir)
	}

	// --- Public Routes ---
	opts.Auth.Register(r)
	opts.Site.Register(r)

	// --- Main App (Authorized) ---
	authorized := r.Group("/")
	authorized.Use(opts.Auth.AuthRequired)
	{
		authorized.GET("/", opts.API.Home)
		opts.API.Register(authorized.Group("/api"))
	}
	return r
}
