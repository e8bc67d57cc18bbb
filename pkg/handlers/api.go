package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"portfolio-cms/pkg/drafts"
	"portfolio-cms/pkg/editor"
	"portfolio-cms/pkg/models"
	"portfolio-cms/pkg/remote"
	"portfolio-cms/pkg/services"
	"portfolio-cms/pkg/templates"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// API serves the admin's JSON endpoints. Every mutating call saves the
// draft and answers with its saved_at time.
type API struct {
	workspace  *services.Workspace
	registry   *templates.Registry
	settings   *drafts.SettingsStore
	preview    *services.Preview
	index      *services.Index
	mirror     *services.Mirror
	media      services.Media
	github     []remote.Option
	previewURL string
	logger     *zap.Logger
}

type APIOptions struct {
	Workspace  *services.Workspace
	Registry   *templates.Registry
	Settings   *drafts.SettingsStore
	Preview    *services.Preview
	Index      *services.Index
	Mirror     *services.Mirror
	Media      services.Media
	GitHub     []remote.Option
	PreviewURL string
	Logger     *zap.Logger
}

func NewAPI(opts APIOptions) *API {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &API{
		workspace:  opts.Workspace,
		registry:   opts.Registry,
		settings:   opts.Settings,
		preview:    opts.Preview,
		index:      opts.Index,
		mirror:     opts.Mirror,
		media:      opts.Media,
		github:     opts.GitHub,
		previewURL: opts.PreviewURL,
		logger:     logger,
	}
}

func (a *API) Register(api gin.IRouter) {
	api.GET("/settings", a.GetSettings)
	api.PUT("/settings", a.SaveSettings)
	api.POST("/settings/test", a.TestSettings)

	api.GET("/templates", a.ListTemplates)

	api.GET("/draft", a.GetDraft)
	api.DELETE("/draft", a.DiscardDraft)
	api.GET("/draft/metadata", a.GetMetadata)
	api.PUT("/draft/metadata", a.SaveMetadata)

	api.POST("/sections", a.AddSection)
	api.POST("/sections/:index/move", a.MoveSection)
	api.POST("/sections/:index/duplicate", a.DuplicateSection)
	api.DELETE("/sections/:index", a.RemoveSection)
	api.PUT("/sections/:index/fields", a.UpdateField)
	api.POST("/sections/:index/arrays/:field", a.AddArrayItem)
	api.DELETE("/sections/:index/arrays/:field/:item", a.RemoveArrayItem)
	api.PUT("/sections/:index/arrays/:field/:item", a.UpdateArrayItem)
	api.POST("/sections/:index/arrays/:field/:item/move", a.MoveArrayItem)

	api.POST("/media/:slot", a.UploadMedia)
	api.DELETE("/media/:slot", a.RemoveImage)

	api.GET("/preview", a.Preview)
	api.POST("/build", a.HandleBuild)
	api.POST("/diff", a.GetDiff)
	api.POST("/publish", a.HandlePublish)
	api.POST("/sync", a.HandleSync)

	api.GET("/blog-index", a.BlogIndex)
	api.GET("/concepts-index", a.ConceptsIndex)
}

// mutate runs fn against the session and answers with its result plus the
// new saved_at.
func (a *API) mutate(c *gin.Context, fn func(s *editor.Session) (gin.H, error)) {
	var out gin.H
	savedAt, err := a.workspace.Mutate(c.Request.Context(), func(s *editor.Session) error {
		var err error
		out, err = fn(s)
		return err
	})
	if err != nil {
		respondError(c, err)
		return
	}
	if out == nil {
		out = gin.H{}
	}
	out["saved_at"] = savedAt
	c.JSON(http.StatusOK, out)
}

func pathInt(c *gin.Context, name string) (int, bool) {
	n, err := strconv.Atoi(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid %s %q", name, c.Param(name))})
		return 0, false
	}
	return n, true
}

// --- Settings ---

func (a *API) GetSettings(c *gin.Context) {
	s, err := a.settings.Load(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.Masked())
}

func (a *API) SaveSettings(c *gin.Context) {
	var req models.Settings
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	ctx := c.Request.Context()
	// A masked token coming back from GetSettings keeps the stored one.
	if strings.HasPrefix(req.Token, "****") {
		current, err := a.settings.Load(ctx)
		if err != nil {
			respondError(c, err)
			return
		}
		req.Token = current.Token
	}
	if err := a.settings.Save(ctx, req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, req.WithDefaults().Masked())
}

// TestSettings checks the stored credentials against GitHub.
func (a *API) TestSettings(c *gin.Context) {
	ctx := c.Request.Context()
	s, err := a.settings.Load(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	if s.Token == "" {
		s.Token = services.TokenFromContext(ctx)
	}
	if err := s.Validate(); err != nil {
		respondError(c, fmt.Errorf("%w: %w", drafts.ErrSettingsMissing, err))
		return
	}

	gh := remote.NewGitHub(ctx, s, a.github...)
	user, err := gh.User(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	repo, err := gh.Repository(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"user":       user.Login,
		"repository": repo.FullName,
		"branch":     s.Branch,
		"can_push":   repo.CanPush,
	})
}

// --- Templates ---

type templateView struct {
	Type   string           `json:"type"`
	Label  string           `json:"label,omitempty"`
	Icon   string           `json:"icon,omitempty"`
	Schema templates.Schema `json:"schema"`
}

func (a *API) ListTemplates(c *gin.Context) {
	list := a.registry.List()
	out := make([]templateView, 0, len(list))
	for _, t := range list {
		out = append(out, templateView{Type: t.Type, Label: t.Label, Icon: t.Icon, Schema: t.Schema})
	}
	c.JSON(http.StatusOK, out)
}

// --- Draft ---

func (a *API) GetDraft(c *gin.Context) {
	c.JSON(http.StatusOK, a.workspace.Draft())
}

func (a *API) DiscardDraft(c *gin.Context) {
	if err := a.workspace.Discard(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "discarded"})
}

func (a *API) GetMetadata(c *gin.Context) {
	var meta models.Metadata
	a.workspace.View(func(s *editor.Session) { meta = s.Metadata() })
	c.JSON(http.StatusOK, meta)
}

func (a *API) SaveMetadata(c *gin.Context) {
	var meta models.Metadata
	if err := c.ShouldBindJSON(&meta); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	a.mutate(c, func(s *editor.Session) (gin.H, error) {
		if err := s.SetMetadata(meta); err != nil {
			return nil, err
		}
		return gin.H{"metadata": s.Metadata()}, nil
	})
}

// --- Sections ---

func (a *API) AddSection(c *gin.Context) {
	var req struct {
		Type string `json:"type" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type is required"})
		return
	}
	a.mutate(c, func(s *editor.Session) (gin.H, error) {
		i, err := s.AddSection(req.Type)
		if err != nil {
			return nil, err
		}
		section, err := s.Section(i)
		return gin.H{"index": i, "section": section}, err
	})
}

func (a *API) MoveSection(c *gin.Context) {
	index, ok := pathInt(c, "index")
	if !ok {
		return
	}
	var req struct {
		Direction string `json:"direction" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "direction is required"})
		return
	}
	a.mutate(c, func(s *editor.Session) (gin.H, error) {
		dir, err := editor.ParseDirection(req.Direction)
		if err != nil {
			return nil, err
		}
		moved, err := s.MoveSection(index, dir)
		return gin.H{"moved": moved}, err
	})
}

func (a *API) DuplicateSection(c *gin.Context) {
	index, ok := pathInt(c, "index")
	if !ok {
		return
	}
	a.mutate(c, func(s *editor.Session) (gin.H, error) {
		i, err := s.DuplicateSection(index)
		if err != nil {
			return nil, err
		}
		section, err := s.Section(i)
		return gin.H{"index": i, "section": section}, err
	})
}

func (a *API) RemoveSection(c *gin.Context) {
	index, ok := pathInt(c, "index")
	if !ok {
		return
	}
	a.mutate(c, func(s *editor.Session) (gin.H, error) {
		if err := s.RemoveSection(index); err != nil {
			return nil, err
		}
		return gin.H{"sections": s.Len()}, nil
	})
}

type fieldRequest struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
	Lang  string `json:"lang" binding:"required"`
}

func (a *API) UpdateField(c *gin.Context) {
	index, ok := pathInt(c, "index")
	if !ok {
		return
	}
	var req fieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "field and lang are required"})
		return
	}
	a.mutate(c, func(s *editor.Session) (gin.H, error) {
		if err := s.UpdateField(index, req.Field, req.Value, req.Lang); err != nil {
			return nil, err
		}
		section, err := s.Section(index)
		return gin.H{"section": section}, err
	})
}

func (a *API) AddArrayItem(c *gin.Context) {
	index, ok := pathInt(c, "index")
	if !ok {
		return
	}
	field := c.Param("field")
	a.mutate(c, func(s *editor.Session) (gin.H, error) {
		item, err := s.AddArrayItem(index, field)
		return gin.H{"item": item}, err
	})
}

func (a *API) RemoveArrayItem(c *gin.Context) {
	index, ok := pathInt(c, "index")
	if !ok {
		return
	}
	item, ok := pathInt(c, "item")
	if !ok {
		return
	}
	field := c.Param("field")
	a.mutate(c, func(s *editor.Session) (gin.H, error) {
		return nil, s.RemoveArrayItem(index, field, item)
	})
}

func (a *API) UpdateArrayItem(c *gin.Context) {
	index, ok := pathInt(c, "index")
	if !ok {
		return
	}
	item, ok := pathInt(c, "item")
	if !ok {
		return
	}
	var req fieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "field and lang are required"})
		return
	}
	field := c.Param("field")
	a.mutate(c, func(s *editor.Session) (gin.H, error) {
		return nil, s.UpdateArrayItemField(index, field, item, req.Field, req.Value, req.Lang)
	})
}

func (a *API) MoveArrayItem(c *gin.Context) {
	index, ok := pathInt(c, "index")
	if !ok {
		return
	}
	item, ok := pathInt(c, "item")
	if !ok {
		return
	}
	var req struct {
		Direction string `json:"direction" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "direction is required"})
		return
	}
	field := c.Param("field")
	a.mutate(c, func(s *editor.Session) (gin.H, error) {
		dir, err := editor.ParseDirection(req.Direction)
		if err != nil {
			return nil, err
		}
		moved, err := s.MoveArrayItem(index, field, item, dir)
		return gin.H{"moved": moved}, err
	})
}

// --- Preview and publish ---

func (a *API) Preview(c *gin.Context) {
	var buf bytes.Buffer
	if err := a.preview.Render(c.Request.Context(), &buf, a.workspace.Draft(), c.Query("lang")); err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (a *API) HandleBuild(c *gin.Context) {
	d := a.workspace.Draft()
	res, err := a.preview.Build(c.Request.Context(), d)
	if err != nil {
		a.logger.Error("preview build failed", zap.String("failed", res.Failed), zap.Error(err))
		respondError(c, err, gin.H{"written": res.Written, "failed": res.Failed})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"written": res.Written,
		"url":     a.previewURL + d.Metadata.BasePath() + "/",
	})
}

// GetDiff reports per artifact whether publishing would create, update or
// leave it unchanged.
func (a *API) GetDiff(c *gin.Context) {
	plan, err := a.workspace.Plan(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plan": plan})
}

func (a *API) HandlePublish(c *gin.Context) {
	res, err := a.workspace.Publish(c.Request.Context())
	if err != nil {
		respondError(c, err, gin.H{"written": res.Written, "failed": res.Failed})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "written": res.Written})
}

// HandleSync pulls published files from the target into the local
// checkout the site and the index read.
func (a *API) HandleSync(c *gin.Context) {
	res, err := a.mirror.Sync(c.Request.Context())
	if err != nil {
		respondError(c, err, gin.H{"updated": res.Updated})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "updated": res.Updated, "unchanged": res.Unchanged})
}

// --- Index ---

func (a *API) BlogIndex(c *gin.Context) {
	a.listFolder(c, "blog", "posts")
}

func (a *API) ConceptsIndex(c *gin.Context) {
	a.listFolder(c, "concepts", "concepts")
}

func (a *API) listFolder(c *gin.Context, folder, key string) {
	entries, err := a.index.List(folder)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{key: entries})
}
