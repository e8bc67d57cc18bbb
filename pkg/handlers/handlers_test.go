package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"portfolio-cms/pkg/drafts"
	"portfolio-cms/pkg/editor"
	"portfolio-cms/pkg/pipeline"
	"portfolio-cms/pkg/remote"
	"portfolio-cms/pkg/services"
	"portfolio-cms/pkg/templates"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

type fixture struct {
	router   *gin.Engine
	root     string
	drafts   *drafts.Drafts
	settings *drafts.SettingsStore
}

type fixtureOptions struct {
	target func(settings *drafts.SettingsStore, root string) services.Target
	auth   AuthOptions
}

func newFixture(t *testing.T, opts fixtureOptions) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	root := t.TempDir()
	reg := templates.Builtin()
	builder := pipeline.NewBuilder(reg)
	publisher := services.NewPublisher(builder, nil)
	d := drafts.NewDrafts(drafts.NewMemoryStore(), nil)
	settings := drafts.NewSettingsStore(drafts.NewMemoryStore(), nil)
	index := services.NewIndex(root, nil)
	renderer := services.NewPageRenderer(reg, "/", nil)

	target := services.LocalTarget(root)
	wsOpts := services.WorkspaceOptions{
		Registry:  reg,
		Drafts:    d,
		Publisher: publisher,
		Index:     index,
	}
	if opts.target != nil {
		target = opts.target(settings, root)
		wsOpts.Mirror = services.NewMirror(remote.NewLocal(root), target, publisher, index, nil)
	}
	wsOpts.Target = target
	ws, err := services.NewWorkspace(ctx, wsOpts)
	require.NoError(t, err)

	previewDir := t.TempDir()
	api := NewAPI(APIOptions{
		Workspace:  ws,
		Registry:   reg,
		Settings:   settings,
		Preview:    services.NewPreview(builder, renderer, publisher, previewDir, "/preview/"),
		Index:      index,
		Mirror:     services.NewMirror(remote.NewLocal(root), target, publisher, index, nil),
		Media:      services.Media{},
		PreviewURL: "/preview/",
	})
	auth := opts.auth
	if auth.OAuth == nil && !auth.Disabled {
		auth.Disabled = true
	}
	site := NewSite(services.NewLoader(remote.NewLocal(root), renderer, nil), "de", nil)

	return &fixture{
		router: NewRouter(RouterOptions{
			API:           api,
			Auth:          NewAuth(auth),
			Site:          site,
			SessionSecret: []byte("test-secret"),
			PreviewDir:    previewDir,
			PreviewURL:    "/preview/",
		}),
		root:     root,
		drafts:   d,
		settings: settings,
	}
}

func (f *fixture) do(t *testing.T, method, target string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

// fillDraft authors a publishable concept with one quote section.
func (f *fixture) fillDraft(t *testing.T) {
	t.Helper()
	rec := f.do(t, http.MethodPut, "/api/draft/metadata", map[string]any{
		"id":    "Dungeon Crawl",
		"type":  "concept",
		"title": map[string]string{"de": "Verlies", "en": "Dungeon"},
		"date":  "2024-03-09",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = f.do(t, http.MethodPost, "/api/sections", map[string]string{"type": "quote"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	for lang, text := range map[string]string{"de": "Hallo", "en": "Hello"} {
		rec = f.do(t, http.MethodPut, "/api/sections/0/fields", map[string]string{"field": "text", "value": text, "lang": lang})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}
}

func TestSectionEndpointsAutosave(t *testing.T) {
	f := newFixture(t, fixtureOptions{})

	rec := f.do(t, http.MethodPost, "/api/sections", map[string]string{"type": "quote"})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.EqualValues(t, 0, body["index"])
	assert.NotEmpty(t, body["saved_at"])

	rec = f.do(t, http.MethodPut, "/api/sections/0/fields", map[string]string{"field": "text", "value": "Hallo", "lang": "de"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/sections/0/duplicate", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decode(t, rec)["index"])

	rec = f.do(t, http.MethodPost, "/api/sections/1/move", map[string]string{"direction": "up"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode(t, rec)["moved"])

	rec = f.do(t, http.MethodDelete, "/api/sections/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decode(t, rec)["sections"])

	stored, err := f.drafts.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, stored.Sections, 1)
	assert.Equal(t, "Hallo", stored.Sections[0].Translatable["text"]["de"])
}

func TestSectionEndpointErrors(t *testing.T) {
	f := newFixture(t, fixtureOptions{})

	rec := f.do(t, http.MethodPost, "/api/sections", map[string]string{"type": "hologram"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec)["error"], "unknown section template")

	rec = f.do(t, http.MethodPost, "/api/sections", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodDelete, "/api/sections/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodDelete, "/api/sections/3", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/draft", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode(t, rec)["sections"])
}

func TestArrayEndpoints(t *testing.T) {
	f := newFixture(t, fixtureOptions{})
	require.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/api/sections", map[string]string{"type": "features"}).Code)

	for i := 0; i < 2; i++ {
		rec := f.do(t, http.MethodPost, "/api/sections/0/arrays/items", nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.EqualValues(t, i, decode(t, rec)["item"])
	}

	rec := f.do(t, http.MethodPut, "/api/sections/0/arrays/items/1", map[string]string{"field": "text", "value": "Fast", "lang": "en"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = f.do(t, http.MethodPost, "/api/sections/0/arrays/items/1/move", map[string]string{"direction": "up"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = f.do(t, http.MethodDelete, "/api/sections/0/arrays/items/1", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = f.do(t, http.MethodPost, "/api/sections/0/arrays/title", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	stored, err := f.drafts.Load(context.Background())
	require.NoError(t, err)
	items := stored.Sections[0].Arrays["items"]
	require.Len(t, items, 1)
	assert.Equal(t, "Fast", items[0].Translatable["text"]["en"])
}

func TestMetadataIsNormalized(t *testing.T) {
	f := newFixture(t, fixtureOptions{})
	f.fillDraft(t)

	rec := f.do(t, http.MethodGet, "/api/draft/metadata", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "dungeon-crawl", body["id"])
	assert.Equal(t, "concept", body["type"])
}

func TestPublishRejectsInvalidDraft(t *testing.T) {
	f := newFixture(t, fixtureOptions{})
	rec := f.do(t, http.MethodPost, "/api/publish", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.Contains(t, body, "fields")
	entries, err := os.ReadDir(f.root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPublishAndServeSite(t *testing.T) {
	f := newFixture(t, fixtureOptions{})
	f.fillDraft(t)

	rec := f.do(t, http.MethodPost, "/api/diff", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotEmpty(t, decode(t, rec)["plan"])

	rec = f.do(t, http.MethodPost, "/api/publish", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, decode(t, rec)["written"], "concepts/dungeon-crawl/data.json")
	assert.FileExists(t, filepath.Join(f.root, "concepts", "dungeon-crawl", "content-en.json"))

	rec = f.do(t, http.MethodGet, "/api/draft", nil)
	assert.Empty(t, decode(t, rec)["sections"])

	rec = f.do(t, http.MethodGet, "/api/concepts-index", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{"concepts/dungeon-crawl/data.json"}, decode(t, rec)["concepts"])
	rec = f.do(t, http.MethodGet, "/api/blog-index", nil)
	assert.Equal(t, []any{}, decode(t, rec)["posts"])

	rec = f.do(t, http.MethodGet, "/site/concepts/dungeon-crawl?lang=en", nil)
	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "/site/concepts/dungeon-crawl/?lang=en", rec.Header().Get("Location"))

	rec = f.do(t, http.MethodGet, "/site/concepts/dungeon-crawl/?lang=en", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<title>Dungeon</title>")
	assert.Contains(t, rec.Body.String(), "Hello")

	var langCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == languageCookie {
			langCookie = c
		}
	}
	require.NotNil(t, langCookie)
	rec = f.do(t, http.MethodGet, "/site/concepts/dungeon-crawl/", nil, langCookie)
	assert.Contains(t, rec.Body.String(), "Hello")

	rec = f.do(t, http.MethodGet, "/site/concepts/dungeon-crawl/", nil)
	assert.Contains(t, rec.Body.String(), "Hallo")

	rec = f.do(t, http.MethodGet, "/site/concepts/dungeon-crawl/data.json", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "json")

	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodGet, "/site/concepts/missing/", nil).Code)
	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodGet, "/site/other/x/", nil).Code)
}

func TestPreviewAndBuild(t *testing.T) {
	f := newFixture(t, fixtureOptions{})
	f.fillDraft(t)

	rec := f.do(t, http.MethodGet, "/api/preview?lang=en", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Hello")
	assert.Contains(t, rec.Body.String(), `<base href="/preview/concepts/dungeon-crawl/">`)

	rec = f.do(t, http.MethodPost, "/api/build", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, "/preview/concepts/dungeon-crawl/", body["url"])

	rec = f.do(t, http.MethodGet, "/preview/concepts/dungeon-crawl/data.json", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Building a preview keeps the draft.
	rec = f.do(t, http.MethodGet, "/api/draft", nil)
	assert.NotEmpty(t, decode(t, rec)["sections"])
}

func TestSettingsMasking(t *testing.T) {
	f := newFixture(t, fixtureOptions{})
	ctx := context.Background()

	rec := f.do(t, http.MethodPut, "/api/settings", map[string]string{"token": "ghp_secret1234", "user": "octo", "repo": "site"})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "****1234", body["token"])
	assert.Equal(t, "main", body["branch"])

	rec = f.do(t, http.MethodPut, "/api/settings", map[string]string{"token": "****1234", "user": "octo", "repo": "site", "branch": "pages"})
	require.Equal(t, http.StatusOK, rec.Code)
	stored, err := f.settings.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ghp_secret1234", stored.Token)
	assert.Equal(t, "pages", stored.Branch)

	rec = f.do(t, http.MethodGet, "/api/settings", nil)
	assert.Equal(t, "****1234", decode(t, rec)["token"])
}

func TestPublishWithoutSettings(t *testing.T) {
	f := newFixture(t, fixtureOptions{
		target: func(settings *drafts.SettingsStore, _ string) services.Target {
			return services.GitHubTarget(settings)
		},
	})
	f.fillDraft(t)

	rec := f.do(t, http.MethodPost, "/api/publish", nil)
	assert.Equal(t, http.StatusPreconditionFailed, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/settings/test", nil)
	assert.Equal(t, http.StatusPreconditionFailed, rec.Code)
}

func TestPublishRemoteFailure(t *testing.T) {
	gh := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusUnprocessableEntity)
		fmt.Fprint(w, `{"message":"Invalid request"}`)
	}))
	defer gh.Close()

	f := newFixture(t, fixtureOptions{
		target: func(settings *drafts.SettingsStore, _ string) services.Target {
			return services.GitHubTarget(settings, remote.WithBaseURL(gh.URL))
		},
	})
	f.fillDraft(t)
	require.Equal(t, http.StatusOK, f.do(t, http.MethodPut, "/api/settings", map[string]string{"token": "t", "user": "octo", "repo": "site"}).Code)

	rec := f.do(t, http.MethodPost, "/api/publish", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "concepts/dungeon-crawl/data.json", body["failed"])
	assert.Contains(t, body["error"], "Invalid request")

	rec = f.do(t, http.MethodGet, "/api/draft", nil)
	assert.NotEmpty(t, decode(t, rec)["sections"])
}

func TestMediaUpload(t *testing.T) {
	f := newFixture(t, fixtureOptions{})
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

	upload := func(slot, name string, data []byte) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		part, err := mw.CreateFormFile("file", name)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/media/"+slot, &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)
		return rec
	}

	rec := upload("card", "my card", png)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "my_card.png", decode(t, rec)["name"])

	rec = upload("card", "notes.txt", []byte("plain text"))
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)

	rec = upload("document", "notes.txt", []byte("plain text"))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = upload("gallery", "card.png", png)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "card-1.png", decode(t, rec)["name"])
	rec = upload("gallery", "card.png", png)
	assert.Equal(t, "card-2.png", decode(t, rec)["name"])

	stored, err := f.drafts.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, stored.Images.Card)
	assert.Equal(t, "image/png", stored.Images.Card.MIME)
	assert.Len(t, stored.Documents, 1)
	assert.Len(t, stored.GalleryImages, 2)

	rec = f.do(t, http.MethodDelete, "/api/media/card", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stored, _ = f.drafts.Load(context.Background())
	assert.Nil(t, stored.Images.Card)
}

func TestListTemplates(t *testing.T) {
	f := newFixture(t, fixtureOptions{})
	rec := f.do(t, http.MethodGet, "/api/templates", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var list []templateView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	types := make([]string, 0, len(list))
	for _, v := range list {
		types = append(types, v.Type)
	}
	assert.Contains(t, types, "quote")
	assert.Contains(t, types, "markdown")
}

func TestAuthRequired(t *testing.T) {
	f := newFixture(t, fixtureOptions{auth: AuthOptions{OAuth: &oauth2.Config{ClientID: "id"}}})

	assert.Equal(t, http.StatusUnauthorized, f.do(t, http.MethodGet, "/api/draft", nil).Code)

	rec := f.do(t, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	rec = f.do(t, http.MethodGet, "/login", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Sign in with GitHub")

	// The public site needs no session.
	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodGet, "/site/blog/none/", nil).Code)
}

func TestOAuthFlow(t *testing.T) {
	gh := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/login/oauth/access_token":
			fmt.Fprint(w, `{"access_token":"gho_user","token_type":"bearer"}`)
		case "/user":
			if r.Header.Get("Authorization") != "Bearer gho_user" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			fmt.Fprint(w, `{"login":"octo"}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer gh.Close()

	oauthConf := &oauth2.Config{
		ClientID:     "id",
		ClientSecret: "secret",
		Endpoint: oauth2.Endpoint{
			AuthURL:  gh.URL + "/login/oauth/authorize",
			TokenURL: gh.URL + "/login/oauth/access_token",
		},
	}
	signIn := func(t *testing.T, allowed string) (*httptest.ResponseRecorder, *fixture) {
		f := newFixture(t, fixtureOptions{auth: AuthOptions{
			OAuth:   oauthConf,
			Allowed: func(login string) bool { return login == allowed },
			GitHub:  []remote.Option{remote.WithBaseURL(gh.URL)},
		}})
		rec := f.do(t, http.MethodGet, "/login/github", nil)
		require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
		loc, err := url.Parse(rec.Header().Get("Location"))
		require.NoError(t, err)
		state := loc.Query().Get("state")
		require.NotEmpty(t, state)

		cookies := rec.Result().Cookies()
		rec = f.do(t, http.MethodGet, "/auth/callback?code=abc&state=wrong", nil, cookies...)
		require.Equal(t, http.StatusBadRequest, rec.Code)

		return f.do(t, http.MethodGet, "/auth/callback?code=abc&state="+url.QueryEscape(state), nil, cookies...), f
	}

	t.Run("allowed", func(t *testing.T) {
		rec, f := signIn(t, "octo")
		require.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/", rec.Header().Get("Location"))

		rec = f.do(t, http.MethodGet, "/api/draft", nil, rec.Result().Cookies()...)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("rejected", func(t *testing.T) {
		rec, _ := signIn(t, "someone-else")
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestSyncPullsPublishedItems(t *testing.T) {
	gh := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/octo/site/contents/concepts":
			fmt.Fprint(w, `[{"type":"dir","path":"concepts/dungeon","sha":"d1"}]`)
		case "/repos/octo/site/contents/concepts/dungeon":
			fmt.Fprint(w, `[{"type":"file","path":"concepts/dungeon/data.json","sha":"f1"}]`)
		case "/repos/octo/site/contents/concepts/dungeon/data.json":
			fmt.Fprint(w, `{"type":"file","encoding":"base64","content":"e30=","sha":"f1"}`)
		default:
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"message":"Not Found"}`)
		}
	}))
	defer gh.Close()

	f := newFixture(t, fixtureOptions{
		target: func(settings *drafts.SettingsStore, _ string) services.Target {
			return services.GitHubTarget(settings, remote.WithBaseURL(gh.URL))
		},
	})
	rec := f.do(t, http.MethodPost, "/api/sync", nil)
	assert.Equal(t, http.StatusPreconditionFailed, rec.Code)

	require.Equal(t, http.StatusOK, f.do(t, http.MethodPut, "/api/settings", map[string]string{"token": "t", "user": "octo", "repo": "site"}).Code)
	rec = f.do(t, http.MethodPost, "/api/sync", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []any{"concepts/dungeon/data.json"}, decode(t, rec)["updated"])

	rec = f.do(t, http.MethodGet, "/api/concepts-index", nil)
	assert.Equal(t, []any{"concepts/dungeon/data.json"}, decode(t, rec)["concepts"])
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: id", pipeline.ErrValidation), http.StatusBadRequest},
		{editor.ErrIndexOutOfRange, http.StatusBadRequest},
		{fmt.Errorf("%w: token", drafts.ErrSettingsMissing), http.StatusPreconditionFailed},
		{services.ErrPublishInProgress, http.StatusConflict},
		{&services.UploadError{Path: "a", Err: &remote.APIError{Status: 409, Message: "sha"}}, http.StatusBadGateway},
		{&remote.APIError{Status: 401}, http.StatusBadGateway},
		{fmt.Errorf("%w: blog/x", services.ErrItemNotFound), http.StatusNotFound},
		{services.ErrUnsupportedMedia, http.StatusUnsupportedMediaType},
		{errors.New("disk full"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, statusFor(tc.err), tc.err.Error())
	}
}

func TestHome(t *testing.T) {
	f := newFixture(t, fixtureOptions{})
	f.fillDraft(t)
	rec := f.do(t, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "dungeon-crawl"))
}
