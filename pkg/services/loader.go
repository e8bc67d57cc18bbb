package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"portfolio-cms/pkg/models"
	"portfolio-cms/pkg/pipeline"
	"portfolio-cms/pkg/remote"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// ErrItemNotFound means the requested item has no data.json.
var ErrItemNotFound = errors.New("item not found")

// ItemRef addresses a file of a published item. File is empty for the
// item page itself.
type ItemRef struct {
	Folder string
	ID     string
	File   string
}

func (r ItemRef) Base() string {
	return path.Join(r.Folder, r.ID)
}

// ParseItemPath resolves "/<concepts|blog>/<id>/[file]".
func ParseItemPath(p string) (ItemRef, bool) {
	parts := strings.SplitN(strings.Trim(path.Clean("/"+p), "/"), "/", 3)
	if len(parts) < 2 || !isFolder(parts[0]) || parts[1] == "" || strings.HasPrefix(parts[1], ".") {
		return ItemRef{}, false
	}
	ref := ItemRef{Folder: parts[0], ID: parts[1]}
	if len(parts) == 3 && parts[2] != "index.html" {
		ref.File = parts[2]
	}
	return ref, true
}

// Loader reads published documents back from a store and renders them.
type Loader struct {
	store    remote.Store
	renderer *PageRenderer
	logger   *zap.Logger
}

func NewLoader(store remote.Store, renderer *PageRenderer, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{store: store, renderer: renderer, logger: logger}
}

// Load fetches the metadata and the content document of one language. A
// missing content document leaves the page without sections.
func (l *Loader) Load(ctx context.Context, ref ItemRef, lang string) (Page, error) {
	if !models.IsLanguage(lang) {
		lang = models.LangDE
	}
	page := Page{Lang: lang, Sections: []map[string]any{}}

	raw, err := l.store.Fetch(ctx, path.Join(ref.Base(), "data.json"))
	if errors.Is(err, remote.ErrNotFound) {
		return page, fmt.Errorf("%w: %s", ErrItemNotFound, ref.Base())
	}
	if err != nil {
		return page, err
	}
	if err := json.Unmarshal(raw, &page.Meta); err != nil {
		return page, fmt.Errorf("decode %s/data.json: %w", ref.Base(), err)
	}

	contentPath := path.Join(ref.Base(), "content-"+lang+".json")
	raw, err = l.store.Fetch(ctx, contentPath)
	if err != nil {
		l.logger.Warn("content document unavailable", zap.String("path", contentPath), zap.Error(err))
		return page, nil
	}
	var doc pipeline.ContentDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		l.logger.Warn("content document is corrupt", zap.String("path", contentPath), zap.Error(err))
		return page, nil
	}
	if doc.Sections != nil {
		page.Sections = doc.Sections
	}
	return page, nil
}

func (l *Loader) Render(ctx context.Context, w io.Writer, ref ItemRef, lang string) error {
	page, err := l.Load(ctx, ref, lang)
	if err != nil {
		return err
	}
	return l.renderer.Render(w, page)
}

// File returns a raw file of a published item, such as an image.
func (l *Loader) File(ctx context.Context, ref ItemRef) ([]byte, error) {
	return l.store.Fetch(ctx, path.Join(ref.Base(), ref.File))
}
