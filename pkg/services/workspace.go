package services

import (
	"context"
	"sync"
	"time"

	"portfolio-cms/pkg/drafts"
	"portfolio-cms/pkg/editor"
	"portfolio-cms/pkg/models"
	"portfolio-cms/pkg/templates"

	"go.uber.org/zap"
)

// Workspace owns the single editing session of the admin. Every mutation
// is saved to the draft store before it returns.
type Workspace struct {
	mu      sync.Mutex
	session *editor.Session
	savedAt time.Time
	rev     uint64 // bumped on every save; Publish compares it

	drafts    *drafts.Drafts
	publisher *Publisher
	target    Target
	index     *Index
	mirror    *Mirror
	logger    *zap.Logger
}

type WorkspaceOptions struct {
	Registry  *templates.Registry
	Drafts    *drafts.Drafts
	Publisher *Publisher
	Target    Target
	Index     *Index
	Mirror    *Mirror
	Logger    *zap.Logger
}

// NewWorkspace restores the stored draft into a fresh session. When a
// Mirror is given, every published draft is also written to the local
// checkout.
func NewWorkspace(ctx context.Context, opts WorkspaceOptions) (*Workspace, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &Workspace{
		session:   editor.New(opts.Registry, logger.Named("editor")),
		drafts:    opts.Drafts,
		publisher: opts.Publisher,
		target:    opts.Target,
		index:     opts.Index,
		mirror:    opts.Mirror,
		logger:    logger,
	}
	stored, err := opts.Drafts.Load(ctx)
	if err != nil {
		return nil, err
	}
	w.session.Restore(stored)
	w.savedAt = stored.Timestamp
	if !stored.IsEmpty() {
		logger.Info("draft restored",
			zap.String("item", stored.Metadata.ID),
			zap.Int("sections", len(stored.Sections)),
			zap.Time("saved_at", stored.Timestamp),
		)
	}
	return w, nil
}

// View runs fn with read access to the session.
func (w *Workspace) View(fn func(s *editor.Session)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fn(w.session)
}

// Mutate applies fn and saves the resulting draft. When fn fails nothing
// is saved. The returned time is the draft's new timestamp.
func (w *Workspace) Mutate(ctx context.Context, fn func(s *editor.Session) error) (time.Time, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := fn(w.session); err != nil {
		return w.savedAt, err
	}
	saved, err := w.drafts.Save(ctx, w.session.Snapshot())
	if err != nil {
		return w.savedAt, err
	}
	w.savedAt = saved.Timestamp
	w.rev++
	return w.savedAt, nil
}

// Draft returns the current draft including its last save time.
func (w *Workspace) Draft() models.Draft {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snapshot()
}

func (w *Workspace) snapshot() models.Draft {
	d := w.session.Snapshot()
	d.Timestamp = w.savedAt
	return d
}

// Discard drops the draft and starts over with an empty session.
func (w *Workspace) Discard(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.drafts.Clear(ctx); err != nil {
		return err
	}
	w.session.Reset()
	w.savedAt = time.Time{}
	w.rev++
	return nil
}

// Publish uploads the current draft. On success the draft is cleared and
// the index refreshed; on failure the draft is kept for a retry. A draft
// edited while the upload ran is kept as well.
func (w *Workspace) Publish(ctx context.Context) (Result, error) {
	w.mu.Lock()
	d, rev := w.snapshot(), w.rev
	w.mu.Unlock()

	store, err := w.target(ctx)
	if err != nil {
		return Result{}, err
	}
	res, err := w.publisher.Publish(ctx, store, d)
	if err != nil {
		return res, err
	}
	if w.mirror != nil {
		if err := w.mirror.Record(ctx, d); err != nil {
			w.logger.Warn("published but could not update the local checkout", zap.Error(err))
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.index.Invalidate()
	if w.rev != rev {
		w.logger.Info("draft changed during publish, keeping it",
			zap.String("item", d.Metadata.ID),
			zap.Time("saved_at", w.savedAt),
		)
		return res, nil
	}
	if err := w.drafts.Clear(ctx); err != nil {
		w.logger.Error("published but could not clear draft", zap.Error(err))
	}
	w.session.Reset()
	w.savedAt = time.Time{}
	w.rev++
	return res, nil
}

// Plan reports what publishing the current draft would change.
func (w *Workspace) Plan(ctx context.Context) ([]PlanEntry, error) {
	d := w.Draft()
	store, err := w.target(ctx)
	if err != nil {
		return nil, err
	}
	return w.publisher.Plan(ctx, store, d)
}
