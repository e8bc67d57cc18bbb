package drafts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"portfolio-cms/pkg/models"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const (
	DraftKey    = "cms_draft"
	SettingsKey = "cms_github_settings"
)

// Drafts persists the single authoring draft.
type Drafts struct {
	store  KeyStore
	logger *zap.Logger
	now    func() time.Time
}

func NewDrafts(store KeyStore, logger *zap.Logger) *Drafts {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Drafts{store: store, logger: logger, now: time.Now}
}

// Save stamps the draft with the current time and overwrites the stored
// draft. It returns the stamped draft.
func (d *Drafts) Save(ctx context.Context, draft models.Draft) (models.Draft, error) {
	draft.Timestamp = d.now().UTC()
	data, err := json.Marshal(draft)
	if err != nil {
		return draft, fmt.Errorf("drafts: encode: %w", err)
	}
	if err := d.store.Put(ctx, DraftKey, data); err != nil {
		return draft, fmt.Errorf("drafts: save: %w", err)
	}
	return draft, nil
}

// Load returns the stored draft. A missing draft is not an error. A draft
// that cannot be decoded is logged and treated as missing.
func (d *Drafts) Load(ctx context.Context) (models.Draft, error) {
	data, err := d.store.Get(ctx, DraftKey)
	if errors.Is(err, ErrKeyNotFound) {
		return models.Draft{}, nil
	}
	if err != nil {
		return models.Draft{}, fmt.Errorf("drafts: load: %w", err)
	}
	var draft models.Draft
	if err := json.Unmarshal(data, &draft); err != nil {
		d.logger.Error("stored draft is corrupt, starting empty", zap.Error(err))
		return models.Draft{}, nil
	}
	return draft, nil
}

func (d *Drafts) Clear(ctx context.Context) error {
	if err := d.store.Delete(ctx, DraftKey); err != nil {
		return fmt.Errorf("drafts: clear: %w", err)
	}
	return nil
}
