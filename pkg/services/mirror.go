package services

import (
	"context"
	"encoding/base64"

	"portfolio-cms/pkg/models"
	"portfolio-cms/pkg/remote"

	"go.uber.org/zap"
)

// Lister is a store that can enumerate the files below a directory.
type Lister interface {
	remote.Store
	List(ctx context.Context, dir string) ([]remote.Entry, error)
}

// SyncResult lists the files a sync pulled into the checkout.
type SyncResult struct {
	Updated   []string `json:"updated"`
	Unchanged int      `json:"unchanged"`
}

// Mirror keeps the local checkout that the public site and the index read
// in step with the publish target.
type Mirror struct {
	local     *remote.Local
	target    Target
	publisher *Publisher
	index     *Index
	logger    *zap.Logger
}

func NewMirror(local *remote.Local, target Target, publisher *Publisher, index *Index, logger *zap.Logger) *Mirror {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Mirror{local: local, target: target, publisher: publisher, index: index, logger: logger}
}

// Record writes a just published draft into the checkout.
func (m *Mirror) Record(ctx context.Context, d models.Draft) error {
	defer m.index.Invalidate()
	_, err := m.publisher.write(ctx, m.local, d)
	return err
}

// Sync pulls every blog and concept file whose hash differs from the local
// copy, then refreshes the index. Files removed remotely are left in place.
// A target that cannot list files has nothing to pull.
func (m *Mirror) Sync(ctx context.Context) (SyncResult, error) {
	var res SyncResult
	defer m.index.Invalidate()

	store, err := m.target(ctx)
	if err != nil {
		return res, err
	}
	lister, ok := store.(Lister)
	if !ok {
		return res, nil
	}

	for _, folder := range Folders {
		entries, err := lister.List(ctx, folder)
		if err != nil {
			return res, err
		}
		for _, e := range entries {
			sha, exists, err := m.local.Stat(ctx, e.Path)
			if err != nil {
				return res, err
			}
			if exists && sha == e.SHA {
				res.Unchanged++
				continue
			}
			data, err := lister.Fetch(ctx, e.Path)
			if err != nil {
				return res, err
			}
			if err := m.publisher.Upload(ctx, m.local, e.Path, base64.StdEncoding.EncodeToString(data), true); err != nil {
				return res, err
			}
			res.Updated = append(res.Updated, e.Path)
		}
	}
	m.logger.Info("checkout synced", zap.Int("updated", len(res.Updated)), zap.Int("unchanged", res.Unchanged))
	return res, nil
}
