package drafts

import (
	"context"
	"errors"
	"fmt"

	"portfolio-cms/pkg/models"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// ErrSettingsMissing means no usable repository settings are stored yet.
var ErrSettingsMissing = errors.New("drafts: GitHub settings are missing, configure them first")

type SettingsStore struct {
	store  KeyStore
	logger *zap.Logger
}

func NewSettingsStore(store KeyStore, logger *zap.Logger) *SettingsStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsStore{store: store, logger: logger}
}

// Load returns the stored settings with defaults applied. Missing or
// unreadable settings yield the zero value.
func (s *SettingsStore) Load(ctx context.Context) (models.Settings, error) {
	data, err := s.store.Get(ctx, SettingsKey)
	if errors.Is(err, ErrKeyNotFound) {
		return models.Settings{}.WithDefaults(), nil
	}
	if err != nil {
		return models.Settings{}, fmt.Errorf("drafts: load settings: %w", err)
	}
	var settings models.Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		s.logger.Error("stored settings are corrupt, ignoring them", zap.Error(err))
		return models.Settings{}.WithDefaults(), nil
	}
	return settings.WithDefaults(), nil
}

func (s *SettingsStore) Save(ctx context.Context, settings models.Settings) error {
	data, err := json.Marshal(settings.WithDefaults())
	if err != nil {
		return fmt.Errorf("drafts: encode settings: %w", err)
	}
	if err := s.store.Put(ctx, SettingsKey, data); err != nil {
		return fmt.Errorf("drafts: save settings: %w", err)
	}
	return nil
}

// Require loads the settings and fails with ErrSettingsMissing unless token,
// owner and repository are all present.
func (s *SettingsStore) Require(ctx context.Context) (models.Settings, error) {
	settings, err := s.Load(ctx)
	if err != nil {
		return settings, err
	}
	if err := settings.Validate(); err != nil {
		return settings, fmt.Errorf("%w: %v", ErrSettingsMissing, err)
	}
	return settings, nil
}
