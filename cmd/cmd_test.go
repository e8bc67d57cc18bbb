package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"portfolio-cms/pkg/drafts"
	"portfolio-cms/pkg/models"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute(), buf.String())
	return buf.String()
}

// workspaceEnv points the configuration at fresh directories.
func workspaceEnv(t *testing.T) (repo, data string) {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	repo = filepath.Join(dir, "repo")
	data = filepath.Join(dir, "data")
	t.Setenv("REPO_PATH", repo)
	t.Setenv("DATA_PATH", data)
	t.Setenv("PREVIEW_PATH", filepath.Join(dir, "preview"))
	t.Setenv("PUBLISH_TARGET", "local")
	t.Setenv("LOG_LEVEL", "error")
	return repo, data
}

func TestIndexCommand(t *testing.T) {
	repo, _ := workspaceEnv(t)
	require.NoError(t, os.MkdirAll(filepath.Join(repo, "concepts", "dungeon"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(repo, "concepts", "dungeon", "data.json"), []byte("{}"), 0o644))

	var out map[string][]string
	require.NoError(t, json.Unmarshal([]byte(run(t, "index")), &out))
	assert.Equal(t, []string{"concepts/dungeon/data.json"}, out["concepts"])
	assert.Empty(t, out["posts"])

	out = nil
	require.NoError(t, json.Unmarshal([]byte(run(t, "index", "blog")), &out))
	assert.NotContains(t, out, "concepts")
}

func TestTemplatesCommand(t *testing.T) {
	workspaceEnv(t)
	out := run(t, "templates")
	assert.Contains(t, out, "quote")
	assert.Contains(t, out, "accordion")
}

func TestPublishCommand(t *testing.T) {
	repo, data := workspaceEnv(t)

	store, err := drafts.NewFileStore(data)
	require.NoError(t, err)
	_, err = drafts.NewDrafts(store, nil).Save(context.Background(), models.Draft{
		Metadata: models.Metadata{
			ID:    "dungeon",
			Type:  models.ItemTypeConcept,
			Title: models.Localized{"de": "Verlies", "en": "Dungeon"},
			Date:  "2024-03-09",
		},
		Sections: []models.Section{{
			ID:           "q1",
			Type:         "quote",
			Translatable: map[string]models.Localized{"text": {"de": "Hallo", "en": "Hello"}, "author": {"de": "", "en": ""}},
			Shared:       map[string]string{},
		}},
		Timestamp: time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	plan := run(t, "publish", "--dry-run")
	assert.Contains(t, plan, "create    concepts/dungeon/data.json")
	assert.NoFileExists(t, filepath.Join(repo, "concepts", "dungeon", "data.json"))

	out := run(t, "publish", "--dry-run=false")
	assert.Contains(t, out, "wrote concepts/dungeon/content-de.json")
	assert.FileExists(t, filepath.Join(repo, "concepts", "dungeon", "data.json"))

	stored, err := drafts.NewDrafts(store, nil).Load(context.Background())
	require.NoError(t, err)
	assert.True(t, stored.IsEmpty())
}
