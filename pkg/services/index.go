package services

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Folders holds the site folders items are published into.
var Folders = []string{"blog", "concepts"}

// Index lists the published items of the site checkout. Listings are
// cached per folder until Invalidate is called.
type Index struct {
	root   string
	logger *zap.Logger

	mu    sync.Mutex
	cache map[string][]string
}

func NewIndex(root string, logger *zap.Logger) *Index {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Index{root: root, logger: logger, cache: make(map[string][]string)}
}

func isFolder(folder string) bool {
	for _, f := range Folders {
		if f == folder {
			return true
		}
	}
	return false
}

// List returns "<folder>/<id>/data.json" for every item directory in
// folder that holds a data.json, sorted. Hidden directories are skipped and
// a missing folder yields an empty list.
func (i *Index) List(folder string) ([]string, error) {
	if !isFolder(folder) {
		return nil, fmt.Errorf("unknown folder %q", folder)
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	if cached, ok := i.cache[folder]; ok {
		return cached, nil
	}

	entries, err := os.ReadDir(filepath.Join(i.root, folder))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	items := []string{}
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if _, err := os.Stat(filepath.Join(i.root, folder, e.Name(), "data.json")); err != nil {
			continue
		}
		items = append(items, path.Join(folder, e.Name(), "data.json"))
	}
	sort.Strings(items)

	i.cache[folder] = items
	i.logger.Debug("index refreshed", zap.String("folder", folder), zap.Int("items", len(items)))
	return items, nil
}

func (i *Index) Invalidate() {
	if i == nil {
		return
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	i.cache = make(map[string][]string)
}
