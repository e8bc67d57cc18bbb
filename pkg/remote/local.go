package remote

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

// Local is a Store over a directory. It enforces the same sha rules as the
// GitHub contents API: creating an existing file or updating with a stale
// sha is rejected.
type Local struct {
	root string
	mu   sync.Mutex
}

func NewLocal(root string) *Local {
	return &Local{root: root}
}

func (l *Local) Root() string {
	return l.root
}

// Resolve maps a store path to a file below the root. Paths with a ".."
// segment are rejected.
func (l *Local) Resolve(p string) (string, error) {
	slashed := filepath.ToSlash(p)
	clean := path.Clean("/" + slashed)
	if clean == "/" || slices.Contains(strings.Split(slashed, "/"), "..") {
		return "", fmt.Errorf("remote: invalid path %q", p)
	}
	return filepath.Join(l.root, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}

func (l *Local) Stat(ctx context.Context, p string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	full, err := l.Resolve(p)
	if err != nil {
		return "", false, err
	}
	data, err := os.ReadFile(full)
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return BlobSHA(data), true, nil
}

func (l *Local) Put(ctx context.Context, req PutRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full, err := l.Resolve(req.Path)
	if err != nil {
		return err
	}
	data, err := base64.StdEncoding.DecodeString(req.Content)
	if err != nil {
		return &APIError{Status: http.StatusBadRequest, Message: "content is not valid Base64"}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	current, err := os.ReadFile(full)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if req.SHA != "" {
			return &APIError{Status: http.StatusNotFound, Message: "Not Found"}
		}
	case err != nil:
		return err
	case req.SHA == "":
		return &APIError{Status: http.StatusUnprocessableEntity, Message: `Invalid request. "sha" wasn't supplied.`}
	case req.SHA != BlobSHA(current):
		return &APIError{Status: http.StatusConflict, Message: fmt.Sprintf("%s does not match %s", req.Path, req.SHA)}
	}

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	return os.WriteFile(full, data, 0o644)
}

func (l *Local) Fetch(ctx context.Context, p string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	full, err := l.Resolve(p)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, p)
	}
	return data, err
}
