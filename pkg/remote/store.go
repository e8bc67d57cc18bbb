package remote

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
)

var ErrNotFound = errors.New("remote: file not found")

// PutRequest creates or updates one file. Content is base64 encoded. SHA
// must carry the current blob hash when the file already exists and must
// be empty when it does not.
type PutRequest struct {
	Path    string
	Message string
	Content string
	SHA     string
}

// Store is a repository of files addressed by slash-separated paths.
type Store interface {
	// Stat reports the blob hash of path, or exists=false when it is absent.
	Stat(ctx context.Context, path string) (sha string, exists bool, err error)
	Put(ctx context.Context, req PutRequest) error
	Fetch(ctx context.Context, path string) ([]byte, error)
}

// APIError is a rejected request, with the status and message reported by
// the store.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return "remote: status " + strconv.Itoa(e.Status)
	}
	return fmt.Sprintf("remote: status %d: %s", e.Status, e.Message)
}

// BlobSHA returns the git blob hash of data, the value GitHub reports as a
// file's sha.
func BlobSHA(data []byte) string {
	h := sha1.New()
	fmt.Fprintf(h, "blob %d\x00", len(data))
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}
