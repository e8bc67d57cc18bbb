package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"

	"portfolio-cms/pkg/models"
	"portfolio-cms/pkg/pipeline"
	"portfolio-cms/pkg/remote"

	"go.uber.org/zap"
)

// ErrPublishInProgress is returned when a publish is requested while
// another one is still uploading.
var ErrPublishInProgress = errors.New("publish already in progress")

// UploadError reports the file a publish stopped at.
type UploadError struct {
	Path string
	Err  error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("failed to upload %s: %v", e.Path, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// Result lists what a publish wrote. Failed is set when the publish
// aborted; files written before it stay in the repository.
type Result struct {
	Written []string `json:"written"`
	Failed  string   `json:"failed,omitempty"`
}

type PlanAction string

const (
	PlanCreate    PlanAction = "create"
	PlanUpdate    PlanAction = "update"
	PlanUnchanged PlanAction = "unchanged"
)

type PlanEntry struct {
	Path   string     `json:"path"`
	Kind   string     `json:"kind"`
	Action PlanAction `json:"action"`
}

type Publisher struct {
	builder *pipeline.Builder
	logger  *zap.Logger
	mu      sync.Mutex
}

func NewPublisher(builder *pipeline.Builder, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{builder: builder, logger: logger}
}

// Upload creates or updates one file. The current sha is looked up first;
// if that lookup fails the write is attempted as a create and the store
// decides. Binary content is already base64 and only loses its data URI
// prefix; text content is encoded here.
func (p *Publisher) Upload(ctx context.Context, store remote.Store, path, content string, binary bool) error {
	sha, exists, err := store.Stat(ctx, path)
	if err != nil {
		p.logger.Warn("could not check remote file, creating it", zap.String("path", path), zap.Error(err))
		sha, exists = "", false
	}

	req := remote.PutRequest{Path: path, Message: "CMS: Create " + path}
	if exists {
		req.SHA = sha
		req.Message = "CMS: Update " + path
	}
	if binary {
		req.Content = models.StripDataURI(content)
	} else {
		req.Content = base64.StdEncoding.EncodeToString([]byte(content))
	}

	if err := store.Put(ctx, req); err != nil {
		return &UploadError{Path: path, Err: err}
	}
	return nil
}

// Publish validates the draft, builds its artifacts and uploads them one by
// one. The first failing upload aborts the publish.
func (p *Publisher) Publish(ctx context.Context, store remote.Store, d models.Draft) (Result, error) {
	if !p.mu.TryLock() {
		return Result{}, ErrPublishInProgress
	}
	defer p.mu.Unlock()
	return p.write(ctx, store, d)
}

func (p *Publisher) write(ctx context.Context, store remote.Store, d models.Draft) (Result, error) {
	var res Result
	artifacts, err := p.builder.BuildArtifacts(d)
	if err != nil {
		return res, err
	}

	log := p.logger.With(zap.String("item", d.Metadata.BasePath()))
	log.Info("publishing", zap.Int("files", len(artifacts)))
	for _, a := range artifacts {
		if err := ctx.Err(); err != nil {
			res.Failed = a.Path
			return res, &UploadError{Path: a.Path, Err: err}
		}
		if err := p.Upload(ctx, store, a.Path, a.Content, a.Binary); err != nil {
			res.Failed = a.Path
			log.Error("publish aborted", zap.String("path", a.Path), zap.Strings("written", res.Written), zap.Error(err))
			return res, err
		}
		res.Written = append(res.Written, a.Path)
		log.Debug("uploaded", zap.String("path", a.Path))
	}
	log.Info("published", zap.Int("files", len(res.Written)))
	return res, nil
}

// Plan reports, without writing anything, what publishing the draft would
// do to each file.
func (p *Publisher) Plan(ctx context.Context, store remote.Store, d models.Draft) ([]PlanEntry, error) {
	artifacts, err := p.builder.BuildArtifacts(d)
	if err != nil {
		return nil, err
	}
	out := make([]PlanEntry, 0, len(artifacts))
	for _, a := range artifacts {
		entry := PlanEntry{Path: a.Path, Kind: a.Kind, Action: PlanCreate}
		sha, exists, err := store.Stat(ctx, a.Path)
		if err != nil {
			return nil, fmt.Errorf("check %s: %w", a.Path, err)
		}
		if exists {
			entry.Action = PlanUpdate
			local, err := artifactBytes(a)
			if err != nil {
				return nil, fmt.Errorf("decode %s: %w", a.Path, err)
			}
			if remote.BlobSHA(local) == sha {
				entry.Action = PlanUnchanged
			}
		}
		out = append(out, entry)
	}
	return out, nil
}

func artifactBytes(a pipeline.Artifact) ([]byte, error) {
	if !a.Binary {
		return []byte(a.Content), nil
	}
	return base64.StdEncoding.DecodeString(models.StripDataURI(a.Content))
}
