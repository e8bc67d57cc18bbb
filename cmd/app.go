package cmd

import (
	"context"
	"fmt"

	"portfolio-cms/pkg/config"
	"portfolio-cms/pkg/drafts"
	"portfolio-cms/pkg/pipeline"
	"portfolio-cms/pkg/remote"
	"portfolio-cms/pkg/services"
	"portfolio-cms/pkg/templates"

	"go.uber.org/zap"
)

// siteAssetBase is where the site's stylesheets live relative to an item
// page at <folder>/<id>/.
const siteAssetBase = "../../"

// app holds the wired services shared by the commands.
type app struct {
	registry  *templates.Registry
	publisher *services.Publisher
	drafts    *drafts.Drafts
	settings  *drafts.SettingsStore
	workspace *services.Workspace
	index     *services.Index
	mirror    *services.Mirror
	loader    *services.Loader
	preview   *services.Preview
	github    []remote.Option
}

func newApp(ctx context.Context, cfg config.Config, logger *zap.Logger) (*app, error) {
	registry := templates.Builtin()
	if cfg.TemplatesFile != "" {
		added, err := templates.LoadDefinitions(registry, cfg.TemplatesFile)
		if err != nil {
			return nil, err
		}
		logger.Info("custom section types loaded", zap.String("file", cfg.TemplatesFile), zap.Strings("types", added))
	}

	store, err := drafts.NewFileStore(cfg.DataPath)
	if err != nil {
		return nil, fmt.Errorf("open data directory: %w", err)
	}
	d := drafts.NewDrafts(store, logger.Named("drafts"))
	settings := drafts.NewSettingsStore(store, logger.Named("settings"))

	var githubOpts []remote.Option
	if cfg.GitHubAPIURL != "" {
		githubOpts = append(githubOpts, remote.WithBaseURL(cfg.GitHubAPIURL))
	}

	var target services.Target
	switch cfg.PublishTarget {
	case config.TargetLocal:
		target = services.LocalTarget(cfg.RepoPath)
	default:
		target = services.GitHubTarget(settings, githubOpts...)
	}

	builder := pipeline.NewBuilder(registry)
	publisher := services.NewPublisher(builder, logger.Named("publisher"))
	renderer := services.NewPageRenderer(registry, siteAssetBase, logger.Named("render"))
	index := services.NewIndex(cfg.RepoPath, logger.Named("index"))
	checkout := remote.NewLocal(cfg.RepoPath)
	mirror := services.NewMirror(checkout, target, publisher, index, logger.Named("mirror"))

	opts := services.WorkspaceOptions{
		Registry:  registry,
		Drafts:    d,
		Publisher: publisher,
		Target:    target,
		Index:     index,
		Logger:    logger.Named("workspace"),
	}
	if cfg.PublishTarget != config.TargetLocal {
		opts.Mirror = mirror
	}
	ws, err := services.NewWorkspace(ctx, opts)
	if err != nil {
		return nil, err
	}

	return &app{
		registry:  registry,
		publisher: publisher,
		drafts:    d,
		settings:  settings,
		workspace: ws,
		index:     index,
		mirror:    mirror,
		loader:    services.NewLoader(checkout, renderer, logger.Named("loader")),
		preview:   services.NewPreview(builder, renderer, publisher, cfg.PreviewPath, cfg.PreviewURL),
		github:    githubOpts,
	}, nil
}
