package services

import (
	"context"
	"fmt"

	"portfolio-cms/pkg/drafts"
	"portfolio-cms/pkg/remote"
)

// Target opens the store a publish writes to.
type Target func(ctx context.Context) (remote.Store, error)

type tokenKey struct{}

// WithToken attaches the signed-in user's GitHub token. It is used when the
// stored settings carry no token of their own.
func WithToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, tokenKey{}, token)
}

func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

// GitHubTarget publishes to the repository named in the stored settings.
func GitHubTarget(settings *drafts.SettingsStore, opts ...remote.Option) Target {
	return func(ctx context.Context) (remote.Store, error) {
		s, err := settings.Load(ctx)
		if err != nil {
			return nil, err
		}
		if s.Token == "" {
			s.Token = TokenFromContext(ctx)
		}
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %w", drafts.ErrSettingsMissing, err)
		}
		return remote.NewGitHub(ctx, s, opts...), nil
	}
}

// LocalTarget publishes into a directory, typically a checkout of the site.
func LocalTarget(root string) Target {
	store := remote.NewLocal(root)
	return func(context.Context) (remote.Store, error) {
		return store, nil
	}
}
