package remote

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"portfolio-cms/pkg/models"

	"github.com/google/go-github/v68/github"
	"golang.org/x/oauth2"
)

const DefaultGitHubAPI = "https://api.github.com"

// GitHub talks to the repository contents REST API.
type GitHub struct {
	client *github.Client
	owner  string
	repo   string
	branch string
	err    error
}

type Option func(*githubOptions)

type githubOptions struct {
	baseURL string
	base    *http.Client
}

// WithBaseURL points the client at another API root, such as a GitHub
// Enterprise host or a test server.
func WithBaseURL(u string) Option {
	return func(o *githubOptions) { o.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient sets the client the authorized transport wraps.
func WithHTTPClient(c *http.Client) Option {
	return func(o *githubOptions) { o.base = c }
}

func NewGitHub(ctx context.Context, settings models.Settings, opts ...Option) *GitHub {
	o := githubOptions{baseURL: DefaultGitHubAPI}
	for _, opt := range opts {
		opt(&o)
	}
	if o.base != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, o.base)
	}
	settings = settings.WithDefaults()
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: settings.Token, TokenType: "Bearer"})

	g := &GitHub{
		client: github.NewClient(oauth2.NewClient(ctx, ts)),
		owner:  settings.Owner,
		repo:   settings.Repo,
		branch: settings.Branch,
	}
	if o.baseURL != DefaultGitHubAPI {
		base, err := url.Parse(o.baseURL + "/")
		if err != nil {
			g.err = fmt.Errorf("remote: api url: %w", err)
		} else {
			g.client.BaseURL = base
		}
	}
	return g
}

// apiError turns a rejected go-github call into an APIError. Transport
// failures are returned unchanged.
func apiError(resp *github.Response, err error) error {
	var (
		errResp *github.ErrorResponse
		rate    *github.RateLimitError
		abuse   *github.AbuseRateLimitError
		status  int
		message string
	)
	if resp != nil && resp.Response != nil {
		status = resp.StatusCode
	}
	switch {
	case errors.As(err, &errResp):
		message = errResp.Message
		if errResp.Response != nil {
			status = errResp.Response.StatusCode
		}
	case errors.As(err, &rate):
		message = rate.Message
	case errors.As(err, &abuse):
		message = abuse.Message
	case status < http.StatusBadRequest:
		return err
	}
	return &APIError{Status: status, Message: message}
}

func notFound(resp *github.Response) bool {
	return resp != nil && resp.Response != nil && resp.StatusCode == http.StatusNotFound
}

func (g *GitHub) contents(ctx context.Context, p string) (*github.RepositoryContent, []*github.RepositoryContent, *github.Response, error) {
	if g.err != nil {
		return nil, nil, nil, g.err
	}
	return g.client.Repositories.GetContents(ctx, g.owner, g.repo, strings.Trim(p, "/"),
		&github.RepositoryContentGetOptions{Ref: g.branch})
}

func (g *GitHub) Stat(ctx context.Context, p string) (string, bool, error) {
	file, _, resp, err := g.contents(ctx, p)
	switch {
	case notFound(resp):
		return "", false, nil
	case err != nil:
		return "", false, apiError(resp, err)
	case file == nil:
		return "", false, fmt.Errorf("remote: %s is a directory", p)
	}
	return file.GetSHA(), true, nil
}

func (g *GitHub) Put(ctx context.Context, req PutRequest) error {
	if g.err != nil {
		return g.err
	}
	data, err := base64.StdEncoding.DecodeString(req.Content)
	if err != nil {
		return &APIError{Status: http.StatusBadRequest, Message: "content is not valid Base64"}
	}
	opts := &github.RepositoryContentFileOptions{
		Message: github.Ptr(req.Message),
		Content: data,
		Branch:  github.Ptr(g.branch),
	}
	p := strings.Trim(req.Path, "/")

	var resp *github.Response
	if req.SHA == "" {
		_, resp, err = g.client.Repositories.CreateFile(ctx, g.owner, g.repo, p, opts)
	} else {
		opts.SHA = github.Ptr(req.SHA)
		_, resp, err = g.client.Repositories.UpdateFile(ctx, g.owner, g.repo, p, opts)
	}
	if err != nil {
		return apiError(resp, err)
	}
	return nil
}

// Fetch returns the file's bytes. Files too large for the contents
// endpoint are read through the git blob API.
func (g *GitHub) Fetch(ctx context.Context, p string) ([]byte, error) {
	file, _, resp, err := g.contents(ctx, p)
	switch {
	case notFound(resp):
		return nil, fmt.Errorf("%w: %s", ErrNotFound, p)
	case err != nil:
		return nil, apiError(resp, err)
	case file == nil:
		return nil, fmt.Errorf("remote: %s is a directory", p)
	}
	if file.GetEncoding() == "none" {
		data, resp, err := g.client.Git.GetBlobRaw(ctx, g.owner, g.repo, file.GetSHA())
		if err != nil {
			return nil, apiError(resp, err)
		}
		return data, nil
	}
	content, err := file.GetContent()
	if err != nil {
		return nil, fmt.Errorf("remote: decode %s: %w", p, err)
	}
	return []byte(content), nil
}

// Entry is one file below a listed directory.
type Entry struct {
	Path string
	SHA  string
}

// List walks dir recursively and returns every file below it. A missing
// directory lists as empty.
func (g *GitHub) List(ctx context.Context, dir string) ([]Entry, error) {
	_, items, resp, err := g.contents(ctx, dir)
	switch {
	case notFound(resp):
		return nil, nil
	case err != nil:
		return nil, apiError(resp, err)
	}
	var out []Entry
	for _, item := range items {
		switch item.GetType() {
		case "file":
			out = append(out, Entry{Path: item.GetPath(), SHA: item.GetSHA()})
		case "dir":
			sub, err := g.List(ctx, item.GetPath())
			if err != nil {
				return nil, err
			}
			out = append(out, sub...)
		}
	}
	return out, nil
}

// RepositoryInfo is the subset of repository metadata the connection test
// reports.
type RepositoryInfo struct {
	FullName      string `json:"full_name"`
	DefaultBranch string `json:"default_branch"`
	Private       bool   `json:"private"`
	CanPush       bool   `json:"can_push"`
}

func (g *GitHub) Repository(ctx context.Context) (RepositoryInfo, error) {
	if g.err != nil {
		return RepositoryInfo{}, g.err
	}
	repo, resp, err := g.client.Repositories.Get(ctx, g.owner, g.repo)
	if err != nil {
		return RepositoryInfo{}, apiError(resp, err)
	}
	return RepositoryInfo{
		FullName:      repo.GetFullName(),
		DefaultBranch: repo.GetDefaultBranch(),
		Private:       repo.GetPrivate(),
		CanPush:       repo.GetPermissions()["push"],
	}, nil
}

type UserInfo struct {
	Login string `json:"login"`
	Name  string `json:"name"`
}

// User returns the account the token belongs to.
func (g *GitHub) User(ctx context.Context) (UserInfo, error) {
	if g.err != nil {
		return UserInfo{}, g.err
	}
	user, resp, err := g.client.Users.Get(ctx, "")
	if err != nil {
		return UserInfo{}, apiError(resp, err)
	}
	return UserInfo{Login: user.GetLogin(), Name: user.GetName()}, nil
}
