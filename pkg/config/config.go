package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

const (
	TargetGitHub = "github"
	TargetLocal  = "local"
)

type Config struct {
	Addr          string `mapstructure:"addr"`
	AppURL        string `mapstructure:"app_url"`
	SessionSecret string `mapstructure:"session_secret"`

	// DataPath holds the draft and settings records.
	DataPath string `mapstructure:"data_path"`
	// RepoPath is the local checkout of the site the index and the public
	// loader read from.
	RepoPath    string `mapstructure:"repo_path"`
	PreviewPath string `mapstructure:"preview_path"`
	PreviewURL  string `mapstructure:"preview_url"`

	PublishTarget string `mapstructure:"publish_target"`
	TemplatesFile string `mapstructure:"templates_file"`
	GitHubAPIURL  string `mapstructure:"github_api_url"`
	MaxUpload     int64  `mapstructure:"max_upload"`

	GitHubClientID     string `mapstructure:"github_client_id"`
	GitHubClientSecret string `mapstructure:"github_client_secret"`
	GitHubRedirectURL  string `mapstructure:"github_redirect_url"`
	// AllowedUsers restricts sign-in to these GitHub logins. Empty allows
	// every account that completes the OAuth flow.
	AllowedUsers []string `mapstructure:"allowed_users"`
	// AuthDisabled serves the admin without sign-in. Only meant for local
	// use.
	AuthDisabled bool `mapstructure:"auth_disabled"`

	LogLevel        string `mapstructure:"log_level"`
	LogFormat       string `mapstructure:"log_format"`
	DefaultLanguage string `mapstructure:"default_language"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("addr", ":8080")
	v.SetDefault("app_url", "http://localhost:8080")
	v.SetDefault("session_secret", "")
	v.SetDefault("data_path", "./data")
	v.SetDefault("repo_path", "./repo")
	v.SetDefault("preview_path", "./preview")
	v.SetDefault("preview_url", "/preview/")
	v.SetDefault("publish_target", TargetGitHub)
	v.SetDefault("templates_file", "")
	v.SetDefault("github_api_url", "https://api.github.com")
	v.SetDefault("max_upload", 25<<20)
	v.SetDefault("github_client_id", "")
	v.SetDefault("github_client_secret", "")
	v.SetDefault("github_redirect_url", "")
	v.SetDefault("allowed_users", []string{})
	v.SetDefault("auth_disabled", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("default_language", "de")
}

// Load reads .env into the environment, then builds the configuration from
// defaults, the optional config file and environment variables, in
// increasing priority.
func Load(cfgFile string) (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("cms")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.AllowedUsers = splitList(cfg.AllowedUsers)
	if cfg.GitHubRedirectURL == "" {
		cfg.GitHubRedirectURL = strings.TrimRight(cfg.AppURL, "/") + "/auth/callback"
	}
	if !strings.HasSuffix(cfg.PreviewURL, "/") {
		cfg.PreviewURL += "/"
	}
	return cfg, cfg.Validate()
}

// splitList accepts both list values and one comma separated string, the
// form environment variables arrive in.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func (c Config) Validate() error {
	switch c.PublishTarget {
	case TargetGitHub, TargetLocal:
	default:
		return fmt.Errorf("publish_target must be %q or %q, got %q", TargetGitHub, TargetLocal, c.PublishTarget)
	}
	if c.DefaultLanguage != "de" && c.DefaultLanguage != "en" {
		return fmt.Errorf("default_language must be de or en, got %q", c.DefaultLanguage)
	}
	return nil
}

// OAuthEnabled reports whether GitHub sign-in is configured.
func (c Config) OAuthEnabled() bool {
	return c.GitHubClientID != "" && c.GitHubClientSecret != ""
}

func (c Config) OAuth() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.GitHubClientID,
		ClientSecret: c.GitHubClientSecret,
		Scopes:       []string{"repo", "read:user"},
		Endpoint:     github.Endpoint,
		RedirectURL:  c.GitHubRedirectURL,
	}
}

// IsAllowed reports whether login may use the admin.
func (c Config) IsAllowed(login string) bool {
	if len(c.AllowedUsers) == 0 {
		return true
	}
	for _, u := range c.AllowedUsers {
		if strings.EqualFold(u, login) {
			return true
		}
	}
	return false
}
