package handlers

import (
	"net/http"
	"strings"

	"portfolio-cms/pkg/models"
	"portfolio-cms/pkg/remote"
	"portfolio-cms/pkg/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const (
	sessionToken = "access_token"
	sessionLogin = "login"
	sessionState = "oauth_state"
)

// Auth signs the admin in with GitHub OAuth and guards the admin routes.
type Auth struct {
	oauth    *oauth2.Config
	allowed  func(login string) bool
	github   []remote.Option
	disabled bool
	logger   *zap.Logger
}

type AuthOptions struct {
	OAuth *oauth2.Config
	// Allowed reports whether a GitHub login may sign in. Nil allows all.
	Allowed func(login string) bool
	GitHub  []remote.Option
	// Disabled lets every request through without a session.
	Disabled bool
	Logger   *zap.Logger
}

func NewAuth(opts AuthOptions) *Auth {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	allowed := opts.Allowed
	if allowed == nil {
		allowed = func(string) bool { return true }
	}
	return &Auth{
		oauth:    opts.OAuth,
		allowed:  allowed,
		github:   opts.GitHub,
		disabled: opts.Disabled,
		logger:   logger,
	}
}

func (a *Auth) Register(r gin.IRouter) {
	r.GET("/login", a.LoginPage)
	r.GET("/login/github", a.GithubLogin)
	r.GET("/auth/callback", a.AuthCallback)
	r.GET("/logout", a.Logout)
}

// AuthRequired rejects requests without a signed-in session. The user's
// token is attached to the request context for publishing.
func (a *Auth) AuthRequired(c *gin.Context) {
	if a.disabled {
		c.Next()
		return
	}
	session := sessions.Default(c)
	token, _ := session.Get(sessionToken).(string)
	if token == "" {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		} else {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
		}
		return
	}
	c.Set(sessionLogin, session.Get(sessionLogin))
	c.Request = c.Request.WithContext(services.WithToken(c.Request.Context(), token))
	c.Next()
}

func (a *Auth) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{"Enabled": a.oauth != nil})
}

func (a *Auth) GithubLogin(c *gin.Context) {
	if a.oauth == nil {
		c.String(http.StatusNotFound, "GitHub login is not configured")
		return
	}
	state := uuid.NewString()
	session := sessions.Default(c)
	session.Set(sessionState, state)
	if err := session.Save(); err != nil {
		a.logger.Error("save session", zap.Error(err))
		c.String(http.StatusInternalServerError, "Session error")
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, a.oauth.AuthCodeURL(state))
}

func (a *Auth) AuthCallback(c *gin.Context) {
	if a.oauth == nil {
		c.String(http.StatusNotFound, "GitHub login is not configured")
		return
	}
	session := sessions.Default(c)
	want, _ := session.Get(sessionState).(string)
	session.Delete(sessionState)
	if want == "" || c.Query("state") != want {
		_ = session.Save()
		c.String(http.StatusBadRequest, "Invalid OAuth state")
		return
	}

	ctx := c.Request.Context()
	token, err := a.oauth.Exchange(ctx, c.Query("code"))
	if err != nil {
		a.logger.Warn("oauth exchange failed", zap.Error(err))
		c.String(http.StatusInternalServerError, "OAuth Exchange Failed")
		return
	}
	user, err := remote.NewGitHub(ctx, models.Settings{Token: token.AccessToken}, a.github...).User(ctx)
	if err != nil {
		a.logger.Warn("fetch github user failed", zap.Error(err))
		c.String(http.StatusBadGateway, "Could not read GitHub user")
		return
	}
	if !a.allowed(user.Login) {
		a.logger.Warn("login rejected", zap.String("login", user.Login))
		_ = session.Save()
		c.String(http.StatusForbidden, "User %s is not allowed", user.Login)
		return
	}

	session.Set(sessionToken, token.AccessToken)
	session.Set(sessionLogin, user.Login)
	if err := session.Save(); err != nil {
		a.logger.Error("save session", zap.Error(err))
		c.String(http.StatusInternalServerError, "Session error")
		return
	}
	a.logger.Info("signed in", zap.String("login", user.Login))
	c.Redirect(http.StatusFound, "/")
}

func (a *Auth) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	_ = session.Save()
	c.Redirect(http.StatusFound, "/login")
}
