package models

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const DefaultBranch = "main"

// Settings are the credentials of the remote repository content is
// published to.
type Settings struct {
	Token  string `json:"token"`
	Owner  string `json:"user"`
	Repo   string `json:"repo"`
	Branch string `json:"branch"`
}

// WithDefaults fills the branch when it was left empty.
func (s Settings) WithDefaults() Settings {
	if s.Branch == "" {
		s.Branch = DefaultBranch
	}
	return s
}

func (s Settings) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Token, validation.Required.Error("GitHub token is missing")),
		validation.Field(&s.Owner, validation.Required.Error("repository owner is missing")),
		validation.Field(&s.Repo, validation.Required.Error("repository name is missing")),
	)
}

// Masked returns a copy safe to hand back to clients.
func (s Settings) Masked() Settings {
	if len(s.Token) > 4 {
		s.Token = "****" + s.Token[len(s.Token)-4:]
	} else if s.Token != "" {
		s.Token = "****"
	}
	return s
}
