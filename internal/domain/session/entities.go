package session

import (
	"strings"
	"time"
)

type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	DisplayName string    `json:"displayName,omitempty"`
	Avatar      string    `json:"avatar,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Tokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresAt    int64  `json:"expiresAt"`
}

type AuthResponse struct {
	User   User   `json:"user"`
	Tokens Tokens `json:"tokens"`
}

// Session is the persisted part of the auth state.
type Session struct {
	User                   *User  `json:"user"`
	Token                  string `json:"token,omitempty"`
	IsAuthenticated        bool   `json:"isAuthenticated"`
	HasCompletedOnboarding bool   `json:"hasCompletedOnboarding"`
}

// DisplayNameFor picks the first word of name, falling back to the email local part.
func DisplayNameFor(name, email string) string {
	if fields := strings.Fields(name); len(fields) > 0 {
		return fields[0]
	}
	local, _, _ := strings.Cut(email, "@")
	return local
}

type OAuthProvider string

const (
	ProviderGoogle OAuthProvider = "google"
	ProviderGitHub OAuthProvider = "github"
)

func (p OAuthProvider) Valid() bool { return p == ProviderGoogle || p == ProviderGitHub }
