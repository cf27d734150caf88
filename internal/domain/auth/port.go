package auth

import (
	"context"
	"errors"
)

// ErrInvalidToken is returned by Verify for unknown or expired tokens.
var ErrInvalidToken = errors.New("invalid auth token")

// Credentials is the result of a successful login.
type Credentials struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// Provider is the authentication boundary. A real identity provider can be
// substituted without touching session or report logic.
type Provider interface {
	Login(ctx context.Context, method Method, email, password string) (*Credentials, error)
	Verify(ctx context.Context, token string) (*User, error)
	Logout(ctx context.Context, token string) error
}
