package mock

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/mindtype/insights/internal/domain/auth"
)

// Provider is the always-succeeds authentication provider. It issues opaque
// uuid tokens and keeps the token table in memory; a real identity provider
// replaces it behind the same port without touching session or report logic.
type Provider struct {
	mu     sync.RWMutex
	tokens map[string]*auth.User
}

func New() *Provider {
	return &Provider{tokens: make(map[string]*auth.User)}
}

func (p *Provider) Login(_ context.Context, method auth.Method, email, _ string) (*auth.Credentials, error) {
	var user *auth.User
	switch method {
	case auth.MethodGoogle:
		user = &auth.User{
			UID:         "mockGoogleUser123",
			Email:       "mock.google.user@example.com",
			DisplayName: "Mock Google User",
		}
	case auth.MethodEmail:
		local := email
		if i := strings.Index(email, "@"); i > 0 {
			local = email[:i]
		}
		if strings.TrimSpace(local) == "" {
			return nil, fmt.Errorf("email is required for email login")
		}
		user = &auth.User{
			UID:         "mockEmailUser-" + local,
			Email:       email,
			DisplayName: local,
		}
	case auth.MethodNone:
		user = &auth.User{UID: "guest-" + uuid.New().String(), DisplayName: "Guest"}
	default:
		return nil, fmt.Errorf("unknown login method: %q", method)
	}

	token := uuid.New().String()
	p.mu.Lock()
	p.tokens[token] = user
	p.mu.Unlock()
	return &auth.Credentials{Token: token, User: user}, nil
}

func (p *Provider) Verify(_ context.Context, token string) (*auth.User, error) {
	p.mu.RLock()
	user, ok := p.tokens[token]
	p.mu.RUnlock()
	if !ok {
		return nil, auth.ErrInvalidToken
	}
	return user, nil
}

func (p *Provider) Logout(_ context.Context, token string) error {
	p.mu.Lock()
	delete(p.tokens, token)
	p.mu.Unlock()
	return nil
}
