package mock

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindtype/insights/internal/domain/auth"
)

func TestLoginGoogle(t *testing.T) {
	p := New()
	creds, err := p.Login(context.Background(), auth.MethodGoogle, "", "")
	require.NoError(t, err)
	assert.Equal(t, "mockGoogleUser123", creds.User.UID)
	assert.NotEmpty(t, creds.Token)
}

func TestLoginEmailDerivesUIDFromLocalPart(t *testing.T) {
	p := New()
	creds, err := p.Login(context.Background(), auth.MethodEmail, "jamie@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "mockEmailUser-jamie", creds.User.UID)
	assert.Equal(t, "jamie@example.com", creds.User.Email)
}

func TestLoginEmailRequiresEmail(t *testing.T) {
	p := New()
	_, err := p.Login(context.Background(), auth.MethodEmail, "", "pw")
	assert.Error(t, err)
}

func TestLoginNoneIssuesGuest(t *testing.T) {
	p := New()
	a, err := p.Login(context.Background(), auth.MethodNone, "", "")
	require.NoError(t, err)
	b, err := p.Login(context.Background(), auth.MethodNone, "", "")
	require.NoError(t, err)
	assert.Contains(t, a.User.UID, "guest-")
	assert.NotEqual(t, a.User.UID, b.User.UID)
}

func TestVerifyAndLogout(t *testing.T) {
	p := New()
	creds, err := p.Login(context.Background(), auth.MethodGoogle, "", "")
	require.NoError(t, err)

	user, err := p.Verify(context.Background(), creds.Token)
	require.NoError(t, err)
	assert.Equal(t, creds.User.UID, user.UID)

	_, err = p.Verify(context.Background(), "unknown-token")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	require.NoError(t, p.Logout(context.Background(), creds.Token))
	_, err = p.Verify(context.Background(), creds.Token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}
