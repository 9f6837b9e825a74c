package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boundarycoach/boundary-api/internal/domain"
)

func TestTokenAuthenticator(t *testing.T) {
	a := NewTokenAuthenticator(map[string]string{"s3cret": "alice", "": "ghost", "orphan": ""})
	ctx := context.Background()

	u, err := a.CurrentUser(ctx, "s3cret")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, domain.UserID("alice"), u.ID)

	for _, cred := range []string{"", "wrong", "orphan"} {
		u, err := a.CurrentUser(ctx, cred)
		require.NoError(t, err)
		assert.Nil(t, u, cred)
	}
}

func TestHeaderAuthenticator(t *testing.T) {
	a := NewHeaderAuthenticator()

	u, err := a.CurrentUser(context.Background(), " bob ")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, domain.UserID("bob"), u.ID)

	u, err = a.CurrentUser(context.Background(), "  ")
	require.NoError(t, err)
	assert.Nil(t, u)
}
