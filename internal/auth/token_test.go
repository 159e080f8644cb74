package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	iss := NewIssuer("secret", "lunchmatch", time.Hour)

	token, err := iss.Issue(Identity{UserID: 42, University: "X"})
	require.NoError(t, err)

	id, err := iss.Parse("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, Identity{UserID: 42, University: "X"}, id)
}

func TestParse_Rejects(t *testing.T) {
	iss := NewIssuer("secret", "lunchmatch", time.Hour)
	other := NewIssuer("other-secret", "lunchmatch", time.Hour)

	foreign, err := other.Issue(Identity{UserID: 1, University: "X"})
	require.NoError(t, err)

	_, err = iss.Parse(foreign)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = iss.Parse("")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = iss.Parse("Bearer not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_Expired(t *testing.T) {
	iss := NewIssuer("secret", "lunchmatch", time.Minute)
	iss.now = func() time.Time { return time.Now().Add(-time.Hour) }

	token, err := iss.Issue(Identity{UserID: 1, University: "X"})
	require.NoError(t, err)

	iss.now = time.Now
	_, err = iss.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestContextRoundTrip(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	ctx := WithIdentity(context.Background(), Identity{UserID: 3, University: "Y"})
	id, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, uint64(3), id.UserID)
}
