package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelier-hq/workplane/dao/model"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := newTokenManager("access-secret", "refresh-secret", 2, 48)
	msg := JWTMessage{
		UserID:       7,
		Username:     "ana",
		OrgID:        3,
		OrgName:      "acme",
		RolePlatform: model.RoleAdmin,
	}

	access, refresh, err := tm.CreateTokens(&msg)
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)
	assert.NotEqual(t, access, refresh)

	got, err := tm.CheckToken(access)
	require.NoError(t, err)
	assert.Equal(t, msg, got)

	got, err = tm.CheckRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, msg, got)
}

// The two token kinds are signed with separate secrets; neither may be
// accepted where the other is expected.
func TestTokenKindsAreNotInterchangeable(t *testing.T) {
	tm := newTokenManager("access-secret", "refresh-secret", 2, 48)
	access, refresh, err := tm.CreateTokens(&JWTMessage{UserID: 1, Username: "bo"})
	require.NoError(t, err)

	_, err = tm.CheckToken(refresh)
	assert.Error(t, err)

	_, err = tm.CheckRefreshToken(access)
	assert.Error(t, err)
}

func TestCheckTokenRejectsWrongSecret(t *testing.T) {
	tm := newTokenManager("secret-a", "refresh-a", 2, 48)
	access, _, err := tm.CreateTokens(&JWTMessage{UserID: 1, Username: "bo"})
	require.NoError(t, err)

	other := newTokenManager("secret-b", "refresh-b", 2, 48)
	_, err = other.CheckToken(access)
	assert.Error(t, err)
}

func TestCheckTokenRejectsExpired(t *testing.T) {
	tm := newTokenManager("access-secret", "refresh-secret", 2, 48)
	expired, err := tm.createToken(&JWTMessage{UserID: 1, Username: "bo"}, tm.accessSecret, -1)
	require.NoError(t, err)

	_, err = tm.CheckToken(expired)
	assert.Error(t, err)
}

func TestCheckTokenRejectsGarbage(t *testing.T) {
	tm := newTokenManager("access-secret", "refresh-secret", 2, 48)
	_, err := tm.CheckToken("not-a-token")
	assert.Error(t, err)
}
