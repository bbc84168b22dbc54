package pkg

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIssuer() *TokenIssuer {
	return NewTokenIssuer(TokenConfig{
		AccessSecret:  "access",
		RefreshSecret: "refresh",
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
	})
}

func TestTokenIssuer_AccessRoundTrip(t *testing.T) {
	issuer := newTestIssuer()

	pair, err := issuer.GeneratePair("user-1")
	require.NoError(t, err)

	claims, err := issuer.ParseAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)

	refresh, err := issuer.ParseRefresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", refresh.UserID)
}

func TestTokenIssuer_RejectsSwappedTokens(t *testing.T) {
	issuer := newTestIssuer()
	pair, err := issuer.GeneratePair("user-1")
	require.NoError(t, err)

	_, err = issuer.ParseAccess(pair.RefreshToken)
	assert.Error(t, err)

	_, err = issuer.ParseRefresh(pair.AccessToken)
	assert.ErrorIs(t, err, ErrRefreshInvalid)
}

func TestTokenIssuer_Expired(t *testing.T) {
	issuer := newTestIssuer()
	issued := time.Now().Add(-2 * time.Hour)
	issuer.now = func() time.Time { return issued }
	pair, err := issuer.GeneratePair("user-1")
	require.NoError(t, err)

	issuer.now = time.Now
	_, err = issuer.ParseAccess(pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenExpired)

	_, err = issuer.ParseRefresh(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrRefreshExpired)
}

func TestTokenIssuer_WrongSecret(t *testing.T) {
	pair, err := newTestIssuer().GeneratePair("user-1")
	require.NoError(t, err)

	other := NewTokenIssuer(TokenConfig{AccessSecret: "other", RefreshSecret: "other", AccessTTL: time.Minute, RefreshTTL: time.Hour})
	_, err = other.ParseAccess(pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
