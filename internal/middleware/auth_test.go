package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"Octo_Social/internal/pkg"
	"Octo_Social/internal/repository/redis"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockSessions struct {
	mock.Mock
}

func (m *mockSessions) Get(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *mockSessions) Extend(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func newTestEngine(t *testing.T, sessions SessionStore) (*gin.Engine, *pkg.TokenIssuer) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	tokens := pkg.NewTokenIssuer(pkg.TokenConfig{
		AccessSecret:  "a",
		RefreshSecret: "r",
		AccessTTL:     time.Hour,
		RefreshTTL:    time.Hour,
	})
	r := gin.New()
	r.Use(RequestLogger(zap.NewNop()))
	r.GET("/me", AuthMiddleware(tokens, sessions, zap.NewNop()), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString(ContextUserIDKey)})
	})
	return r, tokens
}

func doGet(r http.Handler, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_Valid(t *testing.T) {
	sessions := new(mockSessions)
	r, tokens := newTestEngine(t, sessions)
	pair, err := tokens.GeneratePair("u1")
	require.NoError(t, err)

	sessions.On("Get", mock.Anything, "u1").Return(pair.AccessToken, nil)
	sessions.On("Extend", mock.Anything, "u1").Return(nil)

	w := doGet(r, "Bearer "+pair.AccessToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":"u1"}`, w.Body.String())
	sessions.AssertExpectations(t)
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	sessions := new(mockSessions)
	r, tokens := newTestEngine(t, sessions)
	pair, err := tokens.GeneratePair("u1")
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, doGet(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, doGet(r, "Token "+pair.AccessToken).Code)
	assert.Equal(t, http.StatusUnauthorized, doGet(r, "Bearer garbage").Code)
	assert.Equal(t, http.StatusUnauthorized, doGet(r, "Bearer "+pair.RefreshToken).Code)
	sessions.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestAuthMiddleware_SessionMismatch(t *testing.T) {
	sessions := new(mockSessions)
	r, tokens := newTestEngine(t, sessions)
	pair, err := tokens.GeneratePair("u1")
	require.NoError(t, err)

	sessions.On("Get", mock.Anything, "u1").Return("another-token", nil).Once()
	assert.Equal(t, http.StatusUnauthorized, doGet(r, "Bearer "+pair.AccessToken).Code)

	sessions.On("Get", mock.Anything, "u1").Return("", redis.ErrTokenNotFound).Once()
	assert.Equal(t, http.StatusUnauthorized, doGet(r, "Bearer "+pair.AccessToken).Code)

	sessions.On("Get", mock.Anything, "u1").Return("", errors.New("dial tcp: refused")).Once()
	assert.Equal(t, http.StatusInternalServerError, doGet(r, "Bearer "+pair.AccessToken).Code)

	sessions.AssertNotCalled(t, "Extend", mock.Anything, mock.Anything)
}
