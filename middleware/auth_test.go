package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func runMiddleware(t *testing.T, handler gin.HandlerFunc, authHeader string) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		c.Request.Header.Set("Authorization", authHeader)
	}
	handler(c)
	return w, c
}

func TestValidateTokenSetsIdentity(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token := signToken(t, "test-secret", jwt.MapClaims{
		"user_id": 42,
		"role":    "customer",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	w, c := runMiddleware(t, ValidateToken, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)

	userID, _ := c.Get("user_id")
	assert.Equal(t, uint(42), userID)
	role, _ := c.Get("role")
	assert.Equal(t, "customer", role)
}

func TestValidateTokenRejectsMissingHeader(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	w, c := runMiddleware(t, ValidateToken, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.True(t, c.IsAborted())
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token := signToken(t, "test-secret", jwt.MapClaims{
		"user_id": 42,
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})

	w, _ := runMiddleware(t, ValidateToken, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token := signToken(t, "other-secret", jwt.MapClaims{
		"user_id": 42,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	w, _ := runMiddleware(t, ValidateToken, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOptionalTokenAnonymous(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	w, c := runMiddleware(t, OptionalToken, "")
	assert.Equal(t, http.StatusOK, w.Code)
	_, exists := c.Get("user_id")
	assert.False(t, exists)
}

func TestOptionalTokenBadTokenIsAnonymous(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	w, c := runMiddleware(t, OptionalToken, "Bearer not-a-token")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, c.IsAborted())
	_, exists := c.Get("user_id")
	assert.False(t, exists)
}

func TestOptionalTokenWithValidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token := signToken(t, "test-secret", jwt.MapClaims{
		"user_id": 7,
		"role":    "customer",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	_, c := runMiddleware(t, OptionalToken, "Bearer "+token)
	userID, _ := c.Get("user_id")
	assert.Equal(t, uint(7), userID)
}

func TestValidateAPIKey(t *testing.T) {
	t.Setenv("ADMIN_API_KEY", "hunter2")
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.Header.Set("X-API-KEY", "wrong")
	ValidateAPIKey(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.True(t, c.IsAborted())

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.Header.Set("X-API-KEY", "hunter2")
	ValidateAPIKey(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, c.IsAborted())
}
