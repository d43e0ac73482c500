package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"app/internal/config"
	"app/internal/middleware"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test_secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

// ミドルウェアを通して、nextに渡ったuser_idとレスポンスコードを返す
func runAuth(t *testing.T, authzHeader string) (int, interface{}) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	if authzHeader != "" {
		req.Header.Set("Authorization", authzHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var gotUserID interface{}
	next := func(c echo.Context) error {
		gotUserID = c.Get(middleware.CtxUserIDKey)
		return c.NoContent(http.StatusOK)
	}

	h := middleware.AuthJWT(config.Config{JWTSecret: testSecret})(next)
	require.NoError(t, h(c))

	return rec.Code, gotUserID
}

func TestAuthJWT_ValidToken(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub": "42",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	code, userID := runAuth(t, "Bearer "+token)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(42), userID)
}

func TestAuthJWT_NumericSub(t *testing.T) {
	//subが数値のままのトークンも通す
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub": 7,
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	code, userID := runAuth(t, "Bearer "+token)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(7), userID)
}

func TestAuthJWT_MissingHeader(t *testing.T) {
	code, userID := runAuth(t, "")

	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Nil(t, userID)
}

func TestAuthJWT_NotBearer(t *testing.T) {
	code, _ := runAuth(t, "Basic abc")

	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestAuthJWT_WrongSecret(t *testing.T) {
	token := signToken(t, "other_secret", jwt.MapClaims{
		"sub": "42",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	code, _ := runAuth(t, "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestAuthJWT_ExpiredToken(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub": "42",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	code, _ := runAuth(t, "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, code)
}
