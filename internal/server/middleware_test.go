package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"kuyou/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// signToken produces an HS256 token with the given claims overrides.
func signToken(t *testing.T, secret string, userID uint, issuer, audience string, exp time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(userID), 10),
		"iss": issuer,
		"aud": audience,
		"exp": time.Now().Add(exp).Unix(),
		"jti": "test-jti",
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	str, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return str
}

func TestServer_AuthRequired(t *testing.T) {
	s := &Server{config: &config.Config{JWTSecret: testJWTSecret}}

	app := fiber.New()
	app.Get("/protected", s.AuthRequired(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"userID": c.Locals("userID")})
	})

	tests := []struct {
		name           string
		authHeader     string
		expectedStatus int
	}{
		{
			name:           "valid token",
			authHeader:     "Bearer " + signToken(t, testJWTSecret, 1, "kuyou-api", "kuyou-client", time.Hour),
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing header",
			authHeader:     "",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "not a bearer token",
			authHeader:     "Basic abc123",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "garbage token",
			authHeader:     "Bearer not.a.jwt",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "expired token",
			authHeader:     "Bearer " + signToken(t, testJWTSecret, 1, "kuyou-api", "kuyou-client", -time.Hour),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "wrong issuer",
			authHeader:     "Bearer " + signToken(t, testJWTSecret, 1, "someone-else", "kuyou-client", time.Hour),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "wrong audience",
			authHeader:     "Bearer " + signToken(t, testJWTSecret, 1, "kuyou-api", "other-client", time.Hour),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "wrong secret",
			authHeader:     "Bearer " + signToken(t, "another-secret-entirely-0123456789abcdef", 1, "kuyou-api", "kuyou-client", time.Hour),
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}

func TestServer_OptionalUserID(t *testing.T) {
	s := &Server{config: &config.Config{JWTSecret: testJWTSecret}}

	app := fiber.New()
	app.Get("/posts", func(c *fiber.Ctx) error {
		id, ok := s.optionalUserID(c)
		return c.JSON(fiber.Map{"id": id, "authenticated": ok})
	})

	t.Run("no header", func(t *testing.T) {
		_, body := doJSONHeader(t, app, "/posts", "")
		assert.Equal(t, false, body["authenticated"])
		assert.Equal(t, float64(0), body["id"])
	})

	t.Run("valid token", func(t *testing.T) {
		token := signToken(t, testJWTSecret, 7, "kuyou-api", "kuyou-client", time.Hour)
		_, body := doJSONHeader(t, app, "/posts", "Bearer "+token)
		assert.Equal(t, true, body["authenticated"])
		assert.Equal(t, float64(7), body["id"])
	})

	t.Run("invalid token is anonymous", func(t *testing.T) {
		_, body := doJSONHeader(t, app, "/posts", "Bearer busted")
		assert.Equal(t, false, body["authenticated"])
	})
}

// doJSONHeader performs a GET with an optional Authorization header.
func doJSONHeader(t *testing.T, app *fiber.App, target, authHeader string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}
