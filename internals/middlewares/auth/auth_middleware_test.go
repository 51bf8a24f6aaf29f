package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"absensi_backend/internals/configs"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func newTestApp(t *testing.T, roles ...string) *fiber.App {
	t.Helper()
	prev := configs.JWTSecret
	configs.JWTSecret = testSecret
	t.Cleanup(func() { configs.JWTSecret = prev })

	app := fiber.New()
	handlers := []fiber.Handler{AuthMiddleware(nil)}
	if len(roles) > 0 {
		handlers = append(handlers, OnlyRoles("khusus admin", roles...))
	}
	handlers = append(handlers, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": c.Locals("user_id"), "role": c.Locals("userRole")})
	})
	app.Get("/x", handlers...)
	return app
}

func TestAuthMiddleware(t *testing.T) {
	uid := uuid.New()
	valid := jwt.MapClaims{"id": uid.String(), "role": "Employee", "user_name": "budi", "exp": time.Now().Add(time.Hour).Unix()}
	expired := jwt.MapClaims{"id": uid.String(), "role": "employee", "exp": time.Now().Add(-time.Hour).Unix()}
	noID := jwt.MapClaims{"role": "employee", "exp": time.Now().Add(time.Hour).Unix()}

	cases := []struct {
		name   string
		header string
		roles  []string
		want   int
	}{
		{"no token", "", nil, fiber.StatusUnauthorized},
		{"bad format", "Token abc", nil, fiber.StatusUnauthorized},
		{"garbage", "Bearer not-a-jwt", nil, fiber.StatusUnauthorized},
		{"valid", "Bearer " + signToken(t, valid), nil, fiber.StatusOK},
		{"lowercase bearer", "bearer " + signToken(t, valid), nil, fiber.StatusOK},
		{"expired", "Bearer " + signToken(t, expired), nil, fiber.StatusUnauthorized},
		{"missing id", "Bearer " + signToken(t, noID), nil, fiber.StatusUnauthorized},
		{"role allowed", "Bearer " + signToken(t, valid), []string{"employee", "admin"}, fiber.StatusOK},
		{"role forbidden", "Bearer " + signToken(t, valid), []string{"admin"}, fiber.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestApp(t, tc.roles...)
			req := httptest.NewRequest("GET", "/x", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.want, resp.StatusCode)
		})
	}
}

func TestAuthMiddlewareRejectsOtherSecret(t *testing.T) {
	app := newTestApp(t)
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id": uuid.NewString(), "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("other"))
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/x", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
