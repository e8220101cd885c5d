package middleware

import (
	"io"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foxxcyber/healthy-food/internal/models"
	"github.com/foxxcyber/healthy-food/internal/session"
)

const testSecret = "test-secret"

func testToken(t *testing.T, id int) string {
	t.Helper()
	token, err := IssueToken(&models.User{ID: id, Email: "ana@example.com", UserType: models.UserTypeUser}, testSecret, time.Hour)
	require.NoError(t, err)
	return token
}

func newApp() *fiber.App {
	app := fiber.New()
	app.Use(RequestID(), AuthOptional(testSecret), SessionID())
	app.Get("/whoami", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": GetUserID(c), "session": GetSessionID(c)})
	})
	app.Get("/private", AuthRequired(testSecret), func(c *fiber.Ctx) error {
		return c.SendString(strconv.Itoa(GetUserID(c)))
	})
	return app
}

func TestParseToken(t *testing.T) {
	claims, err := ParseToken(testToken(t, 5), testSecret)
	require.NoError(t, err)
	assert.Equal(t, 5, claims.UserID)
	assert.Equal(t, models.UserTypeUser, claims.UserType)

	_, err = ParseToken(testToken(t, 5), "other-secret")
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := IssueToken(&models.User{ID: 1}, testSecret, -time.Minute)
	require.NoError(t, err)
	_, err = ParseToken(expired, testSecret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthRequired(t *testing.T) {
	app := newApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/private", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req := httptest.NewRequest("GET", "/private", nil)
	req.Header.Set("Authorization", "Token abc")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest("GET", "/private", nil)
	req.Header.Set("Authorization", "Bearer "+testToken(t, 3))
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "3", string(body))
}

func TestSessionID_GeneratesForAnonymous(t *testing.T) {
	resp, err := newApp().Test(httptest.NewRequest("GET", "/whoami", nil))
	require.NoError(t, err)

	id := resp.Header.Get(session.HeaderName)
	_, err = uuid.Parse(id)
	assert.NoError(t, err)
	assert.NotEmpty(t, resp.Header.Get(RequestIDHeader))
}

func TestSessionID_KeepsValidHeader(t *testing.T) {
	id := uuid.NewString()
	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set(session.HeaderName, id)
	req.Header.Set(RequestIDHeader, "req-1")

	resp, err := newApp().Test(req)
	require.NoError(t, err)
	assert.Equal(t, id, resp.Header.Get(session.HeaderName))
	assert.Equal(t, "req-1", resp.Header.Get(RequestIDHeader))
}

func TestSessionID_AnonymousCannotClaimUserSession(t *testing.T) {
	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set(session.HeaderName, "user:3")

	resp, err := newApp().Test(req)
	require.NoError(t, err)
	assert.NotEqual(t, "user:3", resp.Header.Get(session.HeaderName))
}

func TestSessionID_AuthenticatedUsesUserSession(t *testing.T) {
	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+testToken(t, 3))
	req.Header.Set(session.HeaderName, uuid.NewString())

	resp, err := newApp().Test(req)
	require.NoError(t, err)
	assert.Equal(t, "user:3", resp.Header.Get(session.HeaderName))
}

func TestMetricsAndLoggerPassThrough(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID(), RequestLogger(), Metrics())
	app.Get("/products/:id", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "missing")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/products/9", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
