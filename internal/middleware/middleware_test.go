package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bilgisen/haxsite/internal/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type analyzeBody struct {
	URL string `json:"url" validate:"required"`
}

func newApp() *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Post("/analyze", ValidateBody[analyzeBody](), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"url": Body[analyzeBody](c).URL})
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return errors.New("boom")
	})
	app.Get("/teapot", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusTeapot)
	})
	return app
}

func decode(t *testing.T, body io.Reader) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(body).Decode(&out))
	return out
}

func TestValidateBody(t *testing.T) {
	app := newApp()

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"valid", `{"url":"example.com"}`, fiber.StatusOK},
		{"missing url", `{}`, fiber.StatusUnprocessableEntity},
		{"broken json", `{"url":`, fiber.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/analyze", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			out := decode(t, resp.Body)
			switch tt.status {
			case fiber.StatusOK:
				assert.Equal(t, "example.com", out["url"])
			case fiber.StatusUnprocessableEntity:
				assert.Equal(t, map[string]any{"URL": "required"}, out["fields"])
			}
		})
	}
}

func TestValidateBodyFreshValuePerRequest(t *testing.T) {
	app := newApp()

	first := httptest.NewRequest("POST", "/analyze", strings.NewReader(`{"url":"a.org"}`))
	first.Header.Set("Content-Type", "application/json")
	_, err := app.Test(first)
	require.NoError(t, err)

	// A body without the field must not inherit the previous request's value.
	second := httptest.NewRequest("POST", "/analyze", strings.NewReader(`{}`))
	second.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(second)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestErrorHandler(t *testing.T) {
	app := newApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Internal Server Error", decode(t, resp.Body)["error"])

	resp, err = app.Test(httptest.NewRequest("GET", "/teapot", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTeapot, resp.StatusCode)
}

func TestRequestLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(&buf, logger.InfoLevel, false)

	app := fiber.New()
	app.Use(NewLogger(LoggerConfig{Logger: &l, Fields: []string{"method", "path", "status"}}))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

	_, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"method":"GET"`)
	assert.Contains(t, out, `"path":"/"`)
	assert.Contains(t, out, `"status":200`)
	assert.NotContains(t, out, `"latency"`)
}
