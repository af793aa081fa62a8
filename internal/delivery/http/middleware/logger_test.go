package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/accessibility-finder/internal/delivery/http/middleware"
)

func newLoggedApp() (*fiber.App, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.InfoLevel)
	app := fiber.New()
	app.Use(middleware.Logger(zap.New(core)))

	app.Get("/ok", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/fail", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusBadGateway, "upstream broke")
	})

	return app, logs
}

func TestLogger(t *testing.T) {
	t.Run("success is logged at info level with status 200", func(t *testing.T) {
		app, logs := newLoggedApp()

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ok", nil))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

		entries := logs.TakeAll()
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
		assert.Equal(t, int64(200), entries[0].ContextMap()["status"])
	})

	t.Run("handler error is logged with the error status", func(t *testing.T) {
		app, logs := newLoggedApp()

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/fail", nil))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusBadGateway, resp.StatusCode)

		entries := logs.TakeAll()
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
		assert.Equal(t, int64(502), entries[0].ContextMap()["status"])
	})

	t.Run("unmatched route is logged as 404", func(t *testing.T) {
		app, logs := newLoggedApp()

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/nope", nil))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusNotFound, resp.StatusCode)

		entries := logs.TakeAll()
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
		assert.Equal(t, int64(404), entries[0].ContextMap()["status"])
	})

	t.Run("incoming request id is reused", func(t *testing.T) {
		app, logs := newLoggedApp()

		req := httptest.NewRequest(http.MethodGet, "/ok", nil)
		req.Header.Set("X-Request-ID", "req-42")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, "req-42", resp.Header.Get("X-Request-ID"))

		entries := logs.TakeAll()
		require.Len(t, entries, 1)
		assert.Equal(t, "req-42", entries[0].ContextMap()["request_id"])
	})
}
