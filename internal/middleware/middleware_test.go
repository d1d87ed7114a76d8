package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"todo-api/internal/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorHandlerRecoversPanic(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID(), ErrorHandler())
	app.Get("/boom", func(c *fiber.Ctx) error {
		panic("store exploded")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"message":"Recovered from panic: store exploded"}`, string(body))
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))
}

func TestAppErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: AppErrorHandler})
	app.Get("/store", func(c *fiber.Ctx) error {
		return errors.New("pq: connection refused")
	})
	app.Get("/teapot", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusTeapot, "short and stout")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/store", nil), -1)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Internal Server Error", string(body))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/teapot", nil), -1)
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusTeapot, resp.StatusCode)
	assert.Equal(t, "short and stout", string(body))
}

func TestUseSessionReleasesOnEveryPath(t *testing.T) {
	var sessions []*repository.Session

	app := fiber.New(fiber.Config{ErrorHandler: AppErrorHandler})
	app.Use(ErrorHandler(), UseSession(nil))
	capture := func(c *fiber.Ctx) *repository.Session {
		s := SessionFrom(c)
		sessions = append(sessions, s)
		return s
	}
	app.Get("/ok", func(c *fiber.Ctx) error {
		assert.NotNil(t, capture(c))
		return c.SendString("ok")
	})
	app.Get("/fail", func(c *fiber.Ctx) error {
		capture(c)
		return errors.New("store down")
	})
	app.Get("/panic", func(c *fiber.Ctx) error {
		capture(c)
		panic("boom")
	})

	for _, path := range []string{"/ok", "/fail", "/panic"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
		require.NoError(t, err)
		resp.Body.Close()
	}

	require.Len(t, sessions, 3)
	assert.NotSame(t, sessions[0], sessions[1])
	for _, s := range sessions {
		_, err := s.Conn(context.Background())
		assert.ErrorIs(t, err, repository.ErrSessionClosed)
	}
}

func TestSessionFromOutsideMiddleware(t *testing.T) {
	app := fiber.New()
	var got *repository.Session
	app.Get("/", func(c *fiber.Ctx) error {
		got = SessionFrom(c)
		return nil
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Nil(t, got)
}

func TestMetricsEndpoint(t *testing.T) {
	app := fiber.New()
	app.Use(Metrics())
	app.Get("/metrics", MetricsHandler())
	app.Get("/todos/:username/", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).SendString("none")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/todos/peter/", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Regexp(t, `todo_api_http_requests_total\{method="GET",route="/todos/:username/?",status="404"\} 1`, string(body))
	assert.Contains(t, string(body), "todo_api_http_in_flight_requests")
}
