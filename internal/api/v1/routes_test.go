package v1

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"todo-api/internal/config"
	"todo-api/internal/middleware"
	"todo-api/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedRequiresUpgrade(t *testing.T) {
	hub := websocket.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	app := fiber.New(fiber.Config{ErrorHandler: middleware.AppErrorHandler})
	RegisterRoutes(app, config.Dependencies{Hub: hub})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/todo-api/v1/ws/peter", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUpgradeRequired, resp.StatusCode)
}

func TestFeedNotMountedWithoutHub(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.AppErrorHandler})
	RegisterRoutes(app, config.Dependencies{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/todo-api/v1/ws/peter", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRoutesRegistered(t *testing.T) {
	app := fiber.New()
	RegisterRoutes(app, config.Dependencies{})

	registered := map[string]bool{}
	for _, route := range app.GetRoutes(true) {
		registered[route.Method+" "+strings.TrimSuffix(route.Path, "/")] = true
	}
	for _, want := range []string{
		"POST /todo-api/v1/todo/",
		"POST /todo-api/v1/todo/:id/complete",
		"GET /todo-api/v1/todos/:username/",
		"GET /todo-api/v1/todos/:username/uncompleted",
	} {
		assert.True(t, registered[strings.TrimSuffix(want, "/")], "missing route %s", want)
	}
}
