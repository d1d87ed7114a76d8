package handlers

import (
	"net/url"

	"todo-api/internal/websocket"
	"todo-api/pkg/logger"

	"github.com/gofiber/fiber/v2"
	fiberws "github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

// RequireUpgrade rejects plain HTTP requests to the feed.
func RequireUpgrade(c *fiber.Ctx) error {
	if fiberws.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Feed streams item events for the username in the path until the client
// disconnects. Incoming messages are read and discarded.
func Feed(hub *websocket.Hub) fiber.Handler {
	return fiberws.New(func(conn *fiberws.Conn) {
		username := conn.Params("username")
		if decoded, err := url.PathUnescape(username); err == nil {
			username = decoded
		}
		client := &websocket.Client{Conn: conn, Username: username}
		hub.Register(client)
		defer hub.Unregister(client)

		logger.AuditLogger.Info("Feed subscriber connected", zap.String("username", client.Username))
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
}
