package config

import (
	"database/sql"
	"time"

	"todo-api/internal/websocket"

	"github.com/go-redis/redis/v8"
)

// Dependencies is assembled once in cmd/api and passed to the routes.
// Redis and Hub are optional.
type Dependencies struct {
	DB       *sql.DB
	Redis    *redis.Client
	CacheTTL time.Duration
	Hub      *websocket.Hub
}
