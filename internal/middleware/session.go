package middleware

import (
	"database/sql"

	"todo-api/internal/repository"
	"todo-api/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const SessionKey = "dbSession"

// UseSession gives each request its own repository.Session and releases it
// once the rest of the chain returns, including on error or panic.
func UseSession(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session := repository.NewSession(db)
		defer func() {
			if err := session.Close(); err != nil {
				logger.ErrorLogger.Error("Error releasing connection",
					zap.String("request_id", requestID(c)), zap.Error(err))
			}
		}()
		c.Locals(SessionKey, session)
		return c.Next()
	}
}

// SessionFrom returns the request session, or nil outside UseSession.
func SessionFrom(c *fiber.Ctx) *repository.Session {
	session, _ := c.Locals(SessionKey).(*repository.Session)
	return session
}
