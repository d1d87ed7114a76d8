package middleware

import (
	"fmt"
	"runtime/debug"

	"todo-api/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorHandler logs every request and turns panics into a 500.
func ErrorHandler() fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				errMsg := fmt.Sprintf("Recovered from panic: %v", r)
				logger.ErrorLogger.Error(errMsg,
					zap.String("request_id", requestID(c)),
					zap.String("stack", string(debug.Stack())),
				)
				err = c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"message": errMsg,
				})
			}
		}()

		logger.RequestLogger.Info("Incoming request",
			zap.String("request_id", requestID(c)),
			zap.String("method", c.Method()),
			zap.String("url", c.OriginalURL()),
		)
		return c.Next()
	}
}

// AppErrorHandler is the fiber.Config error handler. Errors that are not
// *fiber.Error come from the store and are answered with a bare 500.
func AppErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	} else {
		logger.ErrorLogger.Error("Unhandled error",
			zap.String("request_id", requestID(c)),
			zap.String("method", c.Method()),
			zap.String("url", c.OriginalURL()),
			zap.Error(err),
		)
	}
	return c.Status(code).SendString(errorMessage(code, err))
}

func errorMessage(code int, err error) string {
	if code == fiber.StatusInternalServerError {
		return "Internal Server Error"
	}
	return err.Error()
}
