package v1

import (
	"todo-api/internal/api/v1/handlers"
	"todo-api/internal/config"
	"todo-api/internal/middleware"
	"todo-api/internal/repository"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts the todo API. Every route under /todo-api/v1 runs
// with its own database session.
func RegisterRoutes(app *fiber.App, deps config.Dependencies) {
	api := app.Group("/todo-api/v1", middleware.UseSession(deps.DB))
	RegisterTodoRoutes(api, handlers.NewTodoHandler(SessionStores(deps), deps.Hub))

	if deps.Hub != nil {
		app.Get("/todo-api/v1/ws/:username", handlers.RequireUpgrade, handlers.Feed(deps.Hub))
	}
}

func RegisterTodoRoutes(router fiber.Router, h *handlers.TodoHandler) {
	router.Post("/todo/", h.CreateTodo)
	router.Post("/todo/:id/complete", h.CompleteTodo)
	router.Get("/todos/:username/", h.ListTodos)
	router.Get("/todos/:username/uncompleted", h.ListUncompletedTodos)
}

// SessionStores builds a store on the request's session connection, wrapped
// in the Redis cache when one is configured.
func SessionStores(deps config.Dependencies) handlers.StoreProvider {
	return func(c *fiber.Ctx) (repository.TodoStore, error) {
		conn, err := middleware.SessionFrom(c).Conn(c.UserContext())
		if err != nil {
			return nil, err
		}
		var store repository.TodoStore = repository.NewTodoRepository(conn)
		if deps.Redis != nil {
			store = repository.NewCachedTodoStore(store, deps.Redis, deps.CacheTTL)
		}
		return store, nil
	}
}
