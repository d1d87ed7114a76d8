package handlers

import (
	"fmt"
	"net/url"
	"strconv"

	"todo-api/internal/models"
	"todo-api/internal/repository"
	"todo-api/internal/websocket"
	"todo-api/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// StoreProvider returns the TodoStore bound to the current request.
type StoreProvider func(c *fiber.Ctx) (repository.TodoStore, error)

type TodoHandler struct {
	Stores StoreProvider
	// Hub is optional; when set, successful writes are pushed to subscribers.
	Hub *websocket.Hub
}

func NewTodoHandler(stores StoreProvider, hub *websocket.Hub) *TodoHandler {
	return &TodoHandler{Stores: stores, Hub: hub}
}

// CreateTodo inserts the item in the body and answers 201 with its new id.
func (h *TodoHandler) CreateTodo(c *fiber.Ctx) error {
	var body map[string]interface{}
	if err := c.BodyParser(&body); err != nil {
		logger.ErrorLogger.Error("Bad request in create todo", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).SendString("Invalid todo object")
	}

	item, err := models.TodoItemFromMap(body)
	if err == nil && item.Persisted() {
		err = fmt.Errorf("%w: id is assigned by the store", models.ErrInvalidTodoItem)
	}
	if err != nil {
		logger.ErrorLogger.Error("Validation error in create todo", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).SendString("Invalid todo object")
	}

	store, err := h.Stores(c)
	if err != nil {
		return err
	}
	item, err = store.Save(c.UserContext(), item)
	if err != nil {
		return err
	}

	logger.AuditLogger.Info("Todo item created", zap.Int64("todo_id", *item.ID), zap.String("username", item.Username))
	h.publish(websocket.EventCreated, item)
	return c.Status(fiber.StatusCreated).JSON(item.ToMap())
}

// CompleteTodo marks an existing item completed. Ids that do not parse can
// never match a row and get the same 404 as unknown ids. The row is read past
// any cache so a stale copy never overwrites it.
func (h *TodoHandler) CompleteTodo(c *fiber.Ctx) error {
	rawID := c.Params("id")
	notFound := func() error {
		return c.Status(fiber.StatusNotFound).SendString(fmt.Sprintf("Todo item %s not found", rawID))
	}

	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return notFound()
	}

	store, err := h.Stores(c)
	if err != nil {
		return err
	}
	find := store.FindByID
	if fresh, ok := store.(repository.FreshFinder); ok {
		find = fresh.FindByIDFresh
	}
	item, err := find(c.UserContext(), id)
	if err != nil {
		return err
	}
	if item == nil {
		return notFound()
	}

	item.Completed = true
	if _, err := store.Save(c.UserContext(), item); err != nil {
		return err
	}

	logger.AuditLogger.Info("Todo item completed", zap.Int64("todo_id", id), zap.String("username", item.Username))
	h.publish(websocket.EventCompleted, item)
	return c.JSON(item.ToMap())
}

// ListTodos returns every item for the username. An empty result is a 404
// rather than an empty list; clients rely on that.
func (h *TodoHandler) ListTodos(c *fiber.Ctx) error {
	username := usernameParam(c)
	items, err := h.findByUsername(c, username, false)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return c.Status(fiber.StatusNotFound).SendString(fmt.Sprintf("No todo items found for %s", username))
	}
	return c.JSON(fiber.Map{"todo_items": toMaps(items)})
}

func (h *TodoHandler) ListUncompletedTodos(c *fiber.Ctx) error {
	username := usernameParam(c)
	items, err := h.findByUsername(c, username, true)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return c.Status(fiber.StatusNotFound).SendString(fmt.Sprintf("No uncompleted todo items found for %s", username))
	}
	return c.JSON(fiber.Map{"uncompleted_todo_items": toMaps(items)})
}

func (h *TodoHandler) findByUsername(c *fiber.Ctx, username string, onlyIncomplete bool) ([]models.TodoItem, error) {
	store, err := h.Stores(c)
	if err != nil {
		return nil, err
	}
	return store.FindByUsername(c.UserContext(), username, onlyIncomplete)
}

// usernameParam returns the decoded :username segment. Fiber leaves path
// params percent-encoded, so "peter%20smith" must become "peter smith".
func usernameParam(c *fiber.Ctx) string {
	raw := c.Params("username")
	username, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return username
}

func toMaps(items []models.TodoItem) []map[string]interface{} {
	maps := make([]map[string]interface{}, 0, len(items))
	for i := range items {
		maps = append(maps, items[i].ToMap())
	}
	return maps
}

func (h *TodoHandler) publish(event string, item *models.TodoItem) {
	if h.Hub == nil {
		return
	}
	h.Hub.Publish(websocket.Event{Event: event, TodoItem: *item})
}
