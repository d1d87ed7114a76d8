package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"todo-api/internal/models"
)

// Querier is the subset of database/sql shared by *sql.DB, *sql.Conn and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type TodoStore interface {
	// Save inserts an unsaved item and binds its new id, or overwrites every
	// mutable column of the row matching item.ID.
	Save(ctx context.Context, item *models.TodoItem) (*models.TodoItem, error)
	// FindByID returns nil, nil when no row matches.
	FindByID(ctx context.Context, id int64) (*models.TodoItem, error)
	FindByUsername(ctx context.Context, username string, onlyIncomplete bool) ([]models.TodoItem, error)
}

// FreshFinder is implemented by stores that keep copies of rows elsewhere.
// FindByIDFresh always reads the row itself and is used before updates.
type FreshFinder interface {
	FindByIDFresh(ctx context.Context, id int64) (*models.TodoItem, error)
}

type TodoRepository struct {
	q Querier
}

func NewTodoRepository(q Querier) *TodoRepository {
	return &TodoRepository{q: q}
}

const selectTodoItems = `SELECT id, username, description, due_date, completed FROM todo_items`

func (r *TodoRepository) Save(ctx context.Context, item *models.TodoItem) (*models.TodoItem, error) {
	if !item.Persisted() {
		var id int64
		err := r.q.QueryRowContext(ctx,
			`INSERT INTO todo_items (username, description, due_date, completed) VALUES ($1, $2, $3, $4) RETURNING id`,
			item.Username, item.Description, item.DueDate, item.Completed,
		).Scan(&id)
		if err != nil {
			return nil, fmt.Errorf("insert todo item: %w", err)
		}
		item.ID = &id
		return item, nil
	}

	// No version check: concurrent saves of one id overwrite each other.
	_, err := r.q.ExecContext(ctx,
		`UPDATE todo_items SET username = $1, description = $2, due_date = $3, completed = $4 WHERE id = $5`,
		item.Username, item.Description, item.DueDate, item.Completed, *item.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("update todo item %d: %w", *item.ID, err)
	}
	return item, nil
}

func (r *TodoRepository) FindByID(ctx context.Context, id int64) (*models.TodoItem, error) {
	row := r.q.QueryRowContext(ctx, selectTodoItems+` WHERE id = $1`, id)
	item, err := scanTodoItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find todo item %d: %w", id, err)
	}
	return item, nil
}

func (r *TodoRepository) FindByUsername(ctx context.Context, username string, onlyIncomplete bool) ([]models.TodoItem, error) {
	query := selectTodoItems + ` WHERE username = $1`
	if onlyIncomplete {
		query += ` AND completed = false`
	}

	rows, err := r.q.QueryContext(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("find todo items for %s: %w", username, err)
	}
	defer rows.Close()

	items := []models.TodoItem{}
	for rows.Next() {
		item, err := scanTodoItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan todo item: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate todo items for %s: %w", username, err)
	}
	return items, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTodoItem(s rowScanner) (*models.TodoItem, error) {
	var (
		item models.TodoItem
		id   int64
	)
	if err := s.Scan(&id, &item.Username, &item.Description, &item.DueDate, &item.Completed); err != nil {
		return nil, err
	}
	item.ID = &id
	return &item, nil
}
