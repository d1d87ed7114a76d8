package repository

import (
	"database/sql"
	_ "embed"
	"fmt"
)

//go:embed schema.sql
var schema string

// CreateTableIfNotExists applies the todo_items schema. It is meant to run
// once at startup, before the first request.
func CreateTableIfNotExists(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("create todo_items: %w", err)
	}
	return nil
}

func DropTables(db *sql.DB) error {
	if _, err := db.Exec(`DROP TABLE IF EXISTS todo_items`); err != nil {
		return fmt.Errorf("drop todo_items: %w", err)
	}
	return nil
}
