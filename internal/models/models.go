package models

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
)

// ErrInvalidTodoItem is returned for any map that cannot become a TodoItem.
var ErrInvalidTodoItem = errors.New("invalid todo object")

var validate = validator.New()

// TodoItem is one row of todo_items. ID is nil until the item is first saved.
type TodoItem struct {
	ID          *int64 `json:"id"`
	Username    string `json:"username"`
	Description string `json:"description"`
	DueDate     int64  `json:"due_date"`
	Completed   bool   `json:"completed"`
}

// todoItemFields mirrors the wire map. Pointers let the validator tell a
// missing key apart from a zero value.
type todoItemFields struct {
	ID          *int64  `mapstructure:"id"`
	Username    *string `mapstructure:"username" validate:"required"`
	Description *string `mapstructure:"description" validate:"required"`
	DueDate     *int64  `mapstructure:"due_date" validate:"required"`
	Completed   *bool   `mapstructure:"completed"`
}

// scalarHook keeps integer fields exact and lets completed take truthy
// values. Strings and integers are otherwise never converted into each other.
func scalarHook(from, to reflect.Kind, data interface{}) (interface{}, error) {
	switch to {
	case reflect.Int64:
		if f, ok := data.(float64); ok {
			if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
				return nil, fmt.Errorf("%v is not an integer", f)
			}
		}
	case reflect.Bool:
		switch v := data.(type) {
		case float64:
			return v != 0, nil
		case string:
			return strconv.ParseBool(v)
		}
	}
	return data, nil
}

// TodoItemFromMap builds an item from a decoded JSON object. username,
// description and due_date are required; id and completed default to unset
// and false. Unknown keys, mistyped values and fractional integers are
// rejected.
func TodoItemFromMap(m map[string]interface{}) (*TodoItem, error) {
	if m == nil {
		return nil, ErrInvalidTodoItem
	}

	var fields todoItemFields
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &fields,
		DecodeHook:  mapstructure.DecodeHookFuncKind(scalarHook),
		ErrorUnused: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(m); err != nil {
		return nil, errors.Join(ErrInvalidTodoItem, err)
	}
	if err := validate.Struct(fields); err != nil {
		return nil, errors.Join(ErrInvalidTodoItem, err)
	}

	item := &TodoItem{
		ID:          fields.ID,
		Username:    *fields.Username,
		Description: *fields.Description,
		DueDate:     *fields.DueDate,
	}
	if fields.Completed != nil {
		item.Completed = *fields.Completed
	}
	return item, nil
}

// ToMap emits exactly the five wire attributes.
func (t *TodoItem) ToMap() map[string]interface{} {
	var id interface{}
	if t.ID != nil {
		id = *t.ID
	}
	return map[string]interface{}{
		"id":          id,
		"username":    t.Username,
		"description": t.Description,
		"due_date":    t.DueDate,
		"completed":   t.Completed,
	}
}

// Persisted reports whether the item has a store-assigned id.
func (t *TodoItem) Persisted() bool {
	return t.ID != nil
}
