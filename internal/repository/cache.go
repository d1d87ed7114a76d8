package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"todo-api/internal/models"
	"todo-api/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// CachedTodoStore keeps single items in Redis in front of another store.
// Lookups by id read through the cache, saves write through it. Listings
// always go to the inner store.
type CachedTodoStore struct {
	inner TodoStore
	redis *redis.Client
	ttl   time.Duration
}

func NewCachedTodoStore(inner TodoStore, client *redis.Client, ttl time.Duration) *CachedTodoStore {
	return &CachedTodoStore{inner: inner, redis: client, ttl: ttl}
}

func CacheKey(id int64) string {
	return fmt.Sprintf("todo_item:%d", id)
}

func (s *CachedTodoStore) Save(ctx context.Context, item *models.TodoItem) (*models.TodoItem, error) {
	saved, err := s.inner.Save(ctx, item)
	if err != nil {
		return nil, err
	}
	s.store(ctx, saved)
	return saved, nil
}

func (s *CachedTodoStore) FindByID(ctx context.Context, id int64) (*models.TodoItem, error) {
	cached, err := s.redis.Get(ctx, CacheKey(id)).Bytes()
	switch {
	case err == nil:
		var item models.TodoItem
		if err := json.Unmarshal(cached, &item); err == nil {
			return &item, nil
		}
		logger.ErrorLogger.Error("Error decoding cached todo item", zap.Int64("todo_id", id), zap.Error(err))
	case !errors.Is(err, redis.Nil):
		logger.ErrorLogger.Error("Error reading todo item cache", zap.Int64("todo_id", id), zap.Error(err))
	}

	item, err := s.inner.FindByID(ctx, id)
	if err != nil || item == nil {
		return item, err
	}
	s.store(ctx, item)
	return item, nil
}

// FindByIDFresh skips the cached copy, reads the inner store and refreshes
// the cache with what it finds.
func (s *CachedTodoStore) FindByIDFresh(ctx context.Context, id int64) (*models.TodoItem, error) {
	item, err := s.inner.FindByID(ctx, id)
	if err != nil || item == nil {
		return item, err
	}
	s.store(ctx, item)
	return item, nil
}

func (s *CachedTodoStore) FindByUsername(ctx context.Context, username string, onlyIncomplete bool) ([]models.TodoItem, error) {
	return s.inner.FindByUsername(ctx, username, onlyIncomplete)
}

func (s *CachedTodoStore) store(ctx context.Context, item *models.TodoItem) {
	raw, err := json.Marshal(item)
	if err != nil {
		logger.ErrorLogger.Error("Error encoding todo item for cache", zap.Error(err))
		return
	}
	if err := s.redis.Set(ctx, CacheKey(*item.ID), raw, s.ttl).Err(); err != nil {
		logger.ErrorLogger.Error("Error caching todo item", zap.Int64("todo_id", *item.ID), zap.Error(err))
	}
}
