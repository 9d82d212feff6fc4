package repositories

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned when a key has no stored record.
var ErrNotFound = errors.New("record not found")

// KVItem is one listed key, optionally with its value.
type KVItem struct {
	Key   string `json:"key"`
	Value string `json:"value,omitempty"`
}

// ResumeStore is the key/value persistence consumed by the pipeline and the
// listing/detail views. Patterns use the trailing-wildcard convention
// (e.g. "resume:*").
type ResumeStore interface {
	Set(ctx context.Context, key, value string) error
	Get(ctx context.Context, key string) (string, error)
	List(ctx context.Context, pattern string, includeValues bool) ([]KVItem, error)
}

type redisResumeStore struct {
	client *redis.Client
}

// NewRedisResumeStore connects to Redis and verifies the connection.
func NewRedisResumeStore(addr, password string, db int) (ResumeStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &redisResumeStore{client: client}, nil
}

func (s *redisResumeStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *redisResumeStore) Get(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis get %s: %w", key, err)
	}
	return value, nil
}

func (s *redisResumeStore) List(ctx context.Context, pattern string, includeValues bool) ([]KVItem, error) {
	var keys []string
	iter := s.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis scan %s: %w", pattern, err)
	}

	sort.Strings(keys)

	items := make([]KVItem, 0, len(keys))
	if !includeValues {
		for _, key := range keys {
			items = append(items, KVItem{Key: key})
		}
		return items, nil
	}

	if len(keys) == 0 {
		return items, nil
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis mget: %w", err)
	}

	for i, key := range keys {
		item := KVItem{Key: key}
		if value, ok := values[i].(string); ok {
			item.Value = value
		}
		items = append(items, item)
	}

	return items, nil
}
