package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/verdantpress/blogapi/internal/config"
	"github.com/verdantpress/blogapi/internal/models"
	"github.com/verdantpress/blogapi/internal/utils"
)

type RedisClient struct {
	client *redis.Client
	prefix string
}

func NewRedisClient(cfg *config.Config) (*RedisClient, error) {
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	// Test the connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisClient{
		client: client,
		prefix: cfg.RedisPrefix + "author:",
	}, nil
}

func (r *RedisClient) Close() error {
	return r.client.Close()
}

// key derives the cache key from a lowercased email so lookups agree
// with the store's case-insensitive email column.
func (r *RedisClient) key(email string) string {
	return r.prefix + utils.Hash(strings.ToLower(email))
}

// GetAuthor returns the cached author for email. The second return value
// reports whether the cache held an entry.
func (r *RedisClient) GetAuthor(ctx context.Context, email string) (*models.Author, bool, error) {
	data, err := r.client.Get(ctx, r.key(email)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get error: %w", err)
	}

	var author models.Author
	if err := json.Unmarshal(data, &author); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached author: %w", err)
	}
	return &author, true, nil
}

func (r *RedisClient) SetAuthor(ctx context.Context, email string, author *models.Author, ttl time.Duration) error {
	data, err := json.Marshal(author)
	if err != nil {
		return fmt.Errorf("failed to marshal author: %w", err)
	}
	return r.client.Set(ctx, r.key(email), data, ttl).Err()
}

func (r *RedisClient) InvalidateAuthor(ctx context.Context, email string) error {
	return r.client.Del(ctx, r.key(email)).Err()
}
