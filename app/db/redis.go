package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
)

const prefixPage = "page:"

// RedisCache implements the page cache on a shared redis instance so several
// scrape workers can reuse each other's fetches.
type RedisCache struct {
	db *redis.Client
}

// Get returns a cached page body from redis
func (s *RedisCache) Get(url string) ([]byte, error) {
	data, err := s.db.Get(context.Background(), prefixPage+url).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	return []byte(data), nil
}

// Save stores a page body in redis
func (s *RedisCache) Save(url string, body []byte) error {
	if _, err := s.db.Set(context.Background(), prefixPage+url, body, 0).Result(); err != nil {
		return fmt.Errorf("saving page: %w", err)
	}
	return nil
}

// NewRedisCache creates RedisCache with given url
func NewRedisCache(url string) (*RedisCache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisCache{db: rdb}, nil
}
