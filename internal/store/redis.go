package store

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the hash that holds the settings document.
const DefaultRedisKey = "intentgate:settings"

// RedisStore keeps the document as fields of a single Redis hash, so every
// machine pointed at the same server shares one settings document.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore connects using a redis:// URL and verifies the connection.
func NewRedisStore(ctx context.Context, url, key string) (*RedisStore, error) {
	if url == "" {
		url = "redis://localhost:6379/0"
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, storageErr("parse redis url", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, storageErr("ping redis", err)
	}
	return NewRedisStoreWithClient(client, key), nil
}

// NewRedisStoreWithClient wraps an existing client.
func NewRedisStoreWithClient(client *redis.Client, key string) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{client: client, key: key}
}

func (s *RedisStore) Get(ctx context.Context, keys ...string) (Document, error) {
	doc := make(Document)
	if len(keys) == 0 {
		all, err := s.client.HGetAll(ctx, s.key).Result()
		if err != nil {
			return nil, storageErr("hgetall", err)
		}
		for k, v := range all {
			doc[k] = []byte(v)
		}
		return doc, nil
	}

	vals, err := s.client.HMGet(ctx, s.key, keys...).Result()
	if err != nil {
		return nil, storageErr("hmget", err)
	}
	for i, v := range vals {
		if str, ok := v.(string); ok {
			doc[keys[i]] = []byte(str)
		}
	}
	return doc, nil
}

func (s *RedisStore) Set(ctx context.Context, doc Document) error {
	if len(doc) == 0 {
		return nil
	}
	fields := make([]any, 0, len(doc)*2)
	for k, v := range doc {
		fields = append(fields, k, string(v))
	}
	if err := s.client.HSet(ctx, s.key, fields...).Err(); err != nil {
		return storageErr("hset", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	if err := s.client.Close(); err != nil {
		return storageErr("close", err)
	}
	return nil
}
