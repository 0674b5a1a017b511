// Package store persists the key/value settings document shared by every
// intentgate surface. Backends: JSON file, SQLite, Redis and memory.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ppiankov/intentgate/internal/model"
)

// Document is a partial view of the persisted settings, keyed by setting
// name. Values are kept as raw JSON so each backend stores them verbatim.
type Document map[string]json.RawMessage

// Put marshals v under key.
func (d Document) Put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	d[key] = data
	return nil
}

// Decode unmarshals the value stored under key into out. It reports false
// when the key is absent or holds JSON null.
func (d Document) Decode(key string, out any) (bool, error) {
	raw, ok := d[key]
	if !ok || len(raw) == 0 || string(raw) == "null" {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return true, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// Store is an asynchronous key/value document. Get with no keys returns
// every key. Set merges the given keys and leaves the others alone.
// Every failure wraps model.ErrStorage.
type Store interface {
	Get(ctx context.Context, keys ...string) (Document, error)
	Set(ctx context.Context, doc Document) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Options selects and configures a backend.
type Options struct {
	Backend  string `yaml:"backend"`
	Path     string `yaml:"path"`
	RedisURL string `yaml:"redis_url"`
	RedisKey string `yaml:"redis_key"`
}

// DefaultPath returns the default location of the file and SQLite stores.
func DefaultPath(backend string) string {
	name := "state.json"
	if backend == BackendSQLite {
		name = "state.db"
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "intentgate", name)
	}
	return filepath.Join(home, ".intentgate", name)
}

// Open constructs the configured backend. An empty backend means file.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case "", BackendFile:
		path := opts.Path
		if path == "" {
			path = DefaultPath(BackendFile)
		}
		return NewFileStore(path)
	case BackendSQLite:
		path := opts.Path
		if path == "" {
			path = DefaultPath(BackendSQLite)
		}
		return NewSQLiteStore(ctx, path)
	case BackendRedis:
		return NewRedisStore(ctx, opts.RedisURL, opts.RedisKey)
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%w: unknown backend %q", model.ErrStorage, opts.Backend)
	}
}

// pick copies the requested keys out of all. No keys selects everything.
func pick(all Document, keys []string) Document {
	out := make(Document, len(keys))
	if len(keys) == 0 {
		for k, v := range all {
			out[k] = v
		}
		return out
	}
	for _, k := range keys {
		if v, ok := all[k]; ok {
			out[k] = v
		}
	}
	return out
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", model.ErrStorage, op, err)
}
