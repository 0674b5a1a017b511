package store

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
)

// lockRetry is how often a blocked caller retries the file lock.
const lockRetry = 10 * time.Millisecond

// FileStore keeps the document as a single JSON object on disk. Every
// browser port, the daemon and local CLI commands may open the same file, so
// the read-merge-write in Set runs under an exclusive lock on <path>.lock
// and Get under a shared one. Writes go through a unique temp file and
// rename so readers never observe a torn file.
type FileStore struct {
	path string
	lock *flock.Flock
	mu   sync.Mutex
}

// NewFileStore creates a FileStore at path, creating parent directories.
func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, storageErr("create store directory", err)
	}
	return &FileStore{path: path, lock: flock.New(path + ".lock")}, nil
}

// Path returns the backing file.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Get(ctx context.Context, keys ...string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, storageErr("get", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	locked, err := s.lock.TryRLockContext(ctx, lockRetry)
	if err != nil || !locked {
		return nil, storageErr("lock "+s.lock.Path(), lockErr(ctx, err))
	}
	defer s.lock.Unlock()

	all, err := s.read()
	if err != nil {
		return nil, err
	}
	return pick(all, keys), nil
}

func (s *FileStore) Set(ctx context.Context, doc Document) error {
	if err := ctx.Err(); err != nil {
		return storageErr("set", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	locked, err := s.lock.TryLockContext(ctx, lockRetry)
	if err != nil || !locked {
		return storageErr("lock "+s.lock.Path(), lockErr(ctx, err))
	}
	defer s.lock.Unlock()

	all, err := s.read()
	if err != nil {
		return err
	}
	for k, v := range doc {
		all[k] = v
	}
	return s.writeAtomic(all)
}

func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lock.Close()
}

func (s *FileStore) read() (Document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return make(Document), nil
		}
		return nil, storageErr("read", err)
	}
	doc := make(Document)
	if len(data) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, storageErr("parse "+s.path, err)
	}
	return doc, nil
}

func (s *FileStore) writeAtomic(doc Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return storageErr("encode", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return storageErr("create temp file", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return storageErr("write", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return storageErr("sync", err)
	}
	if err := tmp.Close(); err != nil {
		return storageErr("close temp file", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return storageErr("rename", err)
	}
	return nil
}

func lockErr(ctx context.Context, err error) error {
	if err != nil {
		return err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return errors.New("lock not acquired")
}
