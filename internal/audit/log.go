// Package audit writes a tamper-evident log of gating decisions.
package audit

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
)

// GenesisHash is the prev_hash for the first entry in a new audit log.
const GenesisHash = "sha256:0000000000000000000000000000000000000000000000000000000000000000"

// TimestampFormat is the layout used in audit entry timestamps.
const TimestampFormat = "2006-01-02T15:04:05.000Z"

// Log is an append-only JSONL audit log with SHA-256 hash chaining.
// Each entry's prev_hash is the hash of the previous entry's JSON line.
// Several processes may append to one file: each Record takes an exclusive
// lock on <path>.lock and re-reads the tail when another writer has grown
// the file since this Log last wrote.
type Log struct {
	path     string
	file     *os.File
	lock     *flock.Flock
	prevHash string
	size     int64 // file size after our last write
	mu       sync.Mutex
}

// DefaultPath returns ~/.intentgate/audit.jsonl.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "intentgate-audit.jsonl")
	}
	return filepath.Join(home, ".intentgate", "audit.jsonl")
}

// Open opens (or creates) an audit log file for appending.
// If the file already exists, the last line recovers the chain tail.
func Open(path string) (*Log, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("audit: create directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return nil, fmt.Errorf("audit: open file: %w", err)
	}
	l := &Log{path: path, file: file, lock: flock.New(path + ".lock"), size: -1}

	if err := l.lock.Lock(); err != nil {
		file.Close()
		return nil, fmt.Errorf("audit: lock: %w", err)
	}
	defer l.lock.Unlock()
	if err := l.syncTail(); err != nil {
		file.Close()
		return nil, err
	}
	return l, nil
}

// Path returns the file the log appends to.
func (l *Log) Path() string {
	return l.path
}

// Record chains and appends entry. Missing timestamps and request ids are
// filled in.
func (l *Log) Record(entry Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.lock.Lock(); err != nil {
		return fmt.Errorf("audit: lock: %w", err)
	}
	defer l.lock.Unlock()

	if err := l.syncTail(); err != nil {
		return err
	}

	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format(TimestampFormat)
	}
	if entry.RequestID == "" {
		entry.RequestID = uuid.NewString()
	}
	entry.PrevHash = l.prevHash

	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("audit: marshal entry: %w", err)
	}
	n, err := l.file.Write(append(line, '\n'))
	if err != nil {
		l.size = -1
		return fmt.Errorf("audit: write entry: %w", err)
	}
	if err := l.file.Sync(); err != nil {
		return fmt.Errorf("audit: sync: %w", err)
	}

	l.prevHash = HashLine(line)
	l.size += int64(n)
	return nil
}

// syncTail refreshes prevHash from the last line on disk unless the file is
// still the size this Log left it at. Callers hold the file lock.
func (l *Log) syncTail() error {
	info, err := l.file.Stat()
	if err != nil {
		return fmt.Errorf("audit: stat: %w", err)
	}
	if info.Size() == l.size {
		return nil
	}
	last, err := lastLine(l.file, info.Size())
	if err != nil {
		return fmt.Errorf("audit: read tail: %w", err)
	}
	l.prevHash = GenesisHash
	if len(last) > 0 {
		l.prevHash = HashLine(last)
	}
	l.size = info.Size()
	return nil
}

// lastLine returns the final non-empty line of the first size bytes of f.
func lastLine(f *os.File, size int64) ([]byte, error) {
	const chunk = 4096
	var buf []byte
	for off := size; off > 0; {
		n := int64(chunk)
		if off < n {
			n = off
		}
		off -= n
		b := make([]byte, n)
		if _, err := f.ReadAt(b, off); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		buf = append(b, buf...)

		trimmed := bytes.TrimRight(buf, "\r\n")
		if i := bytes.LastIndexByte(trimmed, '\n'); i >= 0 {
			return bytes.TrimRight(trimmed[i+1:], "\r"), nil
		}
		if off == 0 {
			return trimmed, nil
		}
	}
	return nil, nil
}

// Close closes the underlying file.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return errors.Join(l.file.Close(), l.lock.Close())
}

// HashLine returns "sha256:<hex>" of the given bytes.
func HashLine(line []byte) string {
	h := sha256.Sum256(line)
	return "sha256:" + hex.EncodeToString(h[:])
}
