// Package intentlog keeps the history of submitted intents under the
// intentList key, keyed by submission timestamp.
package intentlog

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ppiankov/intentgate/internal/model"
	"github.com/ppiankov/intentgate/internal/settings"
	"github.com/ppiankov/intentgate/internal/store"
)

// Record is one history row.
type Record struct {
	At     time.Time `json:"at"`
	Intent string    `json:"intent"`
	URL    string    `json:"url"`
}

// Log appends to and reads the intent history.
type Log struct {
	st store.Store
	mu sync.Mutex
}

// New creates a Log over st.
func New(st store.Store) *Log {
	return &Log{st: st}
}

// Append stores intent for url at now. Two submissions in the same
// millisecond get distinct keys.
func (l *Log) Append(ctx context.Context, intent, url string, now time.Time) (Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, err := settings.Load(ctx, l.st, settings.KeyIntentList)
	if err != nil {
		return Record{}, err
	}
	at := now.UTC().Truncate(time.Millisecond)
	for {
		if _, taken := s.IntentList[model.FormatTimestamp(at)]; !taken {
			break
		}
		at = at.Add(time.Millisecond)
	}
	s.IntentList[model.FormatTimestamp(at)] = model.Intent{Intent: intent, URL: url}

	doc := store.Document{}
	if err := doc.Put(settings.KeyIntentList, s.IntentList); err != nil {
		return Record{}, err
	}
	if err := l.st.Set(ctx, doc); err != nil {
		return Record{}, err
	}
	return Record{At: at, Intent: intent, URL: url}, nil
}

// List returns up to limit records, newest first. limit <= 0 returns all.
// Rows whose key is not a timestamp sort last.
func (l *Log) List(ctx context.Context, limit int) ([]Record, error) {
	s, err := settings.Load(ctx, l.st, settings.KeyIntentList)
	if err != nil {
		return nil, err
	}
	out := make([]Record, 0, len(s.IntentList))
	for key, in := range s.IntentList {
		at, _ := model.ParseTimestamp(key)
		out = append(out, Record{At: at, Intent: in.Intent, URL: in.URL})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].At.After(out[j].At) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
