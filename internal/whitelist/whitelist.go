// Package whitelist grants time-boxed access to a site after an accepted
// intent. Entries expire lazily: liveness is evaluated on read.
package whitelist

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ppiankov/intentgate/internal/hostkey"
	"github.com/ppiankov/intentgate/internal/model"
	"github.com/ppiankov/intentgate/internal/settings"
	"github.com/ppiankov/intentgate/internal/store"
)

// Entry is one whitelisted site.
type Entry struct {
	Domain string    `json:"domain"`
	Expiry time.Time `json:"expiry"`
}

// IsLive reports whether the entry still grants access at now.
func (e Entry) IsLive(now time.Time) bool {
	return e.Expiry.After(now)
}

// Remaining returns the time left at now, or zero once expired.
func (e Entry) Remaining(now time.Time) time.Duration {
	if !e.IsLive(now) {
		return 0
	}
	return e.Expiry.Sub(now)
}

// Whitelist persists entries under the whitelistedSites key as
// {domain: timestamp}. At most one entry exists per domain.
type Whitelist struct {
	st store.Store
	mu sync.Mutex
}

// New creates a Whitelist over st.
func New(st store.Store) *Whitelist {
	return &Whitelist{st: st}
}

// Grant upserts domain with expiry now+d, replacing any earlier expiry.
func (w *Whitelist) Grant(ctx context.Context, domain string, d time.Duration, now time.Time) (Entry, error) {
	key := hostkey.Canonical(domain)
	if key == "" {
		return Entry{}, fmt.Errorf("invalid domain %q", domain)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	raw, err := w.load(ctx)
	if err != nil {
		return Entry{}, err
	}
	e := Entry{Domain: key, Expiry: now.Add(d).UTC()}
	raw[key] = model.FormatTimestamp(e.Expiry)
	if err := w.save(ctx, raw); err != nil {
		return Entry{}, err
	}
	// re-parse so the returned expiry matches the stored precision
	e.Expiry = parseExpiry(raw[key])
	return e, nil
}

// Lookup returns the entry for domain, live or not.
func (w *Whitelist) Lookup(ctx context.Context, domain string) (Entry, bool, error) {
	key := hostkey.Canonical(domain)
	if key == "" {
		return Entry{}, false, nil
	}
	raw, err := w.load(ctx)
	if err != nil {
		return Entry{}, false, err
	}
	ts, ok := raw[key]
	if !ok {
		return Entry{}, false, nil
	}
	return Entry{Domain: key, Expiry: parseExpiry(ts)}, true, nil
}

// IsLive reports whether domain has an entry that has not expired at now.
func (w *Whitelist) IsLive(ctx context.Context, domain string, now time.Time) (bool, error) {
	e, ok, err := w.Lookup(ctx, domain)
	if err != nil || !ok {
		return false, err
	}
	return e.IsLive(now), nil
}

// Remaining returns the access time left for domain at now.
func (w *Whitelist) Remaining(ctx context.Context, domain string, now time.Time) (time.Duration, error) {
	e, ok, err := w.Lookup(ctx, domain)
	if err != nil || !ok {
		return 0, err
	}
	return e.Remaining(now), nil
}

// Entries lists every stored entry, expired ones included, by domain.
func (w *Whitelist) Entries(ctx context.Context) ([]Entry, error) {
	raw, err := w.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(raw))
	for d, ts := range raw {
		out = append(out, Entry{Domain: d, Expiry: parseExpiry(ts)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Domain < out[j].Domain })
	return out, nil
}

// Revoke deletes the entry for domain.
func (w *Whitelist) Revoke(ctx context.Context, domain string) (bool, error) {
	key := hostkey.Canonical(domain)

	w.mu.Lock()
	defer w.mu.Unlock()

	raw, err := w.load(ctx)
	if err != nil {
		return false, err
	}
	if _, ok := raw[key]; !ok {
		return false, nil
	}
	delete(raw, key)
	return true, w.save(ctx, raw)
}

// Prune deletes entries that are no longer live at now and returns how many
// were removed. Liveness never depends on pruning.
func (w *Whitelist) Prune(ctx context.Context, now time.Time) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	raw, err := w.load(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for d, ts := range raw {
		if !parseExpiry(ts).After(now) {
			delete(raw, d)
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return n, w.save(ctx, raw)
}

func (w *Whitelist) load(ctx context.Context) (map[string]string, error) {
	s, err := settings.Load(ctx, w.st, settings.KeyWhitelistedSites)
	if err != nil {
		return nil, err
	}
	return s.WhitelistedSites, nil
}

func (w *Whitelist) save(ctx context.Context, raw map[string]string) error {
	doc := store.Document{}
	if err := doc.Put(settings.KeyWhitelistedSites, raw); err != nil {
		return err
	}
	return w.st.Set(ctx, doc)
}

// parseExpiry reads a stored timestamp. Unparseable values read as the zero
// time, which is never live.
func parseExpiry(ts string) time.Time {
	t, err := model.ParseTimestamp(ts)
	if err != nil {
		return time.Time{}
	}
	return t
}
