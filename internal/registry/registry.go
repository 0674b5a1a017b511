package registry

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/ppiankov/intentgate/internal/hostkey"
	"github.com/ppiankov/intentgate/internal/model"
	"github.com/ppiankov/intentgate/internal/settings"
	"github.com/ppiankov/intentgate/internal/store"
)

// Registry persists a Set under the blockedSites key. Each mutation is a
// read-modify-write of that single key.
type Registry struct {
	st store.Store
	mu sync.Mutex
}

// New creates a Registry over st.
func New(st store.Store) *Registry {
	return &Registry{st: st}
}

// Sites returns the registry in display order. Stored rows that are not
// canonical are rewritten, so the positions shown line up with RemoveAt.
func (r *Registry) Sites(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, err := settings.Load(ctx, r.st, settings.KeyBlockedSites)
	if err != nil {
		return nil, err
	}
	set := NewSet(s.BlockedSites)
	if !slices.Equal(set.Items(), s.BlockedSites) {
		if err := r.save(ctx, set); err != nil {
			return nil, err
		}
	}
	return set.Items(), nil
}

// Contains reports whether site is registered.
func (r *Registry) Contains(ctx context.Context, site string) (bool, error) {
	set, err := r.load(ctx)
	if err != nil {
		return false, err
	}
	return set.Contains(site), nil
}

// Add registers site. Adding a present site is a no-op and issues no write.
// It returns the canonical key that was (or already was) registered.
func (r *Registry) Add(ctx context.Context, site string) (string, bool, error) {
	return r.mutate(ctx, site, (*Set).Add)
}

// Remove unregisters site.
func (r *Registry) Remove(ctx context.Context, site string) (string, bool, error) {
	return r.mutate(ctx, site, (*Set).Remove)
}

// RemoveAt unregisters the site stored at row i. Rows are counted in the
// stored sequence, which other writers may have left with duplicates or
// non-canonical entries; every row naming the same site goes with it and
// the rest is saved back in canonical form.
func (r *Registry) RemoveAt(ctx context.Context, i int) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, err := settings.Load(ctx, r.st, settings.KeyBlockedSites)
	if err != nil {
		return "", err
	}
	rows := s.BlockedSites
	if i < 0 || i >= len(rows) {
		return "", fmt.Errorf("%w: index %d out of range [0,%d)", model.ErrInvalidInput, i, len(rows))
	}

	removed := rows[i]
	rest := make([]string, 0, len(rows)-1)
	rest = append(rest, rows[:i]...)
	rest = append(rest, rows[i+1:]...)
	set := NewSet(rest)
	if key := hostkey.Canonical(removed); key != "" {
		set.Remove(key)
		removed = key
	}
	return removed, r.save(ctx, set)
}

// Seed replaces the registry with sites.
func (r *Registry) Seed(ctx context.Context, sites []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.save(ctx, NewSet(sites))
}

func (r *Registry) mutate(ctx context.Context, site string, op func(*Set, string) bool) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, err := r.load(ctx)
	if err != nil {
		return "", false, err
	}
	key := hostkey.Canonical(site)
	if key == "" {
		return "", false, fmt.Errorf("%w: site %q", model.ErrInvalidInput, site)
	}
	if !op(set, key) {
		return key, false, nil
	}
	return key, true, r.save(ctx, set)
}

func (r *Registry) load(ctx context.Context) (*Set, error) {
	s, err := settings.Load(ctx, r.st, settings.KeyBlockedSites)
	if err != nil {
		return nil, err
	}
	return NewSet(s.BlockedSites), nil
}

func (r *Registry) save(ctx context.Context, set *Set) error {
	doc := store.Document{}
	if err := doc.Put(settings.KeyBlockedSites, set.Items()); err != nil {
		return err
	}
	return r.st.Set(ctx, doc)
}
