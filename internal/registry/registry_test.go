package registry

import (
	"context"
	"reflect"
	"testing"

	"github.com/ppiankov/intentgate/internal/store"
)

func TestSetAddIsIdempotent(t *testing.T) {
	s := NewSet(nil)
	if !s.Add("facebook.com") {
		t.Fatal("first Add should change the set")
	}
	for _, dup := range []string{"facebook.com", "https://www.facebook.com/feed", "FACEBOOK.COM"} {
		if s.Add(dup) {
			t.Errorf("Add(%q) changed the set", dup)
		}
	}
	if !reflect.DeepEqual(s.Items(), []string{"facebook.com"}) {
		t.Errorf("Items() = %v", s.Items())
	}
}

func TestNewSetDropsInvalidAndDuplicates(t *testing.T) {
	s := NewSet([]string{"www.youtube.com", "youtube.com", "", "about:blank", "reddit.com"})
	want := []string{"youtube.com", "reddit.com"}
	if !reflect.DeepEqual(s.Items(), want) {
		t.Errorf("Items() = %v, want %v", s.Items(), want)
	}
}

func TestSetRemove(t *testing.T) {
	s := NewSet(DefaultSites)
	if !s.Remove("https://twitter.com/home") {
		t.Fatal("Remove should accept a full URL")
	}
	if s.Contains("twitter.com") {
		t.Error("twitter.com still present")
	}
	if s.Remove("twitter.com") {
		t.Error("second Remove should be a no-op")
	}
}

func TestSetRemoveAt(t *testing.T) {
	s := NewSet(DefaultSites)
	got, ok := s.RemoveAt(1)
	if !ok || got != "twitter.com" {
		t.Errorf("RemoveAt(1) = %q, %v", got, ok)
	}
	if _, ok := s.RemoveAt(10); ok {
		t.Error("RemoveAt out of range should fail")
	}
	if _, ok := s.RemoveAt(-1); ok {
		t.Error("RemoveAt(-1) should fail")
	}
	if s.Len() != 3 {
		t.Errorf("Len() = %d, want 3", s.Len())
	}
}

func TestIsGated(t *testing.T) {
	tests := []struct {
		member, inverted, want bool
	}{
		{true, false, true},
		{false, false, false},
		{true, true, false},
		{false, true, true},
	}
	for _, tt := range tests {
		if got := IsGated(tt.member, tt.inverted); got != tt.want {
			t.Errorf("IsGated(%v, %v) = %v, want %v", tt.member, tt.inverted, got, tt.want)
		}
	}
}

func TestButtonLabel(t *testing.T) {
	tests := []struct {
		member, inverted bool
		want             string
	}{
		{false, false, "block page."},
		{true, false, "unblock page."},
		{false, true, "allow page."},
		{true, true, "unallow page."},
	}
	for _, tt := range tests {
		if got := ButtonLabel(tt.member, tt.inverted); got != tt.want {
			t.Errorf("ButtonLabel(%v, %v) = %q, want %q", tt.member, tt.inverted, got, tt.want)
		}
	}
}

func TestRegistryPersists(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	r := New(st)

	if err := r.Seed(ctx, DefaultSites); err != nil {
		t.Fatal(err)
	}
	key, changed, err := r.Add(ctx, "https://www.Reddit.com/r/golang")
	if err != nil || !changed || key != "reddit.com" {
		t.Fatalf("Add = %q, %v, %v", key, changed, err)
	}
	if _, changed, _ := r.Add(ctx, "reddit.com"); changed {
		t.Error("duplicate Add reported a change")
	}

	sites, err := New(st).Sites(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := append(append([]string{}, DefaultSites...), "reddit.com")
	if !reflect.DeepEqual(sites, want) {
		t.Errorf("Sites() = %v, want %v", sites, want)
	}

	removed, err := r.RemoveAt(ctx, 0)
	if err != nil || removed != "facebook.com" {
		t.Errorf("RemoveAt(0) = %q, %v", removed, err)
	}
	if ok, _ := r.Contains(ctx, "facebook.com"); ok {
		t.Error("facebook.com should be gone")
	}
}

func TestRegistryRejectsInvalidSite(t *testing.T) {
	r := New(store.NewMemoryStore())
	if _, _, err := r.Add(context.Background(), "about:blank"); err == nil {
		t.Error("expected error for a URL without a host")
	}
}

func TestRegistryAddLeavesOtherKeys(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	doc := store.Document{}
	doc.Put("isEnabled", true)
	st.Set(ctx, doc)

	New(st).Add(ctx, "facebook.com")

	got, _ := st.Get(ctx, "isEnabled")
	if string(got["isEnabled"]) != "true" {
		t.Errorf("isEnabled clobbered: %s", got["isEnabled"])
	}
}

func TestRegistryRemoveAtCountsStoredRows(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	doc := store.Document{}
	doc.Put("blockedSites", []string{"www.Facebook.com", "facebook.com", "youtube.com", "reddit.com"})
	st.Set(ctx, doc)
	r := New(st)

	removed, err := r.RemoveAt(ctx, 2)
	if err != nil || removed != "youtube.com" {
		t.Fatalf("RemoveAt(2) = %q, %v, want youtube.com", removed, err)
	}
	sites, _ := r.Sites(ctx)
	if want := []string{"facebook.com", "reddit.com"}; !reflect.DeepEqual(sites, want) {
		t.Errorf("Sites() = %v, want %v", sites, want)
	}

	// the stored rows are canonical now; removing a duplicated site drops every copy
	doc = store.Document{}
	doc.Put("blockedSites", []string{"facebook.com", "reddit.com", "www.facebook.com"})
	st.Set(ctx, doc)
	if removed, err := r.RemoveAt(ctx, 2); err != nil || removed != "facebook.com" {
		t.Fatalf("RemoveAt(2) = %q, %v, want facebook.com", removed, err)
	}
	if ok, _ := r.Contains(ctx, "facebook.com"); ok {
		t.Error("facebook.com still listed after removing its duplicate row")
	}

	if _, err := r.RemoveAt(ctx, 5); err == nil {
		t.Error("expected error for out-of-range row")
	}
}

func TestRegistrySitesRewritesStoredRows(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	doc := store.Document{}
	doc.Put("blockedSites", []string{"www.YouTube.com", "youtube.com", "reddit.com"})
	st.Set(ctx, doc)
	r := New(st)

	sites, err := r.Sites(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"youtube.com", "reddit.com"}
	if !reflect.DeepEqual(sites, want) {
		t.Fatalf("Sites() = %v, want %v", sites, want)
	}

	got, _ := st.Get(ctx, "blockedSites")
	var stored []string
	got.Decode("blockedSites", &stored)
	if !reflect.DeepEqual(stored, want) {
		t.Errorf("stored rows = %v, want %v", stored, want)
	}
	if removed, _ := r.RemoveAt(ctx, 1); removed != "reddit.com" {
		t.Errorf("RemoveAt(1) = %q, want the row shown at 1", removed)
	}
}
