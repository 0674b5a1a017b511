package settings

import (
	"context"
	"errors"
	"testing"

	"github.com/ppiankov/intentgate/internal/model"
	"github.com/ppiankov/intentgate/internal/store"
)

func TestDecodeEmptyUsesDefaults(t *testing.T) {
	s, err := Decode(store.Document{})
	if err != nil {
		t.Fatal(err)
	}
	if s.IsEnabled {
		t.Error("filtering should default to off until install")
	}
	if s.WhitelistTime != DefaultWhitelistTime || s.MinIntentLength != DefaultMinIntentLength {
		t.Errorf("unexpected numeric defaults: %+v", s)
	}
	if s.PredictionThreshold != DefaultPredictionThreshold {
		t.Errorf("PredictionThreshold = %v", s.PredictionThreshold)
	}
	if s.BlockedSites == nil || s.WhitelistedSites == nil || s.IntentList == nil {
		t.Error("collections must be non-nil")
	}
}

func TestDecodeNumericStrings(t *testing.T) {
	doc := store.Document{
		KeyWhitelistTime:       []byte(`"10"`),
		KeyNumIntentEntries:    []byte(`15`),
		KeyMinIntentLength:     []byte(`" 4 "`),
		KeyPredictionThreshold: []byte(`"0.65"`),
	}
	s, err := Decode(doc)
	if err != nil {
		t.Fatal(err)
	}
	if s.WhitelistTime != 10 || s.NumIntentEntries != 15 || s.MinIntentLength != 4 || s.PredictionThreshold != 0.65 {
		t.Errorf("decoded %+v", s)
	}
}

func TestDecodeBlankNumbersKeepDefaults(t *testing.T) {
	doc := store.Document{
		KeyWhitelistTime:       []byte(`"five"`),
		KeyNumIntentEntries:    []byte(`"  "`),
		KeyMinIntentLength:     []byte(`""`),
		KeyPredictionThreshold: []byte(`""`),
	}
	s, err := Decode(doc)
	if err != nil {
		t.Fatal(err)
	}
	want := Defaults()
	if s.WhitelistTime != want.WhitelistTime || s.NumIntentEntries != want.NumIntentEntries ||
		s.MinIntentLength != want.MinIntentLength || s.PredictionThreshold != want.PredictionThreshold {
		t.Errorf("decoded %+v, want numeric defaults", s)
	}
}

func TestDecodeBadNumber(t *testing.T) {
	_, err := Decode(store.Document{KeyWhitelistTime: []byte(`true`)})
	if !errors.Is(err, model.ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
}

func TestDecodeNullCollections(t *testing.T) {
	s, err := Decode(store.Document{KeyBlockedSites: []byte(`null`)})
	if err != nil {
		t.Fatal(err)
	}
	if s.BlockedSites == nil {
		t.Error("null blockedSites should decode to empty slice")
	}
}

func TestLoadSelectedKeys(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	doc := store.Document{}
	doc.Put(KeyIsEnabled, true)
	doc.Put(KeyCustomMessage, "breathe")
	st.Set(ctx, doc)

	s, err := Load(ctx, st, KeyIsEnabled)
	if err != nil {
		t.Fatal(err)
	}
	if !s.IsEnabled {
		t.Error("IsEnabled not loaded")
	}
	if s.CustomMessage != "" {
		t.Error("unrequested key leaked into settings")
	}
}

func TestOptionsValidate(t *testing.T) {
	neg, zero, big, ok := -1.0, 0.0, 1.0, 0.7
	tests := []struct {
		name string
		opts Options
		ok   bool
	}{
		{"empty", Options{}, true},
		{"threshold", Options{PredictionThreshold: &ok}, true},
		{"threshold 1", Options{PredictionThreshold: &big}, false},
		{"zero whitelist", Options{WhitelistTime: &zero}, false},
		{"negative entries", Options{NumIntentEntries: &neg}, false},
		{"zero min length", Options{MinIntentLength: &zero}, true},
	}
	for _, tt := range tests {
		err := tt.opts.Validate()
		if (err == nil) != tt.ok {
			t.Errorf("%s: Validate() = %v", tt.name, err)
		}
	}
}

func TestOptionsDocumentOnlySetFields(t *testing.T) {
	wt := 15.0
	blobs := false
	doc, err := Options{WhitelistTime: &wt, EnableBlobs: &blobs}.Document()
	if err != nil {
		t.Fatal(err)
	}
	if len(doc) != 2 {
		t.Fatalf("doc has %d keys, want 2: %v", len(doc), doc)
	}
	if string(doc[KeyWhitelistTime]) != "15" || string(doc[KeyEnableBlobs]) != "false" {
		t.Errorf("doc = %v", doc)
	}
	if (Options{}).Empty() != true || (Options{WhitelistTime: &wt}).Empty() {
		t.Error("Empty() wrong")
	}
}
