package message

import (
	"context"
	"errors"
	"testing"

	"github.com/ppiankov/intentgate/internal/gate"
	"github.com/ppiankov/intentgate/internal/model"
	"github.com/ppiankov/intentgate/internal/settings"
	"github.com/ppiankov/intentgate/internal/store"
)

func TestChannelRoundTrip(t *testing.T) {
	for c, name := range channelNames {
		got, err := ParseChannel(name)
		if err != nil || got != c {
			t.Errorf("ParseChannel(%q) = %v, %v", name, got, err)
		}
		if c.String() != name {
			t.Errorf("String() = %q, want %q", c.String(), name)
		}
	}
	if _, err := ParseChannel("reloadTab"); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

func TestDecodeValidation(t *testing.T) {
	tests := []struct {
		ch      Channel
		payload string
		ok      bool
	}{
		{ChannelToggleState, `{"state":true}`, true},
		{ChannelToggleState, `{}`, false},
		{ChannelBlockFromPopup, `{"siteURL":"facebook.com","unblock":false}`, true},
		{ChannelBlockFromPopup, `{"siteURL":"facebook.com"}`, false},
		{ChannelBlockFromPopup, `{"siteURL":"","unblock":true}`, false},
		{ChannelIntentStatus, `{"intent":"reading docs for work"}`, true},
		{ChannelIntentStatus, `{}`, true}, // nil intent is judged too short
		{ChannelIntentStatus, `{"intent":42}`, false},
		{ChannelCheck, `{"url":"facebook.com"}`, true},
		{ChannelCheck, ``, false},
		{ChannelUnknown, `{}`, false},
	}
	for _, tt := range tests {
		_, err := Decode(tt.ch, []byte(tt.payload))
		if (err == nil) != tt.ok {
			t.Errorf("Decode(%s, %s) error = %v, want ok=%v", tt.ch, tt.payload, err, tt.ok)
		}
		if err != nil && !errors.Is(err, ErrInvalid) {
			t.Errorf("Decode error %v does not wrap ErrInvalid", err)
		}
	}
}

type acceptAll struct{}

func (acceptAll) Predict(context.Context, string, float64) (bool, error) { return true, nil }
func (acceptAll) Version() string                                       { return "test" }

func newRouter(t *testing.T) (*Router, *gate.Engine) {
	t.Helper()
	st := store.NewMemoryStore()
	doc := store.Document{}
	doc.Put(settings.KeyIsEnabled, true)
	doc.Put(settings.KeyBlockedSites, []string{"facebook.com"})
	st.Set(context.Background(), doc)
	e := gate.New(st, acceptAll{})
	return NewRouter(e), e
}

func boolp(b bool) *bool    { return &b }
func strp(s string) *string { return &s }

func TestDispatchIntentStatus(t *testing.T) {
	r, _ := newRouter(t)
	ctx := context.Background()

	reply, err := r.Dispatch(ctx, IntentStatus{Intent: strp("just bored"), URL: "facebook.com"})
	if err != nil || reply.Status != model.StatusTooShort {
		t.Errorf("short intent reply = %+v, %v", reply, err)
	}
	reply, err = r.Dispatch(ctx, IntentStatus{Intent: strp("replying to my team about the launch"), URL: "facebook.com"})
	if err != nil || reply.Status != model.StatusOK {
		t.Errorf("good intent reply = %+v, %v", reply, err)
	}
}

func TestDispatchToggleAndBlock(t *testing.T) {
	r, e := newRouter(t)
	ctx := context.Background()

	if _, err := r.Dispatch(ctx, BlockFromPopup{SiteURL: "https://www.youtube.com/watch", Unblock: boolp(false)}); err != nil {
		t.Fatal(err)
	}
	if ok, _ := e.Registry().Contains(ctx, "youtube.com"); !ok {
		t.Error("youtube.com not blocked")
	}
	if _, err := r.Dispatch(ctx, BlockFromPopup{SiteURL: "youtube.com", Unblock: boolp(true)}); err != nil {
		t.Fatal(err)
	}
	if ok, _ := e.Registry().Contains(ctx, "youtube.com"); ok {
		t.Error("youtube.com still blocked")
	}

	if _, err := r.Dispatch(ctx, ToggleState{State: boolp(false)}); err != nil {
		t.Fatal(err)
	}
	reply, _ := r.Dispatch(ctx, Check{URL: "facebook.com"})
	if reply.Decision.State != model.Ungated {
		t.Errorf("check after toggle off = %s", reply.Decision.State)
	}
}

func TestDispatchRejectsInvalid(t *testing.T) {
	r, _ := newRouter(t)
	_, err := r.Dispatch(context.Background(), BlockFromPopup{SiteURL: "facebook.com"})
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

func TestDispatchStatusUsesActiveTab(t *testing.T) {
	r, e := newRouter(t)
	e.SetActiveURL("https://facebook.com/")
	reply, err := r.Dispatch(context.Background(), Status{})
	if err != nil {
		t.Fatal(err)
	}
	if reply.Popup.Domain != "facebook.com" || reply.Popup.ButtonLabel != "unblock page." {
		t.Errorf("popup = %+v", reply.Popup)
	}
}
