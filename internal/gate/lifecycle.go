package gate

import (
	"context"
	"fmt"

	"github.com/ppiankov/intentgate/internal/audit"
	"github.com/ppiankov/intentgate/internal/hostkey"
	"github.com/ppiankov/intentgate/internal/intentlog"
	"github.com/ppiankov/intentgate/internal/model"
	"github.com/ppiankov/intentgate/internal/registry"
	"github.com/ppiankov/intentgate/internal/settings"
	"github.com/ppiankov/intentgate/internal/store"
)

// Start binds the engine to the process lifetime and resumes the badge
// countdown when filtering is on.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.base = ctx
	s, err := settings.Load(ctx, e.st, settings.KeyIsEnabled)
	if err != nil {
		return err
	}
	if s.IsEnabled && e.countdown != nil {
		e.countdown.Start(e.base)
	}
	e.logger.Info("gate started", "enabled", s.IsEnabled, "model", e.ModelVersion())
	return nil
}

// Stop halts the badge countdown.
func (e *Engine) Stop() {
	if e.countdown != nil {
		e.countdown.Stop()
	}
}

// SetEnabled persists the filtering toggle and starts or stops the badge
// countdown to match.
func (e *Engine) SetEnabled(ctx context.Context, on bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.setEnabled(ctx, on)
}

func (e *Engine) setEnabled(ctx context.Context, on bool) error {
	doc := store.Document{}
	if err := doc.Put(settings.KeyIsEnabled, on); err != nil {
		return err
	}
	if err := e.st.Set(ctx, doc); err != nil {
		return err
	}
	if e.countdown != nil {
		if on {
			e.countdown.Start(e.base)
		} else {
			e.countdown.Stop()
		}
	}
	e.logger.Info("filtering toggled", "enabled", on)
	e.record(audit.Entry{Event: audit.EventToggle, Detail: fmt.Sprintf("enabled=%t", on)})
	return nil
}

// Block adds site to the registry and returns its canonical key.
func (e *Engine) Block(ctx context.Context, site string) (string, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	key, changed, err := e.reg.Add(ctx, site)
	if err == nil && changed {
		e.record(audit.Entry{Event: audit.EventBlock, Domain: key})
	}
	return key, changed, err
}

// Unblock removes site from the registry.
func (e *Engine) Unblock(ctx context.Context, site string) (string, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	key, changed, err := e.reg.Remove(ctx, site)
	if err == nil && changed {
		e.record(audit.Entry{Event: audit.EventUnblock, Domain: key})
	}
	return key, changed, err
}

// UnblockAt removes the registry row at index i.
func (e *Engine) UnblockAt(ctx context.Context, i int) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	key, err := e.reg.RemoveAt(ctx, i)
	if err == nil {
		e.record(audit.Entry{Event: audit.EventUnblock, Domain: key})
	}
	return key, err
}

// Install writes first-install defaults, seeds the registry and turns
// filtering on.
func (e *Engine) Install(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	doc := store.Document{}
	for _, kv := range []struct {
		key string
		v   any
	}{
		{settings.KeyWhitelistedSites, map[string]string{}},
		{settings.KeyIntentList, map[string]model.Intent{}},
		{settings.KeyWhitelistTime, e.install.WhitelistTime},
		{settings.KeyNumIntentEntries, e.install.NumIntentEntries},
		{settings.KeyEnableBlobs, e.install.EnableBlobs},
	} {
		if err := doc.Put(kv.key, kv.v); err != nil {
			return err
		}
	}
	if err := e.st.Set(ctx, doc); err != nil {
		return err
	}
	if err := e.reg.Seed(ctx, e.install.Sites); err != nil {
		return err
	}
	e.record(audit.Entry{Event: audit.EventInstall, Detail: fmt.Sprintf("%d sites", len(e.install.Sites))})
	return e.setEnabled(ctx, true)
}

// Upgrade runs after a version update: filtering is turned back on.
func (e *Engine) Upgrade(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.setEnabled(ctx, true)
}

// Settings returns the full persisted settings.
func (e *Engine) Settings(ctx context.Context) (settings.Settings, error) {
	return settings.Load(ctx, e.st)
}

// SaveOptions validates and persists an options page update.
func (e *Engine) SaveOptions(ctx context.Context, opts settings.Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	doc, err := opts.Document()
	if err != nil {
		return err
	}
	if len(doc) == 0 {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.st.Set(ctx, doc); err != nil {
		return err
	}
	e.record(audit.Entry{Event: audit.EventOptions, Detail: fmt.Sprintf("%d keys", len(doc))})
	return nil
}

// RecentIntents returns up to numIntentEntries past intents, newest first.
func (e *Engine) RecentIntents(ctx context.Context) ([]intentlog.Record, error) {
	s, err := settings.Load(ctx, e.st, settings.KeyNumIntentEntries)
	if err != nil {
		return nil, err
	}
	n := s.NumIntentEntries.Int()
	if n <= 0 {
		return []intentlog.Record{}, nil
	}
	return e.hist.List(ctx, n)
}

// Status summarizes how the popup should present url.
type Status struct {
	Enabled     bool   `json:"enabled"`
	Inverted    bool   `json:"inverted"`
	Domain      string `json:"domain"`
	Member      bool   `json:"member"`
	Gated       bool   `json:"gated"`
	ButtonLabel string `json:"button_label"`
	Model       string `json:"model,omitempty"`
}

// Status reports filtering state and registry membership for url.
func (e *Engine) Status(ctx context.Context, url string) (Status, error) {
	s, err := settings.Load(ctx, e.st,
		settings.KeyIsEnabled, settings.KeyEnableInvertedMode, settings.KeyBlockedSites)
	if err != nil {
		return Status{}, err
	}
	domain := hostkey.Canonical(url)
	member := domain != "" && registry.NewSet(s.BlockedSites).Contains(domain)
	return Status{
		Enabled:     s.IsEnabled,
		Inverted:    s.EnableInvertedMode,
		Domain:      domain,
		Member:      member,
		Gated:       domain != "" && registry.IsGated(member, s.EnableInvertedMode),
		ButtonLabel: registry.ButtonLabel(member, s.EnableInvertedMode),
		Model:       e.ModelVersion(),
	}, nil
}
