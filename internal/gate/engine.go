// Package gate decides whether a navigation may proceed and turns
// submitted intents into time-boxed whitelist grants.
package gate

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ppiankov/intentgate/internal/audit"
	"github.com/ppiankov/intentgate/internal/intentlog"
	"github.com/ppiankov/intentgate/internal/registry"
	"github.com/ppiankov/intentgate/internal/settings"
	"github.com/ppiankov/intentgate/internal/store"
	"github.com/ppiankov/intentgate/internal/whitelist"
)

// Predictor judges whether an intent is substantive. A threshold outside
// (0,1) selects the predictor's own threshold.
type Predictor interface {
	Predict(ctx context.Context, text string, threshold float64) (bool, error)
	Version() string
}

// Countdown is the badge refresh loop controlled by the filtering toggle.
type Countdown interface {
	Start(ctx context.Context)
	Stop()
}

// InstallDefaults are the values written on first install.
type InstallDefaults struct {
	Sites            []string `yaml:"sites"`
	WhitelistTime    float64  `yaml:"whitelist_time"`
	NumIntentEntries float64  `yaml:"num_intent_entries"`
	EnableBlobs      bool     `yaml:"enable_blobs"`
}

// DefaultInstall mirrors a fresh extension install.
func DefaultInstall() InstallDefaults {
	return InstallDefaults{
		Sites:            registry.DefaultSites,
		WhitelistTime:    settings.DefaultWhitelistTime,
		NumIntentEntries: settings.DefaultNumIntentEntries,
		EnableBlobs:      true,
	}
}

// Engine is the gating state machine. Every flow runs under one mutex so
// its store reads and the writes derived from them are never interleaved
// with another flow from this process.
type Engine struct {
	st        store.Store
	reg       *registry.Registry
	wl        *whitelist.Whitelist
	hist      *intentlog.Log
	predictor atomic.Pointer[predictorRef]
	countdown Countdown
	audit     audit.Recorder
	logger    *slog.Logger
	now       func() time.Time
	install   InstallDefaults

	mu        sync.Mutex
	base      context.Context
	activeURL atomic.Value // string
}

type predictorRef struct {
	p Predictor
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLogger sets the engine logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithAudit records every decision to r.
func WithAudit(r audit.Recorder) Option {
	return func(e *Engine) { e.audit = r }
}

// WithCountdown attaches the badge countdown.
func WithCountdown(c Countdown) Option {
	return func(e *Engine) { e.countdown = c }
}

// WithInstallDefaults overrides DefaultInstall.
func WithInstallDefaults(d InstallDefaults) Option {
	return func(e *Engine) { e.install = d }
}

// New creates an Engine over st. A nil predictor means the model failed to
// load; the engine then fails open.
func New(st store.Store, p Predictor, opts ...Option) *Engine {
	e := &Engine{
		st:      st,
		reg:     registry.New(st),
		wl:      whitelist.New(st),
		hist:    intentlog.New(st),
		audit:   audit.Discard,
		logger:  slog.Default(),
		now:     time.Now,
		install: DefaultInstall(),
		base:    context.Background(),
	}
	for _, o := range opts {
		o(e)
	}
	e.SetPredictor(p)
	e.activeURL.Store("")
	return e
}

// SetPredictor swaps the classifier. In-flight submissions keep the
// predictor they started with.
func (e *Engine) SetPredictor(p Predictor) {
	if p == nil {
		e.predictor.Store(nil)
		return
	}
	e.predictor.Store(&predictorRef{p: p})
}

// ReplacePredictor swaps the classifier after a reload and records the event.
func (e *Engine) ReplacePredictor(p Predictor) {
	prev := e.ModelVersion()
	e.SetPredictor(p)
	e.logger.Info("model reloaded", "previous", prev, "current", e.ModelVersion())
	e.record(audit.Entry{Event: audit.EventReload, Detail: prev})
}

// Predictor returns the current classifier, or nil when none is loaded.
func (e *Engine) Predictor() Predictor {
	ref := e.predictor.Load()
	if ref == nil {
		return nil
	}
	return ref.p
}

// ModelVersion returns the loaded snapshot label, or "" when none is loaded.
func (e *Engine) ModelVersion() string {
	if p := e.Predictor(); p != nil {
		return p.Version()
	}
	return ""
}

// ActiveURL returns the URL of the most recent navigation check.
func (e *Engine) ActiveURL() string {
	return e.activeURL.Load().(string)
}

// SetActiveURL records the active tab without running a check.
func (e *Engine) SetActiveURL(url string) {
	e.activeURL.Store(url)
}

// Registry exposes the blocked-site registry.
func (e *Engine) Registry() *registry.Registry {
	return e.reg
}

// Whitelist exposes the temporal whitelist.
func (e *Engine) Whitelist() *whitelist.Whitelist {
	return e.wl
}

// History exposes the intent history.
func (e *Engine) History() *intentlog.Log {
	return e.hist
}

func (e *Engine) record(entry audit.Entry) {
	entry.Model = e.ModelVersion()
	if err := e.audit.Record(entry); err != nil {
		e.logger.Warn("audit record failed", "event", entry.Event, "error", err)
	}
}
