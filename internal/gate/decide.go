package gate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ppiankov/intentgate/internal/audit"
	"github.com/ppiankov/intentgate/internal/encoder"
	"github.com/ppiankov/intentgate/internal/hostkey"
	"github.com/ppiankov/intentgate/internal/model"
	"github.com/ppiankov/intentgate/internal/registry"
	"github.com/ppiankov/intentgate/internal/settings"
)

// Decision is the outcome of a check or a submission.
type Decision struct {
	State         model.State        `json:"state"`
	Status        model.IntentStatus `json:"status,omitempty"`
	Domain        string             `json:"domain,omitempty"`
	Expiry        time.Time          `json:"expiry"`
	Remaining     time.Duration      `json:"remaining,omitempty"`
	CustomMessage string             `json:"custom_message,omitempty"`
	Reason        string             `json:"reason,omitempty"`
}

// MarshalJSON writes Expiry in the persisted timestamp layout and omits it
// when unset.
func (d Decision) MarshalJSON() ([]byte, error) {
	type plain Decision
	out := struct {
		plain
		Expiry string `json:"expiry,omitempty"`
	}{plain: plain(d)}
	if !d.Expiry.IsZero() {
		out.Expiry = model.FormatTimestamp(d.Expiry)
	}
	return json.Marshal(out)
}

// Check evaluates a navigation to url.
//
// A storage failure returns UNGATED together with the error: a broken store
// must not lock the user out of the browser.
func (e *Engine) Check(ctx context.Context, url string) (Decision, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.activeURL.Store(url)
	d, err := e.check(ctx, url)
	if err != nil {
		e.logger.Warn("check failed open", "url", url, "error", err)
	}
	e.record(audit.Entry{
		Event:  audit.EventCheck,
		Domain: d.Domain,
		State:  string(d.State),
		Detail: d.Reason,
	})
	return d, err
}

func (e *Engine) check(ctx context.Context, url string) (Decision, error) {
	domain := hostkey.Canonical(url)
	d := Decision{State: model.Ungated, Domain: domain}

	s, err := settings.Load(ctx, e.st,
		settings.KeyIsEnabled, settings.KeyEnableInvertedMode, settings.KeyCustomMessage)
	if err != nil {
		d.Reason = "storage unavailable"
		return d, err
	}
	if !s.IsEnabled {
		d.Reason = "filtering disabled"
		return d, nil
	}
	if e.Predictor() == nil {
		d.Reason = "no classifier loaded"
		return d, nil
	}
	if domain == "" {
		d.Reason = "not a web page"
		return d, nil
	}

	member, err := e.reg.Contains(ctx, domain)
	if err != nil {
		d.Reason = "storage unavailable"
		return d, err
	}
	if !registry.IsGated(member, s.EnableInvertedMode) {
		d.Reason = "not gated"
		return d, nil
	}

	entry, ok, err := e.wl.Lookup(ctx, domain)
	if err != nil {
		d.Reason = "storage unavailable"
		return d, err
	}
	now := e.now()
	if ok && entry.IsLive(now) {
		d.State = model.Whitelisted
		d.Expiry = entry.Expiry
		d.Remaining = entry.Remaining(now)
		return d, nil
	}

	d.State = model.AwaitingIntent
	d.CustomMessage = s.CustomMessage
	return d, nil
}

// Submit judges intent for the site at url. An empty url falls back to the
// active tab. A nil intent is treated as too short.
//
// A storage failure returns REJECTED together with the error, so the user
// stays gated. Classifier failures also reject.
func (e *Engine) Submit(ctx context.Context, url string, intent *string) (Decision, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if url == "" {
		url = e.ActiveURL()
	}
	d, err := e.submit(ctx, url, intent)
	d.Status = model.StatusFor(d.State)
	if err != nil {
		e.logger.Warn("submission rejected", "url", url, "state", d.State, "error", err)
	} else {
		e.logger.Info("intent judged", "domain", d.Domain, "state", d.State)
	}
	e.record(audit.Entry{
		Event:  audit.EventSubmit,
		Domain: d.Domain,
		State:  string(d.State),
		Status: string(d.Status),
		Detail: d.Reason,
	})
	return d, err
}

func (e *Engine) submit(ctx context.Context, url string, intent *string) (Decision, error) {
	domain := hostkey.Canonical(url)
	d := Decision{State: model.Rejected, Domain: domain}

	if intent == nil {
		d.State = model.TooShort
		d.Reason = "missing intent"
		return d, nil
	}

	s, err := settings.Load(ctx, e.st,
		settings.KeyMinIntentLength, settings.KeyPredictionThreshold, settings.KeyWhitelistTime)
	if err != nil {
		d.Reason = "storage unavailable"
		return d, err
	}

	p := e.Predictor()
	if p == nil {
		d.State = model.Ungated
		d.Reason = "no classifier loaded"
		return d, nil
	}

	e.appendHistory(ctx, *intent, url)

	if words := encoder.WordCount(*intent); words <= s.MinIntentLength.Int() {
		d.State = model.TooShort
		d.Reason = fmt.Sprintf("%d words", words)
		return d, nil
	}

	ok, err := p.Predict(ctx, *intent, float64(s.PredictionThreshold))
	switch {
	case errors.Is(err, model.ErrEncoding):
		d.State = model.TooShort
		d.Reason = "unreadable intent"
		return d, nil
	case err != nil:
		d.Reason = "classifier failed"
		return d, err
	case !ok:
		d.Reason = "intent not accepted"
		return d, nil
	}

	if domain == "" {
		d.Reason = "no site to whitelist"
		return d, fmt.Errorf("submit: %q has no host", url)
	}
	minutes := time.Duration(float64(s.WhitelistTime) * float64(time.Minute))
	entry, err := e.wl.Grant(ctx, domain, minutes, e.now())
	if err != nil {
		d.Reason = "storage unavailable"
		return d, err
	}
	d.State = model.Accepted
	d.Expiry = entry.Expiry
	d.Remaining = minutes
	return d, nil
}

func (e *Engine) appendHistory(ctx context.Context, intent, url string) {
	if _, err := e.hist.Append(ctx, intent, url, e.now()); err != nil {
		e.logger.Warn("intent history not saved", "error", err)
	}
}
