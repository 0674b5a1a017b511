package model

import "time"

// State is the gating outcome for a navigation or an intent submission.
type State string

const (
	Ungated        State = "UNGATED"
	Whitelisted    State = "WHITELISTED"
	AwaitingIntent State = "AWAITING_INTENT"
	Accepted       State = "ACCEPTED"
	Rejected       State = "REJECTED"
	TooShort       State = "TOO_SHORT"
)

// Terminal reports whether the state ends the flow for this attempt.
// AWAITING_INTENT is the only state that expects more input.
func (s State) Terminal() bool {
	return s != AwaitingIntent
}

// Allows reports whether navigation may proceed in this state.
func (s State) Allows() bool {
	switch s {
	case Ungated, Whitelisted, Accepted:
		return true
	default:
		return false
	}
}

// IntentStatus is the reply sent back on the intentStatus channel.
type IntentStatus string

const (
	StatusTooShort IntentStatus = "too_short"
	StatusOK       IntentStatus = "ok"
	StatusInvalid  IntentStatus = "invalid"
)

// StatusFor maps a submission state to its wire status.
// AWAITING_INTENT never results from a submission and maps to "".
func StatusFor(s State) IntentStatus {
	switch s {
	case TooShort:
		return StatusTooShort
	case Accepted, Ungated, Whitelisted:
		return StatusOK
	case Rejected:
		return StatusInvalid
	default:
		return ""
	}
}

// Intent is one submitted intent as kept in the history log.
type Intent struct {
	Intent string `json:"intent"`
	URL    string `json:"url"`
}

// TimestampLayout is the ISO-8601 form used for every persisted instant.
// It matches JavaScript's Date.prototype.toJSON output.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// FormatTimestamp renders t in UTC using TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp accepts TimestampLayout as well as any RFC 3339 instant.
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(TimestampLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}
