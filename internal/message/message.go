// Package message defines the channels the browser surfaces use to talk
// to the gate, with one typed payload per channel.
package message

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Channel identifies a message stream.
type Channel int

const (
	ChannelUnknown Channel = iota
	ChannelToggleState
	ChannelBlockFromPopup
	ChannelIntentStatus
	ChannelCheck
	ChannelStatus
)

var channelNames = map[Channel]string{
	ChannelToggleState:    "toggleState",
	ChannelBlockFromPopup: "blockFromPopup",
	ChannelIntentStatus:   "intentStatus",
	ChannelCheck:          "check",
	ChannelStatus:         "status",
}

func (c Channel) String() string {
	if n, ok := channelNames[c]; ok {
		return n
	}
	return fmt.Sprintf("Channel(%d)", int(c))
}

// ParseChannel maps a wire channel name to its Channel.
func ParseChannel(name string) (Channel, error) {
	for c, n := range channelNames {
		if strings.EqualFold(n, name) {
			return c, nil
		}
	}
	return ChannelUnknown, fmt.Errorf("%w: unknown channel %q", ErrInvalid, name)
}

// ErrInvalid marks a malformed message. Transports reply with an error
// instead of dispatching it.
var ErrInvalid = errors.New("invalid message")

// Message is a decoded payload. The concrete type determines the channel.
type Message interface {
	Channel() Channel
}

// ToggleState turns filtering on or off.
type ToggleState struct {
	State *bool `json:"state"`
}

// BlockFromPopup adds or removes the popup's site.
type BlockFromPopup struct {
	Unblock *bool  `json:"unblock"`
	SiteURL string `json:"siteURL"`
}

// IntentStatus submits an intent. URL defaults to the active tab.
type IntentStatus struct {
	Intent *string `json:"intent"`
	URL    string  `json:"url,omitempty"`
}

// Check reports the gating state of a navigation.
type Check struct {
	URL string `json:"url"`
}

// Status asks for the popup summary of a URL.
type Status struct {
	URL string `json:"url"`
}

func (ToggleState) Channel() Channel    { return ChannelToggleState }
func (BlockFromPopup) Channel() Channel { return ChannelBlockFromPopup }
func (IntentStatus) Channel() Channel   { return ChannelIntentStatus }
func (Check) Channel() Channel          { return ChannelCheck }
func (Status) Channel() Channel         { return ChannelStatus }

// Decode parses payload for channel and validates required fields.
func Decode(ch Channel, payload json.RawMessage) (Message, error) {
	if len(payload) == 0 {
		payload = json.RawMessage(`{}`)
	}
	var (
		msg Message
		err error
	)
	switch ch {
	case ChannelToggleState:
		var m ToggleState
		err = json.Unmarshal(payload, &m)
		msg = m
	case ChannelBlockFromPopup:
		var m BlockFromPopup
		err = json.Unmarshal(payload, &m)
		msg = m
	case ChannelIntentStatus:
		var m IntentStatus
		err = json.Unmarshal(payload, &m)
		msg = m
	case ChannelCheck:
		var m Check
		err = json.Unmarshal(payload, &m)
		msg = m
	case ChannelStatus:
		var m Status
		err = json.Unmarshal(payload, &m)
		msg = m
	default:
		return nil, fmt.Errorf("%w: unknown channel %s", ErrInvalid, ch)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s payload: %v", ErrInvalid, ch, err)
	}
	if err := Validate(msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// Validate enforces required fields.
func Validate(msg Message) error {
	switch m := msg.(type) {
	case ToggleState:
		if m.State == nil {
			return fmt.Errorf("%w: toggleState requires state", ErrInvalid)
		}
	case BlockFromPopup:
		if m.SiteURL == "" || m.Unblock == nil {
			return fmt.Errorf("%w: blockFromPopup requires siteURL and unblock", ErrInvalid)
		}
	case Check:
		if m.URL == "" {
			return fmt.Errorf("%w: check requires url", ErrInvalid)
		}
	}
	return nil
}
