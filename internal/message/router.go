package message

import (
	"context"
	"fmt"

	"github.com/ppiankov/intentgate/internal/gate"
	"github.com/ppiankov/intentgate/internal/model"
)

// Reply is the response to a dispatched message. Fields are set per
// channel; toggleState and blockFromPopup reply with OK only.
type Reply struct {
	OK       bool               `json:"ok"`
	Status   model.IntentStatus `json:"status,omitempty"`
	Decision *gate.Decision     `json:"decision,omitempty"`
	Popup    *gate.Status       `json:"popup,omitempty"`
	Site     string             `json:"site,omitempty"`
	Error    string             `json:"error,omitempty"`
}

// Router dispatches messages to a gate engine.
type Router struct {
	engine *gate.Engine
}

// NewRouter creates a Router for engine.
func NewRouter(engine *gate.Engine) *Router {
	return &Router{engine: engine}
}

// Dispatch runs msg against the engine. A submission that was judged
// always carries a status even when the engine also returned an error.
func (r *Router) Dispatch(ctx context.Context, msg Message) (Reply, error) {
	if err := Validate(msg); err != nil {
		return Reply{Error: err.Error()}, err
	}

	switch m := msg.(type) {
	case ToggleState:
		if err := r.engine.SetEnabled(ctx, *m.State); err != nil {
			return Reply{Error: err.Error()}, err
		}
		return Reply{OK: true}, nil

	case BlockFromPopup:
		var (
			key string
			err error
		)
		if *m.Unblock {
			key, _, err = r.engine.Unblock(ctx, m.SiteURL)
		} else {
			key, _, err = r.engine.Block(ctx, m.SiteURL)
		}
		if err != nil {
			return Reply{Error: err.Error()}, err
		}
		return Reply{OK: true, Site: key}, nil

	case IntentStatus:
		d, err := r.engine.Submit(ctx, m.URL, m.Intent)
		reply := Reply{OK: err == nil, Status: d.Status, Decision: &d}
		if err != nil {
			reply.Error = err.Error()
		}
		return reply, err

	case Check:
		d, err := r.engine.Check(ctx, m.URL)
		reply := Reply{OK: err == nil, Decision: &d}
		if err != nil {
			reply.Error = err.Error()
		}
		return reply, err

	case Status:
		url := m.URL
		if url == "" {
			url = r.engine.ActiveURL()
		}
		st, err := r.engine.Status(ctx, url)
		if err != nil {
			return Reply{Error: err.Error()}, err
		}
		return Reply{OK: true, Popup: &st}, nil

	default:
		err := fmt.Errorf("%w: unhandled message %T", ErrInvalid, msg)
		return Reply{Error: err.Error()}, err
	}
}
