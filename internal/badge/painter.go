package badge

import (
	"log/slog"
	"sync"
)

// StatePainter remembers the last painted text so other surfaces (status
// RPC, MCP, CLI) can show it.
type StatePainter struct {
	mu   sync.RWMutex
	text string
	next Painter
}

// NewStatePainter returns a StatePainter that forwards to next when non-nil.
func NewStatePainter(next Painter) *StatePainter {
	return &StatePainter{next: next}
}

func (p *StatePainter) Paint(text string) {
	p.mu.Lock()
	p.text = text
	p.mu.Unlock()
	if p.next != nil {
		p.next.Paint(text)
	}
}

// Text returns the most recently painted text.
func (p *StatePainter) Text() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.text
}

// LogPainter logs badge changes at debug level.
type LogPainter struct {
	Logger *slog.Logger

	mu   sync.Mutex
	last string
}

func (p *LogPainter) Paint(text string) {
	p.mu.Lock()
	changed := text != p.last
	p.last = text
	p.mu.Unlock()
	if changed && p.Logger != nil {
		p.Logger.Debug("badge", "text", text)
	}
}
