package badge

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestText(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, ""},
		{-5 * time.Second, ""},
		{400 * time.Millisecond, ""},
		{500 * time.Millisecond, "1s"},
		{42 * time.Second, "42s"},
		{60 * time.Second, "60s"},
		{60*time.Second + 400*time.Millisecond, "60s"},
		{61 * time.Second, "1m"},
		{89 * time.Second, "1m"},
		{90 * time.Second, "2m"},
		{5 * time.Minute, "5m"},
	}
	for _, tt := range tests {
		if got := Text(tt.in); got != tt.want {
			t.Errorf("Text(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

type fixedTab string

func (f fixedTab) ActiveURL() string { return string(f) }

type fakeRemaining struct {
	left map[string]time.Duration
	err  error
}

func (f fakeRemaining) Remaining(_ context.Context, domain string, _ time.Time) (time.Duration, error) {
	return f.left[domain], f.err
}

type recordingPainter struct {
	mu    sync.Mutex
	texts []string
}

func (p *recordingPainter) Paint(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.texts = append(p.texts, text)
}

func (p *recordingPainter) last() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.texts) == 0 {
		return "<none>"
	}
	return p.texts[len(p.texts)-1]
}

func TestTickPaintsRemaining(t *testing.T) {
	p := &recordingPainter{}
	rem := fakeRemaining{left: map[string]time.Duration{"facebook.com": 3 * time.Minute}}
	c := NewCountdown(fixedTab("https://www.facebook.com/feed"), rem, p)

	c.Tick(context.Background())
	if p.last() != "3m" {
		t.Errorf("painted %q, want 3m", p.last())
	}
}

func TestTickClearsWithoutTabOrOnError(t *testing.T) {
	p := &recordingPainter{}
	c := NewCountdown(fixedTab(""), fakeRemaining{}, p)
	c.Tick(context.Background())
	if p.last() != "" {
		t.Errorf("painted %q with no active tab", p.last())
	}

	p2 := &recordingPainter{}
	c2 := NewCountdown(fixedTab("facebook.com"), fakeRemaining{err: errors.New("boom")}, p2)
	c2.Tick(context.Background())
	if p2.last() != "" {
		t.Errorf("painted %q on lookup error", p2.last())
	}
}

func TestStartIsIdempotentAndStopClears(t *testing.T) {
	p := &recordingPainter{}
	rem := fakeRemaining{left: map[string]time.Duration{"youtube.com": 30 * time.Second}}
	c := NewCountdown(fixedTab("youtube.com"), rem, p, WithInterval(5*time.Millisecond))

	ctx := context.Background()
	c.Start(ctx)
	first := c.done
	c.Start(ctx)
	if c.done != first {
		t.Fatal("second Start replaced the running loop")
	}

	deadline := time.Now().Add(2 * time.Second)
	for p.last() != "30s" && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if p.last() != "30s" {
		t.Fatalf("loop never painted, last = %q", p.last())
	}

	c.Stop()
	if c.Running() {
		t.Error("still running after Stop")
	}
	if p.last() != "" {
		t.Errorf("Stop left badge %q", p.last())
	}

	// Stop on a stopped countdown only clears.
	c.Stop()
}

func TestStatePainterForwards(t *testing.T) {
	inner := &recordingPainter{}
	sp := NewStatePainter(inner)
	sp.Paint("4m")
	if sp.Text() != "4m" || inner.last() != "4m" {
		t.Errorf("state %q, inner %q", sp.Text(), inner.last())
	}
}
