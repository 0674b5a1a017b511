package audit

import (
	"strings"
	"testing"
	"time"
)

func TestReplayFiltersByDomainAndSummarizes(t *testing.T) {
	l, path := newTestLog(t)
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	entries := []Entry{
		{Event: EventCheck, Domain: "facebook.com", State: "AWAITING_INTENT"},
		{Event: EventSubmit, Domain: "facebook.com", State: "TOO_SHORT"},
		{Event: EventSubmit, Domain: "facebook.com", State: "ACCEPTED"},
		{Event: EventCheck, Domain: "facebook.com", State: "WHITELISTED"},
		{Event: EventCheck, Domain: "youtube.com", State: "AWAITING_INTENT"},
	}
	for i, e := range entries {
		e.Timestamp = base.Add(time.Duration(i) * time.Minute).Format(TimestampFormat)
		l.Record(e)
	}
	l.Close()

	res, err := Replay(path, ReplayFilter{Domain: "https://www.facebook.com/"})
	if err != nil {
		t.Fatal(err)
	}
	s := res.Summary
	if s.Total != 4 || s.AwaitingCount != 1 || s.TooShortCount != 1 || s.AcceptedCount != 1 || s.BypassCount != 1 {
		t.Errorf("summary = %+v", s)
	}
	if s.FirstTimestamp != "2024-05-01T09:00:00.000Z" || s.LastTimestamp != "2024-05-01T09:03:00.000Z" {
		t.Errorf("timestamps = %s..%s", s.FirstTimestamp, s.LastTimestamp)
	}

	out := FormatTimeline(res)
	if !strings.Contains(out, "facebook.com") || !strings.Contains(out, "1 accepted") {
		t.Errorf("timeline missing content:\n%s", out)
	}
}

func TestReplayTimeWindow(t *testing.T) {
	l, path := newTestLog(t)
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		l.Record(Entry{
			Timestamp: base.Add(time.Duration(i) * time.Hour).Format(TimestampFormat),
			Event:     EventCheck,
			Domain:    "twitter.com",
			State:     "UNGATED",
		})
	}
	l.Close()

	res, err := Replay(path, ReplayFilter{From: base.Add(time.Hour), To: base.Add(3 * time.Hour)})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Entries) != 3 {
		t.Errorf("expected 3 entries in window, got %d", len(res.Entries))
	}
}

func TestFormatTimelineEmpty(t *testing.T) {
	out := FormatTimeline(&ReplayResult{})
	if !strings.Contains(out, "No entries found") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestFormatJSON(t *testing.T) {
	out, err := FormatJSON(&ReplayResult{Domain: "x.com"})
	if err != nil || !strings.Contains(out, `"domain": "x.com"`) {
		t.Errorf("FormatJSON = %s, %v", out, err)
	}
}
