package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ppiankov/intentgate/internal/hostkey"
	"github.com/ppiankov/intentgate/internal/model"
)

// ReplayFilter selects entries for a replay.
type ReplayFilter struct {
	Domain string    // canonicalized; empty = every domain
	From   time.Time // zero value = no lower bound
	To     time.Time // zero value = no upper bound
}

// ReplaySummary counts decisions in a replay.
type ReplaySummary struct {
	Total          int    `json:"total"`
	AwaitingCount  int    `json:"awaiting_count"`
	AcceptedCount  int    `json:"accepted_count"`
	RejectedCount  int    `json:"rejected_count"`
	TooShortCount  int    `json:"too_short_count"`
	BypassCount    int    `json:"bypass_count"`
	FirstTimestamp string `json:"first_timestamp"`
	LastTimestamp  string `json:"last_timestamp"`
}

// ReplayResult holds filtered entries and their summary.
type ReplayResult struct {
	Domain  string        `json:"domain,omitempty"`
	Entries []Entry       `json:"entries"`
	Summary ReplaySummary `json:"summary"`
}

// Replay reads the audit log and returns entries matching the filter.
// Malformed lines are skipped.
func Replay(path string, filter ReplayFilter) (*ReplayResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()

	domain := ""
	if filter.Domain != "" {
		domain = hostkey.Canonical(filter.Domain)
	}
	result := &ReplayResult{Domain: domain}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry Entry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			continue
		}
		if domain != "" && entry.Domain != domain {
			continue
		}
		if !filter.From.IsZero() || !filter.To.IsZero() {
			ts, err := time.Parse(TimestampFormat, entry.Timestamp)
			if err != nil {
				continue
			}
			if !filter.From.IsZero() && ts.Before(filter.From) {
				continue
			}
			if !filter.To.IsZero() && ts.After(filter.To) {
				continue
			}
		}

		result.Entries = append(result.Entries, entry)
		updateSummary(&result.Summary, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read audit log: %w", err)
	}
	return result, nil
}

func updateSummary(s *ReplaySummary, entry Entry) {
	s.Total++
	switch model.State(entry.State) {
	case model.AwaitingIntent:
		s.AwaitingCount++
	case model.Accepted:
		s.AcceptedCount++
	case model.Rejected:
		s.RejectedCount++
	case model.TooShort:
		s.TooShortCount++
	case model.Ungated, model.Whitelisted:
		s.BypassCount++
	}
	if s.FirstTimestamp == "" {
		s.FirstTimestamp = entry.Timestamp
	}
	s.LastTimestamp = entry.Timestamp
}
