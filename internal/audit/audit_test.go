package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func newTestLog(t *testing.T) (*Log, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test-audit.jsonl")
	l, err := Open(path)
	if err != nil {
		t.Fatalf("failed to open audit log: %v", err)
	}
	return l, path
}

func testEntry(state string) Entry {
	return Entry{
		Timestamp: time.Now().UTC().Format(TimestampFormat),
		Event:     EventSubmit,
		Domain:    "facebook.com",
		State:     state,
		Model:     "acc85.95",
	}
}

func TestSequentialWritesProduceValidChain(t *testing.T) {
	l, path := newTestLog(t)
	for i := 0; i < 5; i++ {
		if err := l.Record(testEntry("ACCEPTED")); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}
	l.Close()

	result := Verify(path)
	if !result.Valid {
		t.Fatalf("expected valid chain, got error at line %d: %s", result.ErrorLine, result.Error)
	}
	if result.Lines != 5 {
		t.Fatalf("expected 5 lines, got %d", result.Lines)
	}
}

func TestRecordFillsRequestID(t *testing.T) {
	l, path := newTestLog(t)
	l.Record(Entry{Event: EventCheck})
	l.Close()

	data, _ := os.ReadFile(path)
	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		t.Fatal(err)
	}
	if len(e.RequestID) != 36 {
		t.Errorf("RequestID = %q, want a uuid", e.RequestID)
	}
	if e.Timestamp == "" {
		t.Error("Timestamp not filled")
	}
	if e.PrevHash != GenesisHash {
		t.Errorf("first PrevHash = %q", e.PrevHash)
	}
}

func TestVerifyDetectsTamperedEntry(t *testing.T) {
	l, path := newTestLog(t)
	for i := 0; i < 3; i++ {
		l.Record(testEntry("REJECTED"))
	}
	l.Close()

	data, _ := os.ReadFile(path)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	lines[1] = strings.Replace(lines[1], `"REJECTED"`, `"ACCEPTED"`, 1)
	os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644)

	result := Verify(path)
	if result.Valid {
		t.Fatal("expected tampered chain to be invalid")
	}
	if result.ErrorLine != 3 {
		t.Fatalf("expected error at line 3, got line %d", result.ErrorLine)
	}
}

func TestVerifyDetectsDeletedEntry(t *testing.T) {
	l, path := newTestLog(t)
	for i := 0; i < 3; i++ {
		l.Record(testEntry("ACCEPTED"))
	}
	l.Close()

	data, _ := os.ReadFile(path)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	os.WriteFile(path, []byte(lines[0]+"\n"+lines[2]+"\n"), 0644)

	result := Verify(path)
	if result.Valid || result.ErrorLine != 2 {
		t.Fatalf("expected break at line 2, got %+v", result)
	}
}

func TestReopenContinuesChain(t *testing.T) {
	l, path := newTestLog(t)
	l.Record(testEntry("ACCEPTED"))
	l.Close()

	l2, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	l2.Record(testEntry("REJECTED"))
	l2.Close()

	if r := Verify(path); !r.Valid || r.Lines != 2 {
		t.Fatalf("reopened chain invalid: %+v", r)
	}
}

func TestConcurrentWritesProduceValidChain(t *testing.T) {
	l, path := newTestLog(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Record(testEntry("AWAITING_INTENT"))
		}()
	}
	wg.Wait()
	l.Close()

	if r := Verify(path); !r.Valid || r.Lines != 20 {
		t.Fatalf("concurrent chain invalid: %+v", r)
	}
}

func TestVerifyMissingFile(t *testing.T) {
	r := Verify(filepath.Join(t.TempDir(), "nope.jsonl"))
	if r.Valid || r.Error == "" {
		t.Fatalf("expected error for missing file, got %+v", r)
	}
}

func TestDiscardRecorder(t *testing.T) {
	if err := Discard.Record(Entry{}); err != nil {
		t.Fatal(err)
	}
}

func TestTwoWritersShareOneChain(t *testing.T) {
	l1, path := newTestLog(t)
	l2, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 6; i++ {
		w := l1
		if i%2 == 1 {
			w = l2
		}
		if err := w.Record(testEntry("AWAITING_INTENT")); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	var wg sync.WaitGroup
	for _, w := range []*Log{l1, l2} {
		wg.Add(1)
		go func(w *Log) {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				w.Record(testEntry("ACCEPTED"))
			}
		}(w)
	}
	wg.Wait()
	l1.Close()
	l2.Close()

	result := Verify(path)
	if !result.Valid {
		t.Fatalf("expected valid chain, got error at line %d: %s", result.ErrorLine, result.Error)
	}
	if result.Lines != 46 {
		t.Errorf("expected 46 lines, got %d", result.Lines)
	}
}
