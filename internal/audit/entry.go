package audit

// Events recorded by the gate.
const (
	EventCheck   = "check"
	EventSubmit  = "submit"
	EventToggle  = "toggle"
	EventBlock   = "block"
	EventUnblock = "unblock"
	EventOptions = "options"
	EventInstall = "install"
	EventReload  = "model_reload"
)

// Entry is one line in the hash-chained JSONL audit log.
// All fields are scalars (no map[string]any) to guarantee deterministic
// json.Marshal field order for reproducible hashing.
type Entry struct {
	Timestamp string `json:"ts"`
	RequestID string `json:"request_id"`
	Event     string `json:"event"`
	Domain    string `json:"domain,omitempty"`
	State     string `json:"state,omitempty"`
	Status    string `json:"status,omitempty"`
	Model     string `json:"model,omitempty"`
	Detail    string `json:"detail,omitempty"`
	PrevHash  string `json:"prev_hash"`
}

// Recorder accepts audit entries.
type Recorder interface {
	Record(Entry) error
}

// Discard is a Recorder that drops every entry.
var Discard Recorder = discard{}

type discard struct{}

func (discard) Record(Entry) error { return nil }
