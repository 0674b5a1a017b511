package gatev1

// CheckRequest asks for the gating state of a navigation.
type CheckRequest struct {
	URL string `json:"url"`
}

// Decision is the outcome of a check or a submission.
type Decision struct {
	RequestID        string `json:"request_id"`
	State            string `json:"state"`
	Status           string `json:"status,omitempty"`
	Domain           string `json:"domain,omitempty"`
	Expiry           string `json:"expiry,omitempty"`
	RemainingSeconds int64  `json:"remaining_seconds,omitempty"`
	CustomMessage    string `json:"custom_message,omitempty"`
	Reason           string `json:"reason,omitempty"`
}

// SubmitIntentRequest submits an intent for url. An empty url means the
// daemon's active tab.
type SubmitIntentRequest struct {
	URL    string  `json:"url,omitempty"`
	Intent *string `json:"intent"`
}

// ToggleRequest turns filtering on or off.
type ToggleRequest struct {
	Enabled bool `json:"enabled"`
}

// ToggleResponse echoes the persisted state.
type ToggleResponse struct {
	Enabled bool `json:"enabled"`
}

// BlockRequest adds or removes a site.
type BlockRequest struct {
	Site    string `json:"site"`
	Unblock bool   `json:"unblock,omitempty"`
	// Index removes the registry row at that position when Site is empty.
	Index *int `json:"index,omitempty"`
}

// BlockResponse reports the canonical key and whether the registry changed.
type BlockResponse struct {
	Site    string `json:"site"`
	Changed bool   `json:"changed"`
}

// StatusRequest asks for the popup summary of url. Empty means active tab.
type StatusRequest struct {
	URL string `json:"url,omitempty"`
}

// StatusResponse is the popup summary.
type StatusResponse struct {
	Enabled     bool   `json:"enabled"`
	Inverted    bool   `json:"inverted"`
	Domain      string `json:"domain"`
	Member      bool   `json:"member"`
	Gated       bool   `json:"gated"`
	ButtonLabel string `json:"button_label"`
	Model       string `json:"model,omitempty"`
	Badge       string `json:"badge,omitempty"`
	ActiveURL   string `json:"active_url,omitempty"`
}

// ListSitesRequest lists the registry.
type ListSitesRequest struct{}

// ListSitesResponse holds the registry in display order.
type ListSitesResponse struct {
	Sites []string `json:"sites"`
}

// WhitelistEntry is one whitelisted site.
type WhitelistEntry struct {
	Domain           string `json:"domain"`
	Expiry           string `json:"expiry"`
	RemainingSeconds int64  `json:"remaining_seconds"`
	Live             bool   `json:"live"`
}

// ListWhitelistRequest lists whitelist entries.
type ListWhitelistRequest struct {
	// Prune deletes expired entries before listing.
	Prune bool `json:"prune,omitempty"`
}

// ListWhitelistResponse holds entries sorted by domain.
type ListWhitelistResponse struct {
	Entries []WhitelistEntry `json:"entries"`
	Pruned  int              `json:"pruned,omitempty"`
}

// HistoryRequest lists past intents. Limit 0 uses numIntentEntries.
type HistoryRequest struct {
	Limit int `json:"limit,omitempty"`
}

// IntentRecord is one history row.
type IntentRecord struct {
	At     string `json:"at"`
	Intent string `json:"intent"`
	URL    string `json:"url"`
}

// HistoryResponse holds history rows, newest first.
type HistoryResponse struct {
	Records []IntentRecord `json:"records"`
}

// Options is a partial options page update. Nil fields are untouched.
type Options struct {
	WhitelistTime       *float64 `json:"whitelistTime,omitempty"`
	NumIntentEntries    *float64 `json:"numIntentEntries,omitempty"`
	MinIntentLength     *float64 `json:"minIntentLength,omitempty"`
	PredictionThreshold *float64 `json:"predictionThreshold,omitempty"`
	CustomMessage       *string  `json:"customMessage,omitempty"`
	EnableBlobs         *bool    `json:"enableBlobs,omitempty"`
	Enable3D            *bool    `json:"enable3D,omitempty"`
	EnableInvertedMode  *bool    `json:"enableInvertedMode,omitempty"`
}

// SaveOptionsResponse is empty on success.
type SaveOptionsResponse struct{}

// ReloadModelRequest reloads the classifier snapshot.
type ReloadModelRequest struct{}

// ReloadModelResponse names the snapshot now in use.
type ReloadModelResponse struct {
	Model string `json:"model"`
}
