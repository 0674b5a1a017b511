// Package settings maps the persisted document onto typed values and
// supplies the defaults used when a key has never been written.
package settings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ppiankov/intentgate/internal/model"
	"github.com/ppiankov/intentgate/internal/store"
)

// Persisted keys.
const (
	KeyIsEnabled           = "isEnabled"
	KeyEnableInvertedMode  = "enableInvertedMode"
	KeyBlockedSites        = "blockedSites"
	KeyWhitelistedSites    = "whitelistedSites"
	KeyIntentList          = "intentList"
	KeyWhitelistTime       = "whitelistTime"
	KeyNumIntentEntries    = "numIntentEntries"
	KeyMinIntentLength     = "minIntentLength"
	KeyPredictionThreshold = "predictionThreshold"
	KeyCustomMessage       = "customMessage"
	KeyEnableBlobs         = "enableBlobs"
	KeyEnable3D            = "enable3D"
)

// Defaults for keys that may be missing from the document.
const (
	DefaultWhitelistTime       = 5 // minutes
	DefaultNumIntentEntries    = 20
	DefaultMinIntentLength     = 3
	DefaultPredictionThreshold = 0.5
)

// Number is a numeric setting. The options page saves form values as
// strings, so both 5 and "5" decode. A cleared field is saved as "": blank
// and non-numeric strings leave the current (default) value in place.
type Number float64

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		*n = Number(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*n = Number(f)
	return nil
}

// Int truncates toward zero.
func (n Number) Int() int {
	return int(n)
}

// Settings is the typed view of the persisted document.
type Settings struct {
	IsEnabled           bool                    `json:"isEnabled"`
	EnableInvertedMode  bool                    `json:"enableInvertedMode"`
	BlockedSites        []string                `json:"blockedSites"`
	WhitelistedSites    map[string]string       `json:"whitelistedSites"`
	IntentList          map[string]model.Intent `json:"intentList"`
	WhitelistTime       Number                  `json:"whitelistTime"`
	NumIntentEntries    Number                  `json:"numIntentEntries"`
	MinIntentLength     Number                  `json:"minIntentLength"`
	PredictionThreshold Number                  `json:"predictionThreshold"`
	CustomMessage       string                  `json:"customMessage"`
	EnableBlobs         bool                    `json:"enableBlobs"`
	Enable3D            bool                    `json:"enable3D"`
}

// Defaults returns the values assumed for keys that were never written.
func Defaults() Settings {
	return Settings{
		BlockedSites:        []string{},
		WhitelistedSites:    map[string]string{},
		IntentList:          map[string]model.Intent{},
		WhitelistTime:       DefaultWhitelistTime,
		NumIntentEntries:    DefaultNumIntentEntries,
		MinIntentLength:     DefaultMinIntentLength,
		PredictionThreshold: DefaultPredictionThreshold,
	}
}

// Decode overlays the keys present in doc on top of Defaults. A value that
// cannot be decoded fails with model.ErrStorage.
func Decode(doc store.Document) (Settings, error) {
	s := Defaults()
	fields := []struct {
		key string
		dst any
	}{
		{KeyIsEnabled, &s.IsEnabled},
		{KeyEnableInvertedMode, &s.EnableInvertedMode},
		{KeyBlockedSites, &s.BlockedSites},
		{KeyWhitelistedSites, &s.WhitelistedSites},
		{KeyIntentList, &s.IntentList},
		{KeyWhitelistTime, &s.WhitelistTime},
		{KeyNumIntentEntries, &s.NumIntentEntries},
		{KeyMinIntentLength, &s.MinIntentLength},
		{KeyPredictionThreshold, &s.PredictionThreshold},
		{KeyCustomMessage, &s.CustomMessage},
		{KeyEnableBlobs, &s.EnableBlobs},
		{KeyEnable3D, &s.Enable3D},
	}
	for _, f := range fields {
		if _, err := doc.Decode(f.key, f.dst); err != nil {
			return Defaults(), fmt.Errorf("%w: %v", model.ErrStorage, err)
		}
	}
	if s.BlockedSites == nil {
		s.BlockedSites = []string{}
	}
	if s.WhitelistedSites == nil {
		s.WhitelistedSites = map[string]string{}
	}
	if s.IntentList == nil {
		s.IntentList = map[string]model.Intent{}
	}
	return s, nil
}

// Load reads keys (all keys when none are given) and decodes them.
func Load(ctx context.Context, st store.Store, keys ...string) (Settings, error) {
	doc, err := st.Get(ctx, keys...)
	if err != nil {
		return Defaults(), err
	}
	return Decode(doc)
}
