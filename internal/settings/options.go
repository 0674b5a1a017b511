package settings

import (
	"fmt"

	"github.com/ppiankov/intentgate/internal/model"
	"github.com/ppiankov/intentgate/internal/store"
)

// Options is a partial update from the options page. Nil fields are left
// untouched.
type Options struct {
	WhitelistTime       *float64 `json:"whitelistTime,omitempty" yaml:"whitelist_time"`
	NumIntentEntries    *float64 `json:"numIntentEntries,omitempty" yaml:"num_intent_entries"`
	MinIntentLength     *float64 `json:"minIntentLength,omitempty" yaml:"min_intent_length"`
	PredictionThreshold *float64 `json:"predictionThreshold,omitempty" yaml:"prediction_threshold"`
	CustomMessage       *string  `json:"customMessage,omitempty" yaml:"custom_message"`
	EnableBlobs         *bool    `json:"enableBlobs,omitempty" yaml:"enable_blobs"`
	Enable3D            *bool    `json:"enable3D,omitempty" yaml:"enable_3d"`
	EnableInvertedMode  *bool    `json:"enableInvertedMode,omitempty" yaml:"enable_inverted_mode"`
}

// Validate rejects values the gate cannot use.
func (o Options) Validate() error {
	if o.WhitelistTime != nil && *o.WhitelistTime <= 0 {
		return fmt.Errorf("%w: whitelistTime must be positive, got %v", model.ErrInvalidInput, *o.WhitelistTime)
	}
	if o.NumIntentEntries != nil && *o.NumIntentEntries < 0 {
		return fmt.Errorf("%w: numIntentEntries must not be negative, got %v", model.ErrInvalidInput, *o.NumIntentEntries)
	}
	if o.MinIntentLength != nil && *o.MinIntentLength < 0 {
		return fmt.Errorf("%w: minIntentLength must not be negative, got %v", model.ErrInvalidInput, *o.MinIntentLength)
	}
	if p := o.PredictionThreshold; p != nil && (*p <= 0 || *p >= 1) {
		return fmt.Errorf("%w: predictionThreshold must be in (0,1), got %v", model.ErrInvalidInput, *p)
	}
	return nil
}

// Document converts the set fields into a partial store update.
func (o Options) Document() (store.Document, error) {
	doc := store.Document{}
	fields := []struct {
		key     string
		present bool
		v       any
	}{
		{KeyWhitelistTime, o.WhitelistTime != nil, o.WhitelistTime},
		{KeyNumIntentEntries, o.NumIntentEntries != nil, o.NumIntentEntries},
		{KeyMinIntentLength, o.MinIntentLength != nil, o.MinIntentLength},
		{KeyPredictionThreshold, o.PredictionThreshold != nil, o.PredictionThreshold},
		{KeyCustomMessage, o.CustomMessage != nil, o.CustomMessage},
		{KeyEnableBlobs, o.EnableBlobs != nil, o.EnableBlobs},
		{KeyEnable3D, o.Enable3D != nil, o.Enable3D},
		{KeyEnableInvertedMode, o.EnableInvertedMode != nil, o.EnableInvertedMode},
	}
	for _, f := range fields {
		if !f.present {
			continue
		}
		if err := doc.Put(f.key, f.v); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// Empty reports whether no field is set.
func (o Options) Empty() bool {
	return o.WhitelistTime == nil && o.NumIntentEntries == nil && o.MinIntentLength == nil &&
		o.PredictionThreshold == nil && o.CustomMessage == nil && o.EnableBlobs == nil &&
		o.Enable3D == nil && o.EnableInvertedMode == nil
}
