package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	gatev1 "github.com/ppiankov/intentgate/api/gate/v1"
	"github.com/ppiankov/intentgate/internal/model"
)

// --- Input/Output types ---

// CheckInput defines parameters for the intentgate_check tool.
type CheckInput struct {
	URL string `json:"url" jsonschema:"URL being navigated to"`
}

// DecisionOutput is the gate decision for a check or submission.
type DecisionOutput struct {
	State            string `json:"state"`
	Status           string `json:"status,omitempty"`
	Domain           string `json:"domain,omitempty"`
	Expiry           string `json:"expiry,omitempty"`
	RemainingSeconds int64  `json:"remaining_seconds,omitempty"`
	CustomMessage    string `json:"custom_message,omitempty"`
	Reason           string `json:"reason,omitempty"`
}

// SubmitIntentInput defines parameters for the intentgate_submit_intent tool.
type SubmitIntentInput struct {
	URL    string `json:"url,omitempty" jsonschema:"URL of the gated site, omit for the active tab"`
	Intent string `json:"intent" jsonschema:"why the site is being visited, in a full sentence"`
}

// ToggleInput defines parameters for the intentgate_toggle tool.
type ToggleInput struct {
	Enabled bool `json:"enabled" jsonschema:"true to turn filtering on"`
}

// ToggleOutput confirms the toggle.
type ToggleOutput struct {
	Enabled bool `json:"enabled"`
}

// BlockInput defines parameters for the intentgate_block tool.
type BlockInput struct {
	Site    string `json:"site" jsonschema:"site or URL to add or remove"`
	Unblock bool   `json:"unblock,omitempty" jsonschema:"remove instead of add"`
}

// BlockOutput reports the registry change.
type BlockOutput struct {
	Site    string `json:"site"`
	Changed bool   `json:"changed"`
}

// StatusInput defines parameters for the intentgate_status tool.
type StatusInput struct {
	URL string `json:"url,omitempty" jsonschema:"URL to describe, omit for the active tab"`
}

// StatusOutput is the popup summary.
type StatusOutput struct {
	Enabled     bool   `json:"enabled"`
	Inverted    bool   `json:"inverted"`
	Domain      string `json:"domain"`
	Member      bool   `json:"member"`
	Gated       bool   `json:"gated"`
	ButtonLabel string `json:"button_label"`
	Model       string `json:"model,omitempty"`
}

// HistoryInput defines parameters for the intentgate_history tool.
type HistoryInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum entries, omit for the configured count"`
}

// HistoryOutput lists past intents.
type HistoryOutput struct {
	Intents []HistoryItem `json:"intents"`
}

// HistoryItem is one past intent.
type HistoryItem struct {
	At     string `json:"at"`
	Intent string `json:"intent"`
	URL    string `json:"url"`
}

// --- Handlers ---

func (s *Server) handleCheck(ctx context.Context, req *mcpsdk.CallToolRequest, input CheckInput) (*mcpsdk.CallToolResult, DecisionOutput, error) {
	d, err := s.gate.Check(ctx, &gatev1.CheckRequest{URL: input.URL})
	if err != nil {
		return nil, DecisionOutput{}, err
	}
	return nil, decisionOutput(d), nil
}

func (s *Server) handleSubmitIntent(ctx context.Context, req *mcpsdk.CallToolRequest, input SubmitIntentInput) (*mcpsdk.CallToolResult, DecisionOutput, error) {
	intent := input.Intent
	d, err := s.gate.SubmitIntent(ctx, &gatev1.SubmitIntentRequest{URL: input.URL, Intent: &intent})
	if err != nil {
		return nil, DecisionOutput{}, err
	}
	out := decisionOutput(d)
	if d.State != string(model.Accepted) && d.State != string(model.Ungated) {
		// the agent sees a failed call and can rephrase
		return &mcpsdk.CallToolResult{IsError: true}, out, nil
	}
	return nil, out, nil
}

func (s *Server) handleToggle(ctx context.Context, req *mcpsdk.CallToolRequest, input ToggleInput) (*mcpsdk.CallToolResult, ToggleOutput, error) {
	resp, err := s.gate.Toggle(ctx, &gatev1.ToggleRequest{Enabled: input.Enabled})
	if err != nil {
		return nil, ToggleOutput{}, err
	}
	return nil, ToggleOutput{Enabled: resp.Enabled}, nil
}

func (s *Server) handleBlock(ctx context.Context, req *mcpsdk.CallToolRequest, input BlockInput) (*mcpsdk.CallToolResult, BlockOutput, error) {
	resp, err := s.gate.Block(ctx, &gatev1.BlockRequest{Site: input.Site, Unblock: input.Unblock})
	if err != nil {
		return nil, BlockOutput{}, err
	}
	return nil, BlockOutput{Site: resp.Site, Changed: resp.Changed}, nil
}

func (s *Server) handleStatus(ctx context.Context, req *mcpsdk.CallToolRequest, input StatusInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	st, err := s.gate.Status(ctx, &gatev1.StatusRequest{URL: input.URL})
	if err != nil {
		return nil, StatusOutput{}, err
	}
	return nil, StatusOutput{
		Enabled:     st.Enabled,
		Inverted:    st.Inverted,
		Domain:      st.Domain,
		Member:      st.Member,
		Gated:       st.Gated,
		ButtonLabel: st.ButtonLabel,
		Model:       st.Model,
	}, nil
}

func (s *Server) handleHistory(ctx context.Context, req *mcpsdk.CallToolRequest, input HistoryInput) (*mcpsdk.CallToolResult, HistoryOutput, error) {
	resp, err := s.gate.History(ctx, &gatev1.HistoryRequest{Limit: input.Limit})
	if err != nil {
		return nil, HistoryOutput{}, err
	}
	out := HistoryOutput{Intents: make([]HistoryItem, 0, len(resp.Records))}
	for _, r := range resp.Records {
		out.Intents = append(out.Intents, HistoryItem{At: r.At, Intent: r.Intent, URL: r.URL})
	}
	return nil, out, nil
}

func decisionOutput(d *gatev1.Decision) DecisionOutput {
	return DecisionOutput{
		State:            d.State,
		Status:           d.Status,
		Domain:           d.Domain,
		Expiry:           d.Expiry,
		RemainingSeconds: d.RemainingSeconds,
		CustomMessage:    d.CustomMessage,
		Reason:           d.Reason,
	}
}
