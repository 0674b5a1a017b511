// Package client talks to a running intentgate daemon over gRPC.
package client

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	gatev1 "github.com/ppiankov/intentgate/api/gate/v1"
	"github.com/ppiankov/intentgate/internal/model"
)

// DefaultTimeout bounds every call.
const DefaultTimeout = 5 * time.Second

// Client connects to an intentgate daemon. It has the same method set as
// the in-process server, so callers can hold either as a
// gatev1.GateServiceServer.
type Client struct {
	conn    *grpc.ClientConn
	client  gatev1.GateServiceClient
	timeout time.Duration
}

var _ gatev1.GateServiceServer = (*Client)(nil)

// New creates a gRPC client for addr. A zero timeout means DefaultTimeout.
// Fail-open: if the daemon cannot be reached, Check returns UNGATED.
func New(addr string, timeout time.Duration) (*Client, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to intentgate daemon: %w", err)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		conn:    conn,
		client:  gatev1.NewGateServiceClient(conn),
		timeout: timeout,
	}, nil
}

func (c *Client) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.timeout)
}

// Check asks the daemon to evaluate a navigation.
// Fail-open: an unreachable daemon yields UNGATED and no error.
func (c *Client) Check(ctx context.Context, req *gatev1.CheckRequest) (*gatev1.Decision, error) {
	ctx, cancel := c.bound(ctx)
	defer cancel()

	resp, err := c.client.Check(ctx, req)
	if err != nil {
		return &gatev1.Decision{
			State:  string(model.Ungated),
			Reason: fmt.Sprintf("daemon unreachable: %v", err),
		}, nil
	}
	return resp, nil
}

// SubmitIntent sends an intent to the daemon.
// An unreachable daemon yields REJECTED: the site stays gated.
func (c *Client) SubmitIntent(ctx context.Context, req *gatev1.SubmitIntentRequest) (*gatev1.Decision, error) {
	ctx, cancel := c.bound(ctx)
	defer cancel()

	resp, err := c.client.SubmitIntent(ctx, req)
	if err != nil {
		return &gatev1.Decision{
			State:  string(model.Rejected),
			Status: string(model.StatusInvalid),
			Reason: fmt.Sprintf("daemon unreachable: %v", err),
		}, nil
	}
	return resp, nil
}

// Toggle turns filtering on or off.
func (c *Client) Toggle(ctx context.Context, req *gatev1.ToggleRequest) (*gatev1.ToggleResponse, error) {
	ctx, cancel := c.bound(ctx)
	defer cancel()
	return c.client.Toggle(ctx, req)
}

// Block adds or removes a site.
func (c *Client) Block(ctx context.Context, req *gatev1.BlockRequest) (*gatev1.BlockResponse, error) {
	ctx, cancel := c.bound(ctx)
	defer cancel()
	return c.client.Block(ctx, req)
}

// Status returns the popup summary.
func (c *Client) Status(ctx context.Context, req *gatev1.StatusRequest) (*gatev1.StatusResponse, error) {
	ctx, cancel := c.bound(ctx)
	defer cancel()
	return c.client.Status(ctx, req)
}

// ListSites returns the registry.
func (c *Client) ListSites(ctx context.Context, req *gatev1.ListSitesRequest) (*gatev1.ListSitesResponse, error) {
	ctx, cancel := c.bound(ctx)
	defer cancel()
	return c.client.ListSites(ctx, req)
}

// ListWhitelist returns whitelist entries.
func (c *Client) ListWhitelist(ctx context.Context, req *gatev1.ListWhitelistRequest) (*gatev1.ListWhitelistResponse, error) {
	ctx, cancel := c.bound(ctx)
	defer cancel()
	return c.client.ListWhitelist(ctx, req)
}

// History returns past intents, newest first.
func (c *Client) History(ctx context.Context, req *gatev1.HistoryRequest) (*gatev1.HistoryResponse, error) {
	ctx, cancel := c.bound(ctx)
	defer cancel()
	return c.client.History(ctx, req)
}

// SaveOptions persists an options update.
func (c *Client) SaveOptions(ctx context.Context, req *gatev1.Options) (*gatev1.SaveOptionsResponse, error) {
	ctx, cancel := c.bound(ctx)
	defer cancel()
	return c.client.SaveOptions(ctx, req)
}

// ReloadModel asks the daemon to recompile its classifier snapshot.
func (c *Client) ReloadModel(ctx context.Context, req *gatev1.ReloadModelRequest) (*gatev1.ReloadModelResponse, error) {
	ctx, cancel := c.bound(ctx)
	defer cancel()
	return c.client.ReloadModel(ctx, req)
}

// Close closes the gRPC connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
