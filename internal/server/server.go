// Package server exposes the gate engine over gRPC.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	gatev1 "github.com/ppiankov/intentgate/api/gate/v1"
	"github.com/ppiankov/intentgate/internal/classifier"
	"github.com/ppiankov/intentgate/internal/gate"
	"github.com/ppiankov/intentgate/internal/intentlog"
	"github.com/ppiankov/intentgate/internal/model"
	"github.com/ppiankov/intentgate/internal/settings"
)

// DefaultAddr is the loopback address the daemon listens on.
const DefaultAddr = "127.0.0.1:7433"

// Config holds gRPC server configuration.
type Config struct {
	Addr      string
	ModelName string
	ModelDir  string
}

// Server implements the GateService gRPC server.
type Server struct {
	gatev1.UnimplementedGateServiceServer

	engine *gate.Engine
	cfg    Config
	logger *slog.Logger
	now    func() time.Time
	badge  func() string

	reloadMu   sync.Mutex
	grpcServer *grpc.Server
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithClock overrides time.Now for whitelist listings.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// WithBadge reports the current badge text in Status replies.
func WithBadge(text func() string) Option {
	return func(s *Server) { s.badge = text }
}

// New creates a gRPC server backed by engine.
func New(engine *gate.Engine, cfg Config, opts ...Option) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	s := &Server{
		engine: engine,
		cfg:    cfg,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	s.grpcServer = grpc.NewServer(grpc.ChainUnaryInterceptor(s.logUnary))
	gatev1.RegisterGateServiceServer(s.grpcServer, s)
	return s
}

// Serve listens on the configured address. Blocks until stopped.
func (s *Server) Serve() error {
	lis, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr, err)
	}
	s.logger.Info("grpc listening", "addr", lis.Addr().String())
	return s.grpcServer.Serve(lis)
}

// ServeOn starts the gRPC server on the given listener. For testing.
func (s *Server) ServeOn(lis net.Listener) error {
	return s.grpcServer.Serve(lis)
}

// GracefulStop gracefully shuts down the gRPC server.
func (s *Server) GracefulStop() {
	s.grpcServer.GracefulStop()
}

// Check implements the Check RPC. Storage failures still produce a
// decision; the cause is logged and carried in Reason.
func (s *Server) Check(ctx context.Context, req *gatev1.CheckRequest) (*gatev1.Decision, error) {
	d, err := s.engine.Check(ctx, req.URL)
	return s.decision(ctx, "check", d, err)
}

// SubmitIntent implements the SubmitIntent RPC.
func (s *Server) SubmitIntent(ctx context.Context, req *gatev1.SubmitIntentRequest) (*gatev1.Decision, error) {
	d, err := s.engine.Submit(ctx, req.URL, req.Intent)
	return s.decision(ctx, "submit", d, err)
}

func (s *Server) decision(ctx context.Context, op string, d gate.Decision, err error) (*gatev1.Decision, error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, rpcError(ctxErr)
	}
	resp := &gatev1.Decision{
		RequestID:     uuid.NewString(),
		State:         string(d.State),
		Status:        string(d.Status),
		Domain:        d.Domain,
		CustomMessage: d.CustomMessage,
		Reason:        d.Reason,
	}
	if !d.Expiry.IsZero() {
		resp.Expiry = model.FormatTimestamp(d.Expiry)
		resp.RemainingSeconds = int64(d.Remaining / time.Second)
	}
	if err != nil {
		s.logger.Warn(op+" degraded", "request_id", resp.RequestID, "state", resp.State, "error", err)
		if resp.Reason == "" {
			resp.Reason = err.Error()
		}
	}
	return resp, nil
}

// Toggle implements the Toggle RPC.
func (s *Server) Toggle(ctx context.Context, req *gatev1.ToggleRequest) (*gatev1.ToggleResponse, error) {
	if err := s.engine.SetEnabled(ctx, req.Enabled); err != nil {
		return nil, rpcError(err)
	}
	return &gatev1.ToggleResponse{Enabled: req.Enabled}, nil
}

// Block implements the Block RPC. An empty Site with an Index removes the
// registry row at that position.
func (s *Server) Block(ctx context.Context, req *gatev1.BlockRequest) (*gatev1.BlockResponse, error) {
	if req.Site == "" {
		if req.Index == nil {
			return nil, status.Error(codes.InvalidArgument, "site or index is required")
		}
		key, err := s.engine.UnblockAt(ctx, *req.Index)
		if err != nil {
			return nil, rpcError(err)
		}
		return &gatev1.BlockResponse{Site: key, Changed: true}, nil
	}

	op := s.engine.Block
	if req.Unblock {
		op = s.engine.Unblock
	}
	key, changed, err := op(ctx, req.Site)
	if err != nil {
		return nil, rpcError(err)
	}
	return &gatev1.BlockResponse{Site: key, Changed: changed}, nil
}

// Status implements the Status RPC. An empty URL reports the active tab.
func (s *Server) Status(ctx context.Context, req *gatev1.StatusRequest) (*gatev1.StatusResponse, error) {
	url := req.URL
	if url == "" {
		url = s.engine.ActiveURL()
	}
	st, err := s.engine.Status(ctx, url)
	if err != nil {
		return nil, rpcError(err)
	}
	resp := &gatev1.StatusResponse{
		Enabled:     st.Enabled,
		Inverted:    st.Inverted,
		Domain:      st.Domain,
		Member:      st.Member,
		Gated:       st.Gated,
		ButtonLabel: st.ButtonLabel,
		Model:       st.Model,
		ActiveURL:   s.engine.ActiveURL(),
	}
	if s.badge != nil {
		resp.Badge = s.badge()
	}
	return resp, nil
}

// ListSites implements the ListSites RPC.
func (s *Server) ListSites(ctx context.Context, _ *gatev1.ListSitesRequest) (*gatev1.ListSitesResponse, error) {
	sites, err := s.engine.Registry().Sites(ctx)
	if err != nil {
		return nil, rpcError(err)
	}
	return &gatev1.ListSitesResponse{Sites: sites}, nil
}

// ListWhitelist implements the ListWhitelist RPC.
func (s *Server) ListWhitelist(ctx context.Context, req *gatev1.ListWhitelistRequest) (*gatev1.ListWhitelistResponse, error) {
	now := s.now()
	wl := s.engine.Whitelist()

	resp := &gatev1.ListWhitelistResponse{Entries: []gatev1.WhitelistEntry{}}
	if req.Prune {
		n, err := wl.Prune(ctx, now)
		if err != nil {
			return nil, rpcError(err)
		}
		resp.Pruned = n
	}

	entries, err := wl.Entries(ctx)
	if err != nil {
		return nil, rpcError(err)
	}
	for _, e := range entries {
		we := gatev1.WhitelistEntry{
			Domain:           e.Domain,
			RemainingSeconds: int64(e.Remaining(now) / time.Second),
			Live:             e.IsLive(now),
		}
		if !e.Expiry.IsZero() {
			we.Expiry = model.FormatTimestamp(e.Expiry)
		}
		resp.Entries = append(resp.Entries, we)
	}
	return resp, nil
}

// History implements the History RPC. Limit 0 applies numIntentEntries.
func (s *Server) History(ctx context.Context, req *gatev1.HistoryRequest) (*gatev1.HistoryResponse, error) {
	if req.Limit < 0 {
		return nil, status.Errorf(codes.InvalidArgument, "limit must not be negative, got %d", req.Limit)
	}
	var (
		list []intentlog.Record
		err  error
	)
	if req.Limit > 0 {
		list, err = s.engine.History().List(ctx, req.Limit)
	} else {
		list, err = s.engine.RecentIntents(ctx)
	}
	if err != nil {
		return nil, rpcError(err)
	}

	resp := &gatev1.HistoryResponse{Records: make([]gatev1.IntentRecord, 0, len(list))}
	for _, r := range list {
		resp.Records = append(resp.Records, gatev1.IntentRecord{
			At:     model.FormatTimestamp(r.At),
			Intent: r.Intent,
			URL:    r.URL,
		})
	}
	return resp, nil
}

// SaveOptions implements the SaveOptions RPC.
func (s *Server) SaveOptions(ctx context.Context, req *gatev1.Options) (*gatev1.SaveOptionsResponse, error) {
	opts := settings.Options{
		WhitelistTime:       req.WhitelistTime,
		NumIntentEntries:    req.NumIntentEntries,
		MinIntentLength:     req.MinIntentLength,
		PredictionThreshold: req.PredictionThreshold,
		CustomMessage:       req.CustomMessage,
		EnableBlobs:         req.EnableBlobs,
		Enable3D:            req.Enable3D,
		EnableInvertedMode:  req.EnableInvertedMode,
	}
	if err := s.engine.SaveOptions(ctx, opts); err != nil {
		return nil, rpcError(err)
	}
	return &gatev1.SaveOptionsResponse{}, nil
}

// ReloadModel implements the ReloadModel RPC.
func (s *Server) ReloadModel(_ context.Context, _ *gatev1.ReloadModelRequest) (*gatev1.ReloadModelResponse, error) {
	version, err := s.Reload()
	if err != nil {
		return nil, rpcError(err)
	}
	return &gatev1.ReloadModelResponse{Model: version}, nil
}

// Reload recompiles the configured snapshot and swaps it into the engine.
// On failure the current classifier stays in place. Called by the
// hot-reloader on file change.
func (s *Server) Reload() (string, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	c, err := classifier.Load(s.cfg.ModelName, s.cfg.ModelDir)
	if err != nil {
		return "", fmt.Errorf("failed to reload model: %w", err)
	}
	s.engine.ReplacePredictor(c)
	return c.Version(), nil
}

func (s *Server) logUnary(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	s.logger.Debug("rpc",
		"method", info.FullMethod,
		"code", status.Code(err).String(),
		"duration", time.Since(start))
	return resp, err
}

// rpcError maps the error taxonomy onto gRPC status codes.
func rpcError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, model.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, model.ErrStorage):
		return status.Error(codes.Unavailable, err.Error())
	case errors.Is(err, model.ErrModelLoad):
		return status.Error(codes.FailedPrecondition, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
