package client

import (
	"context"
	"net"
	"testing"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	gatev1 "github.com/ppiankov/intentgate/api/gate/v1"
	"github.com/ppiankov/intentgate/internal/classifier"
	"github.com/ppiankov/intentgate/internal/gate"
	"github.com/ppiankov/intentgate/internal/model"
	"github.com/ppiankov/intentgate/internal/server"
	"github.com/ppiankov/intentgate/internal/store"
)

// startTestServer creates an installed engine behind a server and returns its address.
func startTestServer(t *testing.T) (string, func()) {
	t.Helper()

	c, err := classifier.Load(classifier.DefaultModel, "")
	if err != nil {
		t.Fatalf("classifier.Load: %v", err)
	}
	engine := gate.New(store.NewMemoryStore(), c)
	if err := engine.Install(context.Background()); err != nil {
		t.Fatalf("Install: %v", err)
	}
	srv := server.New(engine, server.Config{})

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	go srv.ServeOn(lis)

	return lis.Addr().String(), srv.GracefulStop
}

func TestClientCheckAndSubmit(t *testing.T) {
	addr, cleanup := startTestServer(t)
	defer cleanup()

	c, err := New(addr, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()
	ctx := context.Background()

	d, err := c.Check(ctx, &gatev1.CheckRequest{URL: "https://instagram.com/"})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if d.State != string(model.AwaitingIntent) {
		t.Fatalf("expected AWAITING_INTENT, got %s (%s)", d.State, d.Reason)
	}

	intent := "checking a message from my manager about the deploy"
	sub, err := c.SubmitIntent(ctx, &gatev1.SubmitIntentRequest{Intent: &intent})
	if err != nil {
		t.Fatalf("SubmitIntent: %v", err)
	}
	if sub.State != string(model.Accepted) || sub.Domain != "instagram.com" {
		t.Errorf("expected ACCEPTED for instagram.com, got %s for %q", sub.State, sub.Domain)
	}
}

func TestClientPassesErrorsThrough(t *testing.T) {
	addr, cleanup := startTestServer(t)
	defer cleanup()

	c, err := New(addr, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	_, err = c.Block(context.Background(), &gatev1.BlockRequest{})
	if status.Code(err) != codes.InvalidArgument {
		t.Errorf("expected InvalidArgument, got %v", err)
	}

	sites, err := c.ListSites(context.Background(), &gatev1.ListSitesRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if len(sites.Sites) != 4 {
		t.Errorf("expected 4 default sites, got %v", sites.Sites)
	}
}

func TestClientFailOpenWhenUnreachable(t *testing.T) {
	// grab a free port, then release it so nothing is listening
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := lis.Addr().String()
	lis.Close()

	c, err := New(addr, 500*time.Millisecond)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()
	ctx := context.Background()

	d, err := c.Check(ctx, &gatev1.CheckRequest{URL: "facebook.com"})
	if err != nil {
		t.Fatalf("Check should not error: %v", err)
	}
	if d.State != string(model.Ungated) {
		t.Errorf("expected UNGATED when unreachable, got %s", d.State)
	}

	intent := "checking a message from my manager about the deploy"
	sub, err := c.SubmitIntent(ctx, &gatev1.SubmitIntentRequest{URL: "facebook.com", Intent: &intent})
	if err != nil {
		t.Fatalf("SubmitIntent should not error: %v", err)
	}
	if sub.State != string(model.Rejected) {
		t.Errorf("expected REJECTED when unreachable, got %s", sub.State)
	}

	if _, err := c.Toggle(ctx, &gatev1.ToggleRequest{Enabled: true}); err == nil {
		t.Error("expected Toggle to surface the connection error")
	}
}
