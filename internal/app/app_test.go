package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ppiankov/intentgate/internal/audit"
	"github.com/ppiankov/intentgate/internal/classifier"
	"github.com/ppiankov/intentgate/internal/config"
	"github.com/ppiankov/intentgate/internal/logging"
	"github.com/ppiankov/intentgate/internal/message"
	"github.com/ppiankov/intentgate/internal/model"
	"github.com/ppiankov/intentgate/internal/store"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Store = store.Options{Backend: store.BackendSQLite, Path: filepath.Join(dir, "state.db")}
	cfg.Model.Dir = filepath.Join(dir, "models")
	cfg.Model.Watch = false
	cfg.AuditLog = filepath.Join(dir, "audit.jsonl")
	cfg.Server.Addr = "127.0.0.1:0"
	return cfg
}

func TestOpenInstallsAndGates(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	a, err := Open(ctx, cfg, logging.Discard())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	installed, err := a.EnsureInstalled(ctx)
	if err != nil {
		t.Fatalf("EnsureInstalled: %v", err)
	}
	if !installed {
		t.Fatal("expected first run to install")
	}
	if again, _ := a.EnsureInstalled(ctx); again {
		t.Error("second EnsureInstalled must not reinstall")
	}

	if err := a.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !a.Countdown.Running() {
		t.Error("countdown should run once filtering is on")
	}
	if a.Engine.ModelVersion() != classifier.DefaultModel {
		t.Errorf("model = %q", a.Engine.ModelVersion())
	}

	d, err := a.Engine.Check(ctx, "https://facebook.com/")
	if err != nil {
		t.Fatal(err)
	}
	if d.State != model.AwaitingIntent {
		t.Errorf("expected AWAITING_INTENT, got %s", d.State)
	}

	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if a.Countdown.Running() {
		t.Error("countdown should stop on Close")
	}

	res := audit.Verify(cfg.AuditLog)
	if !res.Valid || res.Lines < 2 {
		t.Errorf("audit chain = %+v", res)
	}
}

func TestOpenPersistsAcrossRestarts(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	a, err := Open(ctx, cfg, logging.Discard())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := a.EnsureInstalled(ctx); err != nil {
		t.Fatal(err)
	}
	if _, _, err := a.Engine.Block(ctx, "reddit.com"); err != nil {
		t.Fatal(err)
	}
	a.Close()

	b, err := Open(ctx, cfg, logging.Discard())
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()
	if installed, _ := b.EnsureInstalled(ctx); installed {
		t.Error("reopened store must not reinstall")
	}
	ok, err := b.Engine.Registry().Contains(ctx, "reddit.com")
	if err != nil || !ok {
		t.Errorf("reddit.com not persisted (err %v)", err)
	}
}

func TestOpenWithoutClassifierFailsOpen(t *testing.T) {
	cfg := testConfig(t)
	cfg.Model.Name = "does-not-exist"
	cfg.AuditLog = ""
	ctx := context.Background()

	a, err := Open(ctx, cfg, logging.Discard())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer a.Close()
	if _, err := a.EnsureInstalled(ctx); err != nil {
		t.Fatal(err)
	}

	d, err := a.Engine.Check(ctx, "facebook.com")
	if err != nil {
		t.Fatal(err)
	}
	if d.State != model.Ungated {
		t.Errorf("expected UNGATED without a classifier, got %s", d.State)
	}
}

func TestRouterDispatchesToEngine(t *testing.T) {
	cfg := testConfig(t)
	cfg.Store = store.Options{Backend: store.BackendMemory}
	ctx := context.Background()

	a, err := Open(ctx, cfg, logging.Discard())
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()
	if _, err := a.EnsureInstalled(ctx); err != nil {
		t.Fatal(err)
	}

	reply, err := a.Router().Dispatch(ctx, message.Check{URL: "https://youtube.com/"})
	if err != nil {
		t.Fatal(err)
	}
	if reply.Decision == nil || reply.Decision.State != model.AwaitingIntent {
		t.Errorf("unexpected reply %+v", reply)
	}
}

func TestOpenRejectsBadStore(t *testing.T) {
	cfg := testConfig(t)
	cfg.Store = store.Options{Backend: "postgres"}
	if _, err := Open(context.Background(), cfg, logging.Discard()); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
