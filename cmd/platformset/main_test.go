package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dshills/platformset/internal/osinfo"
	"github.com/dshills/platformset/internal/reconcile"
	"github.com/dshills/platformset/internal/schedule"
	"github.com/dshills/platformset/internal/settings"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestNewWatchHandler_ConfiguredReleasePath(t *testing.T) {
	dir := t.TempDir()
	releasePath := filepath.Join(dir, "os-release")
	writeFile(t, releasePath, "ID=debian\nVERSION_ID=\"12\"\n")

	info := osinfo.New(
		osinfo.WithGOOS("linux"),
		osinfo.WithArch("amd64"),
		osinfo.WithEnv(func(string) (string, bool) { return "", false }),
		osinfo.WithFileExists(func(string) bool { return false }),
		osinfo.WithReleasePath(releasePath),
	)
	if info.ID != "debian" {
		t.Fatalf("ID = %q, want debian", info.ID)
	}

	doc, err := settings.LoadDocument(filepath.Join(dir, "settings.json"))
	if err != nil {
		t.Fatal(err)
	}
	doc.Set("linux", map[string]any{"distro": "placeholder"})

	loop := schedule.NewLoop()
	id := reconcile.IdentityFor(info, "box")
	rec := reconcile.New(id, loop)
	view := reconcile.NewView(doc)
	rec.ReconcileFirst(view)
	loop.Drain()

	handler := newWatchHandler(info, rec, view, doc, loop, releasePath)

	// A change to the configured descriptor must re-resolve identity
	// before reconciling.
	writeFile(t, releasePath, "ID=ubuntu\nVERSION_ID=\"22.04\"\n")
	handler(releasePath)
	loop.Drain()

	if info.ID != "ubuntu" {
		t.Errorf("ID after handler = %q, want ubuntu", info.ID)
	}
}

func TestNewWatchHandler_OtherPathSkipsRefresh(t *testing.T) {
	dir := t.TempDir()
	releasePath := filepath.Join(dir, "os-release")
	writeFile(t, releasePath, "ID=debian\n")

	info := osinfo.New(
		osinfo.WithGOOS("linux"),
		osinfo.WithArch("amd64"),
		osinfo.WithEnv(func(string) (string, bool) { return "", false }),
		osinfo.WithFileExists(func(string) bool { return false }),
		osinfo.WithReleasePath(releasePath),
	)

	docPath := filepath.Join(dir, "settings.json")
	doc, err := settings.LoadDocument(docPath)
	if err != nil {
		t.Fatal(err)
	}
	doc.Set("linux", map[string]any{"x": float64(1)})

	loop := schedule.NewLoop()
	rec := reconcile.New(reconcile.IdentityFor(info, "box"), loop)
	view := reconcile.NewView(doc)
	handler := newWatchHandler(info, rec, view, doc, loop, releasePath)

	// The descriptor changes on disk, but the event is for the settings
	// document; identity must stay as resolved at startup.
	writeFile(t, releasePath, "ID=ubuntu\n")
	handler(docPath)
	loop.Drain()

	if info.ID != "debian" {
		t.Errorf("ID after unrelated event = %q, want debian", info.ID)
	}
	if got := doc.Get("x", nil); got != float64(1) {
		t.Errorf("x = %v, want 1 (reconciliation should still run)", got)
	}

	// The settings document was written by the reconciliation.
	if _, err := os.Stat(docPath); err != nil {
		t.Errorf("settings document not saved: %v", err)
	}
}
