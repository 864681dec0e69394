// Package main is the platformset inspection tool.
//
// It prints the detected host identity and the resolved settings keys,
// and can run a reconciliation against a JSON settings document. With
// -watch it keeps running, re-reconciling when the document or the
// os-release descriptor changes.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dshills/platformset/internal/loader"
	"github.com/dshills/platformset/internal/osinfo"
	"github.com/dshills/platformset/internal/reconcile"
	"github.com/dshills/platformset/internal/schedule"
	"github.com/dshills/platformset/internal/settings"
	"github.com/dshills/platformset/internal/watch"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath   = flag.String("config", "", "platformset config file (TOML or YAML)")
		settingsPath = flag.String("settings", "", "JSON settings document to reconcile")
		watchFiles   = flag.Bool("watch", false, "keep running and re-reconcile on file changes")
	)
	flag.Parse()

	cfg, err := loader.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	cfg = cfg.Merge(loader.Config{
		Keys:          reconcile.DefaultTemplates,
		OSReleasePath: osinfo.DefaultReleasePath,
	})

	info := osinfo.New(osinfo.WithReleasePath(cfg.OSReleasePath))
	fmt.Println(info)

	loop := schedule.NewLoop()
	rec := reconcile.New(reconcile.NewIdentity(info), loop, reconcile.WithTemplates(cfg.Keys))

	if *settingsPath == "" {
		for _, key := range rec.Keys(settings.NewMemoryStore()) {
			fmt.Println(" ", key)
		}
		return 0
	}

	doc, err := settings.LoadDocument(*settingsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	view := reconcile.NewView(doc)

	for _, key := range rec.Keys(doc) {
		fmt.Println(" ", key)
	}

	rec.ReconcileFirst(view)
	loop.Drain()
	if err := doc.Save(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Printf("reconciled %s\n", *settingsPath)

	if !*watchFiles && !cfg.Watch {
		return 0
	}
	return watchLoop(info, rec, view, doc, loop, cfg.OSReleasePath)
}

// newWatchHandler builds the file-change handler for the watch loop.
// Changes to the release descriptor re-resolve OS identity before the
// reconciliation; the document is only saved when the reconciliation
// actually wrote something, so save-triggered events settle.
func newWatchHandler(info *osinfo.Info, rec *reconcile.Reconciler, view reconcile.View, doc *settings.Document, loop *schedule.Loop, releasePath string) watch.Handler {
	// The watcher reports absolute paths.
	if abs, err := filepath.Abs(releasePath); err == nil {
		releasePath = abs
	}

	var dirty bool
	doc.AddOnChange("platformset_cli", func() { dirty = true })

	return func(path string) {
		loop.Defer(func() {
			if path == releasePath {
				info.Refresh()
			}
			dirty = false
			rec.Reconcile(view)
			if dirty {
				if err := doc.Save(); err != nil {
					fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				}
			}
		})
	}
}

// watchLoop re-reconciles whenever the settings document or the
// os-release descriptor changes, until interrupted.
func watchLoop(info *osinfo.Info, rec *reconcile.Reconciler, view reconcile.View, doc *settings.Document, loop *schedule.Loop, releasePath string) int {
	w, err := watch.New(newWatchHandler(info, rec, view, doc, loop, releasePath))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer w.Close()

	if err := w.Add(doc.Path()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	// os-release only exists on Linux and friends; ignore elsewhere.
	_ = w.Add(releasePath)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()

	for {
		select {
		case <-signals:
			loop.Drain()
			return 0
		case <-tick.C:
			loop.Drain()
		}
	}
}
