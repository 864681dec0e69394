// Package watch re-triggers OS identity resolution when watched files
// change.
//
// The watcher monitors the parent directory of each file so atomic
// replace (write-to-temp then rename, common for os-release updates and
// settings documents) is still observed. Events are debounced before the
// handler runs.
package watch

import (
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ErrClosed indicates use of a watcher after Close.
var ErrClosed = errors.New("watcher closed")

// Handler is called with the path of a changed file.
type Handler func(path string)

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets how long to coalesce bursts of events per path.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// Watcher monitors files and invokes a handler when they change.
type Watcher struct {
	mu sync.Mutex

	fw       *fsnotify.Watcher
	handler  Handler
	debounce time.Duration

	// files maps watched absolute paths to their watched directory.
	files map[string]string

	// timers holds pending debounce timers per path.
	timers map[string]*time.Timer

	closed bool
	wg     sync.WaitGroup
}

// New creates a watcher that invokes handler on file changes.
func New(handler Handler, opts ...Option) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fw:       fw,
		handler:  handler,
		debounce: 100 * time.Millisecond,
		files:    make(map[string]string),
		timers:   make(map[string]*time.Timer),
	}
	for _, opt := range opts {
		opt(w)
	}

	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Add starts watching the file at path. The file itself may not exist
// yet; its parent directory must.
func (w *Watcher) Add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(abs)

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrClosed
	}
	if _, ok := w.files[abs]; ok {
		return nil
	}

	watchDir := true
	for _, d := range w.files {
		if d == dir {
			watchDir = false
			break
		}
	}
	if watchDir {
		if err := w.fw.Add(dir); err != nil {
			return err
		}
	}
	w.files[abs] = dir
	return nil
}

// Close stops the watcher and releases resources.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	for _, t := range w.timers {
		t.Stop()
	}
	w.mu.Unlock()

	err := w.fw.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	for {
		select {
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			w.fileChanged(ev.Name)
		case _, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			// fsnotify errors are transient here; the next event for a
			// tracked path will still be delivered or the host restarts
			// the watcher.
		}
	}
}

func (w *Watcher) fileChanged(name string) {
	abs, err := filepath.Abs(name)
	if err != nil {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	if _, tracked := w.files[abs]; !tracked {
		return
	}

	if t, ok := w.timers[abs]; ok {
		t.Stop()
	}
	w.timers[abs] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, abs)
		closed := w.closed
		w.mu.Unlock()
		if !closed {
			w.handler(abs)
		}
	})
}
