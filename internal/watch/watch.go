// Package watch re-runs an action whenever one of a set of files changes.
//
// Parent directories are watched rather than the files themselves, so editors
// that replace a file through rename and rotation tools keep being followed.
// Bursts of events are coalesced by a debounce timer.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// DefaultDebounce is used when Options.Debounce is zero.
const DefaultDebounce = 500 * time.Millisecond

// Options configures a Watcher.
type Options struct {
	Files    []string
	Debounce time.Duration
	// OnChange is called once per changed file after the debounce delay.
	// Errors are logged; watching continues.
	OnChange func(path string) error
}

// Watcher follows a set of files.
type Watcher struct {
	opts    Options
	files   []string
	tracked map[string]string
	watcher *fsnotify.Watcher
}

// New starts watching. Changes made after New returns are reported by Run.
func New(opts Options) (*Watcher, error) {
	if len(opts.Files) == 0 {
		return nil, fmt.Errorf("no files to watch")
	}
	if opts.OnChange == nil {
		return nil, fmt.Errorf("no change handler")
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{opts: opts, tracked: make(map[string]string), watcher: fw}
	dirs := make(map[string]struct{})
	for _, f := range opts.Files {
		abs, err := filepath.Abs(f)
		if err != nil {
			fw.Close()
			return nil, err
		}
		if _, ok := w.tracked[abs]; ok {
			continue
		}
		w.tracked[abs] = f
		w.files = append(w.files, abs)

		dir := filepath.Dir(abs)
		if _, ok := dirs[dir]; ok {
			continue
		}
		dirs[dir] = struct{}{}
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}
	return w, nil
}

// Run dispatches changes until ctx is cancelled. It closes the watcher on
// return.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	pending := make(map[string]bool)
	timer := time.NewTimer(w.opts.Debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher closed unexpectedly")
			}
			if !w.relevant(event) {
				continue
			}
			pending[filepath.Clean(event.Name)] = true
			timer.Reset(w.opts.Debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher error channel closed")
			}
			return fmt.Errorf("watcher error: %w", err)

		case <-timer.C:
			w.flush(pending)
			clear(pending)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if _, ok := w.tracked[filepath.Clean(event.Name)]; !ok {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}

// flush calls OnChange for the pending files in the order they were given.
func (w *Watcher) flush(pending map[string]bool) {
	for _, abs := range w.files {
		if !pending[abs] {
			continue
		}
		path := w.tracked[abs]
		log.Debug().Str("file", path).Msg("file changed")
		if err := w.opts.OnChange(path); err != nil {
			log.Error().Err(err).Str("file", path).Msg("change handler failed")
		}
	}
}
