package arbor

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchDebounce is how long an option file must stay unchanged before it is
// reloaded.
var WatchDebounce = 200 * time.Millisecond

// WatchOptions reloads the option file at path whenever it changes and
// passes the result, or the load error, to fn. fn runs on the watcher's
// goroutine. Watching stops when ctx is done.
//
// The parent directory is watched so editors that save by renaming a
// temporary file are seen.
func WatchOptions(ctx context.Context, path string, fn func(WindowOptions, error)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}
	go watchLoop(ctx, w, path, fn)
	return nil
}

func watchLoop(ctx context.Context, w *fsnotify.Watcher, path string, fn func(WindowOptions, error)) {
	defer w.Close()

	abs, _ := filepath.Abs(path)
	base := filepath.Base(path)

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			evAbs, _ := filepath.Abs(ev.Name)
			if filepath.Base(ev.Name) != base && evAbs != abs {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(WatchDebounce)
			fire = timer.C

		case <-fire:
			timer, fire = nil, nil
			fn(LoadOptions(path))

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			fn(WindowOptions{}, fmt.Errorf("watching %s: %w", path, err))
		}
	}
}
