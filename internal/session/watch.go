// ABOUTME: Watches the session file for changes made by other processes
// ABOUTME: Lets the TUI react when `login` or `logout` runs in another terminal

package session

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch sends on the returned channel whenever the session file is created,
// written, renamed or removed. The channel is closed when ctx is done.
// The directory is watched rather than the file so replacement is seen.
func Watch(ctx context.Context, path string) (<-chan struct{}, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, err
	}

	changes := make(chan struct{}, 1)
	name := filepath.Clean(path)

	go func() {
		defer close(changes)
		defer w.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != name {
					continue
				}
				if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
					continue
				}
				// Coalesce bursts; one pending notification is enough
				select {
				case changes <- struct{}{}:
				default:
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				slog.Warn("session watcher error", "error", err)
			}
		}
	}()

	return changes, nil
}
