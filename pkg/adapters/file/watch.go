package file

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Event reports a machine file that was written, created, renamed or removed.
type Event struct {
	Name    string
	Path    string
	Removed bool
}

// Watch reports changes to the machine files of BasePath until ctx is done.
// The channel is closed when watching stops.
func (s *Store) Watch(ctx context.Context) (<-chan Event, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(s.BasePath); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", s.BasePath, err)
	}

	events := make(chan Event, 16)
	go func() {
		defer close(events)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !slices.Contains(Extensions, strings.ToLower(filepath.Ext(ev.Name))) || ev.Op == fsnotify.Chmod {
					continue
				}
				out := Event{
					Name:    nameOf(filepath.Base(ev.Name)),
					Path:    ev.Name,
					Removed: ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename),
				}
				select {
				case events <- out:
				case <-ctx.Done():
					return
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()
	return events, nil
}
