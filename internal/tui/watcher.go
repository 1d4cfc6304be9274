package tui

import (
	"path/filepath"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/colonyops/redpen/internal/core/logging"
)

// inputChangedMsg is sent when a watched input file changes on disk.
type inputChangedMsg struct {
	path string
}

// InputWatcher watches the graded document and the mistakes file. Editors
// often save by writing a temp file and renaming it over the original, so
// the parent directories are watched and events are filtered by name.
type InputWatcher struct {
	watcher  *fsnotify.Watcher
	files    map[string]bool
	debounce time.Duration
	log      zerolog.Logger
}

// NewInputWatcher starts watching paths. Empty paths are skipped.
func NewInputWatcher(debounce time.Duration, paths ...string) (*InputWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &InputWatcher{
		watcher:  watcher,
		files:    make(map[string]bool),
		debounce: debounce,
		log:      logging.Component("watcher"),
	}

	dirs := make(map[string]bool)
	for _, p := range paths {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			_ = watcher.Close()
			return nil, err
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}

	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			_ = watcher.Close()
			return nil, err
		}
	}

	return w, nil
}

// Next returns a command that blocks until a watched file changes, waits for
// writes to settle and reports the change. Call it again after each message.
func (w *InputWatcher) Next() tea.Cmd {
	return func() tea.Msg {
		for {
			select {
			case event, ok := <-w.watcher.Events:
				if !ok {
					return nil
				}
				if !w.relevant(event) {
					continue
				}

				time.Sleep(w.debounce)
				w.drain()

				w.log.Debug().Str("path", event.Name).Stringer("op", event.Op).Msg("input changed")
				return inputChangedMsg{path: event.Name}

			case err, ok := <-w.watcher.Errors:
				if !ok {
					return nil
				}
				w.log.Warn().Err(err).Msg("watch error")
			}
		}
	}
}

func (w *InputWatcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return w.files[abs]
}

// drain discards events that arrived during the debounce window.
func (w *InputWatcher) drain() {
	for {
		select {
		case <-w.watcher.Events:
		default:
			return
		}
	}
}

// Close stops the watcher.
func (w *InputWatcher) Close() error {
	return w.watcher.Close()
}
