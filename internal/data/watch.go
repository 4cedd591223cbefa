package data

import (
	"maps"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounce = 100 * time.Millisecond

// Watcher reports changes to scene (.yaml/.yml) and script (.lua) files in
// the watched directories. A file is reported once it has been quiet for the
// debounce window, so a burst of writes yields one event after the last.
type Watcher struct {
	watcher *fsnotify.Watcher
	Events  chan string
	Errors  chan error
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

func NewWatcher(dirs ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		if err := fw.Add(dir); err != nil {
			_ = fw.Close()
			return nil, err
		}
	}

	w := &Watcher{
		watcher: fw,
		Events:  make(chan string, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
		close(w.Events)
		close(w.Errors)
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.done)

	pending := make(map[string]time.Time) // path -> last event
	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()
	var fire <-chan time.Time // nil while no flush is scheduled

	for {
		select {
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if !IsSceneFile(ev.Name) && !IsScriptFile(ev.Name) {
				continue
			}
			pending[ev.Name] = time.Now()
			if fire == nil {
				timer.Reset(debounce)
				fire = timer.C
			}
		case <-fire:
			fire = nil
			next, ok := w.flush(pending)
			if !ok {
				return
			}
			if next > 0 {
				timer.Reset(next)
				fire = timer.C
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default: // keep the first unread error
			}
		case <-w.closeCh:
			return
		}
	}
}

// flush emits every pending path that has been quiet for the debounce window
// and returns how long until the next one is due, or 0 when none remain.
func (w *Watcher) flush(pending map[string]time.Time) (time.Duration, bool) {
	now := time.Now()
	var next time.Duration
	for _, path := range slices.Sorted(maps.Keys(pending)) {
		wait := debounce - now.Sub(pending[path])
		if wait > 0 {
			if next == 0 || wait < next {
				next = wait
			}
			continue
		}
		delete(pending, path)
		select {
		case w.Events <- path:
		case <-w.closeCh:
			return 0, false
		}
	}
	return next, true
}

func IsSceneFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func IsScriptFile(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".lua"
}
