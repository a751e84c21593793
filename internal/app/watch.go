package app

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ModelWatcher watches the model database file and reports external
// changes so the host can refresh its snapshots. Events are debounced;
// sqlite touches the file several times per transaction.
type ModelWatcher struct {
	watcher  *fsnotify.Watcher
	mu       sync.Mutex
	timer    *time.Timer
	debounce time.Duration
	onChange func()
}

// WatchModel starts watching the database file at the given path
func WatchModel(path string, debounce time.Duration, onChange func()) (*ModelWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		watcher.Close()
		return nil, fmt.Errorf("resolve path %s: %w", path, err)
	}
	if err := watcher.Add(absPath); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", absPath, err)
	}

	mw := &ModelWatcher{
		watcher:  watcher,
		debounce: debounce,
		onChange: onChange,
	}
	go mw.run()
	return mw, nil
}

func (mw *ModelWatcher) run() {
	for {
		select {
		case event, ok := <-mw.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				mw.fire()
			}
		case _, ok := <-mw.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

func (mw *ModelWatcher) fire() {
	mw.mu.Lock()
	defer mw.mu.Unlock()

	if mw.timer != nil {
		mw.timer.Stop()
	}
	mw.timer = time.AfterFunc(mw.debounce, mw.onChange)
}

// Close stops watching
func (mw *ModelWatcher) Close() error {
	return mw.watcher.Close()
}
