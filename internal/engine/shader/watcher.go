package shader

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/scilla/internal/logger"
)

// Watcher reports changed files under a set of directories. It runs one
// goroutine that never touches GL; the main loop drains Changes.
type Watcher struct {
	fs      *fsnotify.Watcher
	changes chan string
	done    chan struct{}
	wg      sync.WaitGroup
}

// NewWatcher starts watching dirs.
func NewWatcher(dirs ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, err
		}
	}
	w := &Watcher{
		fs:      fw,
		changes: make(chan string, 64),
		done:    make(chan struct{}),
	}
	w.wg.Add(1)
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			// Saving by rename shows up as Create, not Write.
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			select {
			case w.changes <- canonical(ev.Name):
			default:
				// full; the next Poll reloads everything pending anyway
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			logger.Warn("shader watcher error", zap.Error(err))
		}
	}
}

// Changes delivers changed file paths in canonical form.
func (w *Watcher) Changes() <-chan string { return w.changes }

// Close stops the watcher goroutine.
func (w *Watcher) Close() error {
	close(w.done)
	err := w.fs.Close()
	w.wg.Wait()
	return err
}

func canonical(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
