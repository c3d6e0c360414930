package tileset

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 100 * time.Millisecond

// Watcher reloads a manifest file into a Registry whenever the file changes.
// A manifest that fails to load leaves the registry untouched.
type Watcher struct {
	watcher *fsnotify.Watcher
	path    string
	reg     *Registry
	logger  Logger

	// Reloads receives the tileset count after each successful reload.
	Reloads chan int
	// Errors receives reload and watch failures.
	Errors chan error

	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

// NewWatcher starts watching the manifest at path. The registry is not
// loaded up front; use LoadRegistry for that.
func NewWatcher(path string, reg *Registry, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Editors often save by renaming over the file, so watch the directory.
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, err
	}

	o := buildOptions(opts)
	w := &Watcher{
		watcher: fw,
		path:    abs,
		reg:     reg,
		logger:  o.logger,
		Reloads: make(chan int, 16),
		Errors:  make(chan error, 16),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Close stops the watcher. It is safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
		close(w.Reloads)
		close(w.Errors)
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.done)

	var fire <-chan time.Time
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			w.logger.Debugf("tileset: %s %s", event.Op, event.Name)
			fire = time.After(reloadDebounce)
		case <-fire:
			fire = nil
			w.reload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Errorf("tileset: watch %s: %v", w.path, err)
			w.sendErr(err)
		case <-w.closeCh:
			return
		}
	}
}

func (w *Watcher) reload() {
	ds, err := loadDescriptors(w.path)
	if err != nil {
		w.logger.Errorf("tileset: reload failed, keeping previous tilesets: %v", err)
		w.sendErr(err)
		return
	}

	w.reg.Replace(ds)
	w.logger.Infof("tileset: reloaded %d tilesets from %s", len(ds), w.path)
	select {
	case w.Reloads <- len(ds):
	default:
		w.logger.Warnf("tileset: reload notification dropped")
	}
}

func (w *Watcher) sendErr(err error) {
	select {
	case w.Errors <- err:
	default:
		w.logger.Warnf("tileset: error notification dropped: %v", err)
	}
}
