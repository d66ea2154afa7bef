package settings

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounce drops repeat notifications for one file; editors often write a
// file several times per save.
const debounce = 100 * time.Millisecond

// ChangeKind says which loader an edited file belongs to.
type ChangeKind int

const (
	SpecChanged ChangeKind = iota
	ScriptChanged
)

func (k ChangeKind) String() string {
	if k == ScriptChanged {
		return "script"
	}
	return "spec"
}

// Change is one debounced edit under a watched directory.
type Change struct {
	Path string
	Kind ChangeKind
}

// Watcher reports edited spec and script files.
type Watcher struct {
	fs      *fsnotify.Watcher
	Changes chan Change
	Errors  chan error
	done    chan struct{}
	once    sync.Once
}

func NewWatcher(dirs ...string) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		if err := fs.Add(dir); err != nil {
			_ = fs.Close()
			return nil, err
		}
	}

	w := &Watcher{
		fs:      fs,
		Changes: make(chan Change, 16),
		Errors:  make(chan error, 1),
		done:    make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.fs.Close()
	})
	return err
}

func (w *Watcher) loop() {
	defer close(w.Changes)
	defer close(w.Errors)

	seen := make(map[string]time.Time)
	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			change, ok := classifyEvent(ev)
			if !ok {
				continue
			}
			now := time.Now()
			if at, dup := seen[change.Path]; dup && now.Sub(at) < debounce {
				continue
			}
			seen[change.Path] = now
			select {
			case w.Changes <- change:
			case <-w.done:
				return
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.done:
			return
		}
	}
}

// classifyEvent keeps content-changing events on spec and script files.
func classifyEvent(ev fsnotify.Event) (Change, bool) {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return Change{}, false
	}
	switch {
	case IsSpecFile(ev.Name):
		return Change{Path: ev.Name, Kind: SpecChanged}, true
	case IsScriptFile(ev.Name):
		return Change{Path: ev.Name, Kind: ScriptChanged}, true
	}
	return Change{}, false
}

func IsSpecFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func IsScriptFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".tengo")
}
