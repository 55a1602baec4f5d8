package corpus

import (
	"context"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
)

// Watcher reports entries as they are saved into a DirStore, including by
// other processes.
type Watcher struct {
	store *DirStore
	fsw   *fsnotify.Watcher
	seen  map[string]bool
}

// NewWatcher starts watching dir and its property directories. Events that
// happen before Run are queued.
func NewWatcher(dir string) (*Watcher, error) {
	store, err := NewDirStore(dir)
	if err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "creating watcher")
	}
	w := &Watcher{store: store, fsw: fsw, seen: make(map[string]bool)}

	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, errors.Wrapf(err, "watching %s", dir)
	}
	dirs, err := os.ReadDir(dir)
	if err != nil {
		fsw.Close()
		return nil, errors.Wrapf(err, "listing %s", dir)
	}
	for _, d := range dirs {
		if !d.IsDir() {
			continue
		}
		if err := w.addPropertyDir(filepath.Join(dir, d.Name()), false, nil); err != nil {
			fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

// addPropertyDir watches a property directory. With emit set, entries
// already present are reported, since they may have been written before
// the watch was in place.
func (w *Watcher) addPropertyDir(dir string, emit bool, fn func(Entry)) error {
	if err := w.fsw.Add(dir); err != nil {
		return errors.Wrapf(err, "watching %s", dir)
	}
	files, err := os.ReadDir(dir)
	if err != nil {
		return errors.Wrapf(err, "listing %s", dir)
	}
	for _, f := range files {
		path := filepath.Join(dir, f.Name())
		if emit {
			w.report(path, fn)
		} else if property, id, ok := w.store.propertyOf(path); ok {
			w.seen[property+"/"+id] = true
		}
	}
	return nil
}

// Run calls fn for every entry file created under the store until ctx is
// done. Entries that exist when the watcher was created are not reported.
func (w *Watcher) Run(ctx context.Context, fn func(Entry)) error {
	defer w.fsw.Close()
	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			return errors.Wrap(err, "watching corpus")
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if err := w.handle(ctx, ev, fn); err != nil {
				return err
			}
		}
	}
}

func (w *Watcher) handle(_ context.Context, ev fsnotify.Event, fn func(Entry)) error {
	switch {
	case ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename):
		if property, id, ok := w.store.propertyOf(ev.Name); ok {
			delete(w.seen, property+"/"+id)
		}
	case ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write):
		info, err := os.Stat(ev.Name)
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if filepath.Dir(ev.Name) == filepath.Clean(w.store.Root()) {
				return w.addPropertyDir(ev.Name, true, fn)
			}
			return nil
		}
		w.report(ev.Name, fn)
	}
	return nil
}

func (w *Watcher) report(path string, fn func(Entry)) {
	property, id, ok := w.store.propertyOf(path)
	if !ok || w.seen[property+"/"+id] {
		return
	}
	e, err := w.store.Get(context.Background(), property, id)
	if err != nil {
		return
	}
	w.seen[property+"/"+id] = true
	fn(e)
}

// Close stops the watcher without running it.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Watch runs a Watcher on dir until ctx is done.
func Watch(ctx context.Context, dir string, fn func(Entry)) error {
	w, err := NewWatcher(dir)
	if err != nil {
		return err
	}
	return w.Run(ctx, fn)
}
