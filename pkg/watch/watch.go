// Copyright (c) 2012-2024 Eli Janssen
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package watch reports changes to files below a served directory.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/cactus/mlog"
	"github.com/fsnotify/fsnotify"
)

// NotifyFunc receives the slash separated path (relative to the watched
// root) and operation of a change.
type NotifyFunc func(path string, op string)

// A Watcher watches a directory tree. Directories created after New are
// added as they appear. Dot directories are not watched.
type Watcher struct {
	root string
	fsw  *fsnotify.Watcher
}

// New creates a Watcher and registers every directory below root.
func New(root string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("could not create watcher: %w", err)
	}

	w := &Watcher{root: root, fsw: fsw}
	if err := w.addTree(root); err != nil {
		// #nosec
		fsw.Close()
		return nil, err
	}
	return w, nil
}

func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("could not watch %s: %w", path, err)
		}
		return nil
	})
}

// Run delivers change notifications to notify until ctx is done. The
// Watcher is closed when Run returns.
func (w *Watcher) Run(ctx context.Context, notify NotifyFunc) error {
	// #nosec
	defer w.fsw.Close()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			// permission and timestamp changes do not alter served content
			if ev.Op == fsnotify.Chmod {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
					if err := w.addTree(ev.Name); err != nil {
						mlog.Debugm("watch add failed", mlog.Map{"path": ev.Name, "err": err})
					}
				}
			}
			notify(w.relative(ev.Name), ev.Op.String())
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			mlog.Debugm("watch error", mlog.Map{"err": err})
		}
	}
}

// Close stops watching without running.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) relative(path string) string {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
