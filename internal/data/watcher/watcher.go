// Package watcher reports rewrites of a single snapshot file, for live
// watch mode.
package watcher

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"spikeplay/internal/util"
)

// FileWatcher emits an event each time the watched file's content changes.
// The parent directory is watched rather than the file itself so exporters
// that replace the file atomically (write + rename) are still seen.
type FileWatcher struct {
	watcher *fsnotify.Watcher
	path    string
	base    string
	events  chan string

	lastFingerprint string
}

// NewFileWatcher starts watching the given file.
func NewFileWatcher(path string) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	fw := &FileWatcher{
		watcher: w,
		path:    path,
		base:    filepath.Base(path),
		events:  make(chan string, 16),
	}
	if fp, err := util.SnapshotFingerprint(path); err == nil {
		fw.lastFingerprint = fp
	}

	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return nil, err
	}

	go fw.processEvents()
	return fw, nil
}

// Events yields the watched file's path once per observed content change.
func (fw *FileWatcher) Events() <-chan string {
	return fw.events
}

// Close stops watching. The events channel is closed once the pump drains.
func (fw *FileWatcher) Close() error {
	return fw.watcher.Close()
}

func (fw *FileWatcher) processEvents() {
	defer close(fw.events)
	for {
		select {
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != fw.base {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if !fw.contentChanged() {
				continue
			}
			fw.events <- fw.path

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			util.LogErrorf("File watch error on %s: %v", fw.path, err)
		}
	}
}

// contentChanged fingerprints the file to drop duplicate notifications for
// one logical rewrite (editors and exporters often fire several).
func (fw *FileWatcher) contentChanged() bool {
	fp, err := util.SnapshotFingerprint(fw.path)
	if err != nil {
		// Mid-rewrite reads can fail; the next event settles it.
		return false
	}
	if fp == fw.lastFingerprint {
		return false
	}
	fw.lastFingerprint = fp
	return true
}
