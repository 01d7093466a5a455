// Package watch reports changes to a single file.
package watch

import (
	"context"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// File watches path and calls onChange with its new contents after every
// write or replacement. The parent directory is watched rather than the file
// itself so editors that save by rename keep being followed.
//
// File blocks until ctx is done and returns nil, or returns an error if the
// watch cannot be set up.
func File(ctx context.Context, path string, log *zap.Logger, onChange func(contents []byte)) error {
	if log == nil {
		log = zap.NewNop()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrap(err, "resolve path")
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create watcher")
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(abs)); err != nil {
		return errors.Wrapf(err, "watch %s", filepath.Dir(abs))
	}
	log = log.With(zap.String("file", abs))
	log.Debug("watching shader source")

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			contents, err := os.ReadFile(abs)
			if err != nil {
				// Rename-based saves briefly leave no file behind.
				log.Debug("changed file not readable", zap.Error(err))
				continue
			}
			onChange(contents)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", zap.Error(err))
		}
	}
}
