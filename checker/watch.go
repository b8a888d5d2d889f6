package checker

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/teranos/edtf/errors"
	"github.com/teranos/edtf/logger"
)

// RunFunc receives each run of a watched file.
type RunFunc func(Summary, error)

// Watch runs CheckFile on path once, then again after every write to it,
// until ctx is done. Bursts of events within debounce collapse into one run.
//
// The parent directory is watched rather than the file itself, since many
// editors save by renaming a new file over the old one.
func Watch(ctx context.Context, path string, debounce time.Duration, opts Options, fn RunFunc) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrapf(err, "failed to resolve %s", path)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create fsnotify watcher")
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(abs)); err != nil {
		return errors.Wrapf(err, "failed to watch %s", filepath.Dir(abs))
	}

	log := logger.AddWatchSymbol(opts.logger())
	run := func() {
		fn(CheckFile(ctx, path, opts))
	}
	run()

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			log.Debugw("Watched file changed",
				logger.FieldFile, event.Name,
				"op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			run()

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warnw("Watcher error", logger.FieldError, err)
		}
	}
}
