package cli

import (
	"context"
	"path/filepath"
	"time"

	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"

	"go.viam.com/owiarm/config"
	"go.viam.com/owiarm/logging"
	"go.viam.com/owiarm/utils"
)

// reloadDelay is how long the file must be quiet before it is reread.
const reloadDelay = 100 * time.Millisecond

// keyframeWatcher reloads a keyframes file whenever it changes. The parent directory is watched so that editors
// which replace the file on save are still seen.
type keyframeWatcher struct {
	path    string
	cfg     *config.Config
	logger  logging.Logger
	watcher *fsnotify.Watcher
	workers utils.StoppableWorkers
	updates chan [][]float64
	errs    chan error
}

func newKeyframeWatcher(path string, cfg *config.Config, logger logging.Logger) (*keyframeWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		//nolint:errcheck
		watcher.Close()
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		//nolint:errcheck
		watcher.Close()
		return nil, errors.Wrapf(err, "cannot watch %q", path)
	}
	w := &keyframeWatcher{
		path:    abs,
		cfg:     cfg,
		logger:  logger,
		watcher: watcher,
		updates: make(chan [][]float64, 1),
		errs:    make(chan error, 1),
	}
	w.workers = utils.NewStoppableWorkers(w.run)
	return w, nil
}

func (w *keyframeWatcher) run(ctx context.Context) {
	debounced := debounce.New(reloadDelay)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}
			debounced(func() { w.reload(ctx) })
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.send(ctx, nil, err)
		}
	}
}

func (w *keyframeWatcher) reload(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	kfs, err := config.ReadKeyframes(w.path, w.cfg)
	if err != nil {
		w.send(ctx, nil, err)
		return
	}
	w.logger.Debugw("keyframes reloaded", "path", w.path, "count", len(kfs))
	w.send(ctx, kfs, nil)
}

func (w *keyframeWatcher) send(ctx context.Context, kfs [][]float64, err error) {
	if err != nil {
		select {
		case w.errs <- err:
		case <-ctx.Done():
		}
		return
	}
	select {
	case w.updates <- kfs:
	case <-ctx.Done():
	}
}

// Updates delivers each successfully parsed version of the file.
func (w *keyframeWatcher) Updates() <-chan [][]float64 {
	return w.updates
}

// Errors delivers read, parse and watch failures.
func (w *keyframeWatcher) Errors() <-chan error {
	return w.errs
}

// Close stops watching.
func (w *keyframeWatcher) Close() {
	w.workers.Stop()
	//nolint:errcheck
	w.watcher.Close()
}
