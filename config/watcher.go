package config

import (
	"bytes"
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/a8m/envsubst"
	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"go.viam.com/utils"

	"github.com/igknighters/stemsolver/logging"
)

// settleTime is how long a config file must go unchanged before it is re-read. Editors often save
// in several writes.
const settleTime = 50 * time.Millisecond

// A Watcher is responsible for delivering a config whenever its file changes.
type Watcher struct {
	path    string
	logger  logging.Logger
	fsw     *fsnotify.Watcher
	configs chan *Config
	cancel  context.CancelFunc

	activeBackgroundWorkers sync.WaitGroup
	closeOnce               sync.Once
	closeErr                error
}

// NewWatcher watches the config file at filePath. Only changes that still read and validate are
// delivered; a broken edit is logged and skipped. The directory is watched rather than the file
// so that editors which replace the file on save are still seen.
func NewWatcher(ctx context.Context, filePath string, logger logging.Logger) (*Watcher, error) {
	path, err := filepath.Abs(filePath)
	if err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "cannot create file watcher")
	}
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		utils.UncheckedError(fsw.Close())
		return nil, errors.Wrapf(err, "cannot watch %q", filePath)
	}
	last, err := envsubst.ReadFile(path)
	if err != nil {
		utils.UncheckedError(fsw.Close())
		return nil, err
	}

	cancelCtx, cancel := context.WithCancel(ctx)
	w := &Watcher{
		path:    path,
		logger:  logger,
		fsw:     fsw,
		configs: make(chan *Config),
		cancel:  cancel,
	}
	w.activeBackgroundWorkers.Add(1)
	utils.ManagedGo(func() {
		w.watch(cancelCtx, last)
	}, w.activeBackgroundWorkers.Done)
	return w, nil
}

func (w *Watcher) watch(ctx context.Context, last []byte) {
	debounced := debounce.New(settleTime)
	reload := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Errorw("error watching config", "path", w.path, "error", err)
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			debounced(func() {
				select {
				case reload <- struct{}{}:
				default:
				}
			})
		case <-reload:
			buf, err := envsubst.ReadFile(w.path)
			if err != nil {
				w.logger.Errorw("error reading config after change", "path", w.path, "error", err)
				continue
			}
			if bytes.Equal(buf, last) {
				continue
			}
			cfg, err := FromReader(ctx, w.path, bytes.NewReader(buf), w.logger)
			if err != nil {
				w.logger.Errorw("ignoring invalid config change", "path", w.path, "error", err)
				continue
			}
			last = buf
			select {
			case <-ctx.Done():
				return
			case w.configs <- cfg:
			}
		}
	}
}

// Config returns a channel delivering each new valid config.
func (w *Watcher) Config() <-chan *Config {
	return w.configs
}

// Close stops watching and waits for the watcher to finish.
func (w *Watcher) Close() error {
	w.closeOnce.Do(func() {
		w.cancel()
		w.closeErr = w.fsw.Close()
		w.activeBackgroundWorkers.Wait()
	})
	return w.closeErr
}
