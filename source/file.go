package source

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/go-kit/toggle"
)

// DefaultDebounce is how long a File waits after the last change event
// before reloading.
const DefaultDebounce = 250 * time.Millisecond

// File reads flag values from a config file. Any format viper understands
// by extension works (yaml, json, toml, ...). Values live under a
// "features" table keyed by group, then flag:
//
//	features:
//	  ux:
//	    json_output: true
//	  srv:
//	    http2: false
//
// Flags the file does not mention are left alone.
type File struct {
	path     string
	reg      *toggle.Registry
	logger   log.Logger
	debounce time.Duration
}

// FileOption sets an optional parameter for a File.
type FileOption func(*File)

// FileDebounce sets the reload delay used by Run.
func FileDebounce(d time.Duration) FileOption {
	return func(f *File) { f.debounce = d }
}

// NewFile returns a File reading path and applying to reg.
func NewFile(path string, reg *toggle.Registry, logger log.Logger, options ...FileOption) *File {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	f := &File{
		path:     path,
		reg:      reg,
		logger:   log.With(logger, "component", "file", "path", path),
		debounce: DefaultDebounce,
	}
	for _, option := range options {
		option(f)
	}
	return f
}

// Load reads the file and returns the changes it describes.
func (f *File) Load() (toggle.Changes, error) {
	v := viper.New()
	v.SetConfigFile(f.path)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "read %s", f.path)
	}

	var raw map[string]map[string]bool
	if err := v.UnmarshalKey("features", &raw); err != nil {
		return nil, errors.Wrapf(err, "decode features in %s", f.path)
	}

	c := toggle.Changes{}
	for group, flags := range raw {
		for flag, enabled := range flags {
			c.Set(group, flag, enabled)
		}
	}
	return c, nil
}

// Apply loads the file and applies it to the registry. Groups that fail to
// apply keep their previous state.
func (f *File) Apply() error {
	c, err := f.Load()
	if err != nil {
		return err
	}
	if err := f.reg.Apply(c); err != nil {
		return errors.Wrapf(err, "apply %s", f.path)
	}
	level.Debug(f.logger).Log("msg", "applied", "flags", c.Len())
	return nil
}

// Run watches the file and applies it after every change, until ctx is
// cancelled. Bursts of events are coalesced by the debounce delay. Reload
// failures are logged and do not stop the watch.
func (f *File) Run(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create watcher")
	}
	defer w.Close()

	// Watch the directory: editors often replace the file rather than write
	// to it, which drops a watch held on the file itself.
	dir, name := filepath.Split(filepath.Clean(f.path))
	if dir == "" {
		dir = "."
	}
	if err := w.Add(dir); err != nil {
		return errors.Wrapf(err, "watch %s", dir)
	}
	level.Info(f.logger).Log("msg", "watching")

	var (
		debounce = debouncer{d: f.debounce}
		reload   <-chan time.Time
	)
	defer debounce.stop()

	for {
		select {
		case <-ctx.Done():
			level.Info(f.logger).Log("msg", "watch stopped")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != name || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			reload = debounce.reset()

		case <-reload:
			reload = nil
			if err := f.Apply(); err != nil {
				level.Error(f.logger).Log("msg", "reload failed", "err", err)
				continue
			}
			level.Info(f.logger).Log("msg", "reloaded")

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			level.Warn(f.logger).Log("msg", "watch error", "err", err)
		}
	}
}
