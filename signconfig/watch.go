// This file is part of Subwaysign.
//
// Subwaysign is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Subwaysign is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Subwaysign.  If not, see <https://www.gnu.org/licenses/>.

package signconfig

import (
	"context"
	"path/filepath"
	"reflect"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/subwaysign/subwaysign/curated"
	"github.com/subwaysign/subwaysign/logger"
	"github.com/subwaysign/subwaysign/notifications"
	"github.com/subwaysign/subwaysign/statecell"
	"github.com/subwaysign/subwaysign/transit"
)

// WatchError is returned by Watcher.Run() if the watch cannot be started.
const WatchError = "config: watch: %v"

// editors often write a file in several steps. events are collected for this
// long before the file is reloaded
const settle = 250 * time.Millisecond

// Watcher publishes a new ConfigSnapshot whenever the configuration file
// changes. Changes that fail validation are logged and ignored. The current
// snapshot stays in place.
type Watcher struct {
	path   string
	cell   *statecell.Cell[transit.ConfigSnapshot]
	notify notifications.Notify
}

// NewWatcher is the preferred method of initialisation for the Watcher type.
func NewWatcher(path string, cell *statecell.Cell[transit.ConfigSnapshot]) *Watcher {
	return &Watcher{
		path: path,
		cell: cell,
	}
}

// SetNotify sets the recipient of NotifyConfigReloaded and
// NotifyConfigRejected notices.
func (w *Watcher) SetNotify(n notifications.Notify) {
	w.notify = n
}

func (w *Watcher) send(n notifications.Notice) {
	if w.notify != nil {
		_ = w.notify.Notify(n)
	}
}

// Reload reads the configuration file and publishes it if it is valid and
// different to the current snapshot.
func (w *Watcher) Reload() error {
	cfg, err := Load(w.path)
	if err != nil {
		logger.Logf(logger.Allow, "config", "%s: %v", filepath.Base(w.path), err)
		w.send(notifications.NotifyConfigRejected)
		return err
	}

	if cur := w.cell.Current(); cur != nil && reflect.DeepEqual(cur, cfg) {
		return nil
	}

	w.cell.Publish(cfg)
	logger.Logf(logger.Allow, "config", "reloaded: %s", cfg)
	w.send(notifications.NotifyConfigReloaded)
	return nil
}

// Run watches the configuration file until the context is cancelled. The
// directory containing the file is watched rather than the file itself so
// that changes made by renaming a new file into place are seen.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return curated.Errorf(WatchError, err)
	}
	defer fw.Close()

	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		return curated.Errorf(WatchError, err)
	}

	name := filepath.Clean(w.path)
	logger.Logf(logger.Allow, "config", "watching %s", name)

	// settling timer is created stopped
	reload := time.NewTimer(settle)
	if !reload.Stop() {
		<-reload.C
	}
	defer reload.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != name {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				reload.Reset(settle)
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Logf(logger.Allow, "config", "watch: %v", err)

		case <-reload.C:
			_ = w.Reload()
		}
	}
}

// Watch is a convenience function that creates a Watcher and runs it.
func Watch(ctx context.Context, path string, cell *statecell.Cell[transit.ConfigSnapshot]) error {
	return NewWatcher(path, cell).Run(ctx)
}
