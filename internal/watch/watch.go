// Package watch implements automatic context switching: it observes the
// current scene file and re-resolves the production context when the file
// changes on disk.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vfx-pipeline/houdinictl/internal/engine"
)

// debounceWindow collapses the burst of events a single Houdini save emits.
const debounceWindow = 200 * time.Millisecond

// Event describes a completed context switch.
type Event struct {
	// Scene is the scene file path that triggered the switch.
	Scene string
	// Context is the newly resolved context.
	Context engine.Context
}

// SwitchFunc is invoked after each successful context switch.
type SwitchFunc func(Event)

// Watcher re-resolves the context whenever the watched scene file changes.
type Watcher struct {
	eng    *engine.Engine
	logger *slog.Logger
}

// New constructs a Watcher bound to an engine and logger.
func New(eng *engine.Engine, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{eng: eng, logger: logger}
}

// sceneExtensions are the file extensions treated as scene saves.
var sceneExtensions = map[string]struct{}{
	".hip":   {},
	".hipnc": {},
	".hiplc": {},
}

// Run watches the scene file's work directory until ctx is cancelled,
// invoking onSwitch each time a scene save resolves to a different context.
// The directory is watched rather than the file itself, since saves replace
// files and save-as creates new ones.
// Returns immediately when automatic_context_switch is disabled.
func (w *Watcher) Run(ctx context.Context, scene string, onSwitch SwitchFunc) error {
	if !w.eng.Config().ContextSwitchEnabled() {
		w.logger.Info("automatic context switch is disabled")
		return nil
	}

	absScene, err := filepath.Abs(scene)
	if err != nil {
		return fmt.Errorf("resolve scene path: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer func() { _ = fw.Close() }()

	if err := fw.Add(filepath.Dir(absScene)); err != nil {
		return fmt.Errorf("watch scene directory: %w", err)
	}

	current, err := w.eng.ResolveContext(absScene)
	if err != nil {
		w.logger.Warn("initial context could not be resolved", "scene", absScene, "error", err)
	} else {
		w.logger.Info("context resolved", "scene", absScene, "context", current.String())
	}

	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		pending string
	)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if _, isScene := sceneExtensions[filepath.Ext(ev.Name)]; !isScene {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			pending = filepath.Clean(ev.Name)
			if timer == nil {
				timer = time.NewTimer(debounceWindow)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(debounceWindow)
			}

		case <-timerC:
			timer = nil
			timerC = nil
			if pending == "" {
				continue
			}
			scenePath := pending
			pending = ""

			next, err := w.eng.ResolveContext(scenePath)
			if err != nil {
				w.logger.Warn("context re-resolution failed", "scene", scenePath, "error", err)
				continue
			}
			if next.Equal(current) {
				w.logger.Debug("context unchanged", "scene", scenePath)
				continue
			}
			w.logger.Info("context switched",
				"scene", scenePath, "from", current.String(), "to", next.String())
			current = next
			if onSwitch != nil {
				onSwitch(Event{Scene: scenePath, Context: next})
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("file watcher error", "error", err)
		}
	}
}
