// Package engine resolves a validated engine configuration into the runtime
// surfaces the host integration builds: the command menu, the shelf, the
// startup command list, the plugin launch plan and the review matcher.
package engine

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/vfx-pipeline/houdinictl/internal/config"
	"github.com/vfx-pipeline/houdinictl/internal/template"
)

// Command is a resolved, executable or UI command registered by an app instance.
type Command struct {
	// AppInstance is the owning app instance name.
	AppInstance string
	// Name is the command identifier within the app instance.
	Name string
	// Title is the display label.
	Title string
	// Icon is an optional icon path.
	Icon string
	// Run is the argv for executable commands; empty for UI-only commands.
	Run []string
	// Shelf marks the command for shelf placement.
	Shelf bool
	// Panel marks the command as opening an embedded panel.
	Panel bool
}

// Ref returns the configuration reference for the command.
func (c Command) Ref() config.CommandRef {
	return config.CommandRef{AppInstance: c.AppInstance, Name: c.Name}
}

// Engine holds a validated configuration and the parsed templates derived from it.
type Engine struct {
	cfg    *config.EngineConfig
	logger *slog.Logger

	commands map[config.CommandRef]Command
	work     *template.Template
	review   *template.Template
}

// New builds an Engine from a validated configuration.
// Template patterns are parsed eagerly so later resolution cannot fail on them.
func New(cfg *config.EngineConfig, logger *slog.Logger) (*Engine, error) {
	if cfg == nil {
		return nil, fmt.Errorf("engine config is nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	e := &Engine{
		cfg:      cfg,
		logger:   logger,
		commands: make(map[config.CommandRef]Command),
	}

	for instance, app := range cfg.Apps {
		for _, cmd := range app.Commands {
			ref := config.CommandRef{AppInstance: instance, Name: cmd.Name}
			e.commands[ref] = Command{
				AppInstance: instance,
				Name:        cmd.Name,
				Title:       cmd.DisplayTitle(),
				Icon:        cmd.Icon,
				Run:         cmd.Run,
				Shelf:       cmd.Shelf,
				Panel:       cmd.Panel,
			}
		}
	}

	if pattern := strings.TrimSpace(cfg.Templates.Work); pattern != "" {
		tmpl, err := template.Parse(pattern)
		if err != nil {
			return nil, fmt.Errorf("parse work template: %w", err)
		}
		e.work = tmpl
	}
	if pattern := strings.TrimSpace(cfg.Templates.Review); pattern != "" {
		tmpl, err := template.Parse(pattern)
		if err != nil {
			return nil, fmt.Errorf("parse review template: %w", err)
		}
		e.review = tmpl
	}

	return e, nil
}

// Config returns the configuration backing the engine.
func (e *Engine) Config() *config.EngineConfig {
	return e.cfg
}

// Lookup resolves a command reference against the registry.
func (e *Engine) Lookup(ref config.CommandRef) (Command, bool) {
	cmd, ok := e.commands[ref]
	return cmd, ok
}

// Commands returns every registered command sorted by app instance then name.
func (e *Engine) Commands() []Command {
	out := make([]Command, 0, len(e.commands))
	for _, cmd := range e.commands {
		out = append(out, cmd)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AppInstance != out[j].AppInstance {
			return out[i].AppInstance < out[j].AppInstance
		}
		return out[i].Name < out[j].Name
	})
	return out
}
