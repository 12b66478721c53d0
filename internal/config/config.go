// Package config contains the loader and strongly typed model for the engine
// configuration document (engine.yaml).
package config

import "strings"

// EngineSettings holds the flat engine options read at engine startup.
// Boolean fields are pointers so an absent key can be told apart from an
// explicit false and receive its declared default.
type EngineSettings struct {
	// AutomaticContextSwitch controls whether the context re-resolves when the
	// open scene file changes. Defaults to true.
	AutomaticContextSwitch *bool `yaml:"automatic_context_switch,omitempty"`
	// EnableSGMenu controls whether the static command menu is constructed.
	// Defaults to true.
	EnableSGMenu *bool `yaml:"enable_sg_menu,omitempty"`
	// EnableSGShelf controls whether the dynamic command shelf is constructed.
	// Defaults to true.
	EnableSGShelf *bool `yaml:"enable_sg_shelf,omitempty"`
	// DebugLogging toggles debug-level engine logging. Defaults to false.
	DebugLogging *bool `yaml:"debug_logging,omitempty"`
	// MenuFavourites lists commands pinned to the top of the menu, in order.
	MenuFavourites []CommandRef `yaml:"menu_favourites,omitempty"`
	// LaunchBuiltinPlugins lists builtin plugin ids loaded at launch instead
	// of the default bootstrap. Empty keeps the default bootstrap.
	LaunchBuiltinPlugins []string `yaml:"launch_builtin_plugins,omitempty"`
	// RunAtStartup lists commands auto-run at engine startup, in order.
	RunAtStartup []CommandRef `yaml:"run_at_startup,omitempty"`
	// ReviewFieldMatches lists template field values that enable the
	// review-submission affordance. Defaults to [main, beauty, master].
	ReviewFieldMatches []string `yaml:"review_field_matches,omitempty"`
	// ReviewField names the template field inspected for review matching.
	// Empty disables review matching.
	ReviewField string `yaml:"review_field,omitempty"`
}

// CommandRef points at a command registered by a configured app instance.
type CommandRef struct {
	// AppInstance is the app instance name the command belongs to.
	AppInstance string `yaml:"app_instance"`
	// Name is the command name within the app instance.
	Name string `yaml:"name"`
}

// EngineConfig represents the full engine configuration document: the flat
// engine settings plus the app instances, builtin plugins and templates the
// settings refer to.
type EngineConfig struct {
	// Project is the short project name exposed to template rendering.
	Project string `yaml:"project,omitempty"`
	// EnvFiles lists .env files to load before rendering.
	EnvFiles []string `yaml:"env_files,omitempty"`
	// EngineSettings are the flat engine options.
	EngineSettings `yaml:",inline"`
	// Apps defines the configured app instances keyed by instance name.
	Apps map[string]App `yaml:"apps,omitempty"`
	// Plugins defines builtin plugins keyed by plugin id.
	Plugins map[string]Plugin `yaml:"plugins,omitempty"`
	// Templates holds the path templates used for context and review
	// resolution.
	Templates Templates `yaml:"templates,omitempty"`
}

// App describes a single configured app instance and the commands it
// registers with the engine.
type App struct {
	// Description is a short human-readable summary.
	Description string `yaml:"description,omitempty"`
	// Commands lists the commands this app instance registers.
	Commands []AppCommand `yaml:"commands,omitempty"`
}

// AppCommand describes one command registered by an app instance.
type AppCommand struct {
	// Name is the command identifier, unique within the app instance.
	Name string `yaml:"name"`
	// Title is the display label; falls back to Name when empty.
	Title string `yaml:"title,omitempty"`
	// Icon is an optional icon path for menu and shelf entries.
	Icon string `yaml:"icon,omitempty"`
	// Run is the argv executed for startup commands; UI-only commands
	// leave it empty.
	Run []string `yaml:"run,omitempty"`
	// Shelf marks the command for placement on the dynamic shelf.
	Shelf bool `yaml:"shelf,omitempty"`
	// Panel marks the command as opening an embedded panel.
	Panel bool `yaml:"panel,omitempty"`
}

// Plugin describes a builtin plugin that can be selected for launch.
type Plugin struct {
	// Description is a short human-readable summary.
	Description string `yaml:"description,omitempty"`
	// Entry is the plugin entry point script or module.
	Entry string `yaml:"entry,omitempty"`
}

// Templates groups the path templates referenced by the engine.
type Templates struct {
	// Work is the work-file template pattern used for context resolution.
	Work string `yaml:"work,omitempty"`
	// Review is the output template pattern the review field is extracted
	// from.
	Review string `yaml:"review,omitempty"`
}

// Default values applied by ApplyDefaults when keys are absent.
var (
	defaultAutomaticContextSwitch = true
	defaultEnableSGMenu           = true
	defaultEnableSGShelf          = true
	defaultDebugLogging           = false
)

// DefaultReviewFieldMatches is the review_field_matches default.
func DefaultReviewFieldMatches() []string {
	return []string{"main", "beauty", "master"}
}

// ApplyDefaults fills absent settings with their declared defaults.
func (c *EngineConfig) ApplyDefaults() {
	if c.AutomaticContextSwitch == nil {
		v := defaultAutomaticContextSwitch
		c.AutomaticContextSwitch = &v
	}
	if c.EnableSGMenu == nil {
		v := defaultEnableSGMenu
		c.EnableSGMenu = &v
	}
	if c.EnableSGShelf == nil {
		v := defaultEnableSGShelf
		c.EnableSGShelf = &v
	}
	if c.DebugLogging == nil {
		v := defaultDebugLogging
		c.DebugLogging = &v
	}
	if c.ReviewFieldMatches == nil {
		c.ReviewFieldMatches = DefaultReviewFieldMatches()
	}
}

// ContextSwitchEnabled reports the automatic_context_switch setting.
func (s *EngineSettings) ContextSwitchEnabled() bool {
	return s.AutomaticContextSwitch == nil || *s.AutomaticContextSwitch
}

// MenuEnabled reports the enable_sg_menu setting.
func (s *EngineSettings) MenuEnabled() bool {
	return s.EnableSGMenu == nil || *s.EnableSGMenu
}

// ShelfEnabled reports the enable_sg_shelf setting.
func (s *EngineSettings) ShelfEnabled() bool {
	return s.EnableSGShelf == nil || *s.EnableSGShelf
}

// DebugLoggingEnabled reports the debug_logging setting.
func (s *EngineSettings) DebugLoggingEnabled() bool {
	return s.DebugLogging != nil && *s.DebugLogging
}

// Command looks up a command definition by app instance and name.
func (c *EngineConfig) Command(ref CommandRef) (AppCommand, bool) {
	app, ok := c.Apps[ref.AppInstance]
	if !ok {
		return AppCommand{}, false
	}
	for _, cmd := range app.Commands {
		if cmd.Name == ref.Name {
			return cmd, true
		}
	}
	return AppCommand{}, false
}

// DisplayTitle returns the command display label.
func (c AppCommand) DisplayTitle() string {
	if strings.TrimSpace(c.Title) != "" {
		return c.Title
	}
	return c.Name
}
