package engine

import "fmt"

// PluginLaunch describes one builtin plugin selected for engine launch.
type PluginLaunch struct {
	// ID is the plugin identifier.
	ID string
	// Entry is the plugin entry point.
	Entry string
}

// LaunchPlan returns the builtin plugins to load at engine launch.
// A non-empty launch_builtin_plugins list replaces the default bootstrap
// entirely, in declared order; an empty list returns nil, meaning the default
// bootstrap applies.
func (e *Engine) LaunchPlan() ([]PluginLaunch, error) {
	if len(e.cfg.LaunchBuiltinPlugins) == 0 {
		return nil, nil
	}

	out := make([]PluginLaunch, 0, len(e.cfg.LaunchBuiltinPlugins))
	for _, id := range e.cfg.LaunchBuiltinPlugins {
		plugin, ok := e.cfg.Plugins[id]
		if !ok {
			return nil, fmt.Errorf("builtin plugin %q is not defined", id)
		}
		out = append(out, PluginLaunch{ID: id, Entry: plugin.Entry})
	}
	return out, nil
}
