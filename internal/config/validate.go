package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vfx-pipeline/houdinictl/internal/template"
)

// ValidationError aggregates every problem found in an engine document so a
// single validate run reports the full picture.
type ValidationError struct {
	// Issues lists human-readable descriptions of each violation.
	Issues []string
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Issues) == 0 {
		return "engine config is invalid"
	}
	return fmt.Sprintf("engine config has %d issue(s): %s", len(e.Issues), strings.Join(e.Issues, "; "))
}

// IsValidationError reports whether err carries engine config validation issues.
func IsValidationError(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// Validate checks cross-references and template patterns in the document.
// It returns a *ValidationError listing every violation, or nil.
func (c *EngineConfig) Validate() error {
	var issues []string

	issues = append(issues, c.validateRefs("menu_favourites", c.MenuFavourites)...)
	issues = append(issues, c.validateRefs("run_at_startup", c.RunAtStartup)...)

	seenPlugins := make(map[string]struct{}, len(c.LaunchBuiltinPlugins))
	for i, id := range c.LaunchBuiltinPlugins {
		if strings.TrimSpace(id) == "" {
			issues = append(issues, fmt.Sprintf("launch_builtin_plugins[%d]: plugin id is empty", i))
			continue
		}
		if _, dup := seenPlugins[id]; dup {
			issues = append(issues, fmt.Sprintf("launch_builtin_plugins[%d]: duplicate plugin %q", i, id))
			continue
		}
		seenPlugins[id] = struct{}{}
		if _, ok := c.Plugins[id]; !ok {
			issues = append(issues, fmt.Sprintf("launch_builtin_plugins[%d]: plugin %q is not defined", i, id))
		}
	}

	if pattern := strings.TrimSpace(c.Templates.Work); pattern != "" {
		if _, err := template.Parse(pattern); err != nil {
			issues = append(issues, fmt.Sprintf("templates.work: %v", err))
		}
	}

	if field := strings.TrimSpace(c.ReviewField); field != "" {
		pattern := strings.TrimSpace(c.Templates.Review)
		if pattern == "" {
			issues = append(issues, fmt.Sprintf("review_field %q is set but templates.review is not defined", field))
		} else if tmpl, err := template.Parse(pattern); err != nil {
			issues = append(issues, fmt.Sprintf("templates.review: %v", err))
		} else if !tmpl.HasField(field) {
			issues = append(issues, fmt.Sprintf("review_field %q is not a field of templates.review %q", field, pattern))
		}
	}

	for name, app := range c.Apps {
		seen := make(map[string]struct{}, len(app.Commands))
		for i, cmd := range app.Commands {
			if strings.TrimSpace(cmd.Name) == "" {
				issues = append(issues, fmt.Sprintf("apps.%s.commands[%d]: name is empty", name, i))
				continue
			}
			if _, dup := seen[cmd.Name]; dup {
				issues = append(issues, fmt.Sprintf("apps.%s: duplicate command %q", name, cmd.Name))
			}
			seen[cmd.Name] = struct{}{}
		}
	}

	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}

// validateRefs checks that every command reference in a settings list carries
// non-empty values and points at a configured app instance.
func (c *EngineConfig) validateRefs(key string, refs []CommandRef) []string {
	var issues []string
	for i, ref := range refs {
		if strings.TrimSpace(ref.AppInstance) == "" {
			issues = append(issues, fmt.Sprintf("%s[%d]: app_instance is empty", key, i))
			continue
		}
		if strings.TrimSpace(ref.Name) == "" {
			issues = append(issues, fmt.Sprintf("%s[%d]: name is empty", key, i))
			continue
		}
		if _, ok := c.Apps[ref.AppInstance]; !ok {
			issues = append(issues, fmt.Sprintf("%s[%d]: app instance %q is not defined", key, i, ref.AppInstance))
		}
	}
	return issues
}
