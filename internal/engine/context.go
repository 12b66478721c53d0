package engine

import (
	"fmt"
	"strings"
)

// Context is the production entity associated with an open scene file,
// derived from the work template fields.
type Context struct {
	// Project is the project name.
	Project string
	// Entity is the shot or asset name, when the work template declares one.
	Entity string
	// Step is the pipeline step, when the work template declares one.
	Step string
	// Fields holds every field extracted from the scene path.
	Fields map[string]string
}

// String renders the context as "project / entity / step", omitting empty parts.
func (c Context) String() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{c.Project, c.Entity, c.Step} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return "no context"
	}
	return strings.Join(parts, " / ")
}

// Equal reports whether two contexts refer to the same production entity.
func (c Context) Equal(other Context) bool {
	return c.Project == other.Project && c.Entity == other.Entity && c.Step == other.Step
}

// ResolveContext derives the context for a scene file path using the work
// template. The entity comes from a "shot" or "asset" field, the step from a
// "step" field, when the template declares them.
func (e *Engine) ResolveContext(scenePath string) (Context, error) {
	ctx := Context{Project: e.cfg.Project}

	if e.work == nil {
		return ctx, fmt.Errorf("no work template configured, cannot resolve context for %q", scenePath)
	}

	fields, err := e.work.Fields(scenePath)
	if err != nil {
		return ctx, fmt.Errorf("resolve context: %w", err)
	}

	ctx.Fields = fields
	if v, ok := fields["shot"]; ok {
		ctx.Entity = v
	} else if v, ok := fields["asset"]; ok {
		ctx.Entity = v
	}
	if v, ok := fields["step"]; ok {
		ctx.Step = v
	}
	return ctx, nil
}
