// Package collector gathers publishable items from a Houdini session
// description: the scene file itself plus the outputs written by the
// session's render and cache nodes.
package collector

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Session describes the state of a Houdini session as captured by the host:
// the scene file path and the output nodes present in the scene.
type Session struct {
	// Scene is the path of the open scene file; empty for an unsaved session.
	Scene string `yaml:"scene,omitempty"`
	// Nodes lists the output nodes in the scene.
	Nodes []Node `yaml:"nodes,omitempty"`
}

// Node is a single output node in the session.
type Node struct {
	// Category is the node category (e.g. "rop").
	Category string `yaml:"category"`
	// Type is the node type name (alembic, fbx, ifd, comp, opengl, wren,
	// cache, usd).
	Type string `yaml:"type"`
	// Path is the node path inside the scene (e.g. "/out/alembic1").
	Path string `yaml:"path"`
	// App names the toolkit app instance owning the node; empty for plain
	// Houdini nodes.
	App string `yaml:"app,omitempty"`
	// Parms holds evaluated parameter values keyed by parameter name.
	Parms map[string]string `yaml:"parms,omitempty"`
	// FirstFrame is the first frame of the node's output range.
	FirstFrame int `yaml:"first_frame,omitempty"`
	// LastFrame is the last frame of the node's output range.
	LastFrame int `yaml:"last_frame,omitempty"`
}

// LoadSession reads and parses a session document.
func LoadSession(path string) (*Session, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read session %q: %w", path, err)
	}

	var sess Session
	if err := yaml.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("parse session %q: %w", path, err)
	}
	return &sess, nil
}
