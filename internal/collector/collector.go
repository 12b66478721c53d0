package collector

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/vfx-pipeline/houdinictl/internal/engine"
)

// outputParms maps rop node types to the parameter carrying the output path.
var outputParms = map[string]string{
	"alembic": "filename",
	"fbx":     "filename",
	"comp":    "copoutput",
	"ifd":     "vm_picture",
	"opengl":  "picture",
	"wren":    "wr_picture",
	"cache":   "file",
	"usd":     "lopoutput",
}

// frameToken matches $F-style and printf-style frame number tokens.
var frameToken = regexp.MustCompile(`\$F(\d*)|%(\d*)d`)

// Item is a single collected publish candidate.
type Item struct {
	// Type is the item type (houdini.session, file.alembic, ...).
	Type string `yaml:"type"`
	// Name is the display name shown in the publish UI.
	Name string `yaml:"name"`
	// Path is the file path backing the item; empty for the session item of
	// an unsaved scene.
	Path string `yaml:"path,omitempty"`
	// Node is the originating node path, when collected from a node.
	Node string `yaml:"node,omitempty"`
	// FrameSequence marks outputs that are image or cache sequences.
	FrameSequence bool `yaml:"frame_sequence,omitempty"`
	// Review marks items qualifying for review submission.
	Review bool `yaml:"review,omitempty"`
	// Properties carries extra item metadata for publish plugins.
	Properties map[string]string `yaml:"properties,omitempty"`
}

// Collector walks a session and produces publish items according to the
// engine configuration.
type Collector struct {
	eng    *engine.Engine
	logger *slog.Logger
	review *engine.ReviewMatcher
}

// New constructs a Collector for the given engine.
func New(eng *engine.Engine, logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{eng: eng, logger: logger, review: eng.ReviewMatcher()}
}

// Collect produces the publish items for a session: the session item first,
// then toolkit-owned node outputs, then remaining plain node outputs.
// Node types already collected through a toolkit app are not collected again
// from plain nodes.
func (c *Collector) Collect(sess *Session) ([]Item, error) {
	if sess == nil {
		return nil, fmt.Errorf("session is nil")
	}

	items := []Item{c.collectSession(sess)}

	collectedTypes := make(map[string]struct{})
	for _, node := range sess.Nodes {
		if node.App == "" {
			continue
		}
		item, ok := c.collectAppNode(node)
		if !ok {
			continue
		}
		items = append(items, item)
		collectedTypes[node.Type] = struct{}{}
	}

	for _, node := range sess.Nodes {
		if node.App != "" {
			continue
		}
		if _, done := collectedTypes[node.Type]; done {
			c.logger.Debug("skipping plain node collection, type already collected via toolkit app",
				"type", node.Type, "node", node.Path)
			continue
		}
		item, ok := c.collectPlainNode(node)
		if !ok {
			continue
		}
		items = append(items, item)
	}

	return items, nil
}

// collectSession creates the item representing the scene file itself.
func (c *Collector) collectSession(sess *Session) Item {
	name := "Current Houdini Session"
	if sess.Scene != "" {
		name = filepath.Base(sess.Scene)
	}

	item := Item{
		Type: "houdini.session",
		Name: name,
		Path: sess.Scene,
	}

	if work := strings.TrimSpace(c.eng.Config().Templates.Work); work != "" {
		item.Properties = map[string]string{"work_template": work}
		c.logger.Debug("work template attached to session item", "template", work)
	}

	c.logger.Info("collected current houdini session", "name", name)
	return item
}

// collectAppNode collects the output of a toolkit-owned node. The owning app
// instance must be configured, and the output must exist on disk.
func (c *Collector) collectAppNode(node Node) (Item, bool) {
	if _, ok := c.eng.Config().Apps[node.App]; !ok {
		c.logger.Debug("app instance not configured, skipping node collection",
			"app_instance", node.App, "node", node.Path)
		return Item{}, false
	}

	out, ok := c.nodeOutput(node)
	if !ok {
		return Item{}, false
	}

	c.logger.Info("processing toolkit node", "app_instance", node.App, "node", node.Path)
	return c.buildItem(node, out), true
}

// collectPlainNode collects the output of a plain Houdini node with a known
// output parameter.
func (c *Collector) collectPlainNode(node Node) (Item, bool) {
	if _, known := outputParms[node.Type]; !known {
		c.logger.Debug("unknown output node type, skipping", "type", node.Type, "node", node.Path)
		return Item{}, false
	}

	out, ok := c.nodeOutput(node)
	if !ok {
		return Item{}, false
	}

	c.logger.Info("processing node", "type", node.Type, "node", node.Path)
	return c.buildItem(node, out), true
}

// nodeOutput reads the node's output path parameter and checks the file
// exists, resolving frame tokens with the first frame.
func (c *Collector) nodeOutput(node Node) (string, bool) {
	parm, known := outputParms[node.Type]
	if !known {
		return "", false
	}

	out := strings.TrimSpace(node.Parms[parm])
	if out == "" {
		c.logger.Debug("node has no output path", "node", node.Path, "parm", parm)
		return "", false
	}

	probe := out
	if isFrameSequence(out) {
		probe = resolveFrameTokens(out, node.FirstFrame)
	}
	if _, err := os.Stat(probe); err != nil {
		c.logger.Debug("output does not exist on disk, skipping", "node", node.Path, "path", probe)
		return "", false
	}
	return out, true
}

// buildItem assembles the publish item for a node output.
func (c *Collector) buildItem(node Node, out string) Item {
	seq := isFrameSequence(out)

	item := Item{
		Type:          itemType(out, seq),
		Name:          fmt.Sprintf("%s (%s)", filepath.Base(out), node.Path),
		Path:          out,
		Node:          node.Path,
		FrameSequence: seq,
	}

	props := make(map[string]string)
	if work := strings.TrimSpace(c.eng.Config().Templates.Work); work != "" {
		props["work_template"] = work
	}
	if seq && node.LastFrame >= node.FirstFrame {
		props["first_frame"] = fmt.Sprintf("%d", node.FirstFrame)
		props["last_frame"] = fmt.Sprintf("%d", node.LastFrame)
	}
	if len(props) > 0 {
		item.Properties = props
	}

	if c.review.Matches(out) {
		item.Review = true
		c.logger.Debug("review submission enabled for item", "path", out)
	}

	return item
}

// isFrameSequence reports whether the path carries a frame number token.
func isFrameSequence(path string) bool {
	return frameToken.MatchString(path)
}

// resolveFrameTokens substitutes frame tokens with a concrete frame number,
// honouring the token's padding width.
func resolveFrameTokens(path string, frame int) string {
	return frameToken.ReplaceAllStringFunc(path, func(tok string) string {
		width := 0
		switch {
		case strings.HasPrefix(tok, "$F"):
			if len(tok) > 2 {
				fmt.Sscanf(tok[2:], "%d", &width)
			}
		default: // %0Nd form
			digits := strings.TrimSuffix(strings.TrimPrefix(tok, "%"), "d")
			if digits != "" {
				fmt.Sscanf(strings.TrimPrefix(digits, "0"), "%d", &width)
			}
		}
		if width > 0 {
			return fmt.Sprintf("%0*d", width, frame)
		}
		return fmt.Sprintf("%d", frame)
	})
}

// itemType derives the publish item type from the output file extension.
func itemType(path string, seq bool) string {
	base := "file.generic"
	switch strings.ToLower(filepath.Ext(strings.TrimSpace(path))) {
	case ".abc":
		base = "file.alembic"
	case ".fbx":
		base = "file.fbx"
	case ".usd", ".usda", ".usdc":
		base = "file.usd"
	case ".exr", ".jpg", ".jpeg", ".png", ".pic", ".tif", ".tiff":
		base = "file.image"
	case ".mov", ".mp4":
		base = "file.video"
	}
	if seq && base == "file.image" {
		return base + ".sequence"
	}
	return base
}
