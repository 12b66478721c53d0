package collector_test

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vfx-pipeline/houdinictl/internal/collector"
	"github.com/vfx-pipeline/houdinictl/internal/config"
	"github.com/vfx-pipeline/houdinictl/internal/engine"
	"github.com/vfx-pipeline/houdinictl/internal/logging"
)

// newCollector builds a collector over the given config with a silent logger.
func newCollector(t *testing.T, cfg *config.EngineConfig) *collector.Collector {
	t.Helper()
	cfg.ApplyDefaults()
	eng, err := engine.New(cfg, logging.NewLogger(io.Discard, logging.LevelError))
	require.NoError(t, err)
	return collector.New(eng, logging.NewLogger(io.Discard, logging.LevelError))
}

// touch creates an empty file, including parent directories.
func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, nil, 0o644))
}

func TestCollectSessionItem(t *testing.T) {
	c := newCollector(t, &config.EngineConfig{
		Templates: config.Templates{Work: "work/{name}.v{version}.hip"},
	})

	items, err := c.Collect(&collector.Session{Scene: "/proj/work/scene.v003.hip"})
	require.NoError(t, err)
	require.Len(t, items, 1)

	assert.Equal(t, "houdini.session", items[0].Type)
	assert.Equal(t, "scene.v003.hip", items[0].Name)
	assert.Equal(t, "work/{name}.v{version}.hip", items[0].Properties["work_template"])
}

func TestCollectUnsavedSession(t *testing.T) {
	c := newCollector(t, &config.EngineConfig{})

	items, err := c.Collect(&collector.Session{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Current Houdini Session", items[0].Name)
	assert.Empty(t, items[0].Path)
}

func TestCollectSkipsMissingOutputs(t *testing.T) {
	c := newCollector(t, &config.EngineConfig{})

	items, err := c.Collect(&collector.Session{
		Scene: "/proj/scene.hip",
		Nodes: []collector.Node{{
			Category: "rop",
			Type:     "alembic",
			Path:     "/out/alembic1",
			Parms:    map[string]string{"filename": "/nonexistent/geo.abc"},
		}},
	})
	require.NoError(t, err)
	assert.Len(t, items, 1) // session item only
}

func TestCollectPlainNodeOutput(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "geo.abc")
	touch(t, out)

	c := newCollector(t, &config.EngineConfig{})

	items, err := c.Collect(&collector.Session{
		Scene: "/proj/scene.hip",
		Nodes: []collector.Node{{
			Category: "rop",
			Type:     "alembic",
			Path:     "/out/alembic1",
			Parms:    map[string]string{"filename": out},
		}},
	})
	require.NoError(t, err)
	require.Len(t, items, 2)

	item := items[1]
	assert.Equal(t, "file.alembic", item.Type)
	assert.Equal(t, "geo.abc (/out/alembic1)", item.Name)
	assert.Equal(t, out, item.Path)
	assert.False(t, item.FrameSequence)
}

func TestCollectAppNodeSuppressesPlainType(t *testing.T) {
	dir := t.TempDir()
	tkOut := filepath.Join(dir, "tk_geo.abc")
	plainOut := filepath.Join(dir, "plain_geo.abc")
	touch(t, tkOut)
	touch(t, plainOut)

	c := newCollector(t, &config.EngineConfig{
		Apps: map[string]config.App{"tk-houdini-alembicnode": {}},
	})

	items, err := c.Collect(&collector.Session{
		Scene: "/proj/scene.hip",
		Nodes: []collector.Node{
			{
				Category: "rop",
				Type:     "alembic",
				Path:     "/out/sgtk_alembic1",
				App:      "tk-houdini-alembicnode",
				Parms:    map[string]string{"filename": tkOut},
			},
			{
				Category: "rop",
				Type:     "alembic",
				Path:     "/out/alembic1",
				Parms:    map[string]string{"filename": plainOut},
			},
		},
	})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "/out/sgtk_alembic1", items[1].Node)
}

func TestCollectSkipsUnconfiguredAppNodes(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "geo.abc")
	touch(t, out)

	c := newCollector(t, &config.EngineConfig{})

	items, err := c.Collect(&collector.Session{
		Scene: "/proj/scene.hip",
		Nodes: []collector.Node{{
			Category: "rop",
			Type:     "alembic",
			Path:     "/out/sgtk_alembic1",
			App:      "tk-houdini-alembicnode",
			Parms:    map[string]string{"filename": out},
		}},
	})
	require.NoError(t, err)
	assert.Len(t, items, 1) // session item only
}

func TestCollectFrameSequence(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "render.1001.exr"))
	pattern := filepath.Join(dir, "render.$F4.exr")

	c := newCollector(t, &config.EngineConfig{})

	items, err := c.Collect(&collector.Session{
		Scene: "/proj/scene.hip",
		Nodes: []collector.Node{{
			Category:   "rop",
			Type:       "ifd",
			Path:       "/out/mantra1",
			Parms:      map[string]string{"vm_picture": pattern},
			FirstFrame: 1001,
			LastFrame:  1050,
		}},
	})
	require.NoError(t, err)
	require.Len(t, items, 2)

	item := items[1]
	assert.True(t, item.FrameSequence)
	assert.Equal(t, "file.image.sequence", item.Type)
	assert.Equal(t, "1001", item.Properties["first_frame"])
	assert.Equal(t, "1050", item.Properties["last_frame"])
}

func TestCollectMarksReviewItems(t *testing.T) {
	dir := t.TempDir()
	beauty := filepath.Join(dir, "renders", "sh010", "beauty", "img.exr")
	depth := filepath.Join(dir, "renders", "sh010", "depth", "img.exr")
	touch(t, beauty)
	touch(t, depth)

	c := newCollector(t, &config.EngineConfig{
		EngineSettings: config.EngineSettings{ReviewField: "output"},
		Templates:      config.Templates{Review: "renders/{shot}/{output}/{name}.{ext}"},
	})

	items, err := c.Collect(&collector.Session{
		Scene: "/proj/scene.hip",
		Nodes: []collector.Node{
			{
				Category: "rop",
				Type:     "opengl",
				Path:     "/out/opengl1",
				Parms:    map[string]string{"picture": beauty},
			},
			{
				Category: "rop",
				Type:     "comp",
				Path:     "/out/comp1",
				Parms:    map[string]string{"copoutput": depth},
			},
		},
	})
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.True(t, items[1].Review)
	assert.False(t, items[2].Review)
}

func TestLoadSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
scene: /proj/shots/sh010/work/anim_scene.v003.hip
nodes:
  - category: rop
    type: alembic
    path: /out/alembic1
    parms:
      filename: /proj/cache/geo.abc
    first_frame: 1001
    last_frame: 1050
`), 0o644))

	sess, err := collector.LoadSession(path)
	require.NoError(t, err)
	assert.Equal(t, "/proj/shots/sh010/work/anim_scene.v003.hip", sess.Scene)
	require.Len(t, sess.Nodes, 1)
	assert.Equal(t, "alembic", sess.Nodes[0].Type)
	assert.Equal(t, 1001, sess.Nodes[0].FirstFrame)
}

func TestLoadSessionMissing(t *testing.T) {
	_, err := collector.LoadSession(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
