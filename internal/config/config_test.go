package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vfx-pipeline/houdinictl/internal/config"
	"github.com/vfx-pipeline/houdinictl/internal/env"
)

// writeConfig drops a config document into a temp dir and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "engine.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesBooleanDefaults(t *testing.T) {
	path := writeConfig(t, "project: demo\n")

	cfg, ctx, err := config.LoadEngineConfig(path, config.LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, "demo", ctx.Project)
	assert.True(t, cfg.ContextSwitchEnabled())
	assert.True(t, cfg.MenuEnabled())
	assert.True(t, cfg.ShelfEnabled())
	assert.False(t, cfg.DebugLoggingEnabled())
}

func TestLoadKeepsExplicitBooleans(t *testing.T) {
	path := writeConfig(t, `
project: demo
automatic_context_switch: false
enable_sg_menu: false
enable_sg_shelf: false
debug_logging: true
`)

	cfg, _, err := config.LoadEngineConfig(path, config.LoadOptions{})
	require.NoError(t, err)

	assert.False(t, cfg.ContextSwitchEnabled())
	assert.False(t, cfg.MenuEnabled())
	assert.False(t, cfg.ShelfEnabled())
	assert.True(t, cfg.DebugLoggingEnabled())
}

func TestLoadAppliesListDefaults(t *testing.T) {
	path := writeConfig(t, "project: demo\n")

	cfg, _, err := config.LoadEngineConfig(path, config.LoadOptions{})
	require.NoError(t, err)

	assert.Empty(t, cfg.MenuFavourites)
	assert.Empty(t, cfg.LaunchBuiltinPlugins)
	assert.Empty(t, cfg.RunAtStartup)
	assert.Equal(t, []string{"main", "beauty", "master"}, cfg.ReviewFieldMatches)
	assert.Equal(t, "", cfg.ReviewField)
}

func TestLoadReviewMatchesOverriddenWholesale(t *testing.T) {
	path := writeConfig(t, `
project: demo
review_field_matches: [left, right]
`)

	cfg, _, err := config.LoadEngineConfig(path, config.LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"left", "right"}, cfg.ReviewFieldMatches)
}

func TestLoadExplicitEmptyReviewMatches(t *testing.T) {
	path := writeConfig(t, `
project: demo
review_field_matches: []
`)

	cfg, _, err := config.LoadEngineConfig(path, config.LoadOptions{})
	require.NoError(t, err)
	assert.Empty(t, cfg.ReviewFieldMatches)
}

func TestLoadRendersTemplates(t *testing.T) {
	path := writeConfig(t, `
project: {{ envOr "HCTL_TEST_PROJECT" "fallback" }}
review_field: {{ default .Context "main" }}
`)

	cfg, _, err := config.LoadEngineConfig(path, config.LoadOptions{
		UserVars: env.Vars{"HCTL_TEST_PROJECT": "atlantis"},
	})
	require.NoError(t, err)
	assert.Equal(t, "atlantis", cfg.Project)
	assert.Equal(t, "main", cfg.ReviewField)
}

func TestLoadMergesEnvFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pipeline.env"), []byte("HCTL_SHOW=borealis\n"), 0o644))

	path := filepath.Join(dir, "engine.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
env_files: [pipeline.env]
project: {{ envOr "HCTL_SHOW" "unknown" }}
`), 0o644))

	cfg, _, err := config.LoadEngineConfig(path, config.LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, "borealis", cfg.Project)
}

func TestRenderTemplateSharesContext(t *testing.T) {
	path := writeConfig(t, "project: demo\n")

	_, tctx, err := config.LoadEngineConfig(path, config.LoadOptions{Context: "sh010/anim"})
	require.NoError(t, err)

	out, err := config.RenderTemplate("wrapper.sh", []byte(
		`exec hython --project {{ .Project }} --context {{ default .Context "main" }}`), tctx)
	require.NoError(t, err)
	assert.Equal(t, "exec hython --project demo --context sh010/anim", string(out))
}

func TestRenderTemplateReportsBadSyntax(t *testing.T) {
	_, err := config.RenderTemplate("broken", []byte(`{{ envOr }}`), config.TemplateContext{})
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, _, err := config.LoadEngineConfig(filepath.Join(t.TempDir(), "missing.yaml"), config.LoadOptions{})
	require.Error(t, err)
}

func TestValidateReportsEveryIssue(t *testing.T) {
	cfg := &config.EngineConfig{
		EngineSettings: config.EngineSettings{
			MenuFavourites: []config.CommandRef{
				{AppInstance: "", Name: "open"},
				{AppInstance: "tk-multi-workfiles2", Name: ""},
				{AppInstance: "missing-app", Name: "open"},
			},
			RunAtStartup: []config.CommandRef{
				{AppInstance: "missing-app", Name: "sync"},
			},
			LaunchBuiltinPlugins: []string{"ghost"},
		},
	}
	cfg.ApplyDefaults()

	err := cfg.Validate()
	require.Error(t, err)
	require.True(t, config.IsValidationError(err))

	verr, ok := err.(*config.ValidationError)
	require.True(t, ok)
	assert.Len(t, verr.Issues, 5)
}

func TestValidateReviewFieldNeedsReviewTemplate(t *testing.T) {
	cfg := &config.EngineConfig{
		EngineSettings: config.EngineSettings{ReviewField: "output"},
	}
	cfg.ApplyDefaults()

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "templates.review")
}

func TestValidateReviewFieldMustExistInTemplate(t *testing.T) {
	cfg := &config.EngineConfig{
		EngineSettings: config.EngineSettings{ReviewField: "output"},
		Templates:      config.Templates{Review: "renders/{shot}/{name}.exr"},
	}
	cfg.ApplyDefaults()

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `review_field "output"`)
}

func TestValidateDuplicatePlugins(t *testing.T) {
	cfg := &config.EngineConfig{
		EngineSettings: config.EngineSettings{
			LaunchBuiltinPlugins: []string{"basic", "basic"},
		},
		Plugins: map[string]config.Plugin{
			"basic": {Entry: "basic/engine_init.py"},
		},
	}
	cfg.ApplyDefaults()

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate plugin "basic"`)
}

func TestValidateDuplicateCommands(t *testing.T) {
	cfg := &config.EngineConfig{
		Apps: map[string]config.App{
			"tk-multi-publish2": {Commands: []config.AppCommand{
				{Name: "publish"},
				{Name: "publish"},
			}},
		},
	}
	cfg.ApplyDefaults()

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate command")
}

func TestValidateAcceptsResolvableConfig(t *testing.T) {
	cfg := &config.EngineConfig{
		EngineSettings: config.EngineSettings{
			MenuFavourites: []config.CommandRef{
				{AppInstance: "tk-multi-workfiles2", Name: "file_open"},
			},
			RunAtStartup: []config.CommandRef{
				{AppInstance: "tk-multi-workfiles2", Name: "file_open"},
			},
			LaunchBuiltinPlugins: []string{"basic"},
			ReviewField:          "output",
		},
		Apps: map[string]config.App{
			"tk-multi-workfiles2": {Commands: []config.AppCommand{{Name: "file_open"}}},
		},
		Plugins: map[string]config.Plugin{
			"basic": {Entry: "basic/engine_init.py"},
		},
		Templates: config.Templates{
			Work:   "shots/{shot}/work/{name}.v{version}.hip",
			Review: "renders/{shot}/{output}/{name}.exr",
		},
	}
	cfg.ApplyDefaults()

	require.NoError(t, cfg.Validate())
}
