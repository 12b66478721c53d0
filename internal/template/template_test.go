package template_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vfx-pipeline/houdinictl/internal/template"
)

func TestParseAndFields(t *testing.T) {
	tmpl, err := template.Parse("shots/{shot}/work/{name}.v{version}.hip")
	require.NoError(t, err)

	assert.Equal(t, []string{"shot", "name", "version"}, tmpl.FieldNames())
	assert.True(t, tmpl.HasField("shot"))
	assert.False(t, tmpl.HasField("step"))

	fields, err := tmpl.Fields("/projects/demo/shots/sh010/work/scene.v003.hip")
	require.NoError(t, err)
	assert.Equal(t, "sh010", fields["shot"])
	assert.Equal(t, "scene", fields["name"])
	assert.Equal(t, "003", fields["version"])
}

func TestFieldsMatchesPathSuffix(t *testing.T) {
	tmpl, err := template.Parse("work/{name}.hip")
	require.NoError(t, err)

	fields, err := tmpl.Fields("/mnt/proj/work/scene.hip")
	require.NoError(t, err)
	assert.Equal(t, "scene", fields["name"])

	// A partial component must not match.
	_, err = tmpl.Fields("/mnt/proj/nonwork/scene.hip")
	require.Error(t, err)
}

func TestFieldsMismatch(t *testing.T) {
	tmpl, err := template.Parse("shots/{shot}/work/{name}.hip")
	require.NoError(t, err)

	_, err = tmpl.Fields("/projects/demo/assets/tree/work/scene.hip")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not match")
}

func TestFieldsStopAtSeparators(t *testing.T) {
	tmpl, err := template.Parse("work/{step}_{name}.v{version}.hip")
	require.NoError(t, err)

	fields, err := tmpl.Fields("/proj/work/anim_scene.v001.hip")
	require.NoError(t, err)
	assert.Equal(t, "anim", fields["step"])
	assert.Equal(t, "scene", fields["name"])
	assert.Equal(t, "001", fields["version"])
}

func TestApply(t *testing.T) {
	tmpl, err := template.Parse("shots/{shot}/work/{name}.v{version}.hip")
	require.NoError(t, err)

	path, err := tmpl.Apply(map[string]string{
		"shot":    "sh020",
		"name":    "lighting",
		"version": "012",
	})
	require.NoError(t, err)
	assert.Equal(t, "shots/sh020/work/lighting.v012.hip", path)
}

func TestApplyMissingFields(t *testing.T) {
	tmpl, err := template.Parse("shots/{shot}/{name}.hip")
	require.NoError(t, err)

	_, err = tmpl.Apply(map[string]string{"shot": "sh010"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name")
}

func TestParseErrors(t *testing.T) {
	_, err := template.Parse("")
	require.Error(t, err)

	_, err = template.Parse("shots/{shot}/{shot}.hip")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate field")

	_, err = template.Parse("shots/{shot/work.hip")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed")
}
