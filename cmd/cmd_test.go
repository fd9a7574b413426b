package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/marklet/internal/errors"
)

// writeCmdComponent drops a small valid component file into dir.
func writeCmdComponent(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))

	source := fmt.Sprintf(`<!--
name: %s
title: %s widget
version: 1.0.0
-->
<style>
  .%s { color: red; }
</style>
<script>
  void 0;
</script>
<template>
  <div class="%s">hi</div>
</template>
`, name, name, name, name)

	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".html"), []byte(source), 0o644))
}

func resetBuildFlags() {
	buildOutput = ""
	buildMinify = true
	buildNoMinify = false
	buildCompress = false
	buildAnalyze = false
	buildClean = false
	buildWorkers = 0
}

func TestInitCommand(t *testing.T) {
	t.Chdir(t.TempDir())

	initMinimal = false
	initForce = false
	initAuthor = ""

	require.NoError(t, runInit(&cobra.Command{}, []string{}))

	assert.FileExists(t, ".marklet.yml")
	assert.DirExists(t, "components")
	assert.FileExists(t, filepath.Join("components", "hello-note.html"))
	assert.FileExists(t, "README.md")
}

func TestInitCommandWithDirectory(t *testing.T) {
	t.Chdir(t.TempDir())

	initMinimal = false
	initForce = false

	require.NoError(t, runInit(&cobra.Command{}, []string{"my-marklets"}))

	assert.FileExists(t, filepath.Join("my-marklets", ".marklet.yml"))
	assert.FileExists(t, filepath.Join("my-marklets", "components", "hello-note.html"))
}

func TestInitCommandMinimal(t *testing.T) {
	t.Chdir(t.TempDir())

	initMinimal = true
	initForce = false
	t.Cleanup(func() { initMinimal = false })

	require.NoError(t, runInit(&cobra.Command{}, []string{}))

	assert.FileExists(t, ".marklet.yml")
	assert.DirExists(t, "components")
	assert.NoFileExists(t, filepath.Join("components", "hello-note.html"))
	assert.NoFileExists(t, "README.md")
}

func TestBuildCommand(t *testing.T) {
	t.Chdir(t.TempDir())
	viper.Reset()

	writeCmdComponent(t, "components", "clock")

	resetBuildFlags()
	buildCmd.SetContext(context.Background())

	require.NoError(t, runBuild(buildCmd, []string{}))

	assert.FileExists(t, filepath.Join("dist", "bookmarklet.js"))
	assert.FileExists(t, filepath.Join("dist", "bookmarklet.uri.txt"))
	assert.FileExists(t, filepath.Join("dist", "install.html"))
	assert.NoFileExists(t, filepath.Join("dist", "manifest.json"))
}

func TestBuildCommandAnalyze(t *testing.T) {
	t.Chdir(t.TempDir())
	viper.Reset()

	writeCmdComponent(t, "components", "clock")

	resetBuildFlags()
	buildAnalyze = true
	t.Cleanup(resetBuildFlags)
	buildCmd.SetContext(context.Background())

	require.NoError(t, runBuild(buildCmd, []string{}))

	assert.FileExists(t, filepath.Join("dist", "manifest.json"))
}

func TestBuildCommandUnknownTarget(t *testing.T) {
	t.Chdir(t.TempDir())
	viper.Reset()

	writeCmdComponent(t, "components", "clock")

	resetBuildFlags()
	buildCmd.SetContext(context.Background())

	err := runBuild(buildCmd, []string{"ghost"})
	require.Error(t, err)
	me, ok := errors.AsMarkletError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeComponentNotFound, me.Code)
}

func TestBuildCommandNoComponents(t *testing.T) {
	t.Chdir(t.TempDir())
	viper.Reset()

	require.NoError(t, os.MkdirAll("components", 0o755))

	resetBuildFlags()
	buildCmd.SetContext(context.Background())

	err := runBuild(buildCmd, []string{})
	require.Error(t, err)
	me, ok := errors.AsMarkletError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeNoComponents, me.Code)
}

func TestListCommandEmpty(t *testing.T) {
	t.Chdir(t.TempDir())
	viper.Reset()

	require.NoError(t, os.MkdirAll("components", 0o755))

	listFlags.Format = "table"
	listWithMeta = false
	listWithSizes = false

	require.NoError(t, runList(listCmd, []string{}))
}

func TestListCommandFormats(t *testing.T) {
	t.Chdir(t.TempDir())
	viper.Reset()

	writeCmdComponent(t, "components", "clock")
	writeCmdComponent(t, "components", "timer")

	listWithMeta = true
	listWithSizes = true
	t.Cleanup(func() {
		listWithMeta = false
		listWithSizes = false
	})

	for _, format := range []string{"table", "json", "yaml", "csv"} {
		listFlags.Format = format
		require.NoError(t, runList(listCmd, []string{}), "format %s", format)
	}

	listFlags.Format = "bogus"
	require.Error(t, runList(listCmd, []string{}))
	listFlags.Format = "table"
}

func TestValidateCommandAllValid(t *testing.T) {
	t.Chdir(t.TempDir())
	viper.Reset()

	writeCmdComponent(t, "components", "clock")

	validateFormat = "text"
	validatePaths = nil

	require.NoError(t, runValidateCommand(validateCmd, []string{}))
}

func TestValidateCommandReportsEveryInvalidComponent(t *testing.T) {
	t.Chdir(t.TempDir())
	viper.Reset()

	writeCmdComponent(t, "components", "good")

	badStyle := `<!--
name: bad-style
-->
<style>
  .bad-style { behavior: url(x.htc); }
</style>
<template><div class="bad-style">x</div></template>
`
	require.NoError(t, os.WriteFile(filepath.Join("components", "bad-style.html"), []byte(badStyle), 0o644))

	badScript := `<!--
name: bad-script
-->
<script>
  var marker = "</scriptx";
</script>
<template><div class="bad-script">x</div></template>
`
	require.NoError(t, os.WriteFile(filepath.Join("components", "bad-script.html"), []byte(badScript), 0o644))

	validateFormat = "text"
	validatePaths = nil

	err := runValidateCommand(validateCmd, []string{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 invalid components")
}

func TestValidateCommandTargetsUnknown(t *testing.T) {
	t.Chdir(t.TempDir())
	viper.Reset()

	writeCmdComponent(t, "components", "clock")

	validateFormat = "text"
	validatePaths = nil

	// Unknown names warn but do not fail the run.
	require.NoError(t, runValidateCommand(validateCmd, []string{"clock", "ghost"}))
}

func TestGenerateCommand(t *testing.T) {
	t.Chdir(t.TempDir())
	viper.Reset()

	generateTemplate = "minimal"
	generateOutput = ""
	generateTitle = ""
	generateAuthor = ""
	generateForce = false
	generateDocs = false
	generateList = false

	require.NoError(t, runGenerate(generateCmd, []string{"speed-dial"}))

	assert.FileExists(t, filepath.Join("components", "speed-dial.html"))
}

func TestGenerateCommandList(t *testing.T) {
	t.Chdir(t.TempDir())
	viper.Reset()

	generateList = true
	t.Cleanup(func() { generateList = false })

	require.NoError(t, runGenerate(generateCmd, []string{}))
}

func TestGenerateCommandRequiresName(t *testing.T) {
	t.Chdir(t.TempDir())
	viper.Reset()

	generateList = false

	err := runGenerate(generateCmd, []string{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one component name")
}

func TestDoctorCommandHealthyProject(t *testing.T) {
	t.Chdir(t.TempDir())
	viper.Reset()

	require.NoError(t, runInit(&cobra.Command{}, []string{}))
	initConfig()

	doctorVerbose = false
	doctorFormat = "text"

	require.NoError(t, runDoctor(doctorCmd, []string{}))
}

func TestDoctorCommandBrokenConfig(t *testing.T) {
	t.Chdir(t.TempDir())
	viper.Reset()

	require.NoError(t, os.MkdirAll("components", 0o755))
	writeCmdComponent(t, "components", "clock")
	require.NoError(t, os.WriteFile(".marklet.yml", []byte("components: [\n"), 0o644))
	initConfig()

	doctorVerbose = false
	doctorFormat = "text"

	err := runDoctor(doctorCmd, []string{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "problems")
}

func TestDoctorCommandJSONFormat(t *testing.T) {
	t.Chdir(t.TempDir())
	viper.Reset()

	require.NoError(t, runInit(&cobra.Command{}, []string{}))
	initConfig()

	doctorFormat = "json"
	t.Cleanup(func() { doctorFormat = "text" })

	require.NoError(t, runDoctor(doctorCmd, []string{}))
}

// TestExampleProjectBuilds keeps the shipped example project buildable.
func TestExampleProjectBuilds(t *testing.T) {
	exampleDir, err := filepath.Abs(filepath.Join("..", "examples", "quick-start"))
	require.NoError(t, err)

	t.Chdir(t.TempDir())
	viper.Reset()
	require.NoError(t, os.CopyFS(".", os.DirFS(exampleDir)))
	initConfig()

	resetBuildFlags()
	buildCmd.SetContext(context.Background())

	require.NoError(t, runBuild(buildCmd, []string{}))

	assert.FileExists(t, filepath.Join("dist", "bookmarklet.js"))
	assert.FileExists(t, filepath.Join("dist", "bookmarklet.uri.txt"))
	assert.FileExists(t, filepath.Join("dist", "install.html"))

	loader, err := os.ReadFile(filepath.Join("dist", "bookmarklet.js"))
	require.NoError(t, err)
	assert.Contains(t, string(loader), "page-outline")
	assert.Contains(t, string(loader), "reading-time")
}

func TestVersionCommand(t *testing.T) {
	versionFormat = "text"
	versionShort = false
	require.NoError(t, runVersionCommand(versionCmd, []string{}))

	versionShort = true
	require.NoError(t, runVersionCommand(versionCmd, []string{}))
	versionShort = false

	versionFormat = "json"
	require.NoError(t, runVersionCommand(versionCmd, []string{}))

	versionFormat = "bogus"
	require.Error(t, runVersionCommand(versionCmd, []string{}))
	versionFormat = "text"
}

func TestConfigCommand(t *testing.T) {
	t.Chdir(t.TempDir())
	viper.Reset()

	configFormat = "yaml"
	require.NoError(t, runConfig(configCmd, []string{}))

	configFormat = "json"
	require.NoError(t, runConfig(configCmd, []string{}))

	configFormat = "bogus"
	require.Error(t, runConfig(configCmd, []string{}))
	configFormat = "yaml"
}

func TestValidateFormatWithSuggestion(t *testing.T) {
	require.NoError(t, ValidateFormatWithSuggestion("json", []string{"table", "json"}))
	require.NoError(t, ValidateFormatWithSuggestion("JSON", []string{"table", "json"}))

	err := ValidateFormatWithSuggestion("jso", []string{"table", "json"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `did you mean "json"?`)
}
