package instantiate_test

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bootstrapp/bootstrapp/instantiate"
)

// writeBundle materializes a template bundle under a fresh temp
// directory: specJSON at Bootstrapp.json, and files under Content/
// as given by content (relative path -> body).
func writeBundle(t *testing.T, specJSON string, content map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "Bootstrapp.json"), []byte(specJSON), 0o644))
	for rel, body := range content {
		full := filepath.Join(dir, "Content", rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, ioutil.WriteFile(full, []byte(body), 0o644))
	}
	return dir
}

func readOutput(t *testing.T, outputDir, rel string) string {
	t.Helper()
	data, err := ioutil.ReadFile(filepath.Join(outputDir, rel))
	require.NoError(t, err)
	return string(data)
}

func TestS5OptionParameterDefault(t *testing.T) {
	spec := `{
		"parameters": [{"id": "mode", "type": "Option", "options": ["dev", "prod"], "default": 1}],
		"parametrizableFiles": ["^marker\\.txt$"]
	}`
	bundle := writeBundle(t, spec, map[string]string{"marker.txt": "<{ mode }>"})
	outDir := filepath.Join(t.TempDir(), "out")

	result, err := instantiate.Run(instantiate.NewLocalSource(bundle), instantiate.Options{
		OutputDir: outDir,
		Now:       time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, "prod", readOutput(t, result.OutputDir, "marker.txt"))
}

func TestS6ParametrizableFileRendersNameAndBody(t *testing.T) {
	spec := `{
		"substitutions": {"name": "bar"},
		"parametrizableFiles": ["^.*\\.txt$"]
	}`
	bundle := writeBundle(t, spec, map[string]string{
		"Foo/<{name}>.txt": "Hi <{name}>",
	})
	outDir := filepath.Join(t.TempDir(), "out")
	result, err := instantiate.Run(instantiate.NewLocalSource(bundle), instantiate.Options{
		OutputDir: outDir,
		Now:       time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, "Hi bar", readOutput(t, result.OutputDir, filepath.Join("Foo", "bar.txt")))
}

func TestParametrizableAnchoringDoesNotMatchSuffixedName(t *testing.T) {
	spec := `{"parametrizableFiles": [".*\\.swift"]}`
	bundle := writeBundle(t, spec, map[string]string{
		"Foo.swift":     "<{ CURRENT_YEAR }>",
		"Foo.swift.bak": "<{ CURRENT_YEAR }>",
	})
	outDir := filepath.Join(t.TempDir(), "out")
	result, err := instantiate.Run(instantiate.NewLocalSource(bundle), instantiate.Options{
		OutputDir: outDir,
		Now:       time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, "2026", readOutput(t, result.OutputDir, "Foo.swift"))
	assert.Equal(t, "<{ CURRENT_YEAR }>", readOutput(t, result.OutputDir, "Foo.swift.bak"))
}

func TestBlacklistMonotonicity(t *testing.T) {
	spec := `{
		"includeDirectories": [{"if": "enableFeature", "directories": ["Feature"]}]
	}`
	bundle := writeBundle(t, spec, map[string]string{
		"Feature/a.txt":        "a",
		"Feature/nested/b.txt": "b",
		"Other/c.txt":          "c",
	})
	outDir := filepath.Join(t.TempDir(), "out")
	result, err := instantiate.Run(instantiate.NewLocalSource(bundle), instantiate.Options{
		OutputDir: outDir,
		Now:       time.Now(),
	})
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(result.OutputDir, "Feature"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(result.OutputDir, "Other", "c.txt"))
	assert.NoError(t, err)
}

func TestIgnoredPlaceholderIsSkipped(t *testing.T) {
	spec := `{}`
	bundle := writeBundle(t, spec, map[string]string{
		"Empty/.ignored-placeholder": "",
	})
	outDir := filepath.Join(t.TempDir(), "out")
	result, err := instantiate.Run(instantiate.NewLocalSource(bundle), instantiate.Options{
		OutputDir: outDir,
		Now:       time.Now(),
	})
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(result.OutputDir, "Empty", ".ignored-placeholder"))
	assert.True(t, os.IsNotExist(err))
}

func TestExcludedPackageFilteredFromContext(t *testing.T) {
	spec := `{
		"packages": [{"name": "A"}, {"name": "B"}],
		"parametrizableFiles": ["^.*\\.txt$"]
	}`
	bundle := writeBundle(t, spec, map[string]string{
		"out.txt": "<{ for p in packages }><{ p.name }>,<{ end }>",
	})
	outDir := filepath.Join(t.TempDir(), "out")
	result, err := instantiate.Run(instantiate.NewLocalSource(bundle), instantiate.Options{
		ExcludePackages: map[string]bool{"B": true},
		OutputDir:       outDir,
		Now:             time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, "A,", readOutput(t, result.OutputDir, "out.txt"))
}

func TestFileModeIsPreservedOnCopy(t *testing.T) {
	spec := `{}`
	bundle := writeBundle(t, spec, map[string]string{"build.sh": "#!/bin/sh\necho hi\n"})
	require.NoError(t, os.Chmod(filepath.Join(bundle, "Content", "build.sh"), 0o755))
	outDir := filepath.Join(t.TempDir(), "out")

	result, err := instantiate.Run(instantiate.NewLocalSource(bundle), instantiate.Options{
		OutputDir: outDir,
		Now:       time.Now(),
	})
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(result.OutputDir, "build.sh"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
}

func TestFileModeIsPreservedOnRender(t *testing.T) {
	spec := `{"parametrizableFiles": ["^run\\.sh$"]}`
	bundle := writeBundle(t, spec, map[string]string{"run.sh": "#!/bin/sh\necho <{ CURRENT_YEAR }>\n"})
	require.NoError(t, os.Chmod(filepath.Join(bundle, "Content", "run.sh"), 0o755))
	outDir := filepath.Join(t.TempDir(), "out")

	result, err := instantiate.Run(instantiate.NewLocalSource(bundle), instantiate.Options{
		OutputDir: outDir,
		Now:       time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(result.OutputDir, "run.sh"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
	assert.Equal(t, "#!/bin/sh\necho 2026\n", readOutput(t, result.OutputDir, "run.sh"))
}

func TestOutputDirectoryIsRecreatedWhenAlreadyPresent(t *testing.T) {
	spec := `{}`
	bundle := writeBundle(t, spec, map[string]string{"a.txt": "a"})
	outDir := t.TempDir()
	require.NoError(t, ioutil.WriteFile(filepath.Join(outDir, "stale.txt"), []byte("stale"), 0o644))

	_, err := instantiate.Run(instantiate.NewLocalSource(bundle), instantiate.Options{
		OutputDir: outDir,
		Now:       time.Now(),
	})
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(outDir, "stale.txt"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(outDir, "a.txt"))
	assert.NoError(t, err)
}
