package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clbtools/clbtools/internal/app"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestNamesCommand(t *testing.T) {
	t.Setenv("CLB_WORKBOOK", "")
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "clbtools.yaml"), []byte("workbook: db.xlsx\n"), 0o644))

	out, errOut, err := run(t, "--root", root, "names")
	require.NoError(t, err)
	assert.Contains(t, out, " 13  Toad (Red)")
	assert.Contains(t, errOut, "Created Character Name Mapping")
	assert.FileExists(t, filepath.Join(root, "db.xlsx"))
}

func TestConvertCommand_MissingSheets(t *testing.T) {
	t.Setenv("CLB_WORKBOOK", "")
	root := t.TempDir()

	_, _, err := run(t, "--root", root, "convert")
	require.Error(t, err)
	assert.Equal(t, app.ExitMissingResource, app.ExitCode(err))
}

func TestImportCommand_BadInput(t *testing.T) {
	t.Setenv("CLB_WORKBOOK", "")
	root := t.TempDir()
	file := filepath.Join(root, "preset.txt")
	require.NoError(t, os.WriteFile(file, []byte(strings.Repeat("1,1\n", 10)), 0o644))

	_, _, err := run(t, "--root", root, "import-preset", file)
	require.Error(t, err)
	assert.Equal(t, app.ExitInvalidInput, app.ExitCode(err))

	_, _, err = run(t, "--root", root, "import-preset", filepath.Join(root, "missing.txt"))
	assert.Equal(t, app.ExitMissingResource, app.ExitCode(err))
}

func TestEditorApplyCommand_ExitCodes(t *testing.T) {
	t.Setenv("CLB_WORKBOOK", "")
	root := t.TempDir()

	_, _, err := run(t, "--root", root, "editor", "apply", filepath.Join(root, "missing.json"))
	require.Error(t, err)
	assert.Equal(t, app.ExitMissingResource, app.ExitCode(err))

	garbled := filepath.Join(root, "garbled.json")
	require.NoError(t, os.WriteFile(garbled, []byte("{"), 0o644))
	_, _, err = run(t, "--root", root, "editor", "apply", garbled)
	require.Error(t, err)
	assert.Equal(t, app.ExitInvalidInput, app.ExitCode(err))

	outOfRange := filepath.Join(root, "grid.json")
	require.NoError(t, os.WriteFile(outOfRange, []byte(`{"matrix":[[5]],"changes":[]}`), 0o644))
	_, _, err = run(t, "--root", root, "editor", "apply", outOfRange)
	require.Error(t, err)
	assert.ErrorIs(t, err, app.ErrInvalidChemistryValue)
	assert.Equal(t, app.ExitInvalidInput, app.ExitCode(err))
}

func TestQueryCommand_NoIndex(t *testing.T) {
	t.Setenv("CLB_WORKBOOK", "")
	root := t.TempDir()
	_, _, err := run(t, "--root", root, "query", "Mario")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chemistry data not found")
}
