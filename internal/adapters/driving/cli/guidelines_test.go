package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuidelinesCmd_Use(t *testing.T) {
	assert.Equal(t, "guidelines", guidelinesCmd.Use)
	assert.Equal(t, "ingest [file]", guidelinesIngestCmd.Use)
	assert.Equal(t, "watch [dir]", guidelinesWatchCmd.Use)
}

func TestGuidelinesIngestCmd_RequiresProjectFlag(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"guidelines", "ingest", "style.md"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "project")
}

func TestGuidelinesIngestCmd_IngestsFile(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	path := filepath.Join(t.TempDir(), "style.md")
	require.NoError(t, os.WriteFile(path, []byte("Use early returns."), 0o644))

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"guidelines", "ingest", path, "--project", "acme/widgets"})
	defer func() {
		rootCmd.SetArgs(nil)
		guidelineProject = ""
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Ingested style.md: 2 chunks stored for acme/widgets")

	mock := ingestionService.(*mockIngestionService)
	assert.Equal(t, "style.md", mock.filename)
	assert.Equal(t, "acme/widgets", mock.project)
}

func TestGuidelinesIngestCmd_MissingFile(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"guidelines", "ingest", "/nonexistent/style.md", "--project", "acme/widgets"})
	defer func() {
		rootCmd.SetArgs(nil)
		guidelineProject = ""
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "reading")
}
