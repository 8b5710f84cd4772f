package commands

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSpec(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestHandleDiffIdenticalSpecs(t *testing.T) {
	spec := writeSpec(t, "api.yaml", "openapi: 3.0.3\npaths:\n  /pets:\n    get:\n      responses:\n        \"200\": {}\n")

	// Identical inputs exit cleanly without reaching os.Exit.
	err := HandleDiff(context.Background(), []string{spec, spec})
	assert.NoError(t, err)
}

func TestHandleDiffArgumentErrors(t *testing.T) {
	spec := writeSpec(t, "api.yaml", "openapi: 3.0.3\n")

	tests := []struct {
		name string
		args []string
	}{
		{"no args", nil},
		{"one arg", []string{spec}},
		{"three args", []string{spec, spec, spec}},
		{"bad format", []string{"--format", "xml", spec, spec}},
		{"missing file", []string{"missing.yaml", spec}},
		{"unloadable spec", []string{writeSpec(t, "bad.yaml", "- a\n- b\n"), spec}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := HandleDiff(context.Background(), tt.args)
			assert.Error(t, err)
		})
	}
}

func TestHandleDiffFromURL(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("openapi: 3.0.3\n"))
	}))
	defer ts.Close()

	err := HandleDiff(context.Background(), []string{ts.URL, ts.URL})
	assert.NoError(t, err)
}

func TestValidateOutputFormat(t *testing.T) {
	for _, format := range []string{FormatText, FormatJSON, FormatYAML, FormatMarkdown} {
		assert.NoError(t, ValidateOutputFormat(format))
	}
	assert.Error(t, ValidateOutputFormat("xml"))
	assert.Error(t, ValidateOutputFormat(""))
}

func TestReadSpecInputFile(t *testing.T) {
	spec := writeSpec(t, "api.yaml", "openapi: 3.0.3\n")
	data, err := ReadSpecInput(context.Background(), spec)
	require.NoError(t, err)
	assert.Equal(t, "openapi: 3.0.3\n", string(data))
}
