package mcpserver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const basePets = `
openapi: 3.0.3
paths:
  /pets:
    get:
      responses:
        "200": {}
`

const headEmpty = "openapi: 3.0.3\n"

func TestHandleDiffInlineContent(t *testing.T) {
	result, output, err := handleDiff(context.Background(), nil, diffInput{
		Base: specInput{Content: basePets},
		Head: specInput{Content: headEmpty},
	})
	require.NoError(t, err)
	require.Nil(t, result, "no error result expected")

	assert.Equal(t, 1, output.TotalFindings)
	assert.Equal(t, 1, output.BreakingCount)
	require.Len(t, output.Findings, 1)
	assert.Equal(t, "breaking", output.Findings[0].Severity)
	assert.Equal(t, "operation-removed", output.Findings[0].Code)
	assert.Equal(t, "GET /pets", output.Findings[0].Operation)
	assert.Contains(t, output.Markdown, "## TrueSpec Summary")
	assert.Contains(t, output.Summary, "Breaking changes detected")
}

func TestHandleDiffFiles(t *testing.T) {
	dir := t.TempDir()
	basePath := filepath.Join(dir, "base.yaml")
	headPath := filepath.Join(dir, "head.yaml")
	require.NoError(t, os.WriteFile(basePath, []byte(basePets), 0o600))
	require.NoError(t, os.WriteFile(headPath, []byte(basePets), 0o600))

	result, output, err := handleDiff(context.Background(), nil, diffInput{
		Base: specInput{File: basePath},
		Head: specInput{File: headPath},
	})
	require.NoError(t, err)
	require.Nil(t, result)
	assert.Equal(t, 0, output.TotalFindings)
	assert.Equal(t, "No differences found.", output.Summary)
	assert.Nil(t, output.Findings)
}

func TestHandleDiffBreakingOnly(t *testing.T) {
	head := `
openapi: 3.0.3
paths:
  /pets:
    get:
      responses:
        "200": {}
        "404": {}
  /owners:
    get:
      responses:
        "200": {}
`

	result, output, err := handleDiff(context.Background(), nil, diffInput{
		Base:         specInput{Content: basePets},
		Head:         specInput{Content: head},
		BreakingOnly: true,
		NoMarkdown:   true,
	})
	require.NoError(t, err)
	require.Nil(t, result)

	// Only additions happened, so breaking-only filtering leaves nothing.
	assert.Equal(t, 0, output.TotalFindings)
	assert.Empty(t, output.Markdown)
}

func TestHandleDiffInputErrors(t *testing.T) {
	tests := []struct {
		name  string
		input diffInput
	}{
		{"no base inputs", diffInput{Head: specInput{Content: basePets}}},
		{"two base inputs", diffInput{
			Base: specInput{Content: basePets, File: "also.yaml"},
			Head: specInput{Content: basePets},
		}},
		{"missing file", diffInput{
			Base: specInput{File: "does-not-exist.yaml"},
			Head: specInput{Content: basePets},
		}},
		{"non-map content", diffInput{
			Base: specInput{Content: "- just\n- a\n- list\n"},
			Head: specInput{Content: basePets},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, _, err := handleDiff(context.Background(), nil, tt.input)
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.True(t, result.IsError)
		})
	}
}

func TestSanitizeError(t *testing.T) {
	assert.Equal(t, "", sanitizeError(nil))

	err := os.ErrNotExist
	assert.Equal(t, err.Error(), sanitizeError(err))

	_, statErr := os.Stat("/home/user/secret/api.yaml")
	require.Error(t, statErr)
	assert.NotContains(t, sanitizeError(statErr), "/home/user/secret")
}
