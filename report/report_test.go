package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/truespec/truespec/differ"
	"github.com/truespec/truespec/specdoc"
)

func TestMarkdownEmptyReport(t *testing.T) {
	rep := differ.NewReport(nil)

	expected := "## TrueSpec Summary\n" +
		"\n" +
		"- Breaking: 0\n" +
		"- Warning: 0\n" +
		"- Info: 0\n" +
		"\n" +
		"No differences found.\n"
	assert.Equal(t, expected, Markdown(rep))
}

func TestMarkdownSections(t *testing.T) {
	rep := differ.NewReport([]differ.Finding{
		{Severity: differ.SeverityBreaking, Code: differ.CodeOperationRemoved, Message: "Removed operation GET /pets"},
		{Severity: differ.SeverityBreaking, Code: differ.CodeSchemaFieldRemoved, Message: "Removed field response.200.body.name"},
		{Severity: differ.SeverityWarning, Code: differ.CodeRequiredParamAdded, Message: "New required parameter query:limit for GET /pets"},
	})

	expected := "## TrueSpec Summary\n" +
		"\n" +
		"- Breaking: 2\n" +
		"- Warning: 1\n" +
		"- Info: 0\n" +
		"\n" +
		"### Breaking (2)\n" +
		"- Removed operation GET /pets\n" +
		"- Removed field response.200.body.name\n" +
		"\n" +
		"### Warning (1)\n" +
		"- New required parameter query:limit for GET /pets\n"
	assert.Equal(t, expected, Markdown(rep))
}

func TestMarkdownSeveritySectionOrder(t *testing.T) {
	// Items arrive interleaved; sections render in fixed severity order.
	rep := differ.NewReport([]differ.Finding{
		{Severity: differ.SeverityInfo, Message: "Added operation POST /pets"},
		{Severity: differ.SeverityBreaking, Message: "Removed operation GET /pets"},
		{Severity: differ.SeverityInfo, Message: "Added response 404 for GET /owners"},
	})

	md := Markdown(rep)
	breakingAt := strings.Index(md, "### Breaking (1)")
	infoAt := strings.Index(md, "### Info (2)")
	require.GreaterOrEqual(t, breakingAt, 0)
	require.GreaterOrEqual(t, infoAt, 0)
	assert.Less(t, breakingAt, infoAt)
	assert.NotContains(t, md, "### Warning")
	assert.NotContains(t, md, "No differences found.")
}

func TestMarkdownDeterministicEndToEnd(t *testing.T) {
	base, err := specdoc.Load(`
paths:
  /pets:
    get:
      responses:
        "200": {}
  /owners:
    get:
      responses:
        "200": {}
`)
	require.NoError(t, err)
	head, err := specdoc.Load("openapi: 3.0.3\n")
	require.NoError(t, err)

	first, err := differ.Diff(base, head)
	require.NoError(t, err)
	rendered := Markdown(first)

	for range 5 {
		again, err := differ.Diff(base, head)
		require.NoError(t, err)
		assert.Equal(t, rendered, Markdown(again))
	}
}
