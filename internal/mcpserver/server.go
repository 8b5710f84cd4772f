// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes the diff engine as an MCP tool over stdio.
package mcpserver

import (
	"context"
	"regexp"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/truespec/truespec"
)

const serverInstructions = `truespec MCP server — compares two revisions of an OpenAPI document and reports contract drift.

The diff tool takes a base and a head document (by file path, URL, or inline content) and returns findings classified by severity (breaking, warning, info) with stable finding codes, plus the rendered Markdown summary. Request and response bodies have opposite polarity: a removed response field is breaking, while an added request field is not reported.`

// Run starts the MCP server over stdio and blocks until the client
// disconnects or the context is cancelled.
func Run(ctx context.Context) error {
	server := mcp.NewServer(
		&mcp.Implementation{Name: "truespec", Version: truespec.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "diff",
		Description: "Compare two versions of an OpenAPI document and report contract drift. Findings carry a severity (breaking, warning, info) and a stable code. Use breaking_only=true to focus on breaking changes. Both base and head must be provided.",
	}, handleDiff)
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}
