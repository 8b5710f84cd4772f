// Package fetchutil fetches spec documents from URLs for the CLI and the
// MCP server.
package fetchutil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	fetchTimeout = 30 * time.Second

	// maxDocumentBytes caps how much of a remote document is read into
	// memory, preventing OOM from a misbehaving server.
	maxDocumentBytes = 10 * 1024 * 1024
)

// IsURL determines if the given path is a URL (http:// or https://).
func IsURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// FetchURL fetches a document from a URL, identifying as userAgent.
func FetchURL(ctx context.Context, urlStr, userAgent string) ([]byte, error) {
	client := &http.Client{Timeout: fetchTimeout}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, fmt.Errorf("fetchutil: creating request: %w", err)
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetchutil: fetching %s: %w", urlStr, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetchutil: fetching %s: unexpected status %d", urlStr, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes+1))
	if err != nil {
		return nil, fmt.Errorf("fetchutil: reading %s: %w", urlStr, err)
	}
	if len(data) > maxDocumentBytes {
		return nil, fmt.Errorf("fetchutil: document at %s exceeds %d bytes", urlStr, maxDocumentBytes)
	}
	return data, nil
}
