package mcpserver

import (
	"context"
	"fmt"
	"os"

	"github.com/truespec/truespec"
	"github.com/truespec/truespec/internal/fetchutil"
	"github.com/truespec/truespec/specdoc"
)

// maxInlineContentBytes bounds inline document content.
const maxInlineContentBytes = 10 * 1024 * 1024

// specInput represents the three ways a spec can be provided to the tool.
// Exactly one of File, URL, or Content must be set.
type specInput struct {
	File    string `json:"file,omitempty"    jsonschema:"Path to a spec file on disk"`
	URL     string `json:"url,omitempty"     jsonschema:"URL to fetch a spec document from"`
	Content string `json:"content,omitempty" jsonschema:"Inline spec document content (JSON or YAML)"`
}

// resolve loads the document from whichever input was provided.
func (s specInput) resolve(ctx context.Context) (specdoc.Doc, error) {
	count := 0
	if s.File != "" {
		count++
	}
	if s.URL != "" {
		count++
	}
	if s.Content != "" {
		count++
	}
	if count != 1 {
		return nil, fmt.Errorf("exactly one of file, url, or content must be provided (got %d)", count)
	}

	var data []byte
	switch {
	case s.File != "":
		var err error
		data, err = os.ReadFile(s.File)
		if err != nil {
			return nil, fmt.Errorf("reading spec file: %w", err)
		}
	case s.URL != "":
		var err error
		data, err = fetchutil.FetchURL(ctx, s.URL, truespec.UserAgent())
		if err != nil {
			return nil, err
		}
	default:
		if len(s.Content) > maxInlineContentBytes {
			return nil, fmt.Errorf("inline content exceeds %d bytes", maxInlineContentBytes)
		}
		data = []byte(s.Content)
	}

	doc, err := specdoc.Load(data)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("input is not an OpenAPI document map")
	}
	return doc, nil
}
