// Package commands provides CLI command handlers for truespec.
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"go.yaml.in/yaml/v4"

	"github.com/truespec/truespec"
	"github.com/truespec/truespec/internal/fetchutil"
)

// Output format constants
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatYAML     = "yaml"
	FormatMarkdown = "markdown"
)

// StdinFilePath is the special file path used to indicate reading from stdin.
const StdinFilePath = "-"

// ValidateOutputFormat validates an output format and returns an error if invalid.
func ValidateOutputFormat(format string) error {
	switch format {
	case FormatText, FormatJSON, FormatYAML, FormatMarkdown:
		return nil
	}
	return fmt.Errorf("invalid format '%s'. Valid formats: %s, %s, %s, %s",
		format, FormatText, FormatJSON, FormatYAML, FormatMarkdown)
}

// OutputStructured outputs data in the specified format (json or yaml) to stdout.
// Returns an error if marshaling fails.
func OutputStructured(data any, format string) error {
	var bytes []byte
	var err error

	switch format {
	case FormatJSON:
		bytes, err = json.MarshalIndent(data, "", "  ")
	case FormatYAML:
		bytes, err = yaml.Marshal(data)
	default:
		return fmt.Errorf("invalid format for structured output: %s", format)
	}

	if err != nil {
		return fmt.Errorf("marshaling to %s: %w", format, err)
	}

	fmt.Println(string(bytes))
	return nil
}

// ReadSpecInput reads spec document bytes from a file path, a URL, or
// stdin ("-").
func ReadSpecInput(ctx context.Context, path string) ([]byte, error) {
	switch {
	case path == StdinFilePath:
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	case fetchutil.IsURL(path):
		return fetchutil.FetchURL(ctx, path, truespec.UserAgent())
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		return data, nil
	}
}
