// Package specdoc loads OpenAPI documents into a generic document tree.
//
// The engine never resolves $ref indirections or validates documents; it
// walks whatever shape the loader produces. The tree uses string-keyed maps,
// ordered sequences, strings, numbers, booleans, and nil. Unknown keys are
// ignored by consumers, and missing keys behave as absent, never as errors.
package specdoc

import (
	"bytes"
	"encoding/json"
	"fmt"

	"go.yaml.in/yaml/v4"

	"github.com/truespec/truespec/tserrors"
)

// Doc is a loaded spec document: a generic string-keyed tree.
type Doc = map[string]any

// Load parses input into a Doc.
//
// Input may be a generic map (returned verbatim), []byte, or string. Text
// whose first non-space byte is '{' or '[' is tried as JSON first; on JSON
// parse failure it falls through to the YAML decoder (YAML 1.2 is a
// superset of JSON, so valid JSON still loads). Empty input or a decoded
// value that is not a map yields (nil, nil); callers treat a nil Doc as
// invalid input. YAML decode failures return a *tserrors.LoadError.
func Load(input any) (Doc, error) {
	switch v := input.(type) {
	case nil:
		return nil, nil
	case Doc:
		return v, nil
	case map[any]any:
		return normalizeMap(v), nil
	case []byte:
		return loadBytes(v)
	case string:
		return loadBytes([]byte(v))
	default:
		return nil, nil
	}
}

// loadBytes decodes raw document text, detecting JSON by its first byte.
func loadBytes(data []byte) (Doc, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	if trimmed[0] == '{' || trimmed[0] == '[' {
		var decoded any
		if err := json.Unmarshal(trimmed, &decoded); err == nil {
			return docOrNil(decoded), nil
		}
		// Fall through: the YAML decoder accepts flow-style documents
		// that the JSON decoder rejects (comments, trailing commas).
	}

	var decoded any
	if err := yaml.Unmarshal(trimmed, &decoded); err != nil {
		return nil, &tserrors.LoadError{
			Format:  "yaml",
			Message: "decoding document",
			Cause:   err,
		}
	}
	return docOrNil(Normalize(decoded)), nil
}

// docOrNil returns the value as a Doc when it is a string-keyed map.
func docOrNil(v any) Doc {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return nil
}

// Normalize converts any-keyed maps produced by the YAML decoder into
// string-keyed maps, recursively. Non-string keys are stringified with the
// decoder's scalar rendering so numeric status keys like 200 stay "200".
func Normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = Normalize(val)
		}
		return t
	case map[any]any:
		return normalizeMap(t)
	case []any:
		for i, val := range t {
			t[i] = Normalize(val)
		}
		return t
	default:
		return v
	}
}

func normalizeMap(m map[any]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, val := range m {
		key, ok := k.(string)
		if !ok {
			key = fmt.Sprintf("%v", k)
		}
		out[key] = Normalize(val)
	}
	return out
}

// AsMap returns v as a string-keyed map, or nil when it has another shape.
func AsMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

// AsSeq returns v as a sequence, or nil when it has another shape.
func AsSeq(v any) []any {
	s, _ := v.([]any)
	return s
}

// AsString returns v as a string with an ok flag.
func AsString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// AsBool returns v as a bool. Non-bool values read as false.
func AsBool(v any) bool {
	b, _ := v.(bool)
	return b
}
