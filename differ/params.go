package differ

import (
	"sort"
	"strings"

	"github.com/truespec/truespec/specdoc"
)

// requiredParams derives the set of required parameter IDs for a view.
// Path-item parameters are gathered before operation parameters; a
// parameter is required iff required is true or it lives in the path.
// IDs have the form "<in>:<name>"; duplicates coalesce.
func requiredParams(view OperationView) map[string]struct{} {
	required := make(map[string]struct{})

	collect := func(raw any) {
		for _, entry := range specdoc.AsSeq(raw) {
			param := specdoc.AsMap(entry)
			if param == nil {
				continue
			}
			name, okName := specdoc.AsString(param["name"])
			in, okIn := specdoc.AsString(param["in"])
			if !okName || !okIn {
				continue
			}
			if specdoc.AsBool(param["required"]) || in == "path" {
				required[in+":"+name] = struct{}{}
			}
		}
	}

	collect(view.PathItemNode["parameters"])
	collect(view.OperationNode["parameters"])

	return required
}

// requestBodyRequired reports whether the operation's request body is
// declared required. A missing requestBody reads as not required.
func requestBodyRequired(op map[string]any) bool {
	body := specdoc.AsMap(op["requestBody"])
	if body == nil {
		return false
	}
	return specdoc.AsBool(body["required"])
}

// requestSchema extracts the request body schema for an operation, or nil.
func requestSchema(op map[string]any) map[string]any {
	body := specdoc.AsMap(op["requestBody"])
	if body == nil {
		return nil
	}
	return contentSchema(specdoc.AsMap(body["content"]))
}

// responseStatuses returns the set of declared response status keys.
// Status keys are literal strings ("200", "default", "2XX"); no status-code
// matching is performed. Non-map response entries are skipped.
func responseStatuses(op map[string]any) map[string]struct{} {
	statuses := make(map[string]struct{})
	for status, raw := range specdoc.AsMap(op["responses"]) {
		if specdoc.AsMap(raw) != nil {
			statuses[status] = struct{}{}
		}
	}
	return statuses
}

// responseSchemas returns a map from status key to the response body schema
// for every response that declares one.
func responseSchemas(op map[string]any) map[string]map[string]any {
	schemas := make(map[string]map[string]any)
	for status, raw := range specdoc.AsMap(op["responses"]) {
		response := specdoc.AsMap(raw)
		if response == nil {
			continue
		}
		if schema := contentSchema(specdoc.AsMap(response["content"])); schema != nil {
			schemas[status] = schema
		}
	}
	return schemas
}

// contentSchema picks the first applicable schema from a content map:
// application/json, then the first key containing "json" or ending "+json",
// then the first entry at all. Keys are probed in lexicographic order so
// the choice is deterministic.
func contentSchema(content map[string]any) map[string]any {
	if len(content) == 0 {
		return nil
	}

	if media := specdoc.AsMap(content["application/json"]); media != nil {
		return specdoc.AsMap(media["schema"])
	}

	keys := make([]string, 0, len(content))
	for k := range content {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if strings.Contains(k, "json") || strings.HasSuffix(k, "+json") {
			if media := specdoc.AsMap(content[k]); media != nil {
				return specdoc.AsMap(media["schema"])
			}
		}
	}

	for _, k := range keys {
		if media := specdoc.AsMap(content[k]); media != nil {
			return specdoc.AsMap(media["schema"])
		}
	}

	return nil
}
