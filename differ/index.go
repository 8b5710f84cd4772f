package differ

import (
	"sort"
	"strings"

	"github.com/truespec/truespec/specdoc"
)

// httpMethods is the fixed list of path-item methods, in the order the
// indexer probes each path item.
var httpMethods = []string{"get", "put", "post", "delete", "options", "head", "patch", "trace"}

// OperationKey identifies one operation: an uppercased HTTP method and the
// literal path template as it appears under paths. Two keys are equal iff
// both components are equal byte-for-byte.
type OperationKey struct {
	Method string
	Path   string
}

// String returns "METHOD /path".
func (k OperationKey) String() string {
	return k.Method + " " + k.Path
}

// Ref returns the key as an OperationRef for attaching to findings.
func (k OperationKey) Ref() *OperationRef {
	return &OperationRef{Path: k.Path, Method: k.Method}
}

// OperationView pairs an operation node with its enclosing path item. Both
// nodes are referenced, not copied.
type OperationView struct {
	Key           OperationKey
	OperationNode map[string]any
	PathItemNode  map[string]any
}

// indexOperations walks doc.paths and returns a map keyed by (METHOD, path).
// Non-map path items and non-map method entries are skipped silently.
func indexOperations(doc specdoc.Doc) map[OperationKey]OperationView {
	index := make(map[OperationKey]OperationView)
	paths := specdoc.AsMap(doc["paths"])

	for path, rawItem := range paths {
		pathItem := specdoc.AsMap(rawItem)
		if pathItem == nil {
			continue
		}
		for _, method := range httpMethods {
			op := specdoc.AsMap(pathItem[method])
			if op == nil {
				continue
			}
			key := OperationKey{Method: strings.ToUpper(method), Path: path}
			index[key] = OperationView{
				Key:           key,
				OperationNode: op,
				PathItemNode:  pathItem,
			}
		}
	}

	return index
}

// sortedKeys returns the keys of an operation index ordered by path, then
// method. Go maps have no insertion order, so the engine derives its
// determinism guarantee from this ordering instead.
func sortedKeys(index map[OperationKey]OperationView) []OperationKey {
	keys := make([]OperationKey, 0, len(index))
	for k := range index {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Path != keys[j].Path {
			return keys[i].Path < keys[j].Path
		}
		return keys[i].Method < keys[j].Method
	})
	return keys
}

// sortedStrings returns the keys of a string set in lexicographic order.
func sortedStrings(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
