package differ

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/truespec/truespec/specdoc"
)

// schemaContext tags where in an operation a schema lives. Request and
// response bodies have opposite polarity for additions and removals, so the
// context is threaded explicitly through the recursion.
type schemaContext int

const (
	contextOther schemaContext = iota
	contextRequest
	contextResponse
)

// visitedSet tracks schema nodes already entered on the current root call,
// by map identity. Re-entry aborts the subtree.
type visitedSet map[uintptr]struct{}

// enter marks a node as visited. Returns true if it was already entered.
func (v visitedSet) enter(node map[string]any) bool {
	id := reflect.ValueOf(node).Pointer()
	if _, seen := v[id]; seen {
		return true
	}
	v[id] = struct{}{}
	return false
}

// compareSchema recursively diffs two schema nodes, appending findings to
// sink. A fresh pair of visited sets is created at each root invocation;
// the guard ensures each (base, head) node pair is entered at most once per
// root call. Non-map nodes terminate the walk silently.
func compareSchema(base, head map[string]any, path string, ctx schemaContext, opRef *OperationRef, sink *[]Finding, seenBase, seenHead visitedSet) {
	if base == nil || head == nil {
		return
	}
	if seenBase.enter(base) || seenHead.enter(head) {
		return
	}

	// Nullability.
	baseNullable := isNullable(base)
	headNullable := isNullable(head)
	switch {
	case baseNullable && !headNullable:
		*sink = append(*sink, Finding{
			Severity:  SeverityBreaking,
			Code:      CodeSchemaNullableRemoved,
			Message:   fmt.Sprintf("Nullable removed at %s", path),
			Operation: opRef,
		})
	case !baseNullable && headNullable:
		*sink = append(*sink, Finding{
			Severity:  SeverityInfo,
			Code:      CodeSchemaNullableAdded,
			Message:   fmt.Sprintf("Nullable added at %s", path),
			Operation: opRef,
		})
	}

	// Type signature. A mismatch skips further walks at this node but the
	// finding stream continues for siblings.
	baseSig := typeSignature(base)
	headSig := typeSignature(head)
	if baseSig != "" && headSig != "" && baseSig != headSig {
		*sink = append(*sink, Finding{
			Severity:  SeverityBreaking,
			Code:      CodeSchemaTypeChanged,
			Message:   fmt.Sprintf("Type changed at %s (%s -> %s)", path, baseSig, headSig),
			Operation: opRef,
		})
		return
	}

	compareUnions(base, head, path, opRef, sink)
	compareEnums(base, head, path, opRef, sink)

	// Arrays.
	if isArraySchema(base) || isArraySchema(head) {
		baseItems := specdoc.AsMap(base["items"])
		headItems := specdoc.AsMap(head["items"])
		if baseItems != nil && headItems != nil {
			compareSchema(baseItems, headItems, path+"[]", ctx, opRef, sink, seenBase, seenHead)
		}
	}

	compareShape(base, head, path, ctx, opRef, sink, seenBase, seenHead)
}

// compareUnions diffs the oneOf/anyOf alternatives of both sides by
// structural signature.
func compareUnions(base, head map[string]any, path string, opRef *OperationRef, sink *[]Finding) {
	baseSigs := unionSignatures(base)
	headSigs := unionSignatures(head)
	if len(baseSigs) == 0 && len(headSigs) == 0 {
		return
	}

	for _, sig := range sortedStrings(baseSigs) {
		if _, ok := headSigs[sig]; !ok {
			*sink = append(*sink, Finding{
				Severity:  SeverityBreaking,
				Code:      CodeSchemaUnionRemoved,
				Message:   fmt.Sprintf("Removed union option at %s (%s)", path, sig),
				Operation: opRef,
			})
		}
	}
	for _, sig := range sortedStrings(headSigs) {
		if _, ok := baseSigs[sig]; !ok {
			*sink = append(*sink, Finding{
				Severity:  SeverityInfo,
				Code:      CodeSchemaUnionAdded,
				Message:   fmt.Sprintf("Added union option at %s (%s)", path, sig),
				Operation: opRef,
			})
		}
	}
}

// compareEnums emits a single finding when either side declares an enum and
// the value sets differ. Values are JSON-serialized for canonical equality.
func compareEnums(base, head map[string]any, path string, opRef *OperationRef, sink *[]Finding) {
	baseEnum := specdoc.AsSeq(base["enum"])
	headEnum := specdoc.AsSeq(head["enum"])
	if baseEnum == nil && headEnum == nil {
		return
	}

	baseSet := enumSet(baseEnum)
	headSet := enumSet(headEnum)

	var removed, added []string
	for _, v := range sortedStrings(baseSet) {
		if _, ok := headSet[v]; !ok {
			removed = append(removed, v)
		}
	}
	for _, v := range sortedStrings(headSet) {
		if _, ok := baseSet[v]; !ok {
			added = append(added, v)
		}
	}
	if len(removed) == 0 && len(added) == 0 {
		return
	}

	var parts []string
	if len(removed) > 0 {
		parts = append(parts, "removed: "+strings.Join(removed, ","))
	}
	if len(added) > 0 {
		parts = append(parts, "added: "+strings.Join(added, ","))
	}

	*sink = append(*sink, Finding{
		Severity:  SeverityBreaking,
		Code:      CodeSchemaEnumChanged,
		Message:   fmt.Sprintf("Enum changed at %s (%s)", path, strings.Join(parts, "; ")),
		Operation: opRef,
	})
}

// compareShape diffs the merged property maps of both sides: required
// tightening, removed fields, shared-field recursion, and response-side
// additions, in that order.
func compareShape(base, head map[string]any, path string, ctx schemaContext, opRef *OperationRef, sink *[]Finding, seenBase, seenHead visitedSet) {
	baseProps := shapeProperties(base, nil)
	headProps := shapeProperties(head, nil)
	if len(baseProps) == 0 || len(headProps) == 0 {
		return
	}

	baseRequired := requiredSet(base)
	headRequired := requiredSet(head)
	for _, key := range sortedStrings(headRequired) {
		if _, ok := baseRequired[key]; ok {
			continue
		}
		sev := SeverityInfo
		if ctx == contextRequest {
			sev = SeverityWarning
		}
		*sink = append(*sink, Finding{
			Severity:  sev,
			Code:      CodeSchemaRequiredAdded,
			Message:   fmt.Sprintf("New required field %s.%s", path, key),
			Operation: opRef,
		})
	}

	baseKeys := sortedPropKeys(baseProps)
	for _, key := range baseKeys {
		if _, ok := headProps[key]; !ok {
			*sink = append(*sink, Finding{
				Severity:  SeverityBreaking,
				Code:      CodeSchemaFieldRemoved,
				Message:   fmt.Sprintf("Removed field %s.%s", path, key),
				Operation: opRef,
			})
		}
	}

	for _, key := range baseKeys {
		if headProp, ok := headProps[key]; ok {
			compareSchema(baseProps[key], headProp, path+"."+key, ctx, opRef, sink, seenBase, seenHead)
		}
	}

	// Request-side additions are not reported: a new optional field in a
	// request body cannot break an existing client.
	if ctx != contextResponse {
		return
	}
	for _, key := range sortedPropKeys(headProps) {
		if _, ok := baseProps[key]; !ok {
			*sink = append(*sink, Finding{
				Severity:  SeverityInfo,
				Code:      CodeSchemaFieldAdded,
				Message:   fmt.Sprintf("Added field %s.%s", path, key),
				Operation: opRef,
			})
		}
	}
}

// shapeProperties computes a schema's property map: allOf member property
// maps merged first (recursively, without diffing), then overlaid with the
// schema's own properties. Non-map property values are skipped. The seen
// set guards against self-referential allOf chains.
func shapeProperties(schema map[string]any, seen visitedSet) map[string]map[string]any {
	if seen == nil {
		seen = make(visitedSet)
	}
	if seen.enter(schema) {
		return nil
	}

	props := make(map[string]map[string]any)
	for _, member := range specdoc.AsSeq(schema["allOf"]) {
		m := specdoc.AsMap(member)
		if m == nil {
			continue
		}
		for k, v := range shapeProperties(m, seen) {
			props[k] = v
		}
	}
	for k, v := range specdoc.AsMap(schema["properties"]) {
		if pm := specdoc.AsMap(v); pm != nil {
			props[k] = pm
		}
	}
	return props
}

// requiredSet returns the schema's required property names as a set.
func requiredSet(schema map[string]any) map[string]struct{} {
	set := make(map[string]struct{})
	for _, entry := range specdoc.AsSeq(schema["required"]) {
		if name, ok := specdoc.AsString(entry); ok {
			set[name] = struct{}{}
		}
	}
	return set
}

// typeList returns a schema's declared types, wrapping singleton strings.
func typeList(schema map[string]any) []string {
	switch v := schema["type"].(type) {
	case string:
		return []string{v}
	case []any:
		var types []string
		for _, entry := range v {
			if s, ok := entry.(string); ok {
				types = append(types, s)
			}
		}
		return types
	default:
		return nil
	}
}

// isNullable reports whether the schema admits null, via the nullable flag
// or a "null" entry in its type list.
func isNullable(schema map[string]any) bool {
	if specdoc.AsBool(schema["nullable"]) {
		return true
	}
	for _, t := range typeList(schema) {
		if t == "null" {
			return true
		}
	}
	return false
}

// typeSignature joins the sorted non-null types with "|". An empty string
// means the schema declares no type.
func typeSignature(schema map[string]any) string {
	var nonNull []string
	for _, t := range typeList(schema) {
		if t != "null" {
			nonNull = append(nonNull, t)
		}
	}
	sort.Strings(nonNull)
	return strings.Join(nonNull, "|")
}

// isArraySchema reports whether the schema is array-shaped: an "array" type
// or a map-typed items.
func isArraySchema(schema map[string]any) bool {
	for _, t := range typeList(schema) {
		if t == "array" {
			return true
		}
	}
	return specdoc.AsMap(schema["items"]) != nil
}

// unionSignatures gathers the signatures of a schema's oneOf and anyOf
// alternatives. Only map-typed entries participate.
func unionSignatures(schema map[string]any) map[string]struct{} {
	sigs := make(map[string]struct{})
	for _, field := range []string{"oneOf", "anyOf"} {
		for _, entry := range specdoc.AsSeq(schema[field]) {
			if m := specdoc.AsMap(entry); m != nil {
				sigs[schemaSignature(m)] = struct{}{}
			}
		}
	}
	return sigs
}

// schemaSignature produces the structural signature used for union
// comparison: "ref:<value>" for references, otherwise the type signature
// decorated with nullability, format, and title.
func schemaSignature(schema map[string]any) string {
	if ref, ok := specdoc.AsString(schema["$ref"]); ok {
		return "ref:" + ref
	}

	sig := typeSignature(schema)
	if sig == "" {
		sig = "unknown"
	}
	out := "type:" + sig
	if isNullable(schema) {
		out += "|nullable"
	}
	if format, ok := specdoc.AsString(schema["format"]); ok && format != "" {
		out += "|format:" + format
	}
	if title, ok := specdoc.AsString(schema["title"]); ok && title != "" {
		out += "|title:" + title
	}
	return out
}

// enumSet JSON-serializes each enum value for canonical set membership.
func enumSet(values []any) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		data, err := json.Marshal(v)
		if err != nil {
			data = []byte(fmt.Sprintf("%v", v))
		}
		set[string(data)] = struct{}{}
	}
	return set
}

// sortedPropKeys returns property map keys in lexicographic order.
func sortedPropKeys(props map[string]map[string]any) []string {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
