package differ

import (
	"fmt"

	"github.com/truespec/truespec/internal/severity"
)

// Severity indicates the downstream impact of a finding.
type Severity = severity.Severity

const (
	// SeverityBreaking indicates a client-visible backward-incompatible change
	SeverityBreaking = severity.SeverityBreaking
	// SeverityWarning indicates a likely-incompatible tightening
	SeverityWarning = severity.SeverityWarning
	// SeverityInfo indicates a non-breaking addition
	SeverityInfo = severity.SeverityInfo
)

// Code is a stable kebab-case identifier for a finding. The set of codes is
// closed; downstream tooling matches on them verbatim.
type Code string

const (
	// CodeOperationRemoved indicates an operation present in base but not head
	CodeOperationRemoved Code = "operation-removed"
	// CodeOperationAdded indicates an operation present in head but not base
	CodeOperationAdded Code = "operation-added"
	// CodeResponseRemoved indicates a response status removed from an operation
	CodeResponseRemoved Code = "response-removed"
	// CodeResponseAdded indicates a response status added to an operation
	CodeResponseAdded Code = "response-added"
	// CodeRequiredParamAdded indicates a newly required parameter
	CodeRequiredParamAdded Code = "required-param-added"
	// CodeRequestBodyRequired indicates a request body that became required
	CodeRequestBodyRequired Code = "request-body-required"
	// CodeSchemaTypeChanged indicates a schema type signature change
	CodeSchemaTypeChanged Code = "schema-type-changed"
	// CodeSchemaNullableRemoved indicates nullability removed from a schema
	CodeSchemaNullableRemoved Code = "schema-nullable-removed"
	// CodeSchemaNullableAdded indicates nullability added to a schema
	CodeSchemaNullableAdded Code = "schema-nullable-added"
	// CodeSchemaUnionRemoved indicates a removed oneOf/anyOf alternative
	CodeSchemaUnionRemoved Code = "schema-union-removed"
	// CodeSchemaUnionAdded indicates an added oneOf/anyOf alternative
	CodeSchemaUnionAdded Code = "schema-union-added"
	// CodeSchemaEnumChanged indicates a changed enum value set
	CodeSchemaEnumChanged Code = "schema-enum-changed"
	// CodeSchemaFieldRemoved indicates a removed object property
	CodeSchemaFieldRemoved Code = "schema-field-removed"
	// CodeSchemaFieldAdded indicates an added object property (response side only)
	CodeSchemaFieldAdded Code = "schema-field-added"
	// CodeSchemaRequiredAdded indicates a property that became required
	CodeSchemaRequiredAdded Code = "schema-required-added"
)

// Codes returns the closed set of finding codes.
func Codes() []Code {
	return []Code{
		CodeOperationRemoved,
		CodeOperationAdded,
		CodeResponseRemoved,
		CodeResponseAdded,
		CodeRequiredParamAdded,
		CodeRequestBodyRequired,
		CodeSchemaTypeChanged,
		CodeSchemaNullableRemoved,
		CodeSchemaNullableAdded,
		CodeSchemaUnionRemoved,
		CodeSchemaUnionAdded,
		CodeSchemaEnumChanged,
		CodeSchemaFieldRemoved,
		CodeSchemaFieldAdded,
		CodeSchemaRequiredAdded,
	}
}

// OperationRef identifies the operation a finding belongs to.
type OperationRef struct {
	// Path is the literal path template as it appears under paths
	Path string `json:"path"`
	// Method is the uppercased HTTP method
	Method string `json:"method"`
}

// String returns "METHOD /path".
func (r OperationRef) String() string {
	return r.Method + " " + r.Path
}

// Finding represents a single observation about the delta between the base
// and head documents.
type Finding struct {
	// Severity indicates the impact level of the finding
	Severity Severity `json:"severity"`
	// Code is the stable identifier for the kind of finding
	Code Code `json:"code"`
	// Message is a human-readable description of the finding
	Message string `json:"message"`
	// Operation identifies the operation the finding belongs to, when any
	Operation *OperationRef `json:"operation,omitempty"`
}

// String returns a formatted string representation of the finding.
func (f Finding) String() string {
	var symbol string
	switch f.Severity {
	case SeverityBreaking:
		symbol = "✗"
	case SeverityWarning:
		symbol = "⚠"
	case SeverityInfo:
		symbol = "ℹ"
	default:
		symbol = "·"
	}

	if f.Operation != nil {
		return fmt.Sprintf("%s [%s] %s (%s)", symbol, f.Code, f.Message, f.Operation)
	}
	return fmt.Sprintf("%s [%s] %s", symbol, f.Code, f.Message)
}

// Summary holds the per-severity finding counts of a report.
type Summary struct {
	Breaking int `json:"breaking"`
	Warning  int `json:"warning"`
	Info     int `json:"info"`
	Total    int `json:"total"`
}

// Report is the result of comparing two documents: an order-preserving
// finding list plus its per-severity counts.
type Report struct {
	Summary Summary   `json:"summary"`
	Items   []Finding `json:"items"`
}

// NewReport builds a Report over items. Counts are recomputed from the item
// list rather than tracked incrementally, which keeps the count invariant
// local to this function.
func NewReport(items []Finding) *Report {
	if items == nil {
		items = []Finding{}
	}
	r := &Report{Items: items}
	for _, f := range items {
		switch f.Severity {
		case SeverityBreaking:
			r.Summary.Breaking++
		case SeverityWarning:
			r.Summary.Warning++
		case SeverityInfo:
			r.Summary.Info++
		}
	}
	r.Summary.Total = len(items)
	return r
}

// HasBreaking reports whether the report contains any breaking findings.
func (r *Report) HasBreaking() bool {
	return r.Summary.Breaking > 0
}
