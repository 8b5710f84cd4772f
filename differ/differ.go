package differ

import (
	"fmt"

	"github.com/truespec/truespec/specdoc"
	"github.com/truespec/truespec/tserrors"
)

// Diff compares a base document against a head revision and returns the
// resulting report. Both inputs must be loaded document maps; a nil input
// returns an error wrapping tserrors.ErrInputInvalid.
//
// The call is deterministic: byte-equal inputs produce byte-equal reports.
func Diff(base, head specdoc.Doc) (*Report, error) {
	if base == nil || head == nil {
		return nil, fmt.Errorf("differ: %w", tserrors.ErrInputInvalid)
	}

	var sink []Finding
	baseOps := indexOperations(base)
	headOps := indexOperations(head)

	for _, key := range sortedKeys(baseOps) {
		if _, ok := headOps[key]; !ok {
			sink = append(sink, Finding{
				Severity:  SeverityBreaking,
				Code:      CodeOperationRemoved,
				Message:   fmt.Sprintf("Removed operation %s", key),
				Operation: key.Ref(),
			})
		}
	}

	for _, key := range sortedKeys(headOps) {
		if _, ok := baseOps[key]; !ok {
			sink = append(sink, Finding{
				Severity:  SeverityInfo,
				Code:      CodeOperationAdded,
				Message:   fmt.Sprintf("Added operation %s", key),
				Operation: key.Ref(),
			})
		}
	}

	for _, key := range sortedKeys(baseOps) {
		if headView, ok := headOps[key]; ok {
			compareOperation(baseOps[key], headView, &sink)
		}
	}

	return NewReport(sink), nil
}

// compareOperation diffs one shared operation pair: response statuses,
// required parameters, request body requirement, then request and response
// body schemas.
func compareOperation(base, head OperationView, sink *[]Finding) {
	opRef := base.Key.Ref()

	baseStatuses := responseStatuses(base.OperationNode)
	headStatuses := responseStatuses(head.OperationNode)
	for _, status := range sortedStrings(baseStatuses) {
		if _, ok := headStatuses[status]; !ok {
			*sink = append(*sink, Finding{
				Severity:  SeverityBreaking,
				Code:      CodeResponseRemoved,
				Message:   fmt.Sprintf("Removed response %s for %s", status, base.Key),
				Operation: opRef,
			})
		}
	}
	for _, status := range sortedStrings(headStatuses) {
		if _, ok := baseStatuses[status]; !ok {
			*sink = append(*sink, Finding{
				Severity:  SeverityInfo,
				Code:      CodeResponseAdded,
				Message:   fmt.Sprintf("Added response %s for %s", status, base.Key),
				Operation: opRef,
			})
		}
	}

	baseParams := requiredParams(base)
	headParams := requiredParams(head)
	for _, id := range sortedStrings(headParams) {
		if _, ok := baseParams[id]; !ok {
			*sink = append(*sink, Finding{
				Severity:  SeverityWarning,
				Code:      CodeRequiredParamAdded,
				Message:   fmt.Sprintf("New required parameter %s for %s", id, base.Key),
				Operation: opRef,
			})
		}
	}

	if !requestBodyRequired(base.OperationNode) && requestBodyRequired(head.OperationNode) {
		*sink = append(*sink, Finding{
			Severity:  SeverityWarning,
			Code:      CodeRequestBodyRequired,
			Message:   fmt.Sprintf("Request body now required for %s", base.Key),
			Operation: opRef,
		})
	}

	baseRequest := requestSchema(base.OperationNode)
	headRequest := requestSchema(head.OperationNode)
	if baseRequest != nil && headRequest != nil {
		compareSchema(baseRequest, headRequest, "request.body", contextRequest, opRef, sink,
			make(visitedSet), make(visitedSet))
	}

	baseBodies := responseSchemas(base.OperationNode)
	headBodies := responseSchemas(head.OperationNode)
	statuses := make(map[string]struct{}, len(baseBodies))
	for status := range baseBodies {
		if _, ok := headBodies[status]; ok {
			statuses[status] = struct{}{}
		}
	}
	for _, status := range sortedStrings(statuses) {
		compareSchema(baseBodies[status], headBodies[status], "response."+status+".body", contextResponse, opRef, sink,
			make(visitedSet), make(visitedSet))
	}
}
