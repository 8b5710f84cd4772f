// Package differ computes a structured set of findings describing how a
// head revision of an OpenAPI document deviates from its base.
//
// The comparison is purely structural: documents are generic trees produced
// by package specdoc, $ref indirections are never resolved, and ill-formed
// sub-trees degrade gracefully by producing fewer findings rather than by
// aborting. Findings are classified by severity (breaking, warning, info)
// and by a stable finding code drawn from a closed set; severity depends on
// the context of a change, because request and response bodies have
// opposite polarity for additions and removals.
//
// # Basic usage
//
//	base, _ := specdoc.Load(baseBytes)
//	head, _ := specdoc.Load(headBytes)
//	rep, err := differ.Diff(base, head)
//	if err != nil {
//	    // one of the inputs was not a document map
//	}
//	fmt.Println(rep.Summary.Breaking)
//
// Or with functional options when loading and diffing in one step:
//
//	rep, err := differ.DiffWithOptions(
//	    differ.WithBaseBytes(baseBytes),
//	    differ.WithHeadBytes(headBytes),
//	)
//
// A single Diff invocation is in-memory and CPU-bound; it reads its inputs
// exclusively and holds no state outside the call, so concurrent Diff calls
// on independent inputs need no synchronization.
package differ
