// Package truespec is the root package for the TrueSpec OpenAPI
// differential engine.
//
// The engine compares two OpenAPI documents (a base and a head revision)
// and produces a structured report of findings classified by severity
// (breaking, warning, info) and by a stable finding code. It underlies a
// CI-facing workflow whose product is a short machine- and human-readable
// summary of the drift between a declared API contract and its revision.
//
// Packages:
//
//   - specdoc: loads raw JSON or YAML into a generic document tree
//   - differ: indexes operations and computes findings between two trees
//   - report: aggregates findings and renders the summary Markdown
//   - reportstore: persists rendered reports to a partitioned key/value store
//   - httpapi: the HTTP adapter exposing the reports and waitlist endpoints
//   - waitlist: waitlist intake records and validation
//
// The root package carries build details and version information. Error
// kinds shared by the engine and its adapters live in package tserrors.
package truespec
