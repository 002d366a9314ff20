// Package cli holds the pieces shared by the ranfeat commands and the
// interactive shell: global flags, the errors that map to exit codes, and
// the views that turn query results into formatting documents.
//
// # Exit codes
//
// Commands return typed errors and cmd/root.go maps them with errors.As:
//   - UsageError: invalid usage (5)
//   - ConflictError: the checked features conflict (2)
//   - WarningsError: warnings under --strict (3)
//   - SnapshotMissingError: no feature index at the configured location (4)
//
// # Views
//
// Every view returns a *formatting.Document whose Data is the result value
// itself, so json and yaml output always carries the complete result while
// table output shows the readable subset.
package cli
