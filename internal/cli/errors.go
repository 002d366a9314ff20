package cli

import (
	"errors"
	"fmt"

	"ranfeat/internal/feature"
)

// UsageError reports invalid command line usage.
type UsageError struct {
	Message string
}

// Error returns the usage problem.
func (e *UsageError) Error() string {
	return e.Message
}

// Is allows errors.Is() to work with wrapped errors.
func (e *UsageError) Is(target error) bool {
	_, ok := target.(*UsageError)
	return ok
}

// Usagef builds a UsageError.
func Usagef(format string, args ...interface{}) error {
	return &UsageError{Message: fmt.Sprintf(format, args...)}
}

// ConflictError reports that the requested features cannot coexist. The
// result itself has already been printed.
type ConflictError struct {
	// Pairs is the number of conflicting pairs found.
	Pairs int
}

// Error returns a one line summary.
func (e *ConflictError) Error() string {
	if e.Pairs == 1 {
		return "1 conflicting pair found"
	}
	return fmt.Sprintf("%d conflicting pairs found", e.Pairs)
}

// Is allows errors.Is() to work with wrapped errors.
func (e *ConflictError) Is(target error) bool {
	_, ok := target.(*ConflictError)
	return ok
}

// WarningsError reports warnings that --strict turns into a failure.
type WarningsError struct {
	// Count is the number of warnings.
	Count int
}

// Error returns a one line summary.
func (e *WarningsError) Error() string {
	return fmt.Sprintf("%d warning(s) reported in strict mode", e.Count)
}

// Is allows errors.Is() to work with wrapped errors.
func (e *WarningsError) Is(target error) bool {
	_, ok := target.(*WarningsError)
	return ok
}

// SnapshotMissingError indicates that no feature index exists at the
// configured location. Implements error with actionable guidance.
type SnapshotMissingError struct {
	// Path is the location that was tried.
	Path string
	// Reason is the underlying error.
	Reason error
}

// Error returns a user-friendly error message with actionable guidance.
func (e *SnapshotMissingError) Error() string {
	return fmt.Sprintf(`No feature index found at %s

To build one from the feature documents, run:
  ranfeat build --source <docs-dir> --out %s

Or point ranfeat at an existing index:
  ranfeat --snapshot-dir <dir> ...`, e.Path, e.Path)
}

// Unwrap returns the underlying error.
func (e *SnapshotMissingError) Unwrap() error {
	return e.Reason
}

// Is allows errors.Is() to work with wrapped errors.
func (e *SnapshotMissingError) Is(target error) bool {
	_, ok := target.(*SnapshotMissingError)
	return ok
}

// ClassifySnapshotError turns a missing snapshot into a SnapshotMissingError
// and wraps every other load failure.
func ClassifySnapshotError(path string, err error) error {
	if err == nil {
		return nil
	}
	if feature.IsNotFoundErr(err) {
		return &SnapshotMissingError{Path: path, Reason: err}
	}
	return fmt.Errorf("failed to load feature index: %w", err)
}

// IsUsageErr reports whether err wraps a UsageError.
func IsUsageErr(err error) bool {
	var u *UsageError
	return errors.As(err, &u)
}
