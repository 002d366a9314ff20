package feature

import (
	"errors"
	"fmt"
)

// NotFoundError reports that the snapshot file does not exist. It is the
// only fatal condition of the query layer.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("feature snapshot not found at %s (run 'ranfeat build' first)", e.Path)
}

// IsNotFoundErr reports whether err wraps a NotFoundError.
func IsNotFoundErr(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// SkippedDependency is a dependency entry dropped at load time.
type SkippedDependency struct {
	Source Key        `json:"source"`
	Entry  Dependency `json:"entry"`
	Reason string     `json:"reason"`
}

func (s SkippedDependency) String() string {
	return fmt.Sprintf("%s: skipped dependency %q (%s)", s.Source, s.Entry.Name, s.Reason)
}
