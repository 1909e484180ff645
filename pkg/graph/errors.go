package graph

import (
	"errors"
	"fmt"
)

// Sentinel errors for graph construction and traversal.
var (
	// ErrInvalidAnnotationFormat is returned when a backbone annotation is
	// neither "X.SEQUENCE.X" nor a bare protein sequence.
	ErrInvalidAnnotationFormat = errors.New("invalid annotation format")

	// ErrInvalidConstraint is returned when a modification constraint does not
	// validate against the catalog passed to the builder.
	ErrInvalidConstraint = errors.New("invalid modification constraint")

	// ErrBuildCancelled is returned when the build context is done before the
	// graph is complete. No graph is returned in that case.
	ErrBuildCancelled = errors.New("build cancelled")

	// ErrTooManyCombinations is returned when a position exceeds the builder's
	// MaxCombinations.
	ErrTooManyCombinations = errors.New("too many modification combinations")

	// ErrVertexNotFound is returned for a vertex ID outside the graph.
	ErrVertexNotFound = errors.New("vertex not found")

	// ErrLengthMismatch is returned when a reconciliation target does not
	// cover every graph position.
	ErrLengthMismatch = errors.New("target length does not match graph")

	// ErrAmbiguousMatch is returned when more than one inbound edge matches
	// the target residue during reconciliation.
	ErrAmbiguousMatch = errors.New("ambiguous reconciliation match")

	// ErrPathLimitExceeded is returned when enumeration produces more paths
	// than the caller allowed.
	ErrPathLimitExceeded = errors.New("path limit exceeded")

	// ErrStopWalk may be returned by a Walk callback to end the walk early
	// without error.
	ErrStopWalk = errors.New("stop walk")

	// ErrInvariant is returned by Validate when the graph structure is inconsistent.
	ErrInvariant = errors.New("graph invariant violated")
)

// InvalidAnnotationError names the annotation that failed to parse.
type InvalidAnnotationError struct {
	Annotation string
	Reason     string
}

func (e *InvalidAnnotationError) Error() string {
	return fmt.Sprintf("%v %q: %s", ErrInvalidAnnotationFormat, e.Annotation, e.Reason)
}

func (e *InvalidAnnotationError) Unwrap() error {
	return ErrInvalidAnnotationFormat
}
