// Package errs holds the error taxonomy shared by the dataset, ranking and
// orchestration layers. Callers test for a category with errors.Is.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Defining possible error
var (
	// ErrConfiguration covers malformed datasets, unknown methods and bad options.
	ErrConfiguration = errors.New("configuration error")

	// ErrEmptyInput is returned when case or control has nothing to rank.
	ErrEmptyInput = errors.New("empty input")

	// ErrInvariant is returned when a derived view is read before its source exists.
	ErrInvariant = errors.New("invariant violated")

	// ErrMissingDependency is returned when an external executable cannot be found.
	ErrMissingDependency = errors.New("missing external dependency")

	// ErrCollaborator is returned when an external collaborator fails or
	// produces output that cannot be used.
	ErrCollaborator = errors.New("collaborator failure")
)

// CollaboratorError describes a failed run of an external collaborator.
type CollaboratorError struct {
	Name     string // collaborator name, e.g. "fast-cohen"
	ExitCode int    // -1 when the process did not exit normally or never ran
	Stderr   string // captured standard error, possibly truncated
	Err      error
}

func (e *CollaboratorError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", ErrCollaborator, e.Name)
	if e.ExitCode >= 0 {
		fmt.Fprintf(&b, " exited with status %d", e.ExitCode)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if s := strings.TrimSpace(e.Stderr); s != "" {
		fmt.Fprintf(&b, " (stderr: %s)", s)
	}
	return b.String()
}

func (e *CollaboratorError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrCollaborator}
	}
	return []error{ErrCollaborator, e.Err}
}

// Configf builds an ErrConfiguration with context.
func Configf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}

// Emptyf builds an ErrEmptyInput with context.
func Emptyf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrEmptyInput, fmt.Sprintf(format, args...))
}

// Invariantf builds an ErrInvariant with context.
func Invariantf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvariant, fmt.Sprintf(format, args...))
}
