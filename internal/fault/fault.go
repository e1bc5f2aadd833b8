// Package fault defines the fatal error kinds raised while loading and
// randomizing game data.
package fault

import "fmt"

// Kind classifies a fatal failure.
type Kind string

const (
	// KindCorruptInput marks a dataset that is missing a required structural token.
	KindCorruptInput Kind = "corrupt_input"
	// KindReconciliation marks a permutation step that produced an empty
	// candidate set where a non-empty one was required.
	KindReconciliation Kind = "reconciliation_failure"
)

var (
	ErrCorruptInput   = &Error{Kind: KindCorruptInput}
	ErrReconciliation = &Error{Kind: KindReconciliation}
)

// Error is a fatal failure with a kind and an optional cause.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target has the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Corrupt creates a corrupt input error.
func Corrupt(format string, args ...any) *Error {
	return &Error{Kind: KindCorruptInput, Message: fmt.Sprintf(format, args...)}
}

// CorruptWrap creates a corrupt input error wrapping cause.
func CorruptWrap(cause error, format string, args ...any) *Error {
	return &Error{Kind: KindCorruptInput, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Reconcile creates a reconciliation failure.
func Reconcile(format string, args ...any) *Error {
	return &Error{Kind: KindReconciliation, Message: fmt.Sprintf(format, args...)}
}
