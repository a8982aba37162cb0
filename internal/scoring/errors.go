package scoring

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a pipeline failure.
type ErrorKind string

const (
	KindSchema           ErrorKind = "schema"
	KindParameter        ErrorKind = "parameter"
	KindDegenerateColumn ErrorKind = "degenerate_column"
	KindDegenerateRow    ErrorKind = "degenerate_row"
)

// Sentinels for errors.Is matching. Every *Error matches exactly one of them.
var (
	ErrSchema           = errors.New("scoring: schema error")
	ErrParameter        = errors.New("scoring: parameter error")
	ErrDegenerateColumn = errors.New("scoring: degenerate column")
	ErrDegenerateRow    = errors.New("scoring: degenerate row")
)

// Error is the tagged failure returned by every pipeline stage.
// Column and Row are empty when the failure is not tied to one.
type Error struct {
	Kind   ErrorKind
	Reason string
	Column string
	Row    string
}

func (e *Error) Error() string {
	switch {
	case e.Column != "":
		return fmt.Sprintf("%s: %s (column %q)", e.Kind, e.Reason, e.Column)
	case e.Row != "":
		return fmt.Sprintf("%s: %s (alternative %q)", e.Kind, e.Reason, e.Row)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
	}
}

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	switch e.Kind {
	case KindSchema:
		return target == ErrSchema
	case KindParameter:
		return target == ErrParameter
	case KindDegenerateColumn:
		return target == ErrDegenerateColumn
	case KindDegenerateRow:
		return target == ErrDegenerateRow
	}
	return false
}

// KindOf returns the kind of a pipeline error, or "" for anything else.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func schemaError(column, format string, args ...any) *Error {
	return &Error{Kind: KindSchema, Reason: fmt.Sprintf(format, args...), Column: column}
}

func parameterError(format string, args ...any) *Error {
	return &Error{Kind: KindParameter, Reason: fmt.Sprintf(format, args...)}
}
