package compiler

import (
	"errors"
	"fmt"

	"meridian-data/ceres/pkg/quality/ast"
)

// Common sentinel errors
var (
	// ErrEmptyExpression indicates the expression text was empty.
	ErrEmptyExpression = errors.New("empty expression")

	// ErrUnrecognizedExpression indicates no recognized shape matched.
	ErrUnrecognizedExpression = errors.New("unrecognized expression shape")
)

// CompileError indicates an expression could not be translated into a
// predicate. Callers apply the fail-open policy: the rule degrades to an
// always-pass predicate and the failure is logged once.
type CompileError struct {
	Expression string
	Fragment   string
	Cause      error
}

// Error returns the error message.
func (e *CompileError) Error() string {
	if e.Fragment != "" && e.Fragment != e.Expression {
		return fmt.Sprintf("cannot compile expression %q: fragment %q: %v", e.Expression, e.Fragment, e.Cause)
	}
	return fmt.Sprintf("cannot compile expression %q: %v", e.Expression, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *CompileError) Unwrap() error {
	return e.Cause
}

// TypeError indicates a record value could not be coerced for an operator.
// Evaluation errors are fail-open at the record level: the record counts
// as passed for the rule and the error is logged.
type TypeError struct {
	Field    string
	Operator ast.Operator
	Value    any
}

// Error returns the error message.
func (e *TypeError) Error() string {
	return fmt.Sprintf("field %q: cannot apply operator %q to value of type %T", e.Field, e.Operator, e.Value)
}
