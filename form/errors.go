package form

import (
	"errors"
	"fmt"
)

var (
	// ErrSaveBlocked indicates a save was attempted while a field has errors.
	ErrSaveBlocked = errors.New("form: save blocked by validation errors")
	// ErrUnknownEngine indicates an engine name that is not supported.
	ErrUnknownEngine = errors.New("form: unknown rule engine")
	// ErrEngineUnavailable indicates the engine was not compiled in.
	ErrEngineUnavailable = errors.New("form: rule engine unavailable")
	// ErrMissingExpression indicates a rule has no expression for the engine.
	ErrMissingExpression = errors.New("form: rule has no expression for engine")
	// ErrNonBoolResult indicates a rule expression produced a non-boolean.
	ErrNonBoolResult = errors.New("form: rule must evaluate to a bool")
)

// ValidationError is a user-correctable problem with one field. Validators
// return these as data; they never abort an operation.
type ValidationError struct {
	Field   string
	Kind    ErrorKind
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// EvaluationError captures rule metadata alongside an evaluator failure. It
// signals a broken rule, not bad user input.
type EvaluationError struct {
	Engine Engine
	Field  string
	Expr   string
	Err    error
}

func (e *EvaluationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("form: %s evaluator %s field=%s: %v", e.Engine, describeExpression(e.Expr), e.Field, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func describeExpression(expr string) string {
	if expr == "" {
		return "expr=<empty>"
	}
	return fmt.Sprintf("expr=%q", expr)
}

func wrapEvaluationError(engine Engine, expr, field string, err error) error {
	if err == nil {
		return nil
	}

	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		if evalErr.Engine == "" {
			evalErr.Engine = engine
		}
		if evalErr.Expr == "" {
			evalErr.Expr = expr
		}
		if evalErr.Field == "" {
			evalErr.Field = field
		}
		return evalErr
	}

	return &EvaluationError{
		Engine: engine,
		Field:  field,
		Expr:   expr,
		Err:    err,
	}
}
