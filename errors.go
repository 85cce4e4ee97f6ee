// errors.go — the evaluation error taxonomy.
//
// Lex and syntax errors live with their producers (lexer.go, parser.go);
// this file defines the errors raised while a program runs. They travel up
// the ordinary error return path until a try/catch intercepts them or the
// top-level runner converts them into a diagnostic.
package zekken

import "fmt"

// ErrKind classifies an evaluation error.
type ErrKind int

const (
	ErrReference ErrKind = iota // undeclared identifier, unknown method/module
	ErrType                     // operator/argument/declared-type/const mismatch
	ErrRuntime                  // arity mismatch, bad index/key, capability failure
	ErrInternal                 // evaluator invariant violated (never expected)
)

func (k ErrKind) String() string {
	switch k {
	case ErrReference:
		return "ReferenceError"
	case ErrType:
		return "TypeError"
	case ErrRuntime:
		return "RuntimeError"
	default:
		return "InternalError"
	}
}

// EvalError is a positioned runtime-phase error. Line/Col are 1-based and
// come from the AST node being evaluated when the error was raised.
type EvalError struct {
	Kind ErrKind
	Msg  string
	Line int
	Col  int
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func refErr(p Pos, format string, args ...interface{}) *EvalError {
	return &EvalError{Kind: ErrReference, Msg: fmt.Sprintf(format, args...), Line: p.Line, Col: p.Col}
}

func typeErr(p Pos, format string, args ...interface{}) *EvalError {
	return &EvalError{Kind: ErrType, Msg: fmt.Sprintf(format, args...), Line: p.Line, Col: p.Col}
}

func rtErr(p Pos, format string, args ...interface{}) *EvalError {
	return &EvalError{Kind: ErrRuntime, Msg: fmt.Sprintf(format, args...), Line: p.Line, Col: p.Col}
}

// exitSignal unwinds from os.exit to the top-level runner. It rides the
// error path but is not an EvalError, so try/catch never intercepts it.
type exitSignal struct {
	Code int
}

func (e *exitSignal) Error() string {
	return fmt.Sprintf("exit with code %d", e.Code)
}
