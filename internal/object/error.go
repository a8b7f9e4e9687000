package object

import (
	"fmt"

	"github.com/aminya/shell-plus-plus/internal/source"
)

// ErrorCode is the closed set of runtime error kinds.
type ErrorCode string

const (
	SYNTAX            ErrorCode = "SYNTAX"
	INCOMPATIBLE_TYPE ErrorCode = "INCOMPATIBLE_TYPE"
	OUT_OF_RANGE      ErrorCode = "OUT_OF_RANGE"
	INVALID_ARGS      ErrorCode = "INVALID_ARGS"
	FUNC_PARAMS       ErrorCode = "FUNC_PARAMS"
	UNDEFINED_SYMBOL  ErrorCode = "UNDEFINED_SYMBOL"
	ASSIGN            ErrorCode = "ASSIGN"
	IMPORT            ErrorCode = "IMPORT"
	FILE              ErrorCode = "FILE"
	CUSTOM            ErrorCode = "CUSTOM"
	ASSERT            ErrorCode = "ASSERT"
)

// RuntimeError is the typed error object that propagates through every
// evaluator frame. It is an Object so the evaluator's type-switch dispatch
// can treat "did this subexpression fail" as an ordinary value check.
type RuntimeError struct {
	Code     ErrorCode
	Message  string
	Position source.Position
	// Secondary accumulates additional diagnostic lines (e.g. per-token
	// lexer errors collected before the primary error was raised).
	Secondary []string
}

func (e *RuntimeError) Type() ObjectType { return ERROR_OBJ }
func (e *RuntimeError) Inspect() string  { return e.Message }

// NewError constructs a RuntimeError at pos with the given code/message.
func NewError(code ErrorCode, pos source.Position, format string, a ...any) *RuntimeError {
	return &RuntimeError{Code: code, Message: fmt.Sprintf(format, a...), Position: pos}
}
