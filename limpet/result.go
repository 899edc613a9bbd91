package limpet

import "errors"

// Result reports the outcome of the most recent operation sequence on a
// Context. The first failing operation latches its Result; every later
// operation is a no-op until Reset clears the latch back to ResultOK.
type Result uint8

const (
	ResultUninitialized Result = iota
	ResultOK
	ResultOutOfMemory
	ResultStackEmpty
	ResultStackFull
	ResultIndexOutOfBounds
	ResultKeyNotFound
	ResultTypeMismatch
	ResultInvalidStack
	ResultWriteError
	ResultReadError
	ResultInvalidCharacter
	ResultInvalidNumber
	ResultInvalidString
	ResultUnknownKeyword
	ResultUnexpectedEndOfInput
	ResultSyntaxError
)

// String returns the result name.
func (r Result) String() string {
	switch r {
	case ResultUninitialized:
		return "uninitialized"
	case ResultOK:
		return "ok"
	case ResultOutOfMemory:
		return "out-of-memory"
	case ResultStackEmpty:
		return "stack-empty"
	case ResultStackFull:
		return "stack-full"
	case ResultIndexOutOfBounds:
		return "index-out-of-bounds"
	case ResultKeyNotFound:
		return "key-not-found"
	case ResultTypeMismatch:
		return "type-mismatch"
	case ResultInvalidStack:
		return "invalid-stack"
	case ResultWriteError:
		return "write-error"
	case ResultReadError:
		return "read-error"
	case ResultInvalidCharacter:
		return "invalid-character"
	case ResultInvalidNumber:
		return "invalid-number"
	case ResultInvalidString:
		return "invalid-string"
	case ResultUnknownKeyword:
		return "unknown-keyword"
	case ResultUnexpectedEndOfInput:
		return "unexpected-end-of-input"
	case ResultSyntaxError:
		return "syntax-error"
	default:
		return "unknown"
	}
}

// Sentinel errors corresponding to the failure Results. Err maps the
// Context latch onto these so callers can compose with errors.Is.
var (
	ErrUninitialized        = errors.New("limpet: context uninitialized")
	ErrOutOfMemory          = errors.New("limpet: out of memory")
	ErrStackEmpty           = errors.New("limpet: stack empty")
	ErrStackFull            = errors.New("limpet: stack full")
	ErrIndexOutOfBounds     = errors.New("limpet: index out of bounds")
	ErrKeyNotFound          = errors.New("limpet: key not found")
	ErrTypeMismatch         = errors.New("limpet: type mismatch")
	ErrInvalidStack         = errors.New("limpet: invalid stack")
	ErrWriteError           = errors.New("limpet: write error")
	ErrReadError            = errors.New("limpet: read error")
	ErrInvalidCharacter     = errors.New("limpet: invalid character")
	ErrInvalidNumber        = errors.New("limpet: invalid number")
	ErrInvalidString        = errors.New("limpet: invalid string")
	ErrUnknownKeyword       = errors.New("limpet: unknown keyword")
	ErrUnexpectedEndOfInput = errors.New("limpet: unexpected end of input")
	ErrSyntaxError          = errors.New("limpet: syntax error")
)

// Err returns the sentinel error for a failure Result, or nil for ResultOK.
func (r Result) Err() error {
	switch r {
	case ResultOK:
		return nil
	case ResultUninitialized:
		return ErrUninitialized
	case ResultOutOfMemory:
		return ErrOutOfMemory
	case ResultStackEmpty:
		return ErrStackEmpty
	case ResultStackFull:
		return ErrStackFull
	case ResultIndexOutOfBounds:
		return ErrIndexOutOfBounds
	case ResultKeyNotFound:
		return ErrKeyNotFound
	case ResultTypeMismatch:
		return ErrTypeMismatch
	case ResultInvalidStack:
		return ErrInvalidStack
	case ResultWriteError:
		return ErrWriteError
	case ResultReadError:
		return ErrReadError
	case ResultInvalidCharacter:
		return ErrInvalidCharacter
	case ResultInvalidNumber:
		return ErrInvalidNumber
	case ResultInvalidString:
		return ErrInvalidString
	case ResultUnknownKeyword:
		return ErrUnknownKeyword
	case ResultUnexpectedEndOfInput:
		return ErrUnexpectedEndOfInput
	case ResultSyntaxError:
		return ErrSyntaxError
	default:
		return ErrInvalidStack
	}
}
